package main

import (
	"bytes"
	"context"
	_ "embed"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/accounts-service/internal/seed"
	"github.com/angelmondragon/accounts-service/internal/users"
	"github.com/angelmondragon/accounts-service/pkg/config"
	"github.com/angelmondragon/accounts-service/pkg/logger"
	"github.com/angelmondragon/accounts-service/pkg/security"
)

//go:embed users.json
var demoUsers []byte

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	file := flag.String("file", "", "JSON seed file (defaults to the bundled demo users)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	records, err := loadRecords(*file)
	if err != nil {
		logg.Error(ctx, "failed to read seed records", err)
		os.Exit(1)
	}

	store, err := users.OpenStore(ctx, cfg.Store, logg)
	if err != nil {
		logg.Error(ctx, "failed to open user store", err)
		os.Exit(1)
	}
	defer store.Close(ctx)

	result, err := seed.Apply(ctx, store, security.NewHasher(cfg.Password), records, logg)
	logCtx := logg.WithFields(ctx, map[string]any{
		"created":  result.Created,
		"existing": result.Existing,
		"rejected": result.Rejected,
	})
	if err != nil {
		logg.Error(logCtx, "seed finished with errors", err)
		store.Close(ctx)
		os.Exit(1)
	}
	logg.Info(logCtx, "seed complete")
	fmt.Printf("seeded %d users (%d existing, %d rejected)\n", result.Created, result.Existing, result.Rejected)
}

func loadRecords(path string) ([]seed.Record, error) {
	var r io.Reader = bytes.NewReader(demoUsers)
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return seed.Load(r)
}
