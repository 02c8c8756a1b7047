package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/accounts-service/pkg/config"
	"github.com/angelmondragon/accounts-service/pkg/db"
	"github.com/angelmondragon/accounts-service/pkg/logger"
)

// MaybeRun applies the embedded migrations at startup when the postgres store
// is selected and ACCOUNTS_AUTO_MIGRATE is set.
func MaybeRun(ctx context.Context, cfg config.StoreConfig, logg *logger.Logger, client *db.Client) error {
	if !cfg.AutoMigrate || cfg.Driver != config.StoreDriverPostgres {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"driver": cfg.Driver})
	logg.Info(ctx, "migrate.autorun.start")

	if err := RunEmbedded(ctx, sqlDB, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "migrate.autorun.complete")
	return nil
}
