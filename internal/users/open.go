package users

import (
	"context"
	"fmt"

	"github.com/angelmondragon/accounts-service/pkg/config"
	"github.com/angelmondragon/accounts-service/pkg/db"
	"github.com/angelmondragon/accounts-service/pkg/logger"
	"github.com/angelmondragon/accounts-service/pkg/migrate"
	"github.com/angelmondragon/accounts-service/pkg/mongodb"
)

// OpenStore connects the store selected by cfg.Driver and prepares its
// schema: mongo gets its unique email index, sqlite is auto-migrated and
// postgres runs the embedded goose migrations when auto-migrate is on.
func OpenStore(ctx context.Context, cfg config.StoreConfig, logg *logger.Logger) (Store, error) {
	switch cfg.Driver {
	case config.StoreDriverMongo, "":
		client, err := mongodb.New(ctx, cfg, logg)
		if err != nil {
			return nil, err
		}
		store := NewMongoStore(client)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Close(ctx)
			return nil, err
		}
		return store, nil

	case config.StoreDriverPostgres, config.StoreDriverSQLite:
		client, err := db.New(ctx, cfg, logg)
		if err != nil {
			return nil, err
		}
		store := NewGormStore(client)
		if cfg.Driver == config.StoreDriverSQLite {
			err = store.AutoMigrate(ctx)
		} else {
			err = migrate.MaybeRun(ctx, cfg, logg, client)
		}
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
