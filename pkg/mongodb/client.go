package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/accounts-service/pkg/config"
	"github.com/angelmondragon/accounts-service/pkg/logger"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Client wraps the shared MongoDB connection and the service database.
type Client struct {
	raw *mongo.Client
	db  *mongo.Database
}

// New connects to MongoDB and verifies the primary is reachable.
func New(ctx context.Context, cfg config.StoreConfig, logg *logger.Logger) (*Client, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	raw, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connecting mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.MongoTimeout)
	defer cancel()
	if err := raw.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = raw.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "database", cfg.MongoDatabase), "mongo connection established")
	}

	return &Client{raw: raw, db: raw.Database(cfg.MongoDatabase)}, nil
}

func optionsFromConfig(cfg config.StoreConfig) (*options.ClientOptions, error) {
	if cfg.MongoURI == "" {
		return nil, errors.New("mongo uri is required")
	}
	if cfg.MongoDatabase == "" {
		return nil, errors.New("mongo database is required")
	}
	opts := options.Client().ApplyURI(cfg.MongoURI)
	if cfg.MongoTimeout > 0 {
		opts.SetConnectTimeout(cfg.MongoTimeout)
		opts.SetServerSelectionTimeout(cfg.MongoTimeout)
	}
	if cfg.MaxOpenConns > 0 {
		opts.SetMaxPoolSize(uint64(cfg.MaxOpenConns))
	}
	if cfg.ConnMaxIdleTime > 0 {
		opts.SetMaxConnIdleTime(cfg.ConnMaxIdleTime)
	}
	return opts, nil
}

// Database returns the configured database handle.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Ping verifies the primary is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return errors.New("mongo client not initialized")
	}
	return c.raw.Ping(ctx, readpref.Primary())
}

// Close disconnects the pool.
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Disconnect(ctx)
}
