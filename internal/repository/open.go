package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"auditflow/backend/internal/config"
)

// Logger defines the logging interface compatible with the application logger.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Open connects to the storage backend selected by cfg.DB.Driver, retrying
// the initial connection with exponential backoff for up to
// cfg.DB.ConnectTimeout. The Postgres schema and Mongo indexes are brought
// up to date before returning.
func Open(ctx context.Context, cfg *config.Config, logger Logger) (Repository, error) {
	switch cfg.DB.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, data is lost on restart")
		return NewMemoryStore(), nil
	case config.DriverPostgres:
		pool, err := connectPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := Migrate(pool); err != nil {
			pool.Close()
			return nil, err
		}
		return NewPostgresStore(pool), nil
	case config.DriverMongo:
		client, err := connectMongo(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		store := NewMongoStore(client, cfg.DB.MongoDatabase)
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}
}

func connectPostgres(ctx context.Context, cfg *config.Config, logger Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.PostgresDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := retry(ctx, cfg.DB.ConnectTimeout, logger, "postgres", func() error { return pool.Ping(ctx) }); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("database connected", "driver", config.DriverPostgres, "host", cfg.DB.Host, "name", cfg.DB.Name)
	return pool, nil
}

func connectMongo(ctx context.Context, cfg *config.Config, logger Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.DB.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	db := client.Database(cfg.DB.MongoDatabase)
	ping := func() error { return (&MongoStore{client: client, db: db}).Ping(ctx) }
	if err := retry(ctx, cfg.DB.ConnectTimeout, logger, "mongo", ping); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	logger.Info("database connected", "driver", config.DriverMongo, "name", cfg.DB.MongoDatabase)
	return client, nil
}

// retry runs op until it succeeds, ctx ends or budget has elapsed.
func retry(ctx context.Context, budget time.Duration, logger Logger, name string, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = budget

	return backoff.RetryNotify(op, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		logger.Warn("storage not ready, retrying", "driver", name, "error", err, "wait", wait)
	})
}
