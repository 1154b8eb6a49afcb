package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/temcen/taskhub/internal/config"
)

type Database struct {
	PG     *pgxpool.Pool
	Redis  *redis.Client
	logger *logrus.Logger
}

func New(cfg *config.Config, logger *logrus.Logger) (*Database, error) {
	db := &Database{logger: logger}

	if err := db.initPostgreSQL(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	if err := db.initRedis(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	return db, nil
}

func (db *Database) initPostgreSQL(cfg *config.Config) error {
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to parse PostgreSQL config: %w", err)
	}

	poolCfg.MaxConns = int32(cfg.Database.MaxConnections)
	poolCfg.MaxConnIdleTime = cfg.Database.MaxIdleTime
	poolCfg.MaxConnLifetime = cfg.Database.MaxLifetime
	poolCfg.ConnConfig.ConnectTimeout = cfg.Database.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return fmt.Errorf("failed to create PostgreSQL pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	db.PG = pool
	db.logger.Info("PostgreSQL connection established")
	return nil
}

// initRedis is best-effort: no URL means the response cache is simply
// disabled, and a failed ping downgrades to disabled rather than aborting
// startup.
func (db *Database) initRedis(cfg *config.Config) error {
	if cfg.Redis.URL == "" {
		db.logger.Info("Redis not configured, response caching disabled")
		return nil
	}

	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	opts.PoolSize = cfg.Redis.PoolSize
	opts.ReadTimeout = cfg.Redis.Timeout
	opts.WriteTimeout = cfg.Redis.Timeout

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		db.logger.WithError(err).Warn("Redis unreachable, response caching disabled")
		_ = client.Close()
		return nil
	}

	db.Redis = client
	db.logger.Info("Redis connection established")
	return nil
}

func (db *Database) Close() error {
	if db.PG != nil {
		db.PG.Close()
	}
	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
	}
	return nil
}
