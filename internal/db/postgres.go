// Package db opens the PostgreSQL pool behind the postgres storage driver.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/yigit/collegeportal/internal/config"
	"github.com/yigit/collegeportal/internal/pkg/helpers"
)

const connectTimeout = 10 * time.Second

// PostgresDB owns the pool shared by the collection backend and the migrator
type PostgresDB struct {
	Pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresDB connects using the database section of cfg and verifies the server answers
func NewPostgresDB(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*PostgresDB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.GetPostgresConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}
	poolConfig.MaxConns = int32(max(cfg.Database.MaxOpenConns, 1))
	poolConfig.MinConns = int32(min(cfg.Database.MaxIdleConns, cfg.Database.MaxOpenConns))
	poolConfig.MaxConnLifetime = helpers.ParseDuration(cfg.Database.ConnMaxLifetime, time.Hour)

	lgr := logger.With().Str("component", "postgres").Str("host", cfg.Database.Host).Str("db", cfg.Database.DBName).Logger()
	poolConfig.BeforeAcquire = func(ctx context.Context, conn *pgx.Conn) bool {
		if err := conn.Ping(ctx); err != nil {
			lgr.Warn().Err(err).Msg("Dropping unhealthy connection")
			return false
		}
		return true
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach %s: %w", cfg.Database.Host, err)
	}

	lgr.Debug().Int32("maxConns", poolConfig.MaxConns).Msg("Connection pool ready")
	return &PostgresDB{Pool: pool, logger: lgr}, nil
}

// Close releases every pooled connection
func (db *PostgresDB) Close() {
	if db.Pool == nil {
		return
	}
	stat := db.Pool.Stat()
	db.logger.Debug().Int32("acquired", stat.AcquiredConns()).Msg("Closing connection pool")
	db.Pool.Close()
}
