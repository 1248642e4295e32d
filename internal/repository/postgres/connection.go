package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Dhoini/customer-service/internal/repository"
	"github.com/Dhoini/customer-service/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions настройки пула соединений
type PoolOptions struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	ConnectTimeout  time.Duration
}

// DefaultPoolOptions returns the pool settings used when none are configured
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: 1 * time.Hour,
		MaxConnIdleTime: 30 * time.Minute,
		ConnectTimeout:  30 * time.Second,
	}
}

// NewConnection создает новое подключение к PostgreSQL, повторяя попытки
// с экспоненциальной задержкой в пределах opts.ConnectTimeout
func NewConnection(ctx context.Context, connString string, opts PoolOptions, log *logger.Logger) (*pgxpool.Pool, error) {
	log.Info("Connecting to PostgreSQL")

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// Настраиваем пул соединений
	poolConfig.MaxConns = opts.MaxConns
	poolConfig.MinConns = opts.MinConns
	poolConfig.MaxConnLifetime = opts.MaxConnLifetime
	poolConfig.MaxConnIdleTime = opts.MaxConnIdleTime

	var pool *pgxpool.Pool
	err = repository.RetryConnect(ctx, "postgres", opts.ConnectTimeout, log, func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			return fmt.Errorf("unable to create connection pool: %w", err)
		}
		// Проверяем подключение
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return fmt.Errorf("unable to ping database: %w", err)
		}
		pool = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Successfully connected to PostgreSQL")
	return pool, nil
}
