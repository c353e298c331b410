package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ontelworks/copscan/internal/logging"
)

const (
	// BatchSize is how many emails or records one write batch carries.
	// Bodies can be large, so batches stay small.
	BatchSize = 50

	maxRetries       = 5
	maxRetryInterval = 15 * time.Second
	statementTimeout = "300s"
)

// Store wraps a pgx connection pool against the warehouse.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New connects a pool (min 2 / max 5 connections) to the given DSN. Every
// connection gets the pipeline's statement timeout applied on connect.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database DSN: %w", err)
	}
	cfg.MinConns = 2
	cfg.MaxConns = 5
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, "SET statement_timeout = '"+statementTimeout+"'")
		return err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	logger.Info("database pool ready", slog.Int("min", 2), slog.Int("max", 5))
	return &Store{pool: pool, logger: logger}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
	s.logger.Info("database pool closed")
}

// retry runs fn with exponential backoff, logging each failed attempt.
func (s *Store) retry(ctx context.Context, description string, fn func() error) error {
	expo := backoff.NewExponentialBackOff()
	expo.MaxInterval = maxRetryInterval

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		if err := fn(); err != nil {
			s.logger.Warn("database operation failed, retrying",
				logging.Operation(description),
				slog.Int("attempt", attempt),
				logging.Err(err))
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(expo), backoff.WithMaxTries(maxRetries))
	if err != nil {
		return fmt.Errorf("%s: %w", description, err)
	}
	return nil
}
