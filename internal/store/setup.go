package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Open ensures the target database, schema and tables exist and returns a
// ready Store. On any setup failure whatever was opened so far is closed
// again, so the caller is never left with a half-open state.
func Open(ctx context.Context, cfg *Config, logger *zap.Logger) (*Store, error) {
	if cfg == nil {
		return nil, errors.New("store config is required")
	}
	if err := validIdent(cfg.Name); err != nil {
		return nil, fmt.Errorf("database name: %w", err)
	}
	if err := validIdent(cfg.Schema); err != nil {
		return nil, fmt.Errorf("schema name: %w", err)
	}

	if err := ensureDatabase(ctx, cfg, logger); err != nil {
		return nil, fmt.Errorf("ensuring database %q: %w", cfg.Name, err)
	}

	pool, err := pgxpool.New(ctx, cfg.url(cfg.Name))
	if err != nil {
		return nil, fmt.Errorf("building a pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database %q: %w", cfg.Name, err)
	}

	s := &Store{pool: pool, schema: cfg.Schema, logger: logger}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring schema %q: %w", cfg.Schema, err)
	}

	return s, nil
}

// Close releases all pooled connections.
func (s *Store) Close() {
	s.pool.Close()
}

// ensureDatabase creates the target database when it does not exist yet.
// CREATE DATABASE cannot run inside a transaction and must go through a
// separate connection to the maintenance database.
func ensureDatabase(ctx context.Context, cfg *Config, logger *zap.Logger) error {
	maintenance := cfg.MaintenanceDB
	if maintenance == "" {
		maintenance = "postgres"
	}

	conn, err := pgx.Connect(ctx, cfg.url(maintenance))
	if err != nil {
		return fmt.Errorf("connecting to maintenance database %q: %w", maintenance, err)
	}
	defer conn.Close(ctx)

	var exists bool
	if err := conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, cfg.Name,
	).Scan(&exists); err != nil {
		return fmt.Errorf("checking database existence: %w", err)
	}
	if exists {
		logger.Debug("database already exists", zap.String("database", cfg.Name))
		return nil
	}

	if _, err := conn.Exec(ctx,
		fmt.Sprintf(`CREATE DATABASE %s`, pgx.Identifier{cfg.Name}.Sanitize()),
	); err != nil {
		return fmt.Errorf("creating database: %w", err)
	}

	logger.Info("database created", zap.String("database", cfg.Name))
	return nil
}

// ensureSchema creates the schema and both tables when missing. The employer
// key is the external source ID, so the column carries no generated default.
func (s *Store) ensureSchema(ctx context.Context) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	statements := []string{
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, pgx.Identifier{s.schema}.Sanitize()),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			"COMPANY_ID" BIGINT PRIMARY KEY,
			"NAME" VARCHAR(255) NOT NULL
		)`, s.table("COMPANY")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			"VACANCY_ID" BIGSERIAL PRIMARY KEY,
			"NAME" VARCHAR(255) NOT NULL,
			"SALARY_FROM" DECIMAL,
			"SALARY_TO" DECIMAL,
			"COMPANY_ID" BIGINT REFERENCES %s ("COMPANY_ID"),
			"REQUIREMENT" TEXT,
			"LOCATION" VARCHAR(255)
		)`, s.table("VACANCY"), s.table("COMPANY")),
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	s.logger.Info("schema and tables are ready", zap.String("schema", s.schema))
	return nil
}
