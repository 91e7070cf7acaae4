package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olliegilbey/resumate-sub000/internal/compendium"
	"github.com/olliegilbey/resumate-sub000/internal/types"
)

// PostgresStore keeps compendium documents in a compendia table, one JSONB
// document per row. Load returns the most recently saved one.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool and verifies it.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (*types.Compendium, error) {
	var document []byte
	err := s.pool.QueryRow(ctx,
		`SELECT document FROM compendia ORDER BY created_at DESC LIMIT 1`,
	).Scan(&document)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no compendium has been saved yet")
		}
		return nil, fmt.Errorf("failed to load compendium: %w", err)
	}
	return compendium.Parse(document)
}

// Save validates and stores a named compendium document, returning its row ID.
func (s *PostgresStore) Save(ctx context.Context, name string, document []byte) (uuid.UUID, error) {
	if _, err := compendium.Parse(document); err != nil {
		return uuid.Nil, fmt.Errorf("refusing to save invalid compendium: %w", err)
	}

	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO compendia (name, document) VALUES ($1, $2) RETURNING id`,
		name, document,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save compendium: %w", err)
	}
	return id, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
