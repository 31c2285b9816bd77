package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/cartstate/internal/db"
	"github.com/nikolayk812/cartstate/internal/port"
)

type postgresStorage struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) port.Storage {
	return &postgresStorage{
		q:    db.New(pool),
		pool: pool,
	}
}

func NewPostgresWithTx(tx pgx.Tx) port.Storage {
	return &postgresStorage{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (s *postgresStorage) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	entry, err := s.q.GetEntry(ctx, key)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("q.GetEntry: %w", err)
	}

	return entry.Value, true, nil
}

func (s *postgresStorage) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	err := inTx(ctx, s.pool, s.q, func(q *db.Queries) error {
		return q.UpsertEntry(ctx, db.UpsertEntryParams{
			Key:   key,
			Value: value,
		})
	})
	if err != nil {
		return fmt.Errorf("q.UpsertEntry: %w", err)
	}

	return nil
}
