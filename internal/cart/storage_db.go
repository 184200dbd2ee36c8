package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second
)

// PostgresStorage stores each cart as a jsonb blob keyed by scope, for
// deployments where carts must survive the process.
type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

func (s *PostgresStorage) EnsureSchema(ctx context.Context) error {
	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS cart_blobs (
				key        text PRIMARY KEY,
				data       jsonb NOT NULL,
				updated_at timestamptz NOT NULL DEFAULT now()
			)
		`)
		return err
	})
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStorage) Load(ctx context.Context, key string) (Items, error) {
	var raw []byte

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, `
			SELECT data
			FROM cart_blobs
			WHERE key = $1
		`, key).Scan(&raw)
	})

	if err == sql.ErrNoRows {
		return Items{}, nil
	}
	if err != nil {
		return nil, err
	}

	var items Items
	if err := json.Unmarshal(raw, &items); err != nil {
		return Items{}, nil
	}
	return normalize(items), nil
}

func (s *PostgresStorage) Save(ctx context.Context, key string, items Items) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}

	return withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO cart_blobs (key, data, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (key) DO UPDATE
			SET data = EXCLUDED.data, updated_at = now()
		`, key, raw)
		return err
	})
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
