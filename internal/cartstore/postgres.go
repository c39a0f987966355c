package cartstore

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront-gateway/internal/domain"
)

// PostgresStore persists cart records in Postgres. It backs the
// authenticated-cart mirror so carts survive the local file and can be
// shared across storefront instances.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) *PostgresStore {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &PostgresStore{pool: pool, logger: logger}
}

func (s *PostgresStore) Load(ctx context.Context, key string) (*Record, error) {
	const q = `
SELECT key, cart, updated_at
FROM cart_records
WHERE key = $1
`
	var rec Record
	var raw []byte
	err := s.pool.QueryRow(ctx, q, key).Scan(&rec.Key, &raw, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		s.logger.Printf("cartstore: load key=%s error=%v", key, err)
		return nil, err
	}
	if err := json.Unmarshal(raw, &rec.Cart); err != nil {
		s.logger.Printf("cartstore: decode key=%s error=%v", key, err)
		return nil, err
	}
	return &rec, nil
}

func (s *PostgresStore) Save(ctx context.Context, rec Record) error {
	raw, err := json.Marshal(rec.Cart)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO cart_records (key, cart, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET
    cart = EXCLUDED.cart,
    updated_at = EXCLUDED.updated_at
`
	if _, err := s.pool.Exec(ctx, q, rec.Key, raw, rec.UpdatedAt); err != nil {
		s.logger.Printf("cartstore: save key=%s error=%v", rec.Key, err)
		return err
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM cart_records WHERE key = $1`
	_, err := s.pool.Exec(ctx, q, key)
	return err
}

func (s *PostgresStore) Keys(ctx context.Context) ([]string, error) {
	const q = `SELECT key FROM cart_records ORDER BY key`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}
