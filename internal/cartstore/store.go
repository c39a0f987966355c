// Package cartstore persists carts as whole records under a session
// key. Backends are last-writer-wins: Save overwrites unconditionally
// and concurrent writers on the same key are resolved by whichever
// write lands last.
package cartstore

import (
	"context"
	"time"

	jsoniter "github.com/json-iterator/go"

	"storefront-gateway/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is one persisted cart.
type Record struct {
	Key       string      `json:"key"`
	Cart      domain.Cart `json:"cart"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

type Backend interface {
	// Load returns the record under key, or domain.ErrNotFound.
	Load(ctx context.Context, key string) (*Record, error)
	// Save overwrites the record under rec.Key.
	Save(ctx context.Context, rec Record) error
	// Delete removes the record under key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every stored key.
	Keys(ctx context.Context) ([]string, error)
}
