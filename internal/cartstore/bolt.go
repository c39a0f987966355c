package cartstore

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	bolt "go.etcd.io/bbolt"

	"storefront-gateway/internal/domain"
)

var cartBucket = []byte("carts")

// BoltStore keeps cart records in a local bbolt file, the storefront's
// default store.
type BoltStore struct {
	db     *bolt.DB
	logger *log.Logger
}

// OpenBolt opens (or creates) the cart database at path.
func OpenBolt(path string, logger *log.Logger) (*BoltStore, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cart db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(cartBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init cart bucket: %w", err)
	}
	return &BoltStore{db: db, logger: logger}, nil
}

func (s *BoltStore) Load(_ context.Context, key string) (*Record, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(cartBucket).Get([]byte(key)); v != nil {
			raw = append(raw, v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, domain.ErrNotFound
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.logger.Printf("cartstore: decode key=%s error=%v", key, err)
		return nil, err
	}
	return &rec, nil
}

func (s *BoltStore) Save(_ context.Context, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartBucket).Put([]byte(rec.Key), raw)
	})
}

func (s *BoltStore) Delete(_ context.Context, key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(cartBucket).Delete([]byte(key))
	})
}

func (s *BoltStore) Keys(_ context.Context) ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(cartBucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
