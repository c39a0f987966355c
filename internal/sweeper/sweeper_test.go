package sweeper

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type countingStore struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (c *countingStore) Sweep(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return 3, c.err
}

func (c *countingStore) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func TestSweeperRunsOnSchedule(t *testing.T) {
	store := &countingStore{}
	s := New(store, nil)
	if err := s.Start("@every 10ms"); err != nil {
		t.Fatalf("start sweeper: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for store.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("sweep never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSweeperRejectsBadSchedule(t *testing.T) {
	s := New(&countingStore{}, nil)
	if err := s.Start("not a schedule"); err == nil {
		t.Fatalf("expected error for malformed schedule")
	}
}

func TestSweeperSurvivesStoreErrors(t *testing.T) {
	store := &countingStore{err: errors.New("backend down")}
	s := New(store, nil)
	if err := s.Start("@every 10ms"); err != nil {
		t.Fatalf("start sweeper: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for store.count() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("sweeper stopped after an error")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
