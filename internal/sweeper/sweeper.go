// Package sweeper evicts expired cart items in the background so
// abandoned guest carts do not accumulate in the store forever.
package sweeper

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// CartSweeper is the slice of the guest cart store the sweeper drives.
type CartSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

type Sweeper struct {
	cron   *cron.Cron
	store  CartSweeper
	logger *log.Logger
}

func New(store CartSweeper, logger *log.Logger) *Sweeper {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Sweeper{
		cron:   cron.New(),
		store:  store,
		logger: logger,
	}
}

// Start schedules the sweep on the given cron spec, e.g. "@every 1h".
func (s *Sweeper) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, s.run)
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Sweeper) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	evicted, err := s.store.Sweep(ctx)
	if err != nil {
		s.logger.Printf("cart sweep: error=%v", err)
		return
	}
	if evicted > 0 {
		s.logger.Printf("cart sweep: evicted=%d", evicted)
	}
}
