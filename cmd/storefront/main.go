package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"

	"storefront-gateway/internal/backend"
	"storefront-gateway/internal/cart"
	"storefront-gateway/internal/cartstore"
	"storefront-gateway/internal/catalog"
	"storefront-gateway/internal/config"
	"storefront-gateway/internal/db"
	"storefront-gateway/internal/domain"
	"storefront-gateway/internal/guestcart"
	"storefront-gateway/internal/httpserver"
	"storefront-gateway/internal/session"
	"storefront-gateway/internal/sweeper"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[storefront] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()

	var (
		store        cartstore.Backend
		mirrorPinger httpserver.Pinger
	)
	if cfg.MirrorDSN != "" {
		pool, err := db.Connect(ctx, cfg.MirrorDSN)
		if err != nil {
			logger.Fatalf("connect mirror db: %v", err)
		}
		defer pool.Close()
		store = cartstore.NewPostgres(pool, logger)
		mirrorPinger = pool
	} else {
		bolt, err := cartstore.OpenBolt(cfg.BoltPath, logger)
		if err != nil {
			logger.Printf("open cart db %s: %v; carts will not survive restarts", cfg.BoltPath, err)
			store = cartstore.NewMemory()
		} else {
			defer bolt.Close()
			store = bolt
		}
	}

	bus := EventBus.New()
	_ = bus.Subscribe(guestcart.Topic, func(c domain.Cart) {
		logger.Printf("cart updated: quantity=%d total=%d", c.Quantity(), c.TotalCents())
	})

	carts, err := guestcart.New(store, bus, logger)
	if err != nil {
		logger.Fatalf("init guest carts: %v", err)
	}
	carts.SetTTL(cfg.CartTTL)

	platform := backend.New(cfg.BackendBaseURL, cfg.BackendTimeout, logger)
	manager := cart.New(carts, platform, logger)
	manager.SetSyncPolicy(cfg.SyncTimeout, cfg.SyncRetries)
	products := catalog.New(platform, 0, logger)
	sessions := session.NewManager(cfg.SessionTTL)

	sweep := sweeper.New(carts, logger)
	if err := sweep.Start(cfg.SweepSchedule); err != nil {
		logger.Fatalf("start cart sweeper: %v", err)
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Cart:           manager,
		Catalog:        products,
		Platform:       platform,
		Sessions:       sessions,
		MirrorPinger:   mirrorPinger,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	}
	sweep.Stop()
	manager.WaitSync()
	logger.Printf("server stopped")
}
