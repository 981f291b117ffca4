// Command waiter runs the voice waiter service: it relays browser audio
// sessions to Gemini Live, persists placed orders and broadcasts them to
// kitchen dashboards.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/spicetable/go-waiter/internal/config"
	"github.com/spicetable/go-waiter/internal/log"
	"github.com/spicetable/go-waiter/pkg/hub"
	"github.com/spicetable/go-waiter/pkg/order"
	"github.com/spicetable/go-waiter/pkg/web"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Init("info")
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}
	log.Init(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("failed to open order store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	feed := hub.NewFeed()
	go feed.Run(ctx)

	srv := web.New(cfg, store, feed)

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr, "model", cfg.Model)
		errc <- srv.Listen()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown error", "error", err)
		}
	case err := <-errc:
		if err != nil {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}

// openStore selects the order persistence backend. With DATABASE_URL set
// the service migrates and uses Postgres; otherwise orders live in memory
// for the process lifetime.
func openStore(ctx context.Context, cfg *config.Config) (order.Store, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL not set, using in-memory order store")
		return order.NewMemoryStore(), nil
	}

	if err := order.Migrate(cfg.DatabaseURL); err != nil {
		return nil, err
	}
	return order.OpenPostgres(ctx, cfg.DatabaseURL)
}
