package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aurafashions/storefront/internal/cart"
	"github.com/aurafashions/storefront/internal/checkout"
	"github.com/aurafashions/storefront/internal/config"
	"github.com/aurafashions/storefront/internal/gateway"
	"github.com/aurafashions/storefront/internal/httpapi"
	"github.com/aurafashions/storefront/internal/session"
	"github.com/aurafashions/storefront/internal/store"
)

func main() {
	cfg := config.Load()

	st, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("failed to open persistent store: %v", err)
	}

	ctx := context.Background()

	// The gateway pulls its bearer token from the session manager; the
	// manager in turn is told about 401s so stale credentials are purged
	// exactly once.
	var sessions *session.Manager
	client := gateway.NewClient(cfg.APIBaseURL, func() string {
		return sessions.Token()
	}, cfg.RequestTimeout)
	sessions = session.NewManager(client, st, nil)
	client.SetUnauthorizedHook(sessions.ForceLogout)

	initCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	if err := sessions.Initialize(initCtx); err != nil {
		// Transient: the persisted session stays optimistic.
		log.Printf("session revalidation pending: %v", err)
	}
	cancel()

	carts, err := cart.NewManager(ctx, st)
	if err != nil {
		log.Fatalf("failed to load cart: %v", err)
	}

	coordinator := checkout.NewCoordinator(carts, client)

	router := httpapi.NewRouter(
		httpapi.NewSessionHandler(sessions),
		httpapi.NewCartHandler(carts),
		httpapi.NewCheckoutHandler(coordinator),
		httpapi.NewCatalogHandler(client),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront starting on :%s (backend %s, store %s)",
			cfg.HTTPPort, cfg.APIBaseURL, cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}

func buildStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreFile:
		return store.NewFileStore(cfg.StorePath)
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return store.NewRedisStore(client), nil
	case config.StoreMemory:
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
