package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"staybase/internal/config"
	"staybase/internal/listings"
	"staybase/internal/logging"
	"staybase/internal/rest"
	"staybase/internal/seed"
	"staybase/internal/server"
	"staybase/internal/storage"
	"staybase/internal/storage/memory"
	storemongo "staybase/internal/storage/mongo"
)

func main() {
	cfg := config.LoadConfig()

	if err := logging.Initialize(cfg.Logging); err != nil {
		slog.Error("Failed to initialize logging", "error", err)
		os.Exit(1)
	}
	defer logging.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg.Storage)
	if err != nil {
		slog.Error("Failed to initialize storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}
	defer store.Close(context.Background())

	if cfg.Seed.Enabled {
		if err := seed.Run(ctx, store); err != nil {
			slog.Error("Failed to seed sample data", "error", err)
			os.Exit(1)
		}
	}

	service := listings.New(store, cfg.Storage.OperationTimeout)

	mux := http.NewServeMux()
	rest.NewHandler(service).RegisterRoutes(mux)

	srv := server.New(cfg.Server, mux)
	if err := srv.Run(ctx); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	slog.Info("Shutdown complete")
}

func newStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	if cfg.Backend == "memory" {
		return memory.NewMemoryStore(), nil
	}
	return storemongo.NewMongoStore(ctx, cfg.URI, cfg.Database, cfg.Collection)
}
