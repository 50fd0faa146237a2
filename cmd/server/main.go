package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"schoolerp/internal/adapters/api"
	web "schoolerp/internal/adapters/http"
	"schoolerp/internal/adapters/http/perf"
	"schoolerp/internal/adapters/storage"
	"schoolerp/internal/adapters/storage/local"
	"schoolerp/internal/application/session"
	"schoolerp/internal/config"
	"schoolerp/internal/logging"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	envFile := flag.String("env-file", ".env", "dotenv file to load before reading SCHOOLERP_* variables")
	flag.Parse()

	if err := run(*envFile); err != nil {
		slog.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	if err := storage.InitDB(db); err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	kv := local.NewSQLiteStore(storage.NewTimedDB(db, collector, 0))

	// Writes from other processes sharing the database file (schoolctl)
	// reach this one through the watcher.
	bus := local.NewBroadcaster()
	watcher, err := local.NewWatcher(cfg.DBPath, bus)
	if err != nil {
		slog.Warn("storage_watch_disabled", "error", err)
	} else {
		go watcher.Run(ctx)
	}

	store, err := session.NewStore(ctx, kv, bus)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	go store.Watch(ctx, bus)

	client, err := api.NewClient(api.Options{
		BaseURL:   cfg.APIURL,
		Storage:   kv,
		Bus:       bus,
		Collector: collector,
	})
	if err != nil {
		return err
	}

	handler, err := web.NewMux(ctx, web.Deps{
		Session:        store,
		API:            api.New(client),
		Collector:      collector,
		CSRFKey:        cfg.CSRFKey,
		Secure:         cfg.Production(),
		TrustedOrigins: []string{cfg.Addr},
		RateLimit:      cfg.RateLimit,
		SlowRequest:    cfg.SlowRequest,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_start",
			"version", version,
			"addr", cfg.Addr,
			"env", cfg.Env,
			"api_url", cfg.APIURL,
			"authenticated", store.IsAuthenticated(),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("server_shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
