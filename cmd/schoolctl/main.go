// Command schoolctl is a terminal client for the school backend. It shares
// the dashboard server's session database, so logging in or out here is
// seen by a running dashboard and the other way round.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"schoolerp/internal/adapters/api"
	"schoolerp/internal/adapters/storage"
	"schoolerp/internal/adapters/storage/local"
	"schoolerp/internal/application/session"
	"schoolerp/internal/config"
	"schoolerp/internal/logging"
)

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("SCHOOLERP_ENV_FILE"))
	if err != nil {
		return err
	}
	// Diagnostics go to stderr so -o json|yaml stays machine-readable.
	level := cfg.LogLevel
	if level == "info" {
		level = "warn"
	}
	if err := logging.Setup(logging.Options{Level: level, Format: cfg.LogFormat, Output: os.Stderr}); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := storage.InitDB(db); err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	kv := local.NewSQLiteStore(db)

	// A running dashboard notices writes through its file watcher, so the
	// CLI needs no broadcaster of its own.
	store, err := session.NewStore(ctx, kv, nil)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	client, err := api.NewClient(api.Options{BaseURL: cfg.APIURL, Storage: kv})
	if err != nil {
		return err
	}

	cli := newCommandLine(store, api.New(client), os.Stdout)
	return cli.run(ctx, os.Args)
}
