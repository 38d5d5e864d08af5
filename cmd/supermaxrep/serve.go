package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asynkron/supermaxrep/internal/api"
	"github.com/asynkron/supermaxrep/internal/config"
	"github.com/asynkron/supermaxrep/internal/store"
)

// runServe starts the HTTP API and blocks until SIGINT or SIGTERM. dbPath
// overrides SMR_DB_PATH when set.
func runServe(dbPath string) int {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return 1
	}

	var st *store.Store
	if cfg.DBPath != "" {
		var err error
		st, err = store.Open(cfg.DBPath)
		if err != nil {
			log.Error("open store", "path", cfg.DBPath, "error", err)
			return 1
		}
		defer st.Close()
	}

	srv := api.NewServer(st, log, cfg)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting supermaxrep api", "port", cfg.Port, "db", cfg.DBPath, "auth", cfg.APIKey != "")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		return 1
	}
	<-done
	return 0
}
