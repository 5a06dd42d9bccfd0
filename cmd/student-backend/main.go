// main is the entry point of the Student Management Backend.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file (plus environment overrides)
//  2. Initialise the logger
//  3. Open the storage backend selected by the DSN and apply the schema
//  4. Build the router: handlers → service → storage
//  5. Serve HTTP until SIGINT/SIGTERM, then shut down gracefully
//
// RUNNING THE SERVER:
//
//	go run ./cmd/student-backend --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/student-backend
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/aanand-mishra/student-management/internal/config"
	"github.com/aanand-mishra/student-management/internal/http/router"
	"github.com/aanand-mishra/student-management/internal/logger"
	"github.com/aanand-mishra/student-management/internal/service"
	"github.com/aanand-mishra/student-management/internal/storage/factory"
)

const version = "1.0.0"

func main() {
	cfg := config.MustLoad()

	log := logger.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting student-backend",
		slog.String("env", cfg.Env),
		slog.String("version", version),
	)

	// ctx is cancelled on the first SIGINT (Ctrl+C) or SIGTERM (kill,
	// container orchestrators).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("student-backend stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	// ── Storage ───────────────────────────────────────────────────────────
	// The handle is passed down explicitly; nothing below main holds a
	// global connection.
	store, err := factory.New(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer store.Close()

	log.Info("storage initialised", slog.String("backend", factory.Kind(cfg.Storage.DSN)))

	// ── HTTP ──────────────────────────────────────────────────────────────
	handler := router.New(cfg, service.New(store), log)
	server := router.NewServer(cfg.HTTPServer, handler)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server started", slog.String("address", cfg.Addr))

		// ListenAndServe returns http.ErrServerClosed once Shutdown is
		// called. That is the expected way out.
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		// Wait for a signal, or for the server goroutine to fail.
		<-gctx.Done()
		log.Info("shutting down server...")

		// Finish in-flight requests, bounded by the shutdown timeout.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
