// Package main starts the QKart stub server: an in-memory stand-in of the
// QKart REST API for local runs of the client.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/QKart/internal/config"
	"github.com/atinyakov/QKart/internal/logger"
	"github.com/atinyakov/QKart/internal/server/handler/http"
	"github.com/atinyakov/QKart/internal/server/service"
	"github.com/atinyakov/QKart/internal/server/store"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

const (
	tokenTTL        = 24 * time.Hour
	shutdownTimeout = 5 * time.Second
)

func main() {
	// Parse command-line, file and environment configuration.
	options, err := config.Parse()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	if err := log.Init(cmp.Or(options.LogLevel, "info")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Log.Sync() }()
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, options, zapLogger); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, options *config.Options, zapLogger *zap.Logger) error {
	// In-memory repository seeded with the demo catalog.
	repo := store.NewMemoryStore(store.SeedProducts())

	// Initialize business-logic services.
	tokens := service.NewTokens(options.JWTSecret, tokenTTL)
	authService := service.NewAuthService(repo, tokens)
	cartService := service.NewCartService(repo)

	// Build the router with middleware and routes.
	router := http.NewRouter(
		&http.CatalogHandler{CatalogService: repo},
		&http.AuthHandler{AuthService: authService},
		&http.CartHandler{CartService: cartService},
		tokens,
		zapLogger,
	)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLogger.Info("starting HTTP server", zap.String("addr", options.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		zapLogger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
