package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/atinyakov/QKart/internal/client/api"
	"github.com/atinyakov/QKart/internal/client/storefront"
	"github.com/atinyakov/QKart/internal/config"
	"github.com/atinyakov/QKart/internal/db"
	"github.com/atinyakov/QKart/internal/repository"
	"github.com/atinyakov/QKart/internal/service"
)

// app is everything a command needs, built once per invocation.
type app struct {
	opts     *config.Options
	log      *zap.Logger
	db       *sql.DB
	sessions *service.SessionService
	store    *storefront.Storefront
}

func newApp(ctx context.Context, opts *config.Options, log *zap.Logger) (*app, error) {
	httpClient, err := api.NewHTTPClient(opts.CAFile, opts.Timeout)
	if err != nil {
		return nil, err
	}
	client := api.New(opts.Endpoint, httpClient, log)

	conn, err := db.Open(opts.StorageDriver, opts.StorageDSN)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	sessions := service.NewSessionService(repository.NewSQLStorage(conn), client)
	search := service.NewSearchService(client, opts.DebounceWindow, log)
	store := storefront.New(client, service.NewCartService(client), search, log)

	sess, err := sessions.Current(ctx)
	if err != nil {
		conn.Close()
		return nil, err
	}
	store.SetSession(sess)

	return &app{
		opts:     opts,
		log:      log,
		db:       conn,
		sessions: sessions,
		store:    store,
	}, nil
}

// Close releases the session store.
func (a *app) Close() {
	a.store.Close()
	if err := a.db.Close(); err != nil {
		a.log.Warn("failed to close session store", zap.Error(err))
	}
}
