// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app assembles the aurora components from a configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/aurora-chat/internal/api"
	"github.com/jeranaias/aurora-chat/internal/config"
	"github.com/jeranaias/aurora-chat/internal/exchange"
	"github.com/jeranaias/aurora-chat/internal/model"
	"github.com/jeranaias/aurora-chat/internal/provider"
	"github.com/jeranaias/aurora-chat/internal/session"
	"github.com/jeranaias/aurora-chat/internal/storage"
)

// remoteConfigTimeout bounds the startup catalogue fetch.
const remoteConfigTimeout = 5 * time.Second

// App holds the wired components of one running client.
type App struct {
	Config     *config.Config
	Startup    config.Startup
	Logger     *zap.Logger
	Store      storage.Store
	Registry   *provider.Registry
	Sessions   *session.Manager
	Log        *model.Log
	Client     *api.Client
	Controller *exchange.Controller
}

// Options configures New.
type Options struct {
	Config *config.Config

	// Logger defaults to a no-op logger.
	Logger *zap.Logger

	// Store overrides the configured storage backend.
	Store storage.Store

	// View receives controller callbacks. It can be replaced later through
	// Controller.SetView.
	View exchange.View
}

// New wires every component. The store is opened unless one is supplied;
// Close releases it.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	client := api.NewClient(cfg.APIClientConfig())
	startup := resolveStartup(ctx, cfg, client, logger)

	registry, err := provider.NewRegistry(startup.AvailableProviders)
	if err != nil {
		return nil, fmt.Errorf("build provider registry: %w", err)
	}
	if !registry.Has(startup.DefaultProvider) && registry.Len() > 0 {
		logger.Warn("default provider not in catalogue, using first entry",
			zap.String("provider", startup.DefaultProvider))
		startup.DefaultProvider = registry.IDs()[0]
	}

	st := opts.Store
	if st == nil {
		st, err = storage.Open(cfg.StorageOptions())
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
	}

	storeLog := logger.Named("storage")
	sessions := session.NewManager(session.Config{
		Registry:        registry,
		DefaultProvider: startup.DefaultProvider,
		Record:          storage.NewRecord[session.Session](st, storage.SessionKey, storeLog),
		Logger:          logger.Named("session"),
	})
	log := model.NewLog(storage.NewRecord[[]model.Message](st, storage.HistoryKey, storeLog))

	ctrl, err := exchange.New(exchange.Config{
		Sessions:   sessions,
		Log:        log,
		Registry:   registry,
		Backend:    client,
		View:       opts.View,
		MaxHistory: cfg.Client.MaxHistory,
		Logger:     logger.Named("exchange"),
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	return &App{
		Config:     cfg,
		Startup:    startup,
		Logger:     logger,
		Store:      st,
		Registry:   registry,
		Sessions:   sessions,
		Log:        log,
		Client:     client,
		Controller: ctrl,
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

// resolveStartup returns the local startup configuration, overlaid with the
// backend's when the remote catalogue is enabled and reachable.
func resolveStartup(ctx context.Context, cfg *config.Config, client *api.Client, logger *zap.Logger) config.Startup {
	if !cfg.RemoteCatalogue {
		return cfg.Startup()
	}

	ctx, cancel := context.WithTimeout(ctx, remoteConfigTimeout)
	defer cancel()

	remote, err := client.FetchConfig(ctx)
	if err != nil {
		logger.Warn("remote catalogue unavailable, using local catalogue", zap.Error(err))
		return cfg.Startup()
	}
	return cfg.StartupFromRemote(remote)
}
