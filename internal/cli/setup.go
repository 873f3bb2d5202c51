// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/aurora-chat/internal/app"
	"github.com/jeranaias/aurora-chat/internal/config"
	"github.com/jeranaias/aurora-chat/internal/exchange"
	"github.com/jeranaias/aurora-chat/internal/logging"
)

// globalFlags holds the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	store      string
	dataDir    string
	apiBase    string
	debug      bool
}

// loadConfig reads the config file and applies flag overrides.
// A broken default config file is reported and replaced by defaults; an
// explicit --config must load.
func (f *globalFlags) loadConfig(errOut io.Writer) (*config.Config, error) {
	var cfg *config.Config
	if f.configPath != "" {
		loaded, err := config.LoadFromPath(f.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		loaded, err := config.Load()
		if loaded == nil {
			return nil, err
		}
		if err != nil {
			fmt.Fprintf(errOut, "%s %v\n", warningStyle.Render("Warning:"), err)
		}
		cfg = loaded
	}

	if f.store != "" {
		cfg.Storage.Backend = f.store
	}
	if f.dataDir != "" {
		cfg.Storage.DataDir = f.dataDir
	}
	if f.apiBase != "" {
		cfg.APIBaseURL = f.apiBase
	}
	if f.debug {
		cfg.Log.Debug = true
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openApp loads the configuration, installs the logger and wires the
// components. A nil view discards controller callbacks.
func (f *globalFlags) openApp(cmd *cobra.Command, view exchange.View) (*app.App, error) {
	cfg, err := f.loadConfig(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LoggingOptions())
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s logging disabled: %v\n", warningStyle.Render("Warning:"), err)
		logger = zap.NewNop()
	}
	logging.SetGlobal(logger)

	a, err := app.New(cmd.Context(), app.Options{Config: cfg, Logger: logger, View: view})
	if err != nil {
		logger.Sync()
		return nil, err
	}
	logger.Debug("aurora started",
		zap.String("command", cmd.Name()),
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.String("store", cfg.Storage.Backend))
	return a, nil
}

// closeApp releases the store and flushes the log.
func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		a.Logger.Warn("failed to close store", zap.Error(err))
	}
	a.Logger.Sync()
}

// workingDir is where exports land when no path is given.
func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
