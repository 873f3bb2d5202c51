// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jeranaias/aurora-chat/internal/commands"
	"github.com/jeranaias/aurora-chat/internal/ui/chat"
)

// Set at build time with -ldflags.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// NewRootCommand builds the aurora command tree.
func NewRootCommand() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "aurora",
		Short: "Chat with LLM providers from the terminal",
		Long: `Aurora is a terminal chat client for a multi-provider chat backend.

Pick a provider and model, tune temperature and top_p, and chat. The session
configuration and the conversation are kept on disk between runs.

Quick Start:
  aurora                         # Full-screen chat
  aurora chat                    # Line-mode chat
  aurora ask "explain mutexes"   # One question, answer on stdout
  aurora session set provider ollama
  aurora history export --format markdown`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !Interactive() {
				return cmd.Help()
			}
			return runTUI(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Config file (default ~/.aurora/config.toml)")
	pf.StringVar(&flags.store, "store", "", "Storage backend: file, sqlite or memory")
	pf.StringVar(&flags.dataDir, "data-dir", "", "Directory for session and history records")
	pf.StringVar(&flags.apiBase, "api-base", "", "Chat backend base URL")
	pf.BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(
		newChatCommand(flags),
		newAskCommand(flags),
		newSessionCommand(flags),
		newHistoryCommand(flags),
		newProvidersCommand(flags),
		newModelsCommand(flags),
	)
	return root
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := NewRootCommand().ExecuteContext(ctx)
	stop()

	if err != nil {
		if !alreadyShown(err) {
			fmt.Fprintf(os.Stderr, "%s %v\n", errorStyle.Render("Error:"), err)
		}
		os.Exit(1)
	}
}

// alreadyShown reports whether err was printed by the view as a notice or
// a failed exchange.
func alreadyShown(err error) bool {
	var shown errReported
	return commands.Reported(err) || errors.As(err, &shown)
}

// runTUI opens the full-screen chat.
func runTUI(cmd *cobra.Command, flags *globalFlags) error {
	a, err := flags.openApp(cmd, nil)
	if err != nil {
		return err
	}
	defer closeApp(a)

	return chat.Run(cmd.Context(), chat.Options{
		Controller:    a.Controller,
		ToastDuration: a.Config.ToastDuration(),
		Markdown:      a.Config.UI.Markdown,
		WordWrap:      a.Config.UI.WordWrap,
		ExportDir:     workingDir(),
		Logger:        a.Logger.Named("ui"),
	})
}
