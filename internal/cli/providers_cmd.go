// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jeranaias/aurora-chat/internal/commands"
	"github.com/jeranaias/aurora-chat/internal/exchange"
)

func newProvidersCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the provider catalogue",
		Long:  "List the provider catalogue. The selected provider is marked with *.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer closeApp(a)

			sess := a.Controller.Bootstrap(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), commands.FormatProviders(a.Controller.Providers(), sess.Provider))
			return nil
		},
	}
}

func newModelsCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models [provider]",
		Short: "List the models a provider offers",
		Long: `List the models the backend reports for a provider.

Defaults to the selected provider.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer closeApp(a)

			ctx := cmd.Context()
			id := a.Controller.Bootstrap(ctx).Provider
			if len(args) == 1 {
				id = args[0]
			}
			if !a.Registry.Has(id) {
				return fmt.Errorf("unknown provider %q", id)
			}

			models, err := a.Client.ListModels(ctx, id)
			if err != nil {
				return fmt.Errorf("list models for %s: %s", id, exchange.ErrorText(err))
			}

			out := cmd.OutOrStdout()
			if len(models) == 0 {
				fmt.Fprintln(out, dimStyle.Render("No models reported."))
				return nil
			}
			for _, m := range models {
				fmt.Fprintln(out, m)
			}
			return nil
		},
	}
}
