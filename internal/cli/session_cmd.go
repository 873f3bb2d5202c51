// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/aurora-chat/internal/commands"
	"github.com/jeranaias/aurora-chat/internal/session"
)

func newSessionCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show or edit the session configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := flags.openApp(cmd, newLineView(cmd.OutOrStdout(), cmd.ErrOrStderr(), nil))
				if err != nil {
					return err
				}
				defer closeApp(a)

				sess := a.Controller.Bootstrap(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), commands.FormatSession(sess))
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <field> [value]",
			Short: "Set one session field",
			Long: fmt.Sprintf(`Set one session field.

Fields: %s.
Setting the provider also replaces the model with the provider's default.
Numbers that do not parse fall back to the field's default. An empty value
clears the model or the API key.`, strings.Join(session.Fields, ", ")),
			Example: `  aurora session set provider ollama
  aurora session set temperature 0.2
  aurora session set api_key sk-...`,
			Args: cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := flags.openApp(cmd, newLineView(cmd.OutOrStdout(), cmd.ErrOrStderr(), nil))
				if err != nil {
					return err
				}
				defer closeApp(a)

				ctx := cmd.Context()
				a.Controller.Bootstrap(ctx)

				field, value := args[0], ""
				if len(args) == 2 {
					value = args[1]
				}

				sess, err := a.Controller.SetField(ctx, field, value)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), commands.FormatSession(sess))
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Restore the default session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := flags.openApp(cmd, newLineView(cmd.OutOrStdout(), cmd.ErrOrStderr(), nil))
				if err != nil {
					return err
				}
				defer closeApp(a)

				a.Controller.Bootstrap(cmd.Context())
				a.Sessions.Reset()
				sess := a.Controller.Bootstrap(cmd.Context())
				fmt.Fprintln(cmd.OutOrStdout(), commands.FormatSession(sess))
				return nil
			},
		},
	)
	return cmd
}
