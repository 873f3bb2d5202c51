// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/aurora-chat/internal/export"
)

func newHistoryCommand(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show, clear or export the conversation",
	}

	var last int
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer closeApp(a)

			a.Controller.Bootstrap(cmd.Context())
			out := cmd.OutOrStdout()

			messages := a.Log.Last(last)
			if len(messages) == 0 {
				fmt.Fprintln(out, dimStyle.Render("No messages."))
				return nil
			}
			for _, msg := range messages {
				label := promptStyle.Render(msg.Role.DisplayName() + ":")
				if msg.IsAssistant() {
					label = welcomeStyle.Render(msg.Role.DisplayName() + ":")
				}
				fmt.Fprintf(out, "%s %s\n", label, msg.Content)
			}
			return nil
		},
	}
	show.Flags().IntVarP(&last, "last", "n", 0, "Only the newest n messages")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.openApp(cmd, newLineView(cmd.OutOrStdout(), cmd.ErrOrStderr(), nil))
			if err != nil {
				return err
			}
			defer closeApp(a)

			a.Controller.Bootstrap(cmd.Context())
			a.Controller.Clear()
			return nil
		},
	}

	var format, output string
	exp := &cobra.Command{
		Use:   "export",
		Short: "Export the conversation to a file",
		Long: fmt.Sprintf(`Export the conversation.

Formats: %s. Without --output the file is written to the current directory
with a generated name; --output - prints to stdout.`, strings.Join(export.Formats, ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exporter, err := export.ForFormat(format)
			if err != nil {
				return err
			}

			a, err := flags.openApp(cmd, nil)
			if err != nil {
				return err
			}
			defer closeApp(a)

			sess := a.Controller.Bootstrap(cmd.Context())
			meta := export.Meta{Provider: sess.Provider, Model: sess.Model}
			messages := a.Controller.History()

			if output == "" {
				path, err := export.ToFile(messages, meta, exporter, workingDir())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Exported to "+path)
				return nil
			}

			data, err := exporter.Export(messages, meta)
			if err != nil {
				return err
			}
			if output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Exported to "+output)
			return nil
		},
	}
	exp.Flags().StringVarP(&format, "format", "f", export.FormatMarkdown, "Export format: "+strings.Join(export.Formats, ", "))
	exp.Flags().StringVarP(&output, "output", "o", "", "Output file (- for stdout)")

	cmd.AddCommand(show, clearCmd, exp)
	return cmd
}
