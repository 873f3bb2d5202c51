// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/aurora-chat/internal/exchange"
)

func newAskCommand(flags *globalFlags) *cobra.Command {
	var (
		providerID string
		modelName  string
		file       string
	)

	cmd := &cobra.Command{
		Use:   "ask [message...]",
		Short: "Send one message and print the reply",
		Long: `Send one message with the saved session and print the reply.

The exchange is added to the conversation history like any other. With no
arguments the message is read from stdin.`,
		Example: `  aurora ask "What is a goroutine?"
  aurora ask --provider ollama --model llama3 "hello"
  git diff | aurora ask --file - "review this"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			if file != "" {
				content, err := readInput(cmd.InOrStdin(), file)
				if err != nil {
					return err
				}
				message = strings.TrimSpace(message + "\n\n" + content)
			} else if message == "" {
				content, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				message = string(content)
			}

			view := newLineView(cmd.OutOrStdout(), cmd.ErrOrStderr(), nil)
			a, err := flags.openApp(cmd, view)
			if err != nil {
				return err
			}
			defer closeApp(a)
			view.render = newMarkdownRenderer(a.Config.UI.Markdown, a.Config.UI.WordWrap)

			ctx := cmd.Context()
			a.Controller.Bootstrap(ctx)

			if providerID != "" {
				if _, err := a.Controller.SwitchProvider(ctx, providerID); err != nil {
					return err
				}
			}
			if modelName != "" {
				if _, err := a.Controller.SetField(ctx, "model", modelName); err != nil {
					return err
				}
			}

			view.progress = IsStdoutTTY()
			res, err := a.Controller.Send(ctx, message)
			if err != nil {
				if res.State == exchange.StateFailed {
					return errReported{err}
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&providerID, "provider", "p", "", "Switch to this provider first (persisted)")
	cmd.Flags().StringVarP(&modelName, "model", "m", "", "Use this model (persisted)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Append a file's contents to the message (- for stdin)")
	return cmd
}

// readInput reads path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// errReported marks an error the view has already printed.
type errReported struct{ err error }

func (e errReported) Error() string { return e.err.Error() }
func (e errReported) Unwrap() error { return e.err }
