// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/jeranaias/aurora-chat/internal/commands"
	"github.com/jeranaias/aurora-chat/internal/config"
	"github.com/jeranaias/aurora-chat/internal/exchange"
	"github.com/jeranaias/aurora-chat/internal/session"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineReader reads one line of input at a time.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// linerReader provides line editing and a persisted input history.
type linerReader struct {
	line        *liner.State
	historyFile string
}

func newLinerReader(completer *commands.Completer) *linerReader {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(completer.Lines)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	r := &linerReader{
		line:        line,
		historyFile: filepath.Join(configDir, "history"),
	}
	r.loadHistory()
	return r
}

func (r *linerReader) loadHistory() {
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
}

func (r *linerReader) saveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	r.line.WriteHistory(f)
}

func (r *linerReader) Prompt(prompt string) (string, error) {
	return r.line.Prompt(prompt)
}

func (r *linerReader) AppendHistory(item string) {
	r.line.AppendHistory(item)
}

// Close saves the history and restores the terminal.
func (r *linerReader) Close() error {
	r.saveHistory()
	return r.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// repl is the line-mode chat loop. Lines starting with "/" are slash
// commands; everything else is sent as a chat message.
type repl struct {
	ctrl      *exchange.Controller
	parser    *commands.Parser
	reader    lineReader
	out       io.Writer
	errOut    io.Writer
	exportDir string
	prompt    string
}

func (r *repl) run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := r.reader.Prompt(r.prompt)
		if err != nil {
			// Ctrl+C at the prompt or EOF
			fmt.Fprintln(r.out)
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.reader.AppendHistory(input)

		if commands.IsCommand(input) {
			if quit := r.command(ctx, input); quit {
				return nil
			}
			continue
		}

		// The view has already shown the outcome
		r.ctrl.Send(ctx, input)
	}
}

// command runs one slash command and reports whether the loop should end.
func (r *repl) command(ctx context.Context, input string) bool {
	cctx := &commands.Context{Ctx: ctx, Controller: r.ctrl, ExportDir: r.exportDir}

	res, err := r.parser.Execute(cctx, input)
	if err != nil {
		if !commands.Reported(err) {
			fmt.Fprintf(r.errOut, "%s %v\n", errorStyle.Render("[Error]"), err)
		}
		return false
	}
	if res.Output != "" {
		fmt.Fprintln(r.out, noteStyle.Render(res.Output))
	}
	return res.Quit
}

func printWelcome(w io.Writer, sess session.Session, history int) {
	fmt.Fprintln(w, welcomeStyle.Render("Aurora chat"))
	fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("provider %s, model %s, %d messages in history",
		sess.Provider, orNone(sess.Model), history)))
	fmt.Fprintln(w, dimStyle.Render("Type /help for commands, /quit or Ctrl+D to exit."))
	fmt.Fprintln(w)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

// =============================================================================
// COMMAND
// =============================================================================

func newChatCommand(flags *globalFlags) *cobra.Command {
	var replay bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start a line-mode chat session",
		Long: `Start an interactive line-mode chat.

Slash commands (/help lists them) edit the session the same way the
full-screen UI does. Up/Down recall earlier input; Tab completes commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

			view := newLineView(out, errOut, nil)
			a, err := flags.openApp(cmd, view)
			if err != nil {
				return err
			}
			defer closeApp(a)
			view.render = newMarkdownRenderer(a.Config.UI.Markdown, a.Config.UI.WordWrap)

			view.setReplay(replay)
			sess := a.Controller.Bootstrap(cmd.Context())
			view.setReplay(false)
			view.progress = true

			registry := commands.NewRegistry()
			completer := commands.NewCompleter(registry)
			completer.ProvidersFn = a.Registry.IDs

			reader := newLinerReader(completer)
			defer reader.Close()

			printWelcome(out, sess, a.Log.Len())

			r := &repl{
				ctrl:      a.Controller,
				parser:    commands.NewParser(registry),
				reader:    reader,
				out:       out,
				errOut:    errOut,
				exportDir: workingDir(),
				prompt:    promptStyle.Render("aurora> "),
			}
			return r.run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&replay, "replay", false, "Print the saved conversation before the prompt")
	return cmd
}
