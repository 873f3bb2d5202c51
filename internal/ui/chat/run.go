// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen chat UI and blocks until the user quits.
// The controller renders into the program for the duration of the call.
func Run(ctx context.Context, opts Options) error {
	if opts.Controller == nil {
		return errors.New("chat: controller is required")
	}

	p := tea.NewProgram(New(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))

	opts.Controller.SetView(NewProgramView(p.Send))
	defer opts.Controller.SetView(nil)

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
