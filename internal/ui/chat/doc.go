// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the full-screen terminal front end for aurora.

The Model is a Bubble Tea model. The exchange controller renders into it
through ProgramView, which turns every View callback into a tea.Msg posted
to the running program. Exchanges and slash commands run inside tea.Cmd
goroutines, so the controller never blocks the update loop.

# Key Components

## Model (model.go, update.go)

  - textinput for the message, viewport for the transcript
  - one transcript entry per message; placeholders keyed by exchange id
  - spinner while any placeholder is pending
  - toasts from the notify package for controller notices

## View Rendering (view.go)

Header with provider and model, the transcript with glamour-rendered
assistant replies, the input box (dimmed while submit is disabled), and a
status bar with key hints. Toasts are drawn over the transcript's top-right
corner.

## Slash Commands

Input starting with "/" goes to the commands package: /provider, /model,
/temp, /topp, /key, /session, /providers, /clear, /export, /help, /quit.

# Usage

	err := chat.Run(ctx, chat.Options{
		Controller: app.Controller,
		Markdown:   true,
	})
*/
package chat
