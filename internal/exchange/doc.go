// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package exchange orchestrates chat round trips and session edits.
//
// The Controller is the single owner of the session manager and the
// conversation log. Front ends (the terminal UI, the line REPL, one-shot
// commands) drive it and receive render callbacks through View.
//
// # Exchange Lifecycle
//
// Each Send moves through Idle, Sent, then Delivered or Failed:
//
//  1. Validate: the trimmed message must be non-empty and a provider set.
//  2. Append the user message, clear input, disable submit, show "Thinking…".
//  3. Build the payload; the API key is attached only for remote providers.
//  4. POST the full history to the backend.
//  5. Delivered: append the reply and resolve the placeholder with it.
//  6. Failed: resolve the placeholder with "Error: ..."; the log is untouched.
//  7. Re-enable submit.
//
// # Key Types
//
//   - Controller: session edits, default model lookup, exchanges
//   - View: render callbacks (notifications, placeholders, model field)
//   - Backend: network boundary, satisfied by *api.Client
//
// # Usage
//
//	ctl, err := exchange.New(exchange.Config{
//	    Sessions: mgr,
//	    Log:      log,
//	    Registry: registry,
//	    Backend:  api.NewClient(&api.ClientConfig{BaseURL: baseURL}),
//	    View:     view,
//	})
//	ctl.Bootstrap(ctx)
//	res, err := ctl.Send(ctx, "hello")
package exchange
