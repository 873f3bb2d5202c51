// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the aurora command line.
//
// Without a subcommand aurora opens the full-screen chat UI when attached
// to a terminal. The subcommands drive the same session and conversation
// state from a shell or a script.
//
// # Key Types
//
//   - globalFlags: persistent --config, --store, --data-dir, --api-base, --debug
//   - lineView: exchange.View that prints to a writer, for chat and ask
//   - repl: the line-mode chat loop behind "aurora chat"
//
// # Usage
//
//	func main() {
//	    cli.Execute()
//	}
//
// # Commands Overview
//
//   - chat: line-mode REPL with history and slash commands
//   - ask: one exchange, reply on stdout
//   - session show|set|reset: inspect or edit the session configuration
//   - history show|clear|export: inspect, clear or export the conversation
//   - providers, models: list the provider catalogue and a provider's models
package cli
