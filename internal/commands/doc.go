// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash commands shared by the chat front ends.
//
// Each command maps onto one exchange.Controller operation, so the full-screen
// UI and the line REPL edit the session exactly as the settings form would.
//
// # Key Types
//
//   - Registry: command registry with all built-in commands
//   - Parser: parses and executes slash input
//   - Completer: tab completion for command names and enum arguments
//   - Result: text to show, or a request to quit
//
// # Built-in Commands
//
//   - /provider, /model, /temp, /topp, /key: single-field session edits
//   - /session, /providers: show state
//   - /clear, /export: conversation
//   - /help, /quit
//
// # Usage
//
//	parser := commands.NewParser(commands.NewRegistry())
//	res, err := parser.Execute(&commands.Context{Ctx: ctx, Controller: ctrl}, "/temp 0.3")
package commands
