// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package notify implements the transient notifications shown over the chat UI.
//
// Toasts are kept newest first, capped at five, and expire after a fixed
// duration. The chat model drives expiry with TickCmd.
//
// # Key Types
//
//   - Kind: info, success, warning or error
//   - Toast: one notification with its creation time
//   - Manager: thread-safe toast list
//
// # Usage
//
//	toasts := notify.NewManager(3 * time.Second)
//	toasts.Add(notify.KindSuccess, "Session updated")
//	view := notify.RenderStack(toasts.Tick(), width)
package notify
