// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the chat backend.
//
// The backend is stateless per request: every chat call carries the full
// conversation history. Three endpoints are used, all relative to the
// configured base URL:
//
//	GET  {base}/config              startup configuration
//	GET  {base}/models?provider=id  models for a (local) provider
//	POST {base}/chat                one chat completion
//
// # Key Types
//
//   - Client: thread-safe backend client, no retries
//   - ChatRequest / ChatResponse: chat wire types
//   - ClientError: typed error (application, transport, timeout, invalid response)
//
// # Errors
//
// A response carrying an "error" field is always an application error,
// whatever its HTTP status. Use IsApplication and IsTransport to tell the
// two apart; they are shown to the user differently.
package api
