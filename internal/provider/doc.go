// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider holds the static catalogue of chat providers.
//
// A provider is either local (runs on the user's host, never receives an API
// key, default model discovered from the backend's model listing) or remote
// (hosted, authenticated with the session API key, static default model).
//
// # Usage
//
//	reg, err := provider.NewRegistry(provider.Builtin(provider.BuiltinOptions{AllowOllama: true}))
//	p, ok := reg.Resolve("openrouter")
//	if reg.IsRemote(sess.Provider) { ... }
package provider
