// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the chat configuration and its persistence.
//
// The session is a single mutable record (provider, model, temperature,
// top_p, API key) committed field by field: every edit is its own Update
// and is persisted before Update returns. There is no staged edit.
//
// # Key Types
//
//   - Session: the configuration record, JSON-compatible with the persisted layout
//   - Patch: partial session with pointer fields; nil means "keep"
//   - Manager: mutex-protected owner of the current session
//
// # Usage
//
//	mgr := session.NewManager(session.Config{
//	    Registry:        registry,
//	    DefaultProvider: "openrouter",
//	    Record:          storage.NewRecord[session.Session](st, storage.SessionKey, logger),
//	})
//	mgr.Hydrate()
//	mgr.Update(session.WithTemperature(0.2))
//
// Building a patch from form input:
//
//	patch, err := session.FieldPatch("top_p", "0.95")
//
// # Credentials
//
// The API key is stored in plaintext alongside the rest of the session.
// It is never sent for local providers.
package session
