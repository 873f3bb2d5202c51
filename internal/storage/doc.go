// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local key-value persistence for aurora.
//
// Two logical records are kept: the session configuration and the
// conversation history, each a JSON blob under a fixed key. Neither is
// versioned; absent or corrupt data means "no saved state".
//
// # Key Types
//
//   - Store: raw blob backend (FileStore, SQLiteStore, MemoryStore)
//   - Record: typed JSON handle on one key, with fail-soft Load/Save
//   - StoreError: sentinel-comparable error (ErrCorrupt, ErrClosed, ErrInvalidKey)
//
// # Usage
//
//	st, err := storage.Open(storage.Options{Backend: "sqlite", Dir: dataDir})
//	rec := storage.NewRecord[[]Message](st, storage.HistoryKey, logger)
//	history, _ := rec.Load()
//	rec.Save(append(history, msg))
//
// # Storage Location
//
// Records are stored in ~/.aurora/data/ as <key>.json files, or in
// ~/.aurora/data/aurora.db with the sqlite backend.
package storage
