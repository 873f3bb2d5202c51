// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides local key-value persistence for aurora.
package storage

import (
	"fmt"
	"regexp"
	"strings"
)

// =============================================================================
// RECORD KEYS
// =============================================================================

const (
	// SessionKey holds the JSON-serialized session configuration.
	SessionKey = "aurora-chat-session"

	// HistoryKey holds the JSON-serialized conversation history.
	HistoryKey = "aurora-chat-history"
)

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Store is a durable key-value store of opaque JSON blobs.
//
// Implementations report every failure to the caller. The fail-soft
// behaviour the UI relies on lives in Record, not in the backends.
type Store interface {
	// Get returns the blob stored under key. found is false when the key is absent.
	Get(key string) (data []byte, found bool, err error)

	// Put overwrites the blob stored under key.
	Put(key string, data []byte) error

	// Close releases backend resources.
	Close() error
}

// =============================================================================
// BACKEND SELECTION
// =============================================================================

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	// Backend is one of BackendFile, BackendSQLite, BackendMemory.
	Backend string

	// Dir is the data directory for file and sqlite backends.
	Dir string
}

// Open creates the backend named in opts.
func Open(opts Options) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendFile:
		return NewFileStore(opts.Dir)
	case BackendSQLite:
		return NewSQLiteStore(sqlitePath(opts.Dir))
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrCorrupt is returned when a stored blob cannot be decoded.
// Use errors.Is(err, ErrCorrupt) to check for this error.
var ErrCorrupt = &StoreError{Message: "stored record is corrupt"}

// ErrClosed is returned by operations on a closed store.
var ErrClosed = &StoreError{Message: "store is closed"}

// ErrInvalidKey is returned for keys that cannot be mapped to a backend location.
var ErrInvalidKey = &StoreError{Message: "invalid record key"}

// StoreError represents a storage-related error.
// It wraps an optional cause and compares by message with errors.Is.
type StoreError struct {
	Message string
	Key     string
	Cause   error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	msg := e.Message
	if e.Key != "" {
		msg += " (" + e.Key + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

func wrapErr(sentinel *StoreError, key string, cause error) error {
	return &StoreError{Message: sentinel.Message, Key: key, Cause: cause}
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) || strings.Trim(key, ".") == "" {
		return wrapErr(ErrInvalidKey, key, nil)
	}
	return nil
}
