// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"

	"go.uber.org/zap"
)

// =============================================================================
// TYPED RECORD
// =============================================================================

// Record is a typed handle on one logical record (the session or the history).
//
// TryLoad/TrySave report failures. Load/Save are the fail-soft variants the
// UI uses: failures are logged and degrade to "no saved state" or a dropped
// write, never an error.
type Record[T any] struct {
	store Store
	key   string
	log   *zap.Logger
}

// NewRecord binds a typed record to a store key.
func NewRecord[T any](store Store, key string, log *zap.Logger) *Record[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Record[T]{
		store: store,
		key:   key,
		log:   log.With(zap.String("key", key)),
	}
}

// Key returns the store key.
func (r *Record[T]) Key() string {
	return r.key
}

// TryLoad decodes the stored value. found is false when nothing is stored.
// Undecodable data yields ErrCorrupt and the zero value.
func (r *Record[T]) TryLoad() (value T, found bool, err error) {
	var zero T

	data, found, err := r.store.Get(r.key)
	if err != nil || !found {
		return zero, false, err
	}

	if err := json.Unmarshal(data, &value); err != nil {
		return zero, false, wrapErr(ErrCorrupt, r.key, err)
	}
	return value, true, nil
}

// TrySave encodes and stores v.
func (r *Record[T]) TrySave(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.store.Put(r.key, data)
}

// Load is TryLoad with failures logged and reported as "not found".
func (r *Record[T]) Load() (T, bool) {
	value, found, err := r.TryLoad()
	if err != nil {
		r.log.Warn("failed to load record, using defaults", zap.Error(err))
		var zero T
		return zero, false
	}
	return value, found
}

// Save is TrySave with failures logged and dropped.
func (r *Record[T]) Save(v T) {
	if err := r.TrySave(v); err != nil {
		r.log.Warn("failed to persist record", zap.Error(err))
	}
}
