// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type sample struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// failingStore fails every operation.
type failingStore struct{ err error }

func (f failingStore) Get(string) ([]byte, bool, error) { return nil, false, f.err }
func (f failingStore) Put(string, []byte) error         { return f.err }
func (f failingStore) Close() error                     { return nil }

func TestRecord_RoundTrip(t *testing.T) {
	rec := NewRecord[sample](NewMemoryStore(), SessionKey, nil)

	_, found := rec.Load()
	assert.False(t, found)

	want := sample{Name: "temperature", Value: 0.7}
	rec.Save(want)

	got, found := rec.Load()
	require.True(t, found)
	assert.Equal(t, want, got)
}

func TestRecord_CorruptDataIsNotFound(t *testing.T) {
	st := NewMemoryStore()
	require.NoError(t, st.Put(HistoryKey, []byte(`{not json`)))

	core, logs := observer.New(zap.WarnLevel)
	rec := NewRecord[[]sample](st, HistoryKey, zap.New(core))

	_, _, err := rec.TryLoad()
	assert.True(t, errors.Is(err, ErrCorrupt))

	got, found := rec.Load()
	assert.False(t, found)
	assert.Nil(t, got)
	assert.Equal(t, 1, logs.Len())
}

func TestRecord_SaveFailureIsSwallowed(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	rec := NewRecord[sample](failingStore{err: errors.New("quota exceeded")}, SessionKey, zap.New(core))

	assert.NotPanics(t, func() { rec.Save(sample{Name: "x"}) })
	assert.Error(t, rec.TrySave(sample{Name: "x"}))
	assert.Equal(t, 1, logs.FilterMessage("failed to persist record").Len())

	_, found := rec.Load()
	assert.False(t, found)
}
