// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"sync"

	"github.com/jeranaias/aurora-chat/internal/storage"
)

// =============================================================================
// CONVERSATION LOG
// =============================================================================

// Log is the ordered, append-only conversation history.
//
// Insertion order is chronological order. The whole sequence is persisted
// after every mutation, under the same lock as the mutation, so the stored
// history always matches the last in-memory state. Exchanges run on their
// own goroutines, so every access goes through the mutex.
type Log struct {
	mu       sync.RWMutex
	messages []Message
	record   *storage.Record[[]Message]
}

// NewLog creates an empty log persisted through record.
// A nil record keeps the log in memory only.
func NewLog(record *storage.Record[[]Message]) *Log {
	return &Log{
		messages: make([]Message, 0),
		record:   record,
	}
}

// Hydrate replaces the in-memory log with the persisted history.
// Entries with unknown roles are dropped; absent or corrupt data yields an empty log.
func (l *Log) Hydrate() []Message {
	var stored []Message
	if l.record != nil {
		stored, _ = l.record.Load()
	}

	valid := make([]Message, 0, len(stored))
	for _, msg := range stored {
		if msg.Role.Valid() {
			valid = append(valid, msg)
		}
	}

	l.mu.Lock()
	l.messages = valid
	l.mu.Unlock()

	return l.All()
}

// Append pushes a message and persists the entire sequence.
func (l *Log) Append(msg Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, msg)
	l.persistLocked()
}

// Clear resets the log to an empty sequence and persists it.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = make([]Message, 0)
	l.persistLocked()
}

// All returns a copy of the full history in chronological order.
func (l *Log) All() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

// Len returns the number of messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// Last returns the newest n messages (all of them when n <= 0).
func (l *Log) Last(n int) []Message {
	all := l.All()
	if n <= 0 || n >= len(all) {
		return all
	}
	return all[len(all)-n:]
}

func (l *Log) snapshotLocked() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// persistLocked writes the current sequence. Callers hold l.mu for writing.
func (l *Log) persistLocked() {
	if l.record != nil {
		l.record.Save(l.snapshotLocked())
	}
}
