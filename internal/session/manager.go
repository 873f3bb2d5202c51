// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the chat configuration and its persistence.
package session

import (
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jeranaias/aurora-chat/internal/provider"
	"github.com/jeranaias/aurora-chat/internal/storage"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager holds the single Session instance.
// Every mutation is persisted before it returns. Exchanges read the session
// from other goroutines, so all access is serialized by mu.
type Manager struct {
	mu sync.Mutex

	current         Session
	defaultProvider string

	registry *provider.Registry
	record   *storage.Record[Session]
	log      *zap.Logger
}

// Config holds the collaborators for a Manager.
type Config struct {
	// Registry resolves provider ids. Nil accepts any provider id.
	Registry *provider.Registry

	// DefaultProvider is used for fresh sessions and unknown persisted providers.
	DefaultProvider string

	// Record persists the session. Nil keeps the session in memory only.
	Record *storage.Record[Session]

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// NewManager creates a manager holding the default session.
// Call Hydrate to pick up persisted state.
func NewManager(cfg Config) *Manager {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		current:         Defaults(cfg.DefaultProvider),
		defaultProvider: cfg.DefaultProvider,
		registry:        cfg.Registry,
		record:          cfg.Record,
		log:             log,
	}
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Hydrate loads the persisted session, or the defaults when nothing usable
// is stored. A persisted provider that no longer resolves is replaced by the
// default provider; the other fields are kept.
func (m *Manager) Hydrate() Session {
	loaded := Defaults(m.defaultProvider)
	if m.record != nil {
		if stored, found := m.record.Load(); found {
			if stored.valid() {
				loaded = stored
			} else {
				m.log.Warn("persisted session has invalid numbers, using defaults")
			}
		}
	}

	if !m.resolves(loaded.Provider) {
		if loaded.Provider != "" {
			m.log.Info("persisted provider not available, falling back",
				zap.String("provider", loaded.Provider),
				zap.String("default", m.defaultProvider))
		}
		loaded.Provider = m.defaultProvider
	}

	m.mu.Lock()
	m.current = loaded
	m.mu.Unlock()

	return loaded
}

// Update merges p into the current session, persists it and returns the
// new session. Fields not set in p keep their prior values.
func (m *Manager) Update(p Patch) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = p.Apply(m.current)
	m.persistLocked()
	return m.current
}

// Replace overwrites the whole session, as a form submit does.
// Model and key are trimmed; an empty provider becomes the default.
func (m *Manager) Replace(s Session) Session {
	s.Model = strings.TrimSpace(s.Model)
	s.APIKey = strings.TrimSpace(s.APIKey)
	s.Provider = strings.TrimSpace(s.Provider)
	if s.Provider == "" {
		s.Provider = m.defaultProvider
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = s
	m.persistLocked()
	return m.current
}

// Reset restores and persists the default session.
func (m *Manager) Reset() Session {
	return m.Replace(Defaults(m.defaultProvider))
}

// Current returns a copy of the current session.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Provider resolves the current session's provider.
func (m *Manager) Provider() (provider.Provider, bool) {
	if m.registry == nil {
		return provider.Provider{}, false
	}
	return m.registry.Resolve(m.Current().Provider)
}

// DefaultProvider returns the configured fallback provider id.
func (m *Manager) DefaultProvider() string {
	return m.defaultProvider
}

func (m *Manager) resolves(id string) bool {
	if id == "" {
		return false
	}
	if m.registry == nil {
		return true
	}
	return m.registry.Has(id)
}

func (m *Manager) persistLocked() {
	if m.record != nil {
		m.record.Save(m.current)
	}
}
