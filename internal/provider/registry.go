// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider holds the static catalogue of chat providers.
package provider

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// PROVIDER TYPE
// =============================================================================

// Type distinguishes providers running on the user's machine from hosted ones.
type Type string

const (
	// TypeLocal providers run on the user's host (e.g. Ollama) and never receive API keys.
	TypeLocal Type = "local"
	// TypeRemote providers are hosted and authenticate with the session API key.
	TypeRemote Type = "remote"
)

// Valid reports whether t is a known provider type.
func (t Type) Valid() bool {
	return t == TypeLocal || t == TypeRemote
}

// Provider describes one selectable chat provider. Immutable once registered.
type Provider struct {
	ID           string `json:"id" toml:"id"`
	Label        string `json:"label" toml:"label"`
	Description  string `json:"description" toml:"description"`
	Type         Type   `json:"type" toml:"type"`
	DefaultModel string `json:"default_model" toml:"default_model"`
}

// IsLocal reports whether the provider runs on the user's host.
func (p Provider) IsLocal() bool { return p.Type == TypeLocal }

// IsRemote reports whether the provider is hosted and takes an API key.
func (p Provider) IsRemote() bool { return p.Type == TypeRemote }

// =============================================================================
// REGISTRY
// =============================================================================

// ErrDuplicateProvider is returned when two catalogue entries share an id.
var ErrDuplicateProvider = errors.New("provider already registered")

// ErrInvalidProvider is returned for entries with an empty id or unknown type.
var ErrInvalidProvider = errors.New("invalid provider")

// Registry is an id-indexed, read-only view of the provider catalogue.
// It is built once and never mutated, so it is safe for concurrent use.
type Registry struct {
	byID  map[string]Provider
	order []string
}

// NewRegistry builds a registry from a static list, preserving list order.
func NewRegistry(providers []Provider) (*Registry, error) {
	r := &Registry{
		byID:  make(map[string]Provider, len(providers)),
		order: make([]string, 0, len(providers)),
	}

	for _, p := range providers {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, fmt.Errorf("%w: empty id", ErrInvalidProvider)
		}
		if !p.Type.Valid() {
			return nil, fmt.Errorf("%w: %s has type %q, want %q or %q", ErrInvalidProvider, p.ID, p.Type, TypeLocal, TypeRemote)
		}
		if _, exists := r.byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProvider, p.ID)
		}
		if p.Label == "" {
			p.Label = p.ID
		}
		r.byID[p.ID] = p
		r.order = append(r.order, p.ID)
	}

	return r, nil
}

// Resolve looks up a provider by id.
func (r *Registry) Resolve(id string) (Provider, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// IsRemote reports whether id resolves to a remote provider.
// Unknown ids are not remote.
func (r *Registry) IsRemote(id string) bool {
	p, ok := r.byID[id]
	return ok && p.IsRemote()
}

// IsLocal reports whether id resolves to a local provider.
func (r *Registry) IsLocal(id string) bool {
	p, ok := r.byID[id]
	return ok && p.IsLocal()
}

// StaticDefaultModel returns the catalogue default model for a non-local provider.
// Local providers report false: their default comes from the model-listing query.
func (r *Registry) StaticDefaultModel(id string) (string, bool) {
	p, ok := r.byID[id]
	if !ok || p.IsLocal() {
		return "", false
	}
	return p.DefaultModel, true
}

// List returns providers in catalogue order.
func (r *Registry) List() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

// IDs returns provider ids in catalogue order.
func (r *Registry) IDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	return len(r.order)
}
