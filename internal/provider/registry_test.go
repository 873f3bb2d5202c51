// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"errors"
	"testing"
)

func testCatalogue() []Provider {
	return []Provider{
		{ID: "openrouter", Label: "OpenRouter", Type: TypeRemote, DefaultModel: "gpt-x"},
		{ID: "ollama", Label: "Ollama", Type: TypeLocal, DefaultModel: "llama3"},
	}
}

func TestNewRegistry_Resolve(t *testing.T) {
	r, err := NewRegistry(testCatalogue())
	if err != nil {
		t.Fatalf("NewRegistry failed: %v", err)
	}

	p, ok := r.Resolve("openrouter")
	if !ok {
		t.Fatal("openrouter should resolve")
	}
	if p.Label != "OpenRouter" {
		t.Errorf("Label = %q, want OpenRouter", p.Label)
	}

	if _, ok := r.Resolve("missing"); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestNewRegistry_Rejects(t *testing.T) {
	tests := []struct {
		name string
		in   []Provider
		want error
	}{
		{"empty id", []Provider{{ID: " ", Type: TypeRemote}}, ErrInvalidProvider},
		{"bad type", []Provider{{ID: "x", Type: "cloud"}}, ErrInvalidProvider},
		{"duplicate", []Provider{{ID: "x", Type: TypeRemote}, {ID: "x", Type: TypeLocal}}, ErrDuplicateProvider},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRegistry(tc.in)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestRegistry_TypeQueries(t *testing.T) {
	r, _ := NewRegistry(testCatalogue())

	if !r.IsRemote("openrouter") || r.IsLocal("openrouter") {
		t.Error("openrouter should be remote")
	}
	if !r.IsLocal("ollama") || r.IsRemote("ollama") {
		t.Error("ollama should be local")
	}
	if r.IsRemote("missing") || r.IsLocal("missing") {
		t.Error("unknown provider should be neither local nor remote")
	}
}

func TestRegistry_StaticDefaultModel(t *testing.T) {
	r, _ := NewRegistry(testCatalogue())

	if m, ok := r.StaticDefaultModel("openrouter"); !ok || m != "gpt-x" {
		t.Errorf("StaticDefaultModel(openrouter) = %q, %v", m, ok)
	}
	if _, ok := r.StaticDefaultModel("ollama"); ok {
		t.Error("local providers have no static default")
	}
	if _, ok := r.StaticDefaultModel("missing"); ok {
		t.Error("unknown providers have no static default")
	}
}

func TestRegistry_ListPreservesOrder(t *testing.T) {
	r, _ := NewRegistry(testCatalogue())

	ids := r.IDs()
	if len(ids) != 2 || ids[0] != "openrouter" || ids[1] != "ollama" {
		t.Errorf("IDs = %v", ids)
	}
	if r.Len() != 2 {
		t.Errorf("Len = %d, want 2", r.Len())
	}
}

func TestBuiltin(t *testing.T) {
	env := map[string]string{"CLAUDE_DEFAULT_MODEL": "anthropic/claude-sonnet-4"}
	getenv := func(k string) string { return env[k] }

	withoutOllama := Builtin(BuiltinOptions{Getenv: getenv})
	if len(withoutOllama) != 4 {
		t.Fatalf("got %d providers, want 4", len(withoutOllama))
	}

	all := Builtin(BuiltinOptions{AllowOllama: true, Getenv: getenv})
	r, err := NewRegistry(all)
	if err != nil {
		t.Fatalf("builtin catalogue should be valid: %v", err)
	}
	if !r.IsLocal("ollama") {
		t.Error("ollama should be registered as local")
	}
	if m, _ := r.StaticDefaultModel("claude"); m != "anthropic/claude-sonnet-4" {
		t.Errorf("env override not applied, got %q", m)
	}
	if !r.Has(DefaultProviderID) {
		t.Errorf("default provider %q missing from catalogue", DefaultProviderID)
	}
}
