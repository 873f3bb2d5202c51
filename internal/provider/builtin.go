// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import "os"

// BuiltinOptions tweaks the stock catalogue.
type BuiltinOptions struct {
	// AllowOllama adds the local Ollama provider.
	AllowOllama bool

	// Getenv looks up default-model overrides. Defaults to os.Getenv.
	Getenv func(string) string
}

// DefaultProviderID is the provider selected when nothing else is configured.
const DefaultProviderID = "openrouter"

// Builtin returns the stock provider catalogue. Remote entries are all served
// through OpenRouter and share the session API key.
func Builtin(opts BuiltinOptions) []Provider {
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	model := func(key, def string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return def
	}

	providers := []Provider{
		{
			ID:           "openrouter",
			Label:        "OpenRouter",
			Type:         TypeRemote,
			DefaultModel: model("OPENROUTER_DEFAULT_MODEL", "x-ai/grok-4-fast:free"),
			Description:  "Use any OpenRouter-compatible model by providing your OpenRouter API key.",
		},
		{
			ID:           "gemini",
			Label:        "Gemini via OpenRouter",
			Type:         TypeRemote,
			DefaultModel: model("GEMINI_DEFAULT_MODEL", "google/gemini-pro-1.5"),
			Description:  "Gemini access proxied through OpenRouter. Requires an OpenRouter key.",
		},
		{
			ID:           "claude",
			Label:        "Claude via OpenRouter",
			Type:         TypeRemote,
			DefaultModel: model("CLAUDE_DEFAULT_MODEL", "anthropic/claude-3.5-sonnet"),
			Description:  "Claude models served through OpenRouter with the same API key.",
		},
		{
			ID:           "qwen",
			Label:        "Qwen via OpenRouter",
			Type:         TypeRemote,
			DefaultModel: model("QWEN_DEFAULT_MODEL", "qwen/qwen2.5-7b-instruct"),
			Description:  "Qwen models via OpenRouter for multilingual tasks.",
		},
	}

	if opts.AllowOllama {
		providers = append(providers, Provider{
			ID:           "ollama",
			Label:        "Ollama (Local)",
			Type:         TypeLocal,
			DefaultModel: model("OLLAMA_DEFAULT_MODEL", "llama3"),
			Description:  "Use any model available in your local Ollama installation.",
		})
	}

	return providers
}
