// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"

	"github.com/jeranaias/aurora-chat/internal/model"
	"github.com/jeranaias/aurora-chat/internal/provider"
)

// =============================================================================
// CHAT TYPES
// =============================================================================

// ChatRequest is the body of POST {base}/chat.
// APIKey is omitted from the wire when empty; the payload builder leaves it
// empty for anything but remote providers.
type ChatRequest struct {
	Message     string          `json:"message"`
	History     []model.Message `json:"history"`
	Provider    string          `json:"provider"`
	Model       string          `json:"model"`
	Temperature float64         `json:"temperature"`
	TopP        float64         `json:"top_p"`
	APIKey      string          `json:"api_key,omitempty"`
}

// ChatResponse is the body returned by the chat endpoint.
// Exactly one of Message and Error is expected to be set.
type ChatResponse struct {
	Message *string `json:"message,omitempty"`
	Error   string  `json:"error,omitempty"`

	// Usage is provider-specific (a token object for remote providers, an
	// eval count for local ones) and is passed through untouched.
	Usage json.RawMessage `json:"usage,omitempty"`
}

// Text returns the reply, or "No response" when the backend sent none.
func (r *ChatResponse) Text() string {
	if r == nil || r.Message == nil {
		return NoResponse
	}
	return *r.Message
}

// NoResponse is the reply text used when the backend omits the message.
const NoResponse = "No response"

// =============================================================================
// MODEL LISTING
// =============================================================================

// ModelsResponse is the body returned by GET {base}/models.
type ModelsResponse struct {
	Models []string `json:"models"`
	Error  string   `json:"error,omitempty"`
}

// =============================================================================
// REMOTE CONFIG
// =============================================================================

// RemoteConfig is the startup configuration served at GET {base}/config.
type RemoteConfig struct {
	APIBaseURL         string              `json:"API_BASE_URL"`
	DefaultProvider    string              `json:"DEFAULT_PROVIDER"`
	AvailableProviders []provider.Provider `json:"AVAILABLE_PROVIDERS"`
}

// errorBody decodes only the error field of any response.
type errorBody struct {
	Error string `json:"error"`
}
