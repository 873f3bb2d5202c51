// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import (
	"github.com/jeranaias/aurora-chat/internal/api"
	"github.com/jeranaias/aurora-chat/internal/model"
	"github.com/jeranaias/aurora-chat/internal/provider"
	"github.com/jeranaias/aurora-chat/internal/session"
)

// BuildPayload assembles the chat request for one exchange.
//
// The API key is included only when prov is remote and a key is set. A zero
// Provider (unresolved id) is treated as non-remote.
func BuildPayload(message string, sess session.Session, prov provider.Provider, history []model.Message) api.ChatRequest {
	req := api.ChatRequest{
		Message:     message,
		History:     history,
		Provider:    sess.Provider,
		Model:       sess.Model,
		Temperature: sess.Temperature,
		TopP:        sess.TopP,
	}
	if prov.IsRemote() && sess.APIKey != "" {
		req.APIKey = sess.APIKey
	}
	if req.History == nil {
		req.History = []model.Message{}
	}
	return req
}

// trimHistory keeps the newest limit messages. limit <= 0 keeps everything.
func trimHistory(history []model.Message, limit int) []model.Message {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}
