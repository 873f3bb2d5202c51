// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the conversation log and the message type it holds.
//
// The log is the source of truth for what is rendered and for what is sent
// upstream: every chat request carries the entire history, since the backend
// is stateless per request.
//
// # Key Types
//
//   - Message: one exchanged message ({role, content}), immutable once created
//   - Role: message sender (user, assistant)
//   - Log: ordered, mutex-protected history persisted after every mutation
//
// # Usage
//
//	rec := storage.NewRecord[[]model.Message](st, storage.HistoryKey, logger)
//	log := model.NewLog(rec)
//	log.Hydrate()
//	log.Append(model.NewUserMessage("hi"))
//	payloadHistory := log.All()
package model
