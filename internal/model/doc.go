// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures exchanged with the chat service.
//
// Every endpoint decodes into an explicit type instead of an untyped JSON
// map, and every decoded value is validated once at the client boundary so
// views can rely on the fields being present.
//
// # Key Types
//
//   - Chat, Message, User: service entities
//   - ChatsEnvelope, ChatEnvelope, MessagesEnvelope, UserEnvelope: response shapes
//   - Token: access token returned by /auth/token
//   - Registration: request body for /auth/registration
//   - ID: identifier that accepts both JSON numbers and strings
//   - Timestamp: time that accepts offsets or naive UTC timestamps
package model
