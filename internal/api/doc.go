// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the Pony Express chat service.
//
// Client.Request is the raw fetch primitive: it resolves a path against the
// configured base URL, attaches an optional bearer credential and returns
// the status and body uninterpreted. A network failure is an error wrapping
// ErrTransport; a non-2xx status is a successful Response.
//
// The typed endpoint methods (Token, Chats, Messages, CreateMessage, ...)
// build on Request, decode into the explicit types of package model and
// validate them. Non-2xx statuses become *AuthError (401) or *StatusError.
//
// # Resilience
//
//   - Requests are paced by a token bucket (golang.org/x/time/rate).
//   - A circuit breaker (sony/gobreaker) opens after consecutive transport
//     failures; while open, requests fail fast with ErrCircuitOpen.
//   - Response bodies are capped at MaxResponseSize.
//
// Nothing is retried automatically.
package api
