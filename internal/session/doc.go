// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the process-wide access token.
//
// The token lives in memory only. It is set by Login, cleared by Logout,
// and optionally seeded from the PONY_TOKEN environment variable at
// startup. Views never see the Store directly; they receive it as the
// Credentials interface and ask for the current bearer value on each
// request.
//
// # Claims
//
// Access tokens issued by the chat service are JWTs. The claims are read
// without verifying the signature (the server does that) to learn the
// user id and the expiry. An expired token is reported as absent. Tokens
// that are not JWTs are accepted as opaque strings.
package session
