// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the UI and CLI.
//
// # Key Functions
//
//   - Truncate: display-width aware truncation with an ellipsis
//   - PadRight: display-width aware padding for list columns
//   - AtomicWriteFile: temp file plus rename, used for the config file
package util
