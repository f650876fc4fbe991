// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/jeranaias/pony-tui/internal/ui/styles"
	"github.com/jeranaias/pony-tui/internal/util"
)

// ErrorLine renders message on a single line, truncated to width when
// width > 0. The message text itself is never altered otherwise.
func ErrorLine(theme *styles.Theme, message string, width int) string {
	if message == "" {
		return ""
	}
	if width > 0 {
		message = util.Truncate(message, width)
	}
	return theme.ErrorLine.Render(message)
}
