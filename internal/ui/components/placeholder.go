// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/pony-tui/internal/ui/styles"
)

// LoadingText is shown in place of absent data.
const LoadingText = "loading..."

// Placeholder renders n loading rows.
func Placeholder(theme *styles.Theme, n int) string {
	if n < 1 {
		n = 1
	}
	rows := make([]string, n)
	for i := range rows {
		rows[i] = theme.Placeholder.Render(LoadingText)
	}
	return strings.Join(rows, "\n")
}
