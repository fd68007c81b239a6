// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const defaultWrap = 80

// RenderMarkdown renders md for the terminal, wrapped at width.
// It falls back to the raw text when rendering fails.
func RenderMarkdown(md string, width int) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}

	if width <= 0 || width > defaultWrap {
		width = defaultWrap
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Fallback to basic renderer
		renderer, err = glamour.NewTermRenderer()
		if err != nil {
			return md
		}
	}

	out, err := renderer.Render(md)
	if err != nil {
		return md
	}

	return strings.TrimRight(out, "\n")
}
