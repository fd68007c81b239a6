// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

// Package stringutil provides string utility functions for appmod.
package stringutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
)

// ContainsFold checks if text contains substr using Unicode case folding.
// An empty substr always matches.
func ContainsFold(text, substr string) bool {
	if substr == "" {
		return true
	}

	folder := cases.Fold()

	return strings.Contains(folder.String(text), folder.String(substr))
}

// AnyContainsFold reports whether any of fields contains substr, case-insensitively.
func AnyContainsFold(substr string, fields ...string) bool {
	if substr == "" {
		return true
	}

	needle := cases.Fold().String(substr)

	for _, field := range fields {
		if strings.Contains(cases.Fold().String(field), needle) {
			return true
		}
	}

	return false
}

// Truncate shortens s to at most width terminal cells, adding an ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}

	return runewidth.Truncate(s, width, "…")
}

// PadRight pads s with spaces to exactly width terminal cells, truncating if longer.
func PadRight(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// Width returns the number of terminal cells s occupies.
func Width(s string) int {
	return runewidth.StringWidth(s)
}
