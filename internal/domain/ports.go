// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "context"

// CatalogSource fetches the static app collection.
// Implemented by adapters for local files and HTTP(S) locations.
type CatalogSource interface {
	// Fetch reads and decodes the whole collection in stored order.
	Fetch(ctx context.Context) ([]AppDetail, error)
}

// OutputPort defines the interface for presenting command results.
type OutputPort interface {
	// Success outputs a success message with optional structured data
	Success(message string, data any) error

	// Error outputs an error message
	Error(message string) error

	// Info outputs an informational message
	Info(message string) error

	// Table outputs tabular data
	Table(headers []string, rows [][]string) error

	// IsQuiet returns true if output should be suppressed
	IsQuiet() bool
}
