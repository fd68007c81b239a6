// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"time"

	"github.com/janderssonse/appmod/internal/catalog"
	"github.com/janderssonse/appmod/internal/detail"
	"github.com/janderssonse/appmod/internal/domain"
)

// NewTestDeps wires stores over a static source. Shuffling is disabled.
func NewTestDeps(source domain.CatalogSource) Deps {
	return Deps{
		Catalog:      catalog.NewStore(source, catalog.WithShuffle(false)),
		Details:      detail.NewStore(source),
		Presentation: detail.NewPresentation(defaultWindowTitle, "favicon.svg"),
		Interval:     time.Millisecond,
		Step:         10,
	}
}
