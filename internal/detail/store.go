// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

// Package detail resolves a single app by slug and manages the page
// presentation (title, icon and social preview metadata) derived from it.
package detail

import (
	"context"
	"fmt"

	"github.com/janderssonse/appmod/internal/domain"
)

// Result is the outcome of one resolution.
type Result struct {
	Slug  string
	App   *domain.AppDetail
	Found bool
}

// Store resolves records by slug. It shares no state with the catalog list.
type Store struct {
	source domain.CatalogSource
}

// NewStore creates a Store reading from source.
func NewStore(source domain.CatalogSource) *Store {
	return &Store{source: source}
}

// Resolve fetches the collection and returns the first record whose slug matches.
// A missing record is reported through Result.Found, not as an error.
func (s *Store) Resolve(ctx context.Context, slug string) (Result, error) {
	result := Result{Slug: slug}

	if slug == "" {
		return result, domain.ErrEmptySlug
	}

	apps, err := s.source.Fetch(ctx)
	if err != nil {
		return result, fmt.Errorf("resolve %q: %w", slug, err)
	}

	result.App, result.Found = Find(apps, slug)

	return result, nil
}

// Find returns a copy of the first record with the given slug.
func Find(apps []domain.AppDetail, slug string) (*domain.AppDetail, bool) {
	for i := range apps {
		if apps[i].Slug == slug {
			app := apps[i]

			return &app, true
		}
	}

	return nil, false
}
