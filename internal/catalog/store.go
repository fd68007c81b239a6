// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

// Package catalog loads the app collection and derives the filtered list.
package catalog

import (
	"context"
	"math/rand/v2"
	"slices"

	"github.com/janderssonse/appmod/internal/domain"
)

// Snapshot is the state of one list mount.
type Snapshot struct {
	// Original is the collection in fetch order. Never modified.
	Original []domain.AppRecord
	// Working is a shuffled copy of Original.
	Working []domain.AppRecord
	// Categories and Types are the selectable facet values.
	Categories []string
	Types      []string
}

// EmptySnapshot is the state a list shows when the fetch failed.
func EmptySnapshot() *Snapshot {
	return &Snapshot{
		Original:   []domain.AppRecord{},
		Working:    []domain.AppRecord{},
		Categories: []string{},
		Types:      []string{},
	}
}

// Initial is the list shown right after a mount, before any filter input.
func (s *Snapshot) Initial() []domain.AppRecord {
	return slices.Clone(s.Working)
}

// View derives the visible list for c once the user has touched a filter.
//
// With an empty query the result is drawn from Original, so clearing the
// search box shows fetch order rather than the shuffled order.
func (s *Snapshot) View(c Criteria) []domain.AppRecord {
	if c.Query == "" {
		return Filter(s.Original, c)
	}

	return Filter(s.Working, c)
}

// Len returns the number of records in the collection.
func (s *Snapshot) Len() int {
	return len(s.Original)
}

// Store loads snapshots from a source.
type Store struct {
	source  domain.CatalogSource
	rng     *rand.Rand
	shuffle bool
}

// Option configures a Store.
type Option func(*Store)

// WithRand makes the shuffle deterministic.
func WithRand(rng *rand.Rand) Option {
	return func(s *Store) {
		s.rng = rng
	}
}

// WithShuffle enables or disables shuffling of the working copy.
func WithShuffle(enabled bool) Option {
	return func(s *Store) {
		s.shuffle = enabled
	}
}

// NewStore creates a Store reading from source.
func NewStore(source domain.CatalogSource, opts ...Option) *Store {
	s := &Store{source: source, shuffle: true}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load fetches the collection once and builds a fresh snapshot.
// On error the returned snapshot is empty and usable.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	details, err := s.source.Fetch(ctx)
	if err != nil {
		return EmptySnapshot(), err
	}

	original := domain.Records(details)
	working := slices.Clone(original)

	if s.shuffle {
		Shuffle(working, s.rng)
	}

	categories, types := Facets(original)

	return &Snapshot{
		Original:   original,
		Working:    working,
		Categories: categories,
		Types:      types,
	}, nil
}
