// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

// Package application composes the catalog and detail stores into the
// operations exposed by the command line.
package application

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/janderssonse/appmod/internal/catalog"
	"github.com/janderssonse/appmod/internal/detail"
	"github.com/janderssonse/appmod/internal/domain"
)

// ListResult is the outcome of one list derivation.
type ListResult struct {
	Criteria catalog.Criteria   `json:"criteria"`
	Total    int                `json:"total"`
	Apps     []domain.AppRecord `json:"apps"`
}

// FacetsResult holds the selectable filter values.
type FacetsResult struct {
	Categories []string `json:"categories"`
	Types      []string `json:"types"`
}

// BrowseService answers list, facet and detail queries.
type BrowseService struct {
	catalog *catalog.Store
	details *detail.Store
	logger  *log.Logger
}

// NewBrowseService creates a service over source.
func NewBrowseService(source domain.CatalogSource, logger *log.Logger, opts ...catalog.Option) *BrowseService {
	return &BrowseService{
		catalog: catalog.NewStore(source, opts...),
		details: detail.NewStore(source),
		logger:  logger,
	}
}

// List loads the catalog and applies criteria. On fetch failure the result is
// empty and the error is returned alongside it.
func (s *BrowseService) List(ctx context.Context, criteria catalog.Criteria) (*ListResult, error) {
	snap, err := s.catalog.Load(ctx)
	if err != nil {
		s.logger.Error("catalog fetch failed", "err", err)
	}

	apps := snap.Initial()
	if !criteria.IsZero() {
		apps = snap.View(criteria)
	}
	s.logger.Debug("list derived", "total", snap.Len(), "visible", len(apps), "query", criteria.Query)

	return &ListResult{
		Criteria: criteria,
		Total:    snap.Len(),
		Apps:     apps,
	}, err
}

// Facets loads the catalog and returns its distinct categories and types.
func (s *BrowseService) Facets(ctx context.Context) (*FacetsResult, error) {
	snap, err := s.catalog.Load(ctx)
	if err != nil {
		s.logger.Error("catalog fetch failed", "err", err)
	}

	return &FacetsResult{Categories: snap.Categories, Types: snap.Types}, err
}

// Show resolves one app by slug.
func (s *BrowseService) Show(ctx context.Context, slug string) (*domain.AppDetail, error) {
	res, err := s.details.Resolve(ctx, slug)
	if err != nil {
		s.logger.Error("detail fetch failed", "slug", slug, "err", err)

		return nil, err
	}

	if !res.Found {
		return nil, fmt.Errorf("%w: %s", domain.ErrAppNotFound, slug)
	}

	return res.App, nil
}
