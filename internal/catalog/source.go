// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/janderssonse/appmod/internal/adapters/network"
	"github.com/janderssonse/appmod/internal/domain"
)

// NewSource returns an HTTP source for http(s) locations and a file source otherwise.
func NewSource(location string, client *network.HTTPClient) domain.CatalogSource {
	if IsRemote(location) {
		return &HTTPSource{URL: location, Client: client}
	}

	return &FileSource{Path: location}
}

// IsRemote reports whether location would be fetched over the network.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// FileSource reads the collection from a JSON file on disk.
type FileSource struct {
	Path string
}

// Fetch reads and decodes the file.
func (s *FileSource) Fetch(ctx context.Context) ([]domain.AppDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	// #nosec G304 -- the catalog path is operator configuration
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	var apps []domain.AppDetail
	if err := json.Unmarshal(data, &apps); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrCatalogUnavailable, s.Path, err)
	}

	return apps, nil
}

// HTTPSource fetches the collection with a single GET.
type HTTPSource struct {
	URL    string
	Client *network.HTTPClient
}

// Fetch downloads and decodes the collection.
func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.AppDetail, error) {
	client := s.Client
	if client == nil {
		client = network.NewHTTPClient(0)
	}

	var apps []domain.AppDetail
	if err := client.GetJSON(ctx, s.URL, &apps); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	return apps, nil
}
