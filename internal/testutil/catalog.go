// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

// Package testutil provides catalog fixtures and source doubles for tests.
package testutil

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/janderssonse/appmod/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockCatalogSource mocks the CatalogSource port for testing.
type MockCatalogSource struct {
	mock.Mock
}

// Fetch mocks a catalog fetch.
func (m *MockCatalogSource) Fetch(ctx context.Context) ([]domain.AppDetail, error) {
	args := m.Called(ctx)

	apps, ok := args.Get(0).([]domain.AppDetail)
	if !ok {
		return nil, args.Error(1)
	}

	return apps, args.Error(1)
}

// StaticSource serves a fixed collection, or Err when set, and counts fetches.
type StaticSource struct {
	Apps []domain.AppDetail
	Err  error

	calls atomic.Int64
}

// Fetch returns the fixed collection.
func (s *StaticSource) Fetch(ctx context.Context) ([]domain.AppDetail, error) {
	s.calls.Add(1)

	if s.Err != nil {
		return nil, s.Err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return s.Apps, nil
}

// Calls returns how many times Fetch ran.
func (s *StaticSource) Calls() int {
	return int(s.calls.Load())
}

// NewApp creates a minimal catalog entry.
func NewApp(slug, title, category, typ string) domain.AppDetail {
	return domain.AppDetail{
		AppRecord: domain.AppRecord{
			Slug:     slug,
			Title:    title,
			Category: category,
			Type:     typ,
		},
	}
}

// SampleCatalog returns three complete entries: two games and one app.
func SampleCatalog() []domain.AppDetail {
	return []domain.AppDetail{
		{
			AppRecord: domain.AppRecord{
				Title: "Subway Runner", ShortDescription: "Endless runner", LongDescription: "Run **fast**.",
				Date: "2024-05-01", Slug: "subway-runner", Category: "Arcade", Type: "game", Version: "3.1",
			},
			Features: []string{"Unlimited Coins"},
			Size:     "150 MB",
			Download: []string{"https://dl.example.com/subway-1.apk", "https://dl.example.com/subway-2.apk"},
		},
		{
			AppRecord: domain.AppRecord{
				Title: "Photo Studio", ShortDescription: "Edit photos", LongDescription: "Filters and layers.",
				Date: "2024-04-11", Slug: "photo-studio", Category: "Photography", Type: "app", Version: "9.0",
			},
			Features: []string{"Pro Unlocked"},
			Download: []string{"https://dl.example.com/photo.apk"},
		},
		{
			AppRecord: domain.AppRecord{
				Title: "Chess Master", ShortDescription: "Classic chess", LongDescription: "Play against the engine.",
				Date: "2024-03-20", Slug: "chess-master", Category: "Board", Type: "game", Version: "1.4",
			},
		},
	}
}

// Slugs projects records to their slugs, keeping order.
func Slugs(records []domain.AppRecord) []string {
	out := make([]string, len(records))
	for i := range records {
		out[i] = records[i].Slug
	}

	return out
}

// WaitWithTimeout polls fn until it returns true or timeout passes.
func WaitWithTimeout(fn func() bool, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return true
		}

		time.Sleep(10 * time.Millisecond)
	}

	return false
}
