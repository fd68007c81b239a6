// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package application

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/janderssonse/appmod/internal/catalog"
	"github.com/janderssonse/appmod/internal/domain"
	"github.com/janderssonse/appmod/internal/logging"
	"github.com/janderssonse/appmod/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testApps() []domain.AppDetail {
	mk := func(slug, title, category, typ string) domain.AppDetail {
		return domain.AppDetail{
			AppRecord: domain.AppRecord{Slug: slug, Title: title, Category: category, Type: typ},
			Download:  []string{"https://dl.example.com/" + slug},
		}
	}

	return []domain.AppDetail{
		mk("spotify", "Spotify", "Music", "App"),
		mk("pubg", "PUBG Mobile", "Action", "Game"),
		mk("vlc", "VLC", "Video", "App"),
	}
}

func newService(src *testutil.MockCatalogSource) *BrowseService {
	return NewBrowseService(src, logging.Discard(), catalog.WithRand(rand.New(rand.NewPCG(1, 1))))
}

func TestBrowseServiceList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		criteria catalog.Criteria
		want     []string
		anyOrder bool
	}{
		{"no criteria shows the shuffled working copy", catalog.Criteria{}, []string{"spotify", "pubg", "vlc"}, true},
		{"type filter keeps fetch order", catalog.Criteria{Type: "App"}, []string{"spotify", "vlc"}, false},
		{"query", catalog.Criteria{Query: "mobile"}, []string{"pubg"}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			src := &testutil.MockCatalogSource{}
			src.On("Fetch", mock.Anything).Return(testApps(), nil).Once()

			res, err := newService(src).List(context.Background(), tc.criteria)
			require.NoError(t, err)

			got := make([]string, len(res.Apps))
			for i, a := range res.Apps {
				got[i] = a.Slug
			}

			if tc.anyOrder {
				assert.ElementsMatch(t, tc.want, got)
			} else {
				assert.Equal(t, tc.want, got)
			}

			assert.Equal(t, 3, res.Total)
			src.AssertExpectations(t)
		})
	}
}

func TestBrowseServiceListFetchFailure(t *testing.T) {
	t.Parallel()

	src := &testutil.MockCatalogSource{}
	src.On("Fetch", mock.Anything).Return(nil, domain.ErrCatalogUnavailable)

	res, err := newService(src).List(context.Background(), catalog.Criteria{Query: "x"})
	require.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	require.NotNil(t, res)
	assert.Empty(t, res.Apps)
	assert.Equal(t, 0, res.Total)
}

func TestBrowseServiceFacets(t *testing.T) {
	t.Parallel()

	src := &testutil.MockCatalogSource{}
	src.On("Fetch", mock.Anything).Return(testApps(), nil)

	res, err := newService(src).Facets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Music", "Action", "Video"}, res.Categories)
	assert.Equal(t, []string{"App", "Game"}, res.Types)
}

func TestBrowseServiceShow(t *testing.T) {
	t.Parallel()

	src := &testutil.MockCatalogSource{}
	src.On("Fetch", mock.Anything).Return(testApps(), nil)

	svc := newService(src)

	app, err := svc.Show(context.Background(), "vlc")
	require.NoError(t, err)
	assert.Equal(t, "VLC", app.Title)

	_, err = svc.Show(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrAppNotFound)
	assert.Equal(t, domain.ExitNotFoundError, domain.ExitCodeFor(err))

	src.AssertNumberOfCalls(t, "Fetch", 2)
}

func TestBrowseServiceShowFetchFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	src := &testutil.MockCatalogSource{}
	src.On("Fetch", mock.Anything).Return(nil, boom)

	_, err := newService(src).Show(context.Background(), "vlc")
	require.ErrorIs(t, err, boom)
}
