// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package detail

import (
	"context"
	"errors"
	"testing"

	"github.com/janderssonse/appmod/internal/domain"
	"github.com/janderssonse/appmod/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func app(slug, title string) domain.AppDetail {
	return domain.AppDetail{AppRecord: domain.AppRecord{Slug: slug, Title: title}}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	apps := []domain.AppDetail{
		app("spotify", "Spotify"),
		app("dup", "First"),
		app("dup", "Second"),
	}

	tests := []struct {
		name      string
		slug      string
		wantFound bool
		wantTitle string
	}{
		{"match", "spotify", true, "Spotify"},
		{"first match wins on duplicates", "dup", true, "First"},
		{"no match", "nope", false, ""},
		{"case-sensitive", "Spotify", false, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := NewStore(&testutil.StaticSource{Apps: apps})

			res, err := store.Resolve(context.Background(), tc.slug)
			require.NoError(t, err)
			assert.Equal(t, tc.slug, res.Slug)
			assert.Equal(t, tc.wantFound, res.Found)

			if tc.wantFound {
				require.NotNil(t, res.App)
				assert.Equal(t, tc.wantTitle, res.App.Title)
			} else {
				assert.Nil(t, res.App)
			}
		})
	}
}

func TestResolveFetchesEveryTime(t *testing.T) {
	t.Parallel()

	src := &testutil.StaticSource{Apps: []domain.AppDetail{app("a", "A")}}
	store := NewStore(src)

	for range 3 {
		_, err := store.Resolve(context.Background(), "a")
		require.NoError(t, err)
	}

	assert.Equal(t, 3, src.Calls())
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	store := NewStore(&testutil.StaticSource{Err: boom})

	res, err := store.Resolve(context.Background(), "a")
	require.ErrorIs(t, err, boom)
	assert.False(t, res.Found)

	_, err = store.Resolve(context.Background(), "")
	require.ErrorIs(t, err, domain.ErrEmptySlug)
}

func TestFindReturnsCopy(t *testing.T) {
	t.Parallel()

	apps := []domain.AppDetail{app("a", "A")}

	found, ok := Find(apps, "a")
	require.True(t, ok)

	found.Title = "changed"
	assert.Equal(t, "A", apps[0].Title)
}
