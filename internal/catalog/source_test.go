// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/janderssonse/appmod/internal/adapters/network"
	"github.com/janderssonse/appmod/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoApps = `[
  {"title": "Spotify", "slug": "spotify", "category": "Music", "type": "App", "download": ["https://dl/1"]},
  {"title": "PUBG", "slug": "pubg", "category": "Action", "type": "Game"}
]`

func TestNewSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		location string
		remote   bool
	}{
		{"https://example.com/app.json", true},
		{"http://localhost:8080/app.json", true},
		{"databases/app.json", false},
		{"/abs/path/app.json", false},
		{"httpdocs/app.json", false},
	}

	for _, tc := range tests {
		src := NewSource(tc.location, nil)

		_, isHTTP := src.(*HTTPSource)
		assert.Equal(t, tc.remote, isHTTP, tc.location)
		assert.Equal(t, tc.remote, IsRemote(tc.location), tc.location)
	}
}

func TestFileSourceFetch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "app.json")
	require.NoError(t, os.WriteFile(path, []byte(twoApps), 0o600))

	apps, err := (&FileSource{Path: path}).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "spotify", apps[0].Slug)
	assert.Equal(t, []string{"https://dl/1"}, apps[0].Download)
}

func TestFileSourceErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"not": "an array"}`), 0o600))

	_, err := (&FileSource{Path: filepath.Join(dir, "missing.json")}).Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrCatalogUnavailable)

	_, err = (&FileSource{Path: bad}).Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrCatalogUnavailable)
}

func TestHTTPSourceFetch(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(twoApps))
	}))
	defer srv.Close()

	src := NewSource(srv.URL, network.NewHTTPClient(5*time.Second))

	apps, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, apps, 2)
}

func TestHTTPSourceFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewSource(srv.URL, nil).Fetch(context.Background())
	require.ErrorIs(t, err, domain.ErrCatalogUnavailable)
	require.ErrorIs(t, err, network.ErrUnexpectedStatus)
}
