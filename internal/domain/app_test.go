// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/janderssonse/appmod/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleEntry = `{
  "icon": "https://cdn.example.com/spotify.png",
  "title": "Spotify",
  "shortDescription": "Music for everyone",
  "longDescription": "Stream **millions** of songs.",
  "date": "2024-05-01",
  "slug": "spotify",
  "category": "Music",
  "type": "App",
  "version": "8.9.1",
  "banner": "https://cdn.example.com/spotify-banner.png",
  "images": ["a.png", "b.png"],
  "features": ["Premium Unlocked", "No Ads"],
  "size": "60 MB",
  "price": "Free",
  "developer": "Spotify AB",
  "download": ["https://dl.example.com/1", "https://dl.example.com/2"],
  "minVersion": "Android 5.0",
  "package": "com.spotify.music"
}`

func TestAppDetailDecodesFlatJSON(t *testing.T) {
	t.Parallel()

	var app domain.AppDetail
	require.NoError(t, json.Unmarshal([]byte(sampleEntry), &app))

	assert.Equal(t, "Spotify", app.Title)
	assert.Equal(t, "spotify", app.Slug)
	assert.Equal(t, "Music", app.Category)
	assert.Equal(t, []string{"a.png", "b.png"}, app.Images)
	assert.Equal(t, []string{"https://dl.example.com/1", "https://dl.example.com/2"}, app.Download)
	assert.Equal(t, "Android 5.0", app.MinVersion)
	assert.Equal(t, "com.spotify.music", app.Package)
}

func TestHeadline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		app  domain.AppDetail
		want string
	}{
		{
			name: "features and version",
			app: domain.AppDetail{
				AppRecord: domain.AppRecord{Title: "Spotify", Version: "8.9"},
				Features:  []string{"Premium Unlocked", "No Ads"},
			},
			want: "Download Spotify Mod Apk (Premium Unlocked, No Ads) V 8.9",
		},
		{
			name: "bare title",
			app:  domain.AppDetail{AppRecord: domain.AppRecord{Title: "Tool"}},
			want: "Download Tool Mod Apk",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.app.Headline())
		})
	}
}

func TestInfoGrid(t *testing.T) {
	t.Parallel()

	app := domain.AppDetail{
		AppRecord:  domain.AppRecord{Title: "Spotify", Category: "Music", Type: "App", Version: "1"},
		Developer:  "Spotify AB",
		MinVersion: "Android 5.0",
		Package:    "com.spotify.music",
		Download:   []string{"x"},
	}

	grid := app.InfoGrid()
	require.Len(t, grid, 10)

	labels := make([]string, len(grid))
	for i, f := range grid {
		labels[i] = f.Label
	}

	assert.Equal(t, []string{
		"Name", "Category", "Publisher", "Version", "Size",
		"Price", "Requires", "Package Name", "Download Link", "Type",
	}, labels)
	assert.Equal(t, "Spotify AB", grid[2].Value)
	assert.Equal(t, "Available", grid[8].Value)

	app.Download = nil
	assert.Equal(t, "Unavailable", app.InfoGrid()[8].Value)
}

func TestRecordsKeepsOrder(t *testing.T) {
	t.Parallel()

	details := []domain.AppDetail{
		{AppRecord: domain.AppRecord{Slug: "b"}},
		{AppRecord: domain.AppRecord{Slug: "a"}},
	}

	records := domain.Records(details)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].Slug)
	assert.Equal(t, "a", records[1].Slug)
}
