// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"testing"

	"github.com/janderssonse/appmod/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFacets(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		records        []domain.AppRecord
		wantCategories []string
		wantTypes      []string
	}{
		{
			name:           "empty collection",
			records:        nil,
			wantCategories: []string{},
			wantTypes:      []string{},
		},
		{
			name: "first-seen order without duplicates",
			records: []domain.AppRecord{
				record("a", "A", "Music", "App"),
				record("b", "B", "Action", "Game"),
				record("c", "C", "Music", "App"),
				record("d", "D", "Video", "App"),
			},
			wantCategories: []string{"Music", "Action", "Video"},
			wantTypes:      []string{"App", "Game"},
		},
		{
			name: "empty values skipped",
			records: []domain.AppRecord{
				record("a", "A", "", "App"),
				record("b", "B", "Tools", ""),
			},
			wantCategories: []string{"Tools"},
			wantTypes:      []string{"App"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			categories, types := Facets(tc.records)
			assert.Equal(t, tc.wantCategories, categories)
			assert.Equal(t, tc.wantTypes, types)
		})
	}
}
