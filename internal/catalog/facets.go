// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import "github.com/janderssonse/appmod/internal/domain"

// Facets returns the distinct non-empty categories and types in first-seen order.
func Facets(records []domain.AppRecord) ([]string, []string) {
	categories := distinct(records, func(r *domain.AppRecord) string { return r.Category })
	types := distinct(records, func(r *domain.AppRecord) string { return r.Type })

	return categories, types
}

func distinct(records []domain.AppRecord, field func(*domain.AppRecord) string) []string {
	seen := make(map[string]struct{})
	values := []string{}

	for i := range records {
		v := field(&records[i])
		if v == "" {
			continue
		}

		if _, ok := seen[v]; ok {
			continue
		}

		seen[v] = struct{}{}
		values = append(values, v)
	}

	return values
}
