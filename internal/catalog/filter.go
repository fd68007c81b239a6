// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"github.com/janderssonse/appmod/internal/domain"
	"github.com/janderssonse/appmod/internal/stringutil"
)

// Criteria are the three list inputs. Empty fields match everything.
type Criteria struct {
	Query    string `json:"query,omitempty"`
	Category string `json:"category,omitempty"`
	Type     string `json:"type,omitempty"`
}

// IsZero reports whether no input is set.
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Matches applies the text, category and type predicates to one record.
func (c Criteria) Matches(r *domain.AppRecord) bool {
	if c.Category != "" && r.Category != c.Category {
		return false
	}

	if c.Type != "" && r.Type != c.Type {
		return false
	}

	return stringutil.AnyContainsFold(c.Query, r.Title, r.ShortDescription, r.LongDescription)
}

// Filter returns a new slice with the records matching c, in input order.
func Filter(records []domain.AppRecord, c Criteria) []domain.AppRecord {
	out := make([]domain.AppRecord, 0, len(records))

	for i := range records {
		if c.Matches(&records[i]) {
			out = append(out, records[i])
		}
	}

	return out
}
