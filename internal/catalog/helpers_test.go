// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"errors"

	"github.com/janderssonse/appmod/internal/domain"
)

var errFetch = errors.New("fetch failed")

func record(slug, title, category, typ string) domain.AppRecord {
	return domain.AppRecord{
		Slug:     slug,
		Title:    title,
		Category: category,
		Type:     typ,
	}
}
