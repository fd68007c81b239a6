// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"math/rand/v2"

	"github.com/janderssonse/appmod/internal/domain"
)

// Shuffle permutes records in place with Fisher–Yates.
// A nil rng uses the global, non-reproducible source.
func Shuffle(records []domain.AppRecord, rng *rand.Rand) {
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	for i := len(records) - 1; i > 0; i-- {
		j := intN(i + 1)
		records[i], records[j] = records[j], records[i]
	}
}
