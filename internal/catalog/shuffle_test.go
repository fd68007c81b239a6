// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package catalog

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/janderssonse/appmod/internal/domain"
	"github.com/janderssonse/appmod/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func numbered(n int) []domain.AppRecord {
	out := make([]domain.AppRecord, n)
	for i := range out {
		out[i] = record(fmt.Sprint(i), fmt.Sprint("App ", i), "", "")
	}

	return out
}

func TestShuffleIsPermutation(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 2, 10, 57} {
		records := numbered(n)
		before := testutil.Slugs(records)

		Shuffle(records, rand.New(rand.NewPCG(1, uint64(n))))

		after := testutil.Slugs(records)
		assert.Len(t, after, n)
		assert.ElementsMatch(t, before, after)
	}
}

func TestShuffleDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	a := numbered(20)
	b := numbered(20)

	Shuffle(a, rand.New(rand.NewPCG(42, 7)))
	Shuffle(b, rand.New(rand.NewPCG(42, 7)))

	assert.Equal(t, testutil.Slugs(a), testutil.Slugs(b))
}

func TestShuffleUsesEveryPosition(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(3, 9))
	firstSeen := map[string]int{}

	for range 3000 {
		records := numbered(3)
		Shuffle(records, rng)
		firstSeen[records[0].Slug]++
	}

	// Each of the 3 items should lead roughly a third of the time.
	for _, slug := range []string{"0", "1", "2"} {
		assert.InDelta(t, 1000, firstSeen[slug], 150, "slug %s", slug)
	}
}

func TestShuffleNilRand(t *testing.T) {
	t.Parallel()

	records := numbered(5)
	Shuffle(records, nil)

	got := testutil.Slugs(records)
	slices.Sort(got)
	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, got)
}
