// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package download

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhase(t *testing.T) {
	t.Parallel()

	tests := []struct {
		phase        Phase
		active       bool
		acceptsStart bool
	}{
		{PhaseIdle, false, true},
		{PhaseDownloading, true, false},
		{PhaseReady, false, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.active, tc.phase.IsActive(), tc.phase.String())
		assert.Equal(t, tc.acceptsStart, tc.phase.AcceptsStart(), tc.phase.String())
	}

	assert.Equal(t, "downloading", PhaseDownloading.String())
}
