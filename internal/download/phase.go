// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package download

// Phase is the coarse state of a simulated download.
type Phase string

const (
	// PhaseIdle means the download has not been triggered.
	PhaseIdle Phase = "idle"

	// PhaseDownloading means progress is advancing on every tick.
	PhaseDownloading Phase = "downloading"

	// PhaseReady means progress reached 100 and links are revealed.
	PhaseReady Phase = "ready"
)

// String returns the string representation of Phase.
func (p Phase) String() string {
	return string(p)
}

// IsActive reports whether ticks still change the state.
func (p Phase) IsActive() bool {
	return p == PhaseDownloading
}

// AcceptsStart reports whether a start trigger would be honoured.
func (p Phase) AcceptsStart() bool {
	return p == PhaseIdle
}
