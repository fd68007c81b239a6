// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

// Package download simulates a timed download that reveals an app's links
// once progress reaches 100.
package download

import (
	"fmt"
	"slices"
	"time"
)

const (
	// MaxProgress is the progress value at which links are revealed.
	MaxProgress = 100
	// DefaultStep is the progress added per tick.
	DefaultStep = 10
	// DefaultInterval is the time between ticks.
	DefaultInterval = time.Second
)

// Link is a revealed download location with its display label.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// State is a snapshot of the simulator.
type State struct {
	Phase    Phase  `json:"phase"`
	Progress int    `json:"progress"`
	Links    []Link `json:"links,omitempty"`
}

// Simulator is the Idle → Downloading(p) → Ready state machine.
// It is not safe for concurrent use; Runner adds locking.
type Simulator struct {
	phase    Phase
	progress int
	step     int
	urls     []string
}

// NewSimulator creates an idle simulator for the given download URLs.
// A non-positive step falls back to DefaultStep.
func NewSimulator(urls []string, step int) *Simulator {
	if step <= 0 {
		step = DefaultStep
	}

	return &Simulator{
		phase: PhaseIdle,
		step:  step,
		urls:  slices.Clone(urls),
	}
}

// Start moves Idle to Downloading(0). It reports false and changes nothing
// when a download is in progress or already finished.
func (s *Simulator) Start() bool {
	if !s.phase.AcceptsStart() {
		return false
	}

	s.phase = PhaseDownloading
	s.progress = 0

	return true
}

// Tick advances progress by one step, clamped at MaxProgress.
// Reaching MaxProgress switches to Ready on the same tick.
// It reports whether the state changed.
func (s *Simulator) Tick() bool {
	if s.phase != PhaseDownloading {
		return false
	}

	s.progress = min(s.progress+s.step, MaxProgress)
	if s.progress == MaxProgress {
		s.phase = PhaseReady
	}

	return true
}

// Phase returns the current phase.
func (s *Simulator) Phase() Phase {
	return s.phase
}

// Progress returns the current progress in [0, MaxProgress].
func (s *Simulator) Progress() int {
	return s.progress
}

// Links returns the labelled download links, or nil until Ready.
func (s *Simulator) Links() []Link {
	if s.phase != PhaseReady {
		return nil
	}

	return LabelLinks(s.urls)
}

// State returns a snapshot.
func (s *Simulator) State() State {
	return State{
		Phase:    s.phase,
		Progress: s.progress,
		Links:    s.Links(),
	}
}

// TicksToReady is the number of ticks from Start until Ready.
func (s *Simulator) TicksToReady() int {
	return (MaxProgress + s.step - 1) / s.step
}

// LabelLinks numbers urls as "Download Link 1", "Download Link 2", ...
func LabelLinks(urls []string) []Link {
	links := make([]Link, len(urls))
	for i, u := range urls {
		links[i] = Link{Label: fmt.Sprintf("Download Link %d", i+1), URL: u}
	}

	return links
}
