// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

// Package models implements the list and detail screens of the terminal UI.
package models

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/janderssonse/appmod/internal/catalog"
	"github.com/janderssonse/appmod/internal/detail"
	"github.com/janderssonse/appmod/internal/logging"
)

// NavigateMsg is a message sent to request navigation to a specific screen.
type NavigateMsg struct {
	Screen int
	Data   any // Optional data to pass to the new screen
}

// Screen constants for navigation.
const (
	ListScreen = iota
	DetailScreen
)

// GoodbyeMessage is printed when the program exits.
const GoodbyeMessage = "Goodbye!\n"

// Deps are the services shared by all screens.
type Deps struct {
	Catalog      *catalog.Store
	Details      *detail.Store
	Presentation *detail.Presentation
	Logger       *log.Logger

	// Interval and Step drive the download simulator.
	Interval time.Duration
	Step     int

	// DetailURL builds the canonical address of a detail page.
	DetailURL func(slug string) string
}

// Log returns the configured logger, or one that discards.
func (d Deps) Log() *log.Logger {
	if d.Logger == nil {
		return logging.Discard()
	}

	return d.Logger
}

func (d Deps) detailURL(slug string) string {
	if d.DetailURL == nil {
		return "appmod://apps/" + slug
	}

	return d.DetailURL(slug)
}
