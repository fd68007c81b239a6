// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

// Package tui implements the terminal front end: a list screen and a detail
// screen routed by a root model.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/janderssonse/appmod/internal/tui/models"
	"github.com/janderssonse/appmod/internal/tui/styles"
	"golang.org/x/term"
)

// ErrNoTerminal is returned when the TUI is launched in a non-terminal environment.
var ErrNoTerminal = errors.New("TUI requires a terminal environment")

// Screen represents different TUI screens.
type Screen int

// Define screen constants (use models constants for compatibility).
const (
	ListScreen   Screen = Screen(models.ListScreen)
	DetailScreen Screen = Screen(models.DetailScreen)
)

// App represents the main TUI application following tree-of-models pattern.
// Every navigation mounts a fresh screen model, so returning to the list
// re-fetches and re-shuffles the catalog.
//
//nolint:containedctx // TUI models require context for proper cancellation propagation
type App struct {
	width         int
	height        int
	styles        *styles.Styles
	deps          models.Deps
	currentScreen Screen
	contentModel  tea.Model
	ctx           context.Context

	quitting bool
}

// NewApp creates a new TUI application showing the list screen.
func NewApp(ctx context.Context, deps models.Deps) *App {
	if ctx == nil {
		ctx = context.Background()
	}

	app := &App{
		styles:        styles.New(),
		deps:          deps,
		currentScreen: ListScreen,
		ctx:           ctx,
	}

	app.contentModel = models.NewListModel(ctx, app.styles, deps)

	return app
}

// Run starts the TUI application with the provided context.
func (a *App) Run(ctx context.Context) error {
	program := tea.NewProgram(
		a,
		tea.WithAltScreen(),  // Use alternate screen buffer
		tea.WithContext(ctx), // Use the provided context
	)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("TUI application failed: %w", err)
	}

	return nil
}

// Init implements the tea.Model interface.
func (a *App) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle(a.defaultTitle()), a.contentModel.Init())
}

// Update implements the tea.Model interface with global navigation handling.
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
	case models.NavigateMsg:
		return a.navigateToScreen(Screen(msg.Screen), msg.Data)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.quitting = true

			if detail, ok := a.contentModel.(*models.DetailModel); ok {
				detail.Close()
			}

			return a, tea.Quit
		}
	}

	// Forward all other messages to content model
	var cmd tea.Cmd

	a.contentModel, cmd = a.contentModel.Update(msg)

	return a, cmd
}

// View implements the tea.Model interface.
func (a *App) View() string {
	if a.quitting {
		return models.GoodbyeMessage
	}

	return a.styles.Container.Render(a.contentModel.View())
}

// GetCurrentScreen returns the current screen (for testing).
func (a *App) GetCurrentScreen() Screen {
	return a.currentScreen
}

// GetContentModel returns the current content model (for testing).
func (a *App) GetContentModel() tea.Model {
	return a.contentModel
}

// LaunchWithContext starts the TUI application with a specific context.
func LaunchWithContext(ctx context.Context, deps models.Deps) error {
	return NewApp(ctx, deps).Run(ctx)
}

// LaunchInteractive starts the interactive TUI interface.
func LaunchInteractive(ctx context.Context, deps models.Deps) error {
	if !IsTerminal() {
		return fmt.Errorf("terminal check failed: %w", ErrNoTerminal)
	}

	return LaunchWithContext(ctx, deps)
}

// IsTerminal checks if stdin and stdout are connected to a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// navigateToScreen mounts a fresh model for the target screen.
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (a *App) navigateToScreen(target Screen, data any) (tea.Model, tea.Cmd) {
	var next tea.Model

	switch target {
	case DetailScreen:
		slug, ok := data.(string)
		if !ok {
			a.deps.Log().Warn("detail navigation without slug", "data", data)

			return a, nil
		}

		next = models.NewDetailModel(a.ctx, a.styles, a.deps, slug)
	case ListScreen:
		next = models.NewListModel(a.ctx, a.styles, a.deps)
	default:
		return a, nil
	}

	if a.width > 0 || a.height > 0 {
		next, _ = next.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
	}

	a.currentScreen = target
	a.contentModel = next

	return a, next.Init()
}

func (a *App) defaultTitle() string {
	if a.deps.Presentation != nil {
		return a.deps.Presentation.Title
	}

	return "App Mod"
}
