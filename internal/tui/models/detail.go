// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/appmod/internal/detail"
	"github.com/janderssonse/appmod/internal/domain"
	"github.com/janderssonse/appmod/internal/download"
	"github.com/janderssonse/appmod/internal/stringutil"
	"github.com/janderssonse/appmod/internal/tui/styles"
)

const (
	detailHeaderHeight   = 3
	downloadPanelHeight  = 6
	defaultWindowTitle   = "App Mod"
	infoLabelWidth       = 14
	downloadReadyMessage = "Download links are ready"
)

// detailResolvedMsg carries the result of an asynchronous slug lookup.
type detailResolvedMsg struct {
	result detail.Result
	err    error
}

// downloadTickMsg advances the simulator. Ticks whose token no longer
// matches the model are dropped.
type downloadTickMsg struct {
	token int
}

// DetailKeyMap defines key bindings for the detail screen.
type DetailKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Download key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// DefaultDetailKeyMap returns the default key bindings.
func DefaultDetailKeyMap() DetailKeyMap {
	return DetailKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Download: key.NewBinding(
			key.WithKeys("d", "enter"),
			key.WithHelp("d", "download"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace", "b"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DetailModel is the single app screen with the download simulator.
type DetailModel struct {
	ctx    context.Context //nolint:containedctx
	styles *styles.Styles
	deps   Deps
	keyMap DetailKeyMap
	slug   string

	width  int
	height int

	spinner  spinner.Model
	progress progress.Model
	viewport viewport.Model

	loading bool
	result  detail.Result
	err     error

	sim    *download.Simulator
	token  int
	closed bool
}

// NewDetailModel creates a detail screen for slug. The record is resolved by Init.
func NewDetailModel(ctx context.Context, styleConfig *styles.Styles, deps Deps, slug string) *DetailModel {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styleConfig.Primary)

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return &DetailModel{
		ctx:      ctx,
		styles:   styleConfig,
		deps:     deps,
		keyMap:   DefaultDetailKeyMap(),
		slug:     slug,
		spinner:  spin,
		progress: bar,
		viewport: viewport.New(defaultWrap, minViewHeight),
		loading:  true,
		result:   detail.Result{Slug: slug},
	}
}

// Init starts resolving the slug.
func (m *DetailModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.resolve())
}

func (m *DetailModel) resolve() tea.Cmd {
	store := m.deps.Details
	ctx := m.ctx
	slug := m.slug

	return func() tea.Msg {
		if store == nil {
			return detailResolvedMsg{result: detail.Result{Slug: slug}, err: domain.ErrCatalogUnavailable}
		}

		result, err := store.Resolve(ctx, slug)

		return detailResolvedMsg{result: result, err: err}
	}
}

// Update handles messages for the detail screen.
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m *DetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

		return m, nil
	case detailResolvedMsg:
		return m, m.handleResolved(msg)
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case downloadTickMsg:
		return m, m.handleTick(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *DetailModel) handleResolved(msg detailResolvedMsg) tea.Cmd {
	if m.closed || msg.result.Slug != m.slug {
		return nil
	}

	m.loading = false
	m.result = msg.result
	m.err = msg.err

	if msg.err != nil {
		m.deps.Log().Error("detail resolve failed", "slug", m.slug, "err", msg.err)
		m.updateContent()

		return nil
	}

	if !msg.result.Found {
		m.deps.Log().Warn("app not found", "slug", m.slug)
		m.updateContent()

		return nil
	}

	m.sim = download.NewSimulator(msg.result.App.Download, m.deps.Step)
	m.updateContent()

	if m.deps.Presentation == nil {
		return tea.SetWindowTitle(msg.result.App.Title)
	}

	m.deps.Presentation.Apply(msg.result.App, m.deps.detailURL(m.slug))

	return tea.SetWindowTitle(m.deps.Presentation.Title)
}

func (m *DetailModel) handleTick(msg downloadTickMsg) tea.Cmd {
	if m.closed || m.sim == nil || msg.token != m.token {
		return nil
	}

	m.sim.Tick()

	if m.sim.Phase() == download.PhaseReady {
		m.deps.Log().Info("download ready", "slug", m.slug, "links", len(m.sim.Links()))

		return nil
	}

	return m.tick()
}

//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m *DetailModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.teardown()

		return m, tea.Quit
	case key.Matches(msg, m.keyMap.Back):
		return m, m.Close()
	case key.Matches(msg, m.keyMap.Download):
		return m, m.StartDownload()
	case key.Matches(msg, m.keyMap.Up):
		m.viewport.ScrollUp(1)
	case key.Matches(msg, m.keyMap.Down):
		m.viewport.ScrollDown(1)
	}

	return m, nil
}

// StartDownload begins the simulated download. It is a no-op while a
// download runs or after it finished.
func (m *DetailModel) StartDownload() tea.Cmd {
	if m.closed || m.sim == nil || !m.sim.Start() {
		return nil
	}

	m.deps.Log().Debug("download started", "slug", m.slug)

	return m.tick()
}

func (m *DetailModel) tick() tea.Cmd {
	token := m.token

	interval := m.deps.Interval
	if interval <= 0 {
		interval = download.DefaultInterval
	}

	return tea.Tick(interval, func(time.Time) tea.Msg {
		return downloadTickMsg{token: token}
	})
}

// Close tears the screen down and navigates back to the list.
func (m *DetailModel) Close() tea.Cmd {
	m.teardown()

	title := defaultWindowTitle
	if m.deps.Presentation != nil {
		title = m.deps.Presentation.Title
	}

	return tea.Batch(
		tea.SetWindowTitle(title),
		func() tea.Msg {
			return NavigateMsg{Screen: ListScreen}
		},
	)
}

// teardown invalidates in-flight ticks and restores the default presentation.
func (m *DetailModel) teardown() {
	if m.closed {
		return
	}

	m.closed = true
	m.token++

	if m.deps.Presentation != nil {
		m.deps.Presentation.Reset()
	}
}

// Slug returns the slug this screen was opened for.
func (m *DetailModel) Slug() string {
	return m.slug
}

// App returns the resolved record, if any.
func (m *DetailModel) App() (*domain.AppDetail, bool) {
	return m.result.App, m.result.Found
}

// DownloadState returns the simulator state. It is idle before the record resolves.
func (m *DetailModel) DownloadState() download.State {
	if m.sim == nil {
		return download.State{Phase: download.PhaseIdle}
	}

	return m.sim.State()
}

// Closed reports whether the screen has been torn down.
func (m *DetailModel) Closed() bool {
	return m.closed
}

func (m *DetailModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-detailHeaderHeight-downloadPanelHeight-footerHeight, minViewHeight)
	m.progress.Width = min(max(width-10, 10), 60)
	m.updateContent()
}

func (m *DetailModel) updateContent() {
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

func (m *DetailModel) contentWidth() int {
	if m.width <= 0 {
		return defaultWrap
	}

	return m.width
}

func (m *DetailModel) renderContent() string {
	if !m.result.Found || m.result.App == nil {
		return ""
	}

	app := m.result.App

	var b strings.Builder

	for _, field := range app.InfoGrid() {
		b.WriteString(m.styles.MutedText.Render(stringutil.PadRight(field.Label, infoLabelWidth)))
		b.WriteString(field.Value)
		b.WriteString("\n")
	}

	if app.ShortDescription != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Subtitle.Render(app.ShortDescription))
		b.WriteString("\n")
	}

	if len(app.Images) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.PrimaryText.Render("Screenshots"))
		b.WriteString("\n")

		for _, img := range app.Images {
			b.WriteString("  ")
			b.WriteString(m.styles.MutedText.Render(img))
			b.WriteString("\n")
		}
	}

	if long := RenderMarkdown(app.LongDescription, m.contentWidth()); long != "" {
		b.WriteString("\n")
		b.WriteString(long)
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// View renders the detail screen.
func (m *DetailModel) View() string {
	switch {
	case m.loading:
		return m.spinner.View() + " Loading app…"
	case m.err != nil, !m.result.Found:
		return lipgloss.JoinVertical(lipgloss.Left,
			m.styles.Title.Render("App not found"),
			m.styles.MutedText.Render(fmt.Sprintf("No app with slug %q exists in the catalog.", m.slug)),
			m.renderFooter(),
		)
	}

	header := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderBottom(true).
		BorderForeground(m.styles.Primary).
		Render(m.styles.Title.Render(stringutil.Truncate(m.result.App.Headline(), m.contentWidth())))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.viewport.View(),
		m.renderDownload(),
		m.renderFooter(),
	)
}

func (m *DetailModel) renderDownload() string {
	state := m.DownloadState()
	icon := m.styles.PhaseIcon(state.Phase.String())

	switch state.Phase {
	case download.PhaseDownloading:
		percent := float64(state.Progress) / float64(download.MaxProgress)

		return "\n" + icon + " Downloading… " + fmt.Sprintf("%d%%", state.Progress) + "\n" + m.progress.ViewAs(percent)
	case download.PhaseReady:
		lines := []string{"", icon + " " + m.styles.SuccessText.Render(downloadReadyMessage)}
		for _, link := range state.Links {
			lines = append(lines, "  "+m.styles.PrimaryText.Render(link.Label)+"  "+link.URL)
		}

		return strings.Join(lines, "\n")
	case download.PhaseIdle:
	}

	if len(m.result.App.Download) == 0 {
		return "\n" + icon + " " + m.styles.MutedText.Render("No download links for this app")
	}

	return "\n" + m.styles.Button.Render("Download")
}

func (m *DetailModel) renderFooter() string {
	bindings := []string{
		m.styles.Keybinding(m.keyMap.Back.Help().Key, m.keyMap.Back.Help().Desc),
	}

	if m.result.Found {
		bindings = append(bindings,
			m.styles.Keybinding(m.keyMap.Download.Help().Key, m.keyMap.Download.Help().Desc),
			m.styles.Keybinding("↑↓", "scroll"),
		)
	}

	bindings = append(bindings, m.styles.Keybinding(m.keyMap.Quit.Help().Key, m.keyMap.Quit.Help().Desc))

	return "\n" + strings.Join(bindings, "  ")
}
