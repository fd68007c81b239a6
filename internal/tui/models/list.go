// SPDX-FileCopyrightText: 2025 The Appmod Authors
// SPDX-License-Identifier: EUPL-1.2

package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/appmod/internal/catalog"
	"github.com/janderssonse/appmod/internal/domain"
	"github.com/janderssonse/appmod/internal/stringutil"
	"github.com/janderssonse/appmod/internal/tui/styles"
)

const (
	rowHeight     = 2
	headerHeight  = 5
	footerHeight  = 2
	minViewHeight = rowHeight * 2
)

// facetField identifies which selector a picker edits.
type facetField int

const (
	facetCategory facetField = iota
	facetType
)

func (f facetField) String() string {
	if f == facetType {
		return "Type"
	}

	return "Category"
}

// catalogLoadedMsg carries the result of an asynchronous catalog load.
type catalogLoadedMsg struct {
	snapshot *catalog.Snapshot
	err      error
}

// ListKeyMap defines key bindings for the list screen.
type ListKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Search   key.Binding
	Category key.Binding
	Type     key.Binding
	Clear    key.Binding
	Reload   key.Binding
	Quit     key.Binding
}

// DefaultListKeyMap returns the default key bindings.
func DefaultListKeyMap() ListKeyMap {
	return ListKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Category: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "category"),
		),
		Type: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "type"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ListModel is the catalog list screen.
type ListModel struct {
	ctx    context.Context //nolint:containedctx
	styles *styles.Styles
	deps   Deps
	keyMap ListKeyMap

	width  int
	height int

	spinner  spinner.Model
	search   textinput.Model
	viewport viewport.Model

	snapshot *catalog.Snapshot
	criteria catalog.Criteria
	visible  []domain.AppRecord
	cursor   int
	loading  bool
	filtered bool

	picker      *huh.Form
	pickerField facetField
	pickerValue string
}

// NewListModel creates a list screen. The catalog is loaded by Init.
func NewListModel(ctx context.Context, styleConfig *styles.Styles, deps Deps) *ListModel {
	search := textinput.New()
	search.Placeholder = "Search apps and games"
	search.Prompt = "/ "
	search.CharLimit = 128

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styleConfig.Primary)

	return &ListModel{
		ctx:      ctx,
		styles:   styleConfig,
		deps:     deps,
		keyMap:   DefaultListKeyMap(),
		spinner:  spin,
		search:   search,
		viewport: viewport.New(defaultWrap, minViewHeight),
		snapshot: catalog.EmptySnapshot(),
		loading:  true,
	}
}

// Init starts the catalog load.
func (m *ListModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m *ListModel) load() tea.Cmd {
	store := m.deps.Catalog
	ctx := m.ctx

	return func() tea.Msg {
		if store == nil {
			return catalogLoadedMsg{snapshot: catalog.EmptySnapshot(), err: domain.ErrCatalogUnavailable}
		}

		snapshot, err := store.Load(ctx)

		return catalogLoadedMsg{snapshot: snapshot, err: err}
	}
}

// Update handles messages for the list screen.
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m *ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

		return m, nil
	case catalogLoadedMsg:
		m.handleLoaded(msg)

		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	if m.picker != nil {
		return m.updatePicker(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.search.Focused() {
		return m.updateSearch(keyMsg)
	}

	return m.handleKey(keyMsg)
}

func (m *ListModel) handleLoaded(msg catalogLoadedMsg) {
	m.loading = false

	// Every load is a fresh mount: inputs start empty and the shuffled
	// working copy is shown.
	m.snapshot = msg.snapshot
	m.criteria = catalog.Criteria{}
	m.filtered = false
	m.cursor = 0
	m.search.Reset()
	m.search.Blur()

	if m.snapshot == nil {
		m.snapshot = catalog.EmptySnapshot()
	}

	if msg.err != nil {
		m.deps.Log().Error("catalog load failed", "err", msg.err)
	} else {
		m.deps.Log().Debug("catalog loaded", "apps", m.snapshot.Len())
	}

	m.refresh()
}

//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m *ListModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keyMap.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keyMap.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keyMap.Open):
		if app, ok := m.Selected(); ok {
			slug := app.Slug

			return m, func() tea.Msg {
				return NavigateMsg{Screen: DetailScreen, Data: slug}
			}
		}
	case key.Matches(msg, m.keyMap.Search):
		return m, m.search.Focus()
	case key.Matches(msg, m.keyMap.Category):
		return m, m.openPicker(facetCategory)
	case key.Matches(msg, m.keyMap.Type):
		return m, m.openPicker(facetType)
	case key.Matches(msg, m.keyMap.Clear):
		m.ClearFilters()
	case key.Matches(msg, m.keyMap.Reload):
		m.loading = true
		m.cursor = 0

		return m, tea.Batch(m.spinner.Tick, m.load())
	}

	return m, nil
}

//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m *ListModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.search.Blur()
		m.SetQuery(m.search.Value())

		return m, nil
	case tea.KeyEsc:
		m.search.Blur()

		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)

	if m.search.Value() != m.criteria.Query {
		m.SetQuery(m.search.Value())
	}

	return m, cmd
}

func (m *ListModel) openPicker(field facetField) tea.Cmd {
	values := m.snapshot.Categories
	current := m.criteria.Category

	if field == facetType {
		values = m.snapshot.Types
		current = m.criteria.Type
	}

	options := make([]huh.Option[string], 0, len(values)+1)
	options = append(options, huh.NewOption("All", ""))

	for _, v := range values {
		options = append(options, huh.NewOption(v, v))
	}

	m.pickerField = field
	m.pickerValue = current
	m.picker = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Select " + field.String()).
				Options(options...).
				Value(&m.pickerValue),
		),
	).WithTheme(huh.ThemeCharm()).WithShowHelp(false)

	return m.picker.Init()
}

//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m *ListModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.picker = nil

		return m, nil
	}

	form, cmd := m.picker.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.picker = f
	}

	switch m.picker.State {
	case huh.StateCompleted:
		m.applyFacet(m.pickerField, m.pickerValue)
		m.picker = nil

		return m, nil
	case huh.StateAborted:
		m.picker = nil

		return m, nil
	case huh.StateNormal:
	}

	return m, cmd
}

func (m *ListModel) applyFacet(field facetField, value string) {
	if field == facetType {
		m.SetType(value)

		return
	}

	m.SetCategory(value)
}

// SetQuery changes the search text and re-filters.
func (m *ListModel) SetQuery(query string) {
	m.criteria.Query = query
	m.filtered = true

	if m.search.Value() != query {
		m.search.SetValue(query)
	}

	m.refresh()
}

// SetCategory changes the selected category and re-filters. Empty means all.
func (m *ListModel) SetCategory(category string) {
	m.criteria.Category = category
	m.filtered = true
	m.refresh()
}

// SetType changes the selected type and re-filters. Empty means all.
func (m *ListModel) SetType(typ string) {
	m.criteria.Type = typ
	m.filtered = true
	m.refresh()
}

// ClearFilters resets query, category and type.
func (m *ListModel) ClearFilters() {
	m.criteria = catalog.Criteria{}
	m.filtered = true
	m.search.Reset()
	m.refresh()
}

// Criteria returns the active filter inputs.
func (m *ListModel) Criteria() catalog.Criteria {
	return m.criteria
}

// Visible returns the rows currently shown.
func (m *ListModel) Visible() []domain.AppRecord {
	return m.visible
}

// Loading reports whether the catalog load is in flight.
func (m *ListModel) Loading() bool {
	return m.loading
}

// Selected returns the record under the cursor.
func (m *ListModel) Selected() (domain.AppRecord, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return domain.AppRecord{}, false
	}

	return m.visible[m.cursor], true
}

// refresh shows the shuffled working copy until the first filter input.
func (m *ListModel) refresh() {
	if m.filtered {
		m.visible = m.snapshot.View(m.criteria)
	} else {
		m.visible = m.snapshot.Initial()
	}

	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}

	m.updateViewport()
}

func (m *ListModel) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}

	m.cursor = min(max(m.cursor+delta, 0), len(m.visible)-1)
	m.updateViewport()
}

func (m *ListModel) resize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = max(height-headerHeight-footerHeight, minViewHeight)
	m.search.Width = max(width-4, 10)
	m.updateViewport()
}

func (m *ListModel) updateViewport() {
	m.viewport.SetContent(m.renderRows())

	// Keep the cursor row visible
	top := m.cursor * rowHeight
	bottom := top + rowHeight

	switch {
	case top < m.viewport.YOffset:
		m.viewport.SetYOffset(top)
	case bottom > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
}

func (m *ListModel) renderRows() string {
	if len(m.visible) == 0 {
		return ""
	}

	width := m.width
	if width <= 0 {
		width = defaultWrap
	}

	badge := m.styles.Badge.Render("Mod")
	titleWidth := max(width-stringutil.Width(badge)-4, 8)

	rows := make([]string, 0, len(m.visible))

	for i, app := range m.visible {
		cursor := "  "
		titleStyle := m.styles.Unselected

		if i == m.cursor {
			cursor = m.styles.PrimaryText.Render("▸ ")
			titleStyle = m.styles.Selected
		}

		title := titleStyle.Render(stringutil.Truncate(app.Title, titleWidth))
		meta := fmt.Sprintf("%s - %s  %s  Version: %s", app.Category, app.Type, app.Date, app.Version)

		rows = append(rows,
			cursor+badge+" "+title,
			"    "+m.styles.MutedText.Render(stringutil.Truncate(meta, max(width-4, 8))),
		)
	}

	return strings.Join(rows, "\n")
}

// View renders the list screen.
func (m *ListModel) View() string {
	sections := []string{
		m.renderHeader(),
		m.renderBody(),
		m.renderFooter(),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *ListModel) renderHeader() string {
	category := m.criteria.Category
	if category == "" {
		category = "All"
	}

	typ := m.criteria.Type
	if typ == "" {
		typ = "All"
	}

	filters := m.styles.MutedText.Render("Category: ") + m.styles.PrimaryText.Render(category) +
		m.styles.MutedText.Render("   Type: ") + m.styles.PrimaryText.Render(typ) +
		m.styles.MutedText.Render(fmt.Sprintf("   %d of %d", len(m.visible), m.snapshot.Len()))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Logo(),
		m.search.View(),
		filters,
		"",
	)
}

func (m *ListModel) renderBody() string {
	switch {
	case m.picker != nil:
		return m.styles.Card.Render(m.picker.View())
	case m.loading:
		return m.spinner.View() + " Loading catalog…"
	case len(m.visible) == 0:
		return m.styles.MutedText.Render("No apps match the current filters.")
	}

	return m.viewport.View()
}

func (m *ListModel) renderFooter() string {
	var bindings []string

	switch {
	case m.picker != nil:
		bindings = []string{
			m.styles.Keybinding("enter", "apply"),
			m.styles.Keybinding("esc", "cancel"),
		}
	case m.search.Focused():
		bindings = []string{
			m.styles.Keybinding("enter", "search"),
			m.styles.Keybinding("esc", "done"),
		}
	default:
		for _, b := range []key.Binding{
			m.keyMap.Open, m.keyMap.Search, m.keyMap.Category, m.keyMap.Type,
			m.keyMap.Clear, m.keyMap.Reload, m.keyMap.Quit,
		} {
			bindings = append(bindings, m.styles.Keybinding(b.Help().Key, b.Help().Desc))
		}
	}

	return "\n" + strings.Join(bindings, "  ")
}
