package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bekirdag/datadict/internal/browse"
	"github.com/bekirdag/datadict/internal/catalog"
)

const maxLogLines = 400

type focusArea int

const (
	focusSidebar focusArea = iota
	focusContent
)

type keyMap struct {
	quit          key.Binding
	nextFocus     key.Binding
	prevFocus     key.Binding
	search        key.Binding
	clearSearch   key.Binding
	toggleSidebar key.Binding
	activate      key.Binding
	toggleColumn  key.Binding
	nextTab       key.Binding
	prevTab       key.Binding
	cursorUp      key.Binding
	cursorDown    key.Binding
	copyName      key.Binding
	cycleTheme    key.Binding
	toggleLogs    key.Binding
	toggleHelp    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		nextFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next panel"),
		),
		prevFocus: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev panel"),
		),
		search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		clearSearch: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear search"),
		),
		toggleSidebar: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "toggle sidebar"),
		),
		activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		toggleColumn: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "expand column"),
		),
		nextTab: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next tab"),
		),
		prevTab: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev tab"),
		),
		cursorUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		cursorDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		copyName: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy name"),
		),
		cycleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle theme"),
		),
		toggleLogs: key.NewBinding(
			key.WithKeys("f6"),
			key.WithHelp("F6", "toggle logs"),
		),
		toggleHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.nextFocus,
		k.search,
		k.activate,
		k.nextTab,
		k.toggleSidebar,
		k.toggleHelp,
		k.quit,
	}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.nextFocus, k.prevFocus, k.cursorUp, k.cursorDown},
		{k.search, k.clearSearch, k.toggleSidebar},
		{k.activate, k.toggleColumn, k.nextTab, k.prevTab},
		{k.copyName, k.cycleTheme, k.toggleLogs, k.toggleHelp, k.quit},
	}
}

type model struct {
	width  int
	height int

	styles styles
	keys   keyMap
	help   help.Model

	cat    *catalog.Catalog
	state  *browse.State
	view   browse.View
	cfg    *uiConfig
	events *eventLogger

	sidebar *sidebarColumn
	content *contentColumn
	focus   focusArea

	searchField  textinput.Model
	searchActive bool

	tab          detailTab
	columnCursor int

	markdownTheme markdownTheme

	showLogs   bool
	logsHeight int
	logs       viewport.Model
	logLines   []string

	toastMessage string
	toastExpires time.Time

	copyToClipboard func(string) error
}

func newModel(cat *catalog.Catalog, cfg *uiConfig, events *eventLogger) *model {
	if cfg == nil {
		cfg = &uiConfig{}
		cfg.applyDefaults()
	}
	if events == nil {
		events = nopEventLogger()
	}
	s := newStyles()
	m := &model{
		styles:          s,
		keys:            newKeyMap(),
		help:            help.New(),
		cat:             cat,
		state:           browse.NewState(cat, browse.Options{}),
		cfg:             cfg,
		events:          events,
		sidebar:         newSidebarColumn(s),
		content:         newContentColumn(s),
		markdownTheme:   currentMarkdownTheme(),
		logsHeight:      8,
		logs:            viewport.New(80, 8),
		copyToClipboard: clipboard.WriteAll,
	}
	m.help.ShortSeparator = " │ "
	m.help.Styles.ShortKey = m.styles.muted.Copy().Bold(true)
	m.help.Styles.ShortDesc = m.styles.muted.Copy()
	m.help.Styles.FullKey = m.styles.muted.Copy().Bold(true)
	m.help.Styles.FullDesc = m.styles.muted.Copy()

	m.searchField = textinput.New()
	m.searchField.Prompt = "/ "
	m.searchField.Placeholder = "Search modules and tables"
	m.searchField.CharLimit = 128

	m.appendLog(fmt.Sprintf("[INFO] Loaded %s and %s.", pluralize(cat.Len(), "module"), pluralize(cat.TableCount(), "table")))
	m.appendLog("[TIP] Press / to search, Enter to open, Tab to switch panels.")
	m.recompose()
	return m
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if m.searchActive {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(keyMsg, m.keys.clearSearch):
				m.searchField.SetValue("")
				m.setQuery("")
				m.closeSearch()
				return m, nil
			case keyMsg.Type == tea.KeyEnter, keyMsg.Type == tea.KeyTab:
				m.closeSearch()
				return m, nil
			case keyMsg.Type == tea.KeyCtrlC:
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.searchField, cmd = m.searchField.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			if value := m.searchField.Value(); value != m.state.Query() {
				m.setQuery(value)
			}
			return m, tea.Batch(cmds...)
		}
	}

	switch message := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = message.Width, message.Height
		m.applyCompact(m.width < m.cfg.CompactWidth)
		m.applyLayout()
		m.refreshContent()
		return m, nil

	case tea.KeyMsg:
		if handled, cmd := m.handleGlobalKey(message); handled {
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
			return m, tea.Batch(cmds...)
		}
	}

	if col := m.focusedColumn(); col != nil {
		_, cmd := col.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *model) focusedColumn() column {
	if m.focus == focusSidebar && m.state.SidebarOpen() {
		return m.sidebar
	}
	return m.content
}

func (m *model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return true, tea.Quit
	case key.Matches(msg, m.keys.search):
		return true, m.openSearch()
	case key.Matches(msg, m.keys.clearSearch):
		if m.state.Query() != "" {
			m.searchField.SetValue("")
			m.setQuery("")
		}
		return true, nil
	case key.Matches(msg, m.keys.toggleSidebar):
		m.toggleSidebar()
		return true, nil
	case key.Matches(msg, m.keys.nextFocus), key.Matches(msg, m.keys.prevFocus):
		m.cycleFocus()
		return true, nil
	case key.Matches(msg, m.keys.toggleLogs):
		m.showLogs = !m.showLogs
		m.applyLayout()
		m.refreshContent()
		return true, nil
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.applyLayout()
		return true, nil
	case key.Matches(msg, m.keys.cycleTheme):
		m.applyMarkdownTheme(nextMarkdownTheme(m.markdownTheme), true)
		return true, nil
	case key.Matches(msg, m.keys.copyName):
		m.copyFocusedName()
		return true, nil
	}

	if m.focus == focusSidebar && m.state.SidebarOpen() {
		if key.Matches(msg, m.keys.activate) {
			m.activateSidebarEntry()
			return true, nil
		}
		return false, nil
	}
	return m.handleContentKey(msg)
}

func (m *model) handleContentKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch m.view.Mode {
	case browse.ModeModuleOverview:
		if key.Matches(msg, m.keys.activate) {
			tables := m.view.Module.Tables
			if idx := m.content.TableCursor(); idx >= 0 && idx < len(tables) {
				m.selectTable(tables[idx].Table.ID)
			}
			return true, nil
		}
	case browse.ModeTableDetail:
		switch {
		case key.Matches(msg, m.keys.nextTab):
			m.setTab(m.tab.next(1))
			return true, nil
		case key.Matches(msg, m.keys.prevTab):
			m.setTab(m.tab.next(-1))
			return true, nil
		}
		if m.tab != tabColumns {
			return false, nil
		}
		switch {
		case key.Matches(msg, m.keys.cursorUp):
			m.moveColumnCursor(-1)
			return true, nil
		case key.Matches(msg, m.keys.cursorDown):
			m.moveColumnCursor(1)
			return true, nil
		case key.Matches(msg, m.keys.activate), key.Matches(msg, m.keys.toggleColumn):
			m.toggleColumnAtCursor()
			return true, nil
		}
	}
	return false, nil
}

func (m *model) openSearch() tea.Cmd {
	if !m.state.SidebarOpen() {
		m.state.ToggleSidebar()
	}
	m.focus = focusSidebar
	m.searchActive = true
	cmd := m.searchField.Focus()
	m.applyLayout()
	m.refreshSidebar()
	return cmd
}

func (m *model) closeSearch() {
	m.searchActive = false
	m.searchField.Blur()
	m.refreshSidebar()
}

func (m *model) setQuery(query string) {
	m.state.SetQuery(query)
	m.events.Emit("search_changed", map[string]string{"query": query})
	m.recompose()
	if m.view.Sidebar.NoResults && query != "" {
		m.appendLog(fmt.Sprintf("[INFO] No results for %q", query))
	}
}

func (m *model) activateSidebarEntry() {
	entry, ok := m.sidebar.SelectedEntry()
	if !ok {
		return
	}
	switch entry.kind {
	case entryModule:
		m.selectModule(entry.id)
	case entryTable:
		m.selectTable(entry.id)
	}
}

func (m *model) selectModule(id string) {
	m.state.SelectModule(id)
	m.events.Emit("module_selected", map[string]string{"module_id": id})
	m.appendLog("[NAV] module " + id)
	m.content.ResetCursor()
	m.afterNavigation()
}

func (m *model) selectTable(id string) {
	changed := m.state.ActiveTableID() != id
	m.state.SelectTable(id)
	m.events.Emit("table_selected", map[string]string{"table_id": id})
	m.appendLog("[NAV] table " + id)
	if changed {
		m.tab = tabColumns
		m.columnCursor = 0
		m.content.ResetCursor()
	}
	m.afterNavigation()
}

func (m *model) afterNavigation() {
	if !m.state.SidebarOpen() {
		m.focus = focusContent
	}
	m.applyLayout()
	m.recompose()
}

func (m *model) toggleSidebar() {
	m.state.ToggleSidebar()
	open := m.state.SidebarOpen()
	m.events.Emit("sidebar_toggled", map[string]string{"open": fmt.Sprint(open)})
	if open {
		m.focus = focusSidebar
	} else {
		m.focus = focusContent
		if m.searchActive {
			m.closeSearch()
		}
	}
	m.applyLayout()
	m.refreshContent()
}

func (m *model) cycleFocus() {
	if !m.state.SidebarOpen() {
		m.focus = focusContent
		return
	}
	// The overlay hides the content, so there is nothing to move to.
	if m.state.Compact() {
		m.focus = focusSidebar
		return
	}
	if m.focus == focusSidebar {
		m.focus = focusContent
	} else {
		m.focus = focusSidebar
	}
}

func (m *model) applyCompact(compact bool) {
	if compact == m.state.Compact() {
		return
	}
	m.state.SetCompact(compact)
	m.events.Emit("layout_changed", map[string]string{"compact": fmt.Sprint(compact)})
}

func (m *model) setTab(tab detailTab) {
	if m.tab == tab {
		return
	}
	m.tab = tab
	m.events.Emit("tab_changed", map[string]string{"table_id": m.state.ActiveTableID(), "tab": tab.String()})
	m.content.ResetCursor()
	m.refreshContent()
}

func (m *model) moveColumnCursor(delta int) {
	n := len(m.view.Table.Columns)
	if n == 0 {
		return
	}
	m.columnCursor = min(max(m.columnCursor+delta, 0), n-1)
	m.refreshContent()
}

func (m *model) toggleColumnAtCursor() {
	cols := m.view.Table.Columns
	if m.columnCursor < 0 || m.columnCursor >= len(cols) {
		return
	}
	id := cols[m.columnCursor].Column.ID
	expanded := m.state.ToggleColumn(id)
	m.events.Emit("column_toggled", map[string]string{
		"table_id":  m.state.ActiveTableID(),
		"column_id": id,
		"expanded":  fmt.Sprint(expanded),
	})
	m.recompose()
}

func (m *model) applyMarkdownTheme(theme markdownTheme, announce bool) {
	setMarkdownTheme(theme)
	m.markdownTheme = theme
	m.refreshContent()
	if announce {
		message := fmt.Sprintf("Markdown theme: %s", markdownThemeLabel(theme))
		m.events.Emit("theme_changed", map[string]string{"theme": theme.String()})
		m.appendLog("[INFO] " + message)
		m.setToast(message, 3*time.Second)
	}
}

// focusedName is what y copies: the highlighted sidebar row, the highlighted
// table or column in the content pane, or the active table.
func (m *model) focusedName() string {
	if m.focus == focusSidebar && m.state.SidebarOpen() {
		return m.sidebar.FocusValue()
	}
	switch m.view.Mode {
	case browse.ModeModuleOverview:
		if name := m.content.FocusValue(); name != "" {
			return name
		}
		return m.view.Module.Module.Name
	case browse.ModeTableDetail:
		if m.tab == tabColumns && m.columnCursor < len(m.view.Table.Columns) {
			return m.view.Table.Columns[m.columnCursor].Column.Name
		}
		return m.view.Table.Table.Name
	}
	return ""
}

func (m *model) copyFocusedName() {
	name := strings.TrimSpace(m.focusedName())
	if name == "" {
		m.setToast("Nothing to copy", 3*time.Second)
		return
	}
	if err := m.copyToClipboard(name); err != nil {
		m.appendLog(fmt.Sprintf("[WARN] Clipboard copy failed: %v", err))
		m.setToast("Clipboard unavailable", 4*time.Second)
		return
	}
	m.events.Emit("name_copied", map[string]string{"name": name})
	m.setToast("Copied "+name, 3*time.Second)
}

// recompose rebuilds the view payload and every pane that renders it.
func (m *model) recompose() {
	m.view = browse.Compose(m.cat, m.state)
	if m.view.Mode == browse.ModeTableDetail {
		if n := len(m.view.Table.Columns); m.columnCursor >= n {
			m.columnCursor = max(n-1, 0)
		}
	}
	m.refreshSidebar()
	m.refreshContent()
}

func (m *model) refreshSidebar() {
	m.sidebar.SetSidebar(m.view.Sidebar)
	if m.searchActive || m.state.Query() != "" {
		m.sidebar.SetSearchLine(" " + m.searchField.View())
	} else {
		m.sidebar.SetSearchLine(m.styles.muted.Copy().Padding(0, 1).Render("/ to search"))
	}
}

func (m *model) refreshContent() {
	width := m.content.width - 4
	switch m.view.Mode {
	case browse.ModeModuleOverview:
		m.content.SetTitle("Module")
		m.content.SetHeader(m.renderHeader() + "\n" + renderModuleHeader(m.styles, m.view.Module, width))
		m.content.SetTables(m.view.Module)
	case browse.ModeTableDetail:
		m.content.SetTitle("Table")
		td := m.view.Table
		m.content.SetHeader(lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(),
			renderTableStats(m.styles, td, width),
			renderTabs(m.styles, m.tab),
		))
		switch m.tab {
		case tabOverview:
			m.content.SetBody(RenderMarkdown(tableOverviewMarkdown(td)))
		case tabRelations:
			m.content.SetBody(renderRelations(m.styles, td))
		default:
			body, offset := renderColumnCards(m.styles, td, m.columnCursor, width)
			m.content.SetBody(body)
			m.content.ScrollTo(offset)
		}
	default:
		m.content.SetTitle("Details")
		m.content.SetHeader("")
		m.content.SetBody(renderEmpty(m.styles))
	}
}

func (m *model) renderHeader() string {
	h := m.view.Header
	out := m.styles.topTitle.Render(h.Title)
	if h.Subtitle != "" {
		out += "\n" + m.styles.topSubtitle.Render(h.Subtitle)
	}
	return out
}

func (m *model) View() string {
	var builder strings.Builder

	m.help.Width = max(m.width-4, 0)

	title := "datadict • " + m.view.Header.Title
	builder.WriteString(m.styles.topBar.Width(m.width).Render(title))
	builder.WriteRune('\n')

	var row string
	switch {
	case m.state.SidebarOpen() && m.state.Compact():
		// The sidebar overlays the content on narrow screens.
		row = m.sidebar.View(m.styles, true)
	case m.state.SidebarOpen():
		row = lipgloss.JoinHorizontal(lipgloss.Top,
			m.sidebar.View(m.styles, m.focus == focusSidebar),
			m.content.View(m.styles, m.focus == focusContent),
		)
	default:
		row = m.content.View(m.styles, true)
	}
	builder.WriteString(row)
	builder.WriteRune('\n')

	if m.showLogs {
		logTitle := m.styles.columnTitle.Render("Logs")
		builder.WriteString(m.styles.panel.Width(max(m.width-2, 10)).Render(logTitle + "\n" + m.logs.View()))
		builder.WriteRune('\n')
	}

	if helpView := m.help.View(m.keys); helpView != "" {
		builder.WriteString(helpView)
		if !strings.HasSuffix(helpView, "\n") {
			builder.WriteRune('\n')
		}
	}

	builder.WriteString(m.renderStatus())
	return m.styles.app.Render(builder.String())
}

func (m *model) applyLayout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	topChrome := 1
	bottomChrome := 1
	m.help.Width = max(m.width-4, 0)
	if helpView := m.help.View(m.keys); helpView != "" {
		bottomChrome += lipgloss.Height(helpView)
	}
	bodyHeight := max(m.height-topChrome-bottomChrome, 6)
	if m.showLogs {
		bodyHeight = max(bodyHeight-m.logsHeight, 6)
		m.logs.Width = max(m.width-4, 10)
		m.logs.Height = m.logsHeight - 3
	}

	sidebarWidth := min(m.cfg.SidebarWidth, m.width)
	switch {
	case m.state.SidebarOpen() && m.state.Compact():
		m.sidebar.SetSize(m.width, bodyHeight)
		m.content.SetSize(m.width, bodyHeight)
	case m.state.SidebarOpen():
		m.sidebar.SetSize(sidebarWidth, bodyHeight)
		m.content.SetSize(m.width-sidebarWidth, bodyHeight)
	default:
		m.content.SetSize(m.width, bodyHeight)
	}
	setMarkdownWordWrap(max(m.content.width-6, 20))
}

func (m *model) renderStatus() string {
	focusTitle := m.focusedColumn().Title()
	focusValue := strings.TrimSpace(m.focusedName())
	if focusValue == "" {
		focusValue = "—"
	}
	segments := []string{
		m.styles.statusSeg.Render(fmt.Sprintf("%s: %s", focusTitle, focusValue)),
		m.styles.statusSeg.Render("View: " + m.view.Mode.String()),
	}
	if m.view.Mode == browse.ModeTableDetail {
		segments = append(segments, m.styles.statusSeg.Render("Tab: "+m.tab.String()))
	}
	if q := m.state.Query(); q != "" {
		segments = append(segments, m.styles.statusSeg.Render(fmt.Sprintf("Search: %q", q)))
	}
	segments = append(segments, m.styles.statusSeg.Render("Theme: "+markdownThemeLabel(m.markdownTheme)))
	if m.toastMessage != "" {
		if time.Now().After(m.toastExpires) {
			m.toastMessage = ""
		} else {
			segments = append(segments, m.styles.statusSeg.Render(m.toastMessage))
		}
	}
	content := strings.Join(segments, lipgloss.NewStyle().Render("│"))
	return m.styles.statusBar.Width(m.width).Render(content)
}

func (m *model) appendLog(line string) {
	if line == "" {
		return
	}
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
	m.logs.SetContent(strings.Join(m.logLines, "\n"))
	m.logs.GotoBottom()
}

func (m *model) setToast(msg string, duration time.Duration) {
	trimmed := strings.TrimSpace(msg)
	if trimmed == "" {
		m.toastMessage = ""
		m.toastExpires = time.Time{}
		return
	}
	if duration <= 0 {
		duration = 5 * time.Second
	}
	m.toastMessage = trimmed
	m.toastExpires = time.Now().Add(duration)
}
