package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bekirdag/datadict/internal/browse"
)

type column interface {
	SetSize(width, height int)
	Update(msg tea.Msg) (column, tea.Cmd)
	View(styles styles, focused bool) string
	Title() string
	FocusValue() string
}

type sidebarEntryKind int

const (
	entryModule sidebarEntryKind = iota
	entryTable
)

type sidebarEntry struct {
	kind     sidebarEntryKind
	id       string
	name     string
	desc     string
	level    int
	active   bool
	expanded bool
}

func (e sidebarEntry) Title() string {
	icon := "•"
	if e.kind == entryModule {
		icon = "▸"
		if e.expanded {
			icon = "▾"
		}
	}
	marker := ""
	if e.active {
		marker = " ●"
	}
	return fmt.Sprintf("%s%s %s%s", strings.Repeat("  ", e.level), icon, e.name, marker)
}

func (e sidebarEntry) Description() string {
	return strings.Repeat("  ", e.level) + "  " + e.desc
}

func (e sidebarEntry) FilterValue() string { return e.name }

func (e sidebarEntry) key() string {
	if e.kind == entryModule {
		return "module:" + e.id
	}
	return "table:" + e.id
}

func sidebarEntries(sb browse.Sidebar) []list.Item {
	var items []list.Item
	for _, m := range sb.Modules {
		items = append(items, sidebarEntry{
			kind:     entryModule,
			id:       m.Module.ID,
			name:     m.Module.Name,
			desc:     pluralize(len(m.Module.Tables), "table"),
			active:   m.Active,
			expanded: m.Expanded,
		})
		for _, t := range m.Tables {
			items = append(items, sidebarEntry{
				kind:   entryTable,
				id:     t.Table.ID,
				name:   t.Table.Name,
				desc:   pluralize(len(t.Table.Columns), "column"),
				level:  1,
				active: t.Active,
			})
		}
	}
	return items
}

// sidebarColumn is the searchable module/table tree.
type sidebarColumn struct {
	title     string
	model     list.Model
	width     int
	height    int
	search    string
	footer    string
	noResults bool
}

func newSidebarColumn(s styles) *sidebarColumn {
	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = s.listSel
	delegate.Styles.SelectedDesc = s.listSel.Copy().Bold(false)
	delegate.Styles.NormalTitle = s.listItem
	delegate.Styles.NormalDesc = s.listItem.Copy().Foreground(palette.textMuted)

	m := list.New([]list.Item{}, delegate, defaultSidebarWidth, 20)
	m.SetShowTitle(false)
	m.SetShowStatusBar(false)
	m.SetFilteringEnabled(false)
	m.SetShowHelp(false)
	m.SetShowPagination(false)
	m.KeyMap.Quit.SetEnabled(false)
	m.KeyMap.ForceQuit.SetEnabled(false)

	return &sidebarColumn{title: "Modules", model: m}
}

// SetSidebar replaces the tree. The highlighted row stays on the same module or
// table when it is still listed; otherwise it moves to the active entry.
func (c *sidebarColumn) SetSidebar(sb browse.Sidebar) {
	prev, hadPrev := c.SelectedEntry()
	items := sidebarEntries(sb)
	c.model.SetItems(items)
	c.noResults = sb.NoResults
	c.footer = fmt.Sprintf("%s • %s", pluralize(sb.TotalModules, "module"), pluralize(sb.TotalTables, "table"))

	target := -1
	activeIdx := -1
	for i, item := range items {
		entry := item.(sidebarEntry)
		if hadPrev && entry.key() == prev.key() {
			target = i
		}
		if entry.active && (activeIdx < 0 || entry.kind == entryTable) {
			activeIdx = i
		}
	}
	if target < 0 {
		target = activeIdx
	}
	if target < 0 && len(items) > 0 {
		target = 0
	}
	if target >= 0 {
		c.model.Select(target)
	}
}

func (c *sidebarColumn) SetSearchLine(line string) {
	c.search = line
}

func (c *sidebarColumn) SelectedEntry() (sidebarEntry, bool) {
	if entry, ok := c.model.SelectedItem().(sidebarEntry); ok {
		return entry, true
	}
	return sidebarEntry{}, false
}

func (c *sidebarColumn) SetSize(width, height int) {
	c.width = max(width, minSidebarWidth)
	if height < 6 {
		height = 6
	}
	c.height = height
	// border, title, search line and footer
	c.model.SetSize(c.width-2, height-5)
}

func (c *sidebarColumn) Update(msg tea.Msg) (column, tea.Cmd) {
	var cmd tea.Cmd
	c.model, cmd = c.model.Update(msg)
	return c, cmd
}

func (c *sidebarColumn) View(s styles, focused bool) string {
	body := s.muted.Render("No results")
	if !c.noResults {
		body = c.model.View()
	}
	inner := lipgloss.JoinVertical(lipgloss.Left,
		s.columnTitle.Render(c.title),
		c.search,
		lipgloss.NewStyle().Height(max(c.height-5, 1)).Render(body),
		s.muted.Copy().Padding(0, 1).Render(c.footer),
	)
	if focused {
		return s.panelFocused.Width(c.width - 2).Render(inner)
	}
	return s.panel.Width(c.width - 2).Render(inner)
}

func (c *sidebarColumn) Title() string {
	return c.title
}

func (c *sidebarColumn) FocusValue() string {
	if entry, ok := c.SelectedEntry(); ok {
		return entry.name
	}
	return ""
}

// contentColumn shows the module overview, the table detail or the prompt.
// The module overview lists its tables in a table widget; everything else
// scrolls in a viewport.
type contentColumn struct {
	title      string
	width      int
	height     int
	header     string
	view       viewport.Model
	tables     table.Model
	showTables bool
}

func newContentColumn(s styles) *contentColumn {
	t := table.New(
		table.WithColumns(tableSummaryColumns(60)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	tStyles := table.DefaultStyles()
	tStyles.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(palette.textMuted).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(palette.border).
		BorderBottom(true).
		Padding(0, 1)
	tStyles.Selected = lipgloss.NewStyle().
		Foreground(palette.text).
		Background(palette.selection).
		Bold(true)
	t.SetStyles(tStyles)

	return &contentColumn{
		title:  "Details",
		view:   viewport.New(60, 20),
		tables: t,
	}
}

func tableSummaryColumns(width int) []table.Column {
	nameWidth := max(width-46, 12)
	return []table.Column{
		{Title: "Table", Width: nameWidth},
		{Title: "Columns", Width: 8},
		{Title: "Used in model", Width: 14},
		{Title: "NOT NULL", Width: 9},
	}
}

func (c *contentColumn) SetSize(width, height int) {
	c.width = max(width, 24)
	if height < 6 {
		height = 6
	}
	c.height = height
	c.layoutBody()
}

func (c *contentColumn) bodyHeight() int {
	h := c.height - 3
	if c.header != "" {
		h -= lipgloss.Height(c.header)
	}
	return max(h, 3)
}

func (c *contentColumn) layoutBody() {
	c.view.Width = c.width - 2
	c.view.Height = c.bodyHeight()
	c.tables.SetColumns(tableSummaryColumns(c.width - 2))
	c.tables.SetWidth(c.width - 2)
	c.tables.SetHeight(c.bodyHeight())
}

// SetHeader sets the fixed block shown above the scrolling body.
func (c *contentColumn) SetHeader(header string) {
	c.header = header
	c.layoutBody()
}

func (c *contentColumn) SetBody(content string) {
	c.showTables = false
	c.view.SetContent(content)
}

// SetTables switches to the table list. The cursor is kept when it is still in
// range.
func (c *contentColumn) SetTables(ov *browse.ModuleOverview) {
	rows := make([]table.Row, 0, len(ov.Tables))
	for _, ts := range ov.Tables {
		rows = append(rows, table.Row{
			ts.Table.Name,
			fmt.Sprint(ts.ColumnCount),
			fmt.Sprint(ts.UsedInModel),
			fmt.Sprint(ts.NotNull),
		})
	}
	cursor := c.tables.Cursor()
	c.tables.SetRows(rows)
	if cursor >= len(rows) || cursor < 0 {
		cursor = 0
	}
	c.tables.SetCursor(cursor)
	c.showTables = true
}

func (c *contentColumn) TableCursor() int {
	return c.tables.Cursor()
}

func (c *contentColumn) ResetCursor() {
	c.tables.SetCursor(0)
	c.view.GotoTop()
}

// ScrollTo brings line into the viewport, aligning it to the top when it is
// outside the visible window.
func (c *contentColumn) ScrollTo(line int) {
	if line < c.view.YOffset || line >= c.view.YOffset+c.view.Height {
		c.view.SetYOffset(line)
	}
}

func (c *contentColumn) Update(msg tea.Msg) (column, tea.Cmd) {
	var cmd tea.Cmd
	if c.showTables {
		c.tables, cmd = c.tables.Update(msg)
		return c, cmd
	}
	c.view, cmd = c.view.Update(msg)
	return c, cmd
}

func (c *contentColumn) View(s styles, focused bool) string {
	parts := []string{s.columnTitle.Render(c.title)}
	if c.header != "" {
		parts = append(parts, c.header)
	}
	if c.showTables {
		parts = append(parts, c.tables.View())
	} else {
		parts = append(parts, c.view.View())
	}
	body := lipgloss.JoinVertical(lipgloss.Left, parts...)
	if focused {
		return s.panelFocused.Width(c.width - 2).Render(body)
	}
	return s.panel.Width(c.width - 2).Render(body)
}

func (c *contentColumn) Title() string {
	return c.title
}

func (c *contentColumn) SetTitle(title string) {
	c.title = title
}

func (c *contentColumn) FocusValue() string {
	if c.showTables {
		if row := c.tables.SelectedRow(); len(row) > 0 {
			return row[0]
		}
	}
	return ""
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
