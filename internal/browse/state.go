// Package browse holds the navigation state of the dictionary browser and
// composes what the content pane should show for it.
package browse

import "github.com/bekirdag/datadict/internal/catalog"

// Options configure a new State.
type Options struct {
	// Compact marks a narrow screen: the sidebar overlays the content and
	// closes itself after every navigation.
	Compact bool
}

// State is the transient view state of one browsing session. The zero value is
// not usable; call NewState. It is not safe for concurrent use.
type State struct {
	activeModule    string
	activeTable     string
	expandedModules idSet
	expandedColumns idSet
	sidebarOpen     bool
	compact         bool
	query           string
}

// NewState activates the first module, expands every module and opens the
// sidebar.
func NewState(cat *catalog.Catalog, opts Options) *State {
	st := &State{
		expandedModules: newIDSet(),
		expandedColumns: newIDSet(),
		sidebarOpen:     true,
		compact:         opts.Compact,
	}
	for _, m := range cat.Modules() {
		st.expandedModules[m.ID] = struct{}{}
	}
	if first, ok := cat.First(); ok {
		st.activeModule = first.ID
	}
	return st
}

// SelectModule navigates to the module overview and toggles the module's
// sidebar entry open or closed in the same step. Any active table is cleared.
func (s *State) SelectModule(id string) {
	s.activeModule = id
	s.activeTable = ""
	s.expandedModules.toggle(id)
	s.expandedColumns = newIDSet()
	s.closeAfterNavigation()
}

// SelectTable shows the table detail. The active module and the expanded
// modules are left alone. Column expansion starts empty for a new table.
func (s *State) SelectTable(id string) {
	if s.activeTable != id {
		s.expandedColumns = newIDSet()
	}
	s.activeTable = id
	s.closeAfterNavigation()
}

// ToggleColumn flips whether the column's detail card is expanded and reports
// the new state.
func (s *State) ToggleColumn(id string) bool {
	return s.expandedColumns.toggle(id)
}

func (s *State) ToggleSidebar() {
	s.sidebarOpen = !s.sidebarOpen
}

// SetQuery stores the sidebar search text.
func (s *State) SetQuery(query string) {
	s.query = query
}

// SetCompact switches between the wide and narrow layouts.
func (s *State) SetCompact(compact bool) {
	s.compact = compact
}

func (s *State) closeAfterNavigation() {
	if s.compact && s.sidebarOpen {
		s.sidebarOpen = false
	}
}

func (s *State) ActiveModuleID() string { return s.activeModule }
func (s *State) ActiveTableID() string  { return s.activeTable }
func (s *State) SidebarOpen() bool      { return s.sidebarOpen }
func (s *State) Compact() bool          { return s.compact }
func (s *State) Query() string          { return s.query }

func (s *State) ModuleExpanded(id string) bool {
	return s.expandedModules.has(id)
}

func (s *State) ColumnExpanded(id string) bool {
	return s.expandedColumns.has(id)
}

// ExpandedModules returns the expanded module ids, sorted.
func (s *State) ExpandedModules() []string {
	return s.expandedModules.sorted()
}

// ExpandedColumns returns the expanded column ids, sorted.
func (s *State) ExpandedColumns() []string {
	return s.expandedColumns.sorted()
}
