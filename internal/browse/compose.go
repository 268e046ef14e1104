package browse

import (
	"fmt"

	"github.com/bekirdag/datadict/internal/catalog"
)

// Mode is the content pane's render mode. Exactly one applies per render.
type Mode int

const (
	ModeEmpty Mode = iota
	ModeModuleOverview
	ModeTableDetail
)

func (m Mode) String() string {
	switch m {
	case ModeModuleOverview:
		return "module"
	case ModeTableDetail:
		return "table"
	default:
		return "empty"
	}
}

// View is the render payload for one frame.
type View struct {
	Mode    Mode
	Header  Header
	Sidebar Sidebar
	Module  *ModuleOverview
	Table   *TableDetail
}

type Header struct {
	Title    string
	Subtitle string
}

type Sidebar struct {
	Query        string
	Modules      []SidebarModule
	NoResults    bool
	TotalModules int
	TotalTables  int
}

type SidebarModule struct {
	Module   catalog.Module
	Active   bool
	Expanded bool
	Tables   []SidebarTable
}

type SidebarTable struct {
	Table  catalog.Table
	Active bool
}

type ModuleOverview struct {
	Module      catalog.Module
	TableCount  int
	ColumnCount int
	UsedInModel int
	Tables      []TableSummary
}

type TableSummary struct {
	Table       catalog.Table
	ColumnCount int
	UsedInModel int
	NotNull     int
}

type TableDetail struct {
	Table catalog.Table
	// Module owns the table. HasModule is false when no module lists it.
	Module      catalog.Module
	HasModule   bool
	Categories  CategoryCounts
	UsedInModel int
	NotNull     int
	Relations   []catalog.Column
	Columns     []ColumnRow
}

type CategoryCounts struct {
	Raw        int
	Engineered int
	Outcome    int
	Identifier int
	PII        int
}

type ColumnRow struct {
	Column   catalog.Column
	Expanded bool
}

const emptyTitle = "Data Dictionary"

// Compose derives the frame for the state. It reads both arguments and
// mutates neither, so equal inputs give equal views.
func Compose(cat *catalog.Catalog, st *State) View {
	v := View{Sidebar: composeSidebar(cat, st)}

	if id := st.ActiveTableID(); id != "" {
		if t, ok := cat.TableByID(id); ok {
			v.Mode = ModeTableDetail
			v.Table = composeTable(cat, st, t)
			v.Header = tableHeader(v.Table)
			return v
		}
	}
	if id := st.ActiveModuleID(); id != "" {
		if m, ok := cat.ModuleByID(id); ok {
			v.Mode = ModeModuleOverview
			v.Module = ComposeModule(m)
			v.Header = Header{Title: m.Name, Subtitle: m.Description}
			return v
		}
	}
	v.Mode = ModeEmpty
	v.Header = Header{Title: emptyTitle}
	return v
}

func composeSidebar(cat *catalog.Catalog, st *State) Sidebar {
	modules := cat.Filter(st.Query())
	sb := Sidebar{
		Query:        st.Query(),
		NoResults:    len(modules) == 0,
		TotalModules: cat.Len(),
		TotalTables:  cat.TableCount(),
		Modules:      make([]SidebarModule, 0, len(modules)),
	}
	for _, m := range modules {
		entry := SidebarModule{
			Module:   m,
			Active:   m.ID == st.ActiveModuleID(),
			Expanded: st.ModuleExpanded(m.ID),
		}
		if entry.Expanded {
			for _, t := range m.Tables {
				entry.Tables = append(entry.Tables, SidebarTable{
					Table:  t,
					Active: t.ID == st.ActiveTableID(),
				})
			}
		}
		sb.Modules = append(sb.Modules, entry)
	}
	return sb
}

// ComposeModule computes the module overview aggregates.
func ComposeModule(m catalog.Module) *ModuleOverview {
	ov := &ModuleOverview{
		Module:      m,
		TableCount:  len(m.Tables),
		ColumnCount: m.ColumnCount(),
		UsedInModel: m.UsedInModelCount(),
		Tables:      make([]TableSummary, 0, len(m.Tables)),
	}
	for _, t := range m.Tables {
		ov.Tables = append(ov.Tables, TableSummary{
			Table:       t,
			ColumnCount: len(t.Columns),
			UsedInModel: t.UsedInModelCount(),
			NotNull:     t.NotNullCount(),
		})
	}
	return ov
}

// ComposeTable computes the table detail aggregates with every column
// collapsed.
func ComposeTable(cat *catalog.Catalog, t catalog.Table) *TableDetail {
	return composeTable(cat, nil, t)
}

func composeTable(cat *catalog.Catalog, st *State, t catalog.Table) *TableDetail {
	td := &TableDetail{
		Table: t,
		Categories: CategoryCounts{
			Raw:        t.CategoryCount(catalog.CategoryRaw),
			Engineered: t.CategoryCount(catalog.CategoryEngineered),
			Outcome:    t.CategoryCount(catalog.CategoryOutcome),
			Identifier: t.CategoryCount(catalog.CategoryIdentifier),
			PII:        t.CategoryCount(catalog.CategoryPII),
		},
		UsedInModel: t.UsedInModelCount(),
		NotNull:     t.NotNullCount(),
		Relations:   t.RelationCandidates(),
		Columns:     make([]ColumnRow, 0, len(t.Columns)),
	}
	td.Module, td.HasModule = cat.ModuleOfTable(t.ID)
	for _, col := range t.Columns {
		td.Columns = append(td.Columns, ColumnRow{
			Column:   col,
			Expanded: st != nil && st.ColumnExpanded(col.ID),
		})
	}
	return td
}

func tableHeader(td *TableDetail) Header {
	subtitle := pluralize(len(td.Table.Columns), "column")
	if td.HasModule {
		subtitle = td.Module.Name + " • " + subtitle
	}
	return Header{Title: td.Table.Name, Subtitle: subtitle}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
