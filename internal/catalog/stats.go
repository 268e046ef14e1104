package catalog

import "strings"

// relationMarker is the naming convention used to guess join columns. It is a
// heuristic, not foreign-key metadata.
const relationMarker = "id"

func (t Table) UsedInModelCount() int {
	n := 0
	for _, col := range t.Columns {
		if col.UsedInModel {
			n++
		}
	}
	return n
}

func (t Table) NotNullCount() int {
	n := 0
	for _, col := range t.Columns {
		if !col.Nullable {
			n++
		}
	}
	return n
}

func (t Table) CategoryCount(cat Category) int {
	n := 0
	for _, col := range t.Columns {
		if col.Category == cat {
			n++
		}
	}
	return n
}

// RelationCandidates returns the columns whose name contains "id", in column
// order. Matching is case-sensitive.
func (t Table) RelationCandidates() []Column {
	var out []Column
	for _, col := range t.Columns {
		if strings.Contains(col.Name, relationMarker) {
			out = append(out, col)
		}
	}
	return out
}

func (m Module) ColumnCount() int {
	n := 0
	for _, t := range m.Tables {
		n += len(t.Columns)
	}
	return n
}

func (m Module) UsedInModelCount() int {
	n := 0
	for _, t := range m.Tables {
		n += t.UsedInModelCount()
	}
	return n
}

// HasTable reports whether the module directly owns a table with the id.
func (m Module) HasTable(id string) bool {
	for _, t := range m.Tables {
		if t.ID == id {
			return true
		}
	}
	return false
}
