// Package catalog holds the read-only data dictionary: modules, their tables,
// and the tables' columns, plus the lookups and filters the browser runs over
// them.
package catalog

import "errors"

// Category classifies a column.
type Category string

const (
	CategoryRaw        Category = "Raw"
	CategoryEngineered Category = "Engineered"
	CategoryOutcome    Category = "Outcome"
	CategoryIdentifier Category = "Identifier"
	CategoryPII        Category = "PII"
)

// Categories lists every known category in display order.
var Categories = []Category{
	CategoryRaw,
	CategoryEngineered,
	CategoryOutcome,
	CategoryIdentifier,
	CategoryPII,
}

// ErrUnsupportedFormat is returned when a catalog source has an unknown format.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

type Column struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	DataType        string   `json:"dataType" yaml:"dataType"`
	Nullable        bool     `json:"nullable" yaml:"nullable"`
	Description     string   `json:"description" yaml:"description"`
	BusinessMeaning string   `json:"businessMeaning,omitempty" yaml:"businessMeaning,omitempty"`
	Example         string   `json:"example,omitempty" yaml:"example,omitempty"`
	Category        Category `json:"category,omitempty" yaml:"category,omitempty"`
	UsedInModel     bool     `json:"usedInModel,omitempty" yaml:"usedInModel,omitempty"`
}

type Table struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Schema      string   `json:"schema" yaml:"schema"`
	Description string   `json:"description" yaml:"description"`
	Columns     []Column `json:"columns" yaml:"columns"`
	Role        string   `json:"role,omitempty" yaml:"role,omitempty"`
	Importance  int      `json:"importance,omitempty" yaml:"importance,omitempty"`
}

type Module struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Tables      []Table `json:"tables" yaml:"tables"`
	Importance  int     `json:"importance,omitempty" yaml:"importance,omitempty"`
	Role        string  `json:"role,omitempty" yaml:"role,omitempty"`
}

// Catalog is the full ordered set of modules. It is built once and never
// mutated; share it by pointer.
type Catalog struct {
	modules []Module
}

// New builds a catalog from modules in the given order. The slice is copied so
// later changes by the caller do not leak in.
func New(modules []Module) *Catalog {
	return &Catalog{modules: append([]Module(nil), modules...)}
}

// Modules returns the modules in catalog order. Callers must not modify the
// nested tables or columns.
func (c *Catalog) Modules() []Module {
	if c == nil {
		return nil
	}
	return append([]Module(nil), c.modules...)
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.modules)
}

// First returns the first module in catalog order.
func (c *Catalog) First() (Module, bool) {
	if c.Len() == 0 {
		return Module{}, false
	}
	return c.modules[0], true
}

func (c *Catalog) ModuleByID(id string) (Module, bool) {
	if c == nil {
		return Module{}, false
	}
	for _, m := range c.modules {
		if m.ID == id {
			return m, true
		}
	}
	return Module{}, false
}

// TableByID scans every module's tables and returns the first table with the
// id, in module order.
func (c *Catalog) TableByID(id string) (Table, bool) {
	if c == nil {
		return Table{}, false
	}
	for _, m := range c.modules {
		for _, t := range m.Tables {
			if t.ID == id {
				return t, true
			}
		}
	}
	return Table{}, false
}

// ModuleOfTable returns the module owning the first table with the id.
func (c *Catalog) ModuleOfTable(id string) (Module, bool) {
	if c == nil {
		return Module{}, false
	}
	for _, m := range c.modules {
		if m.HasTable(id) {
			return m, true
		}
	}
	return Module{}, false
}

// AllTables flattens the catalog, preserving module order then table order.
func (c *Catalog) AllTables() []Table {
	if c == nil {
		return nil
	}
	tables := make([]Table, 0, c.TableCount())
	for _, m := range c.modules {
		tables = append(tables, m.Tables...)
	}
	return tables
}

func (c *Catalog) TableCount() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, m := range c.modules {
		total += len(m.Tables)
	}
	return total
}

func (c *Catalog) ColumnCount() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, m := range c.modules {
		total += m.ColumnCount()
	}
	return total
}

// DuplicateIDs reports ids that break the uniqueness rules: module and table
// ids across the whole catalog, column ids within their table. Each entry is
// prefixed with its kind, e.g. "table:orders" or "column:orders/id".
func (c *Catalog) DuplicateIDs() []string {
	if c == nil {
		return nil
	}
	var dups []string
	modules := make(map[string]bool)
	tables := make(map[string]bool)
	for _, m := range c.modules {
		if modules[m.ID] {
			dups = append(dups, "module:"+m.ID)
		}
		modules[m.ID] = true
		for _, t := range m.Tables {
			if tables[t.ID] {
				dups = append(dups, "table:"+t.ID)
			}
			tables[t.ID] = true
			columns := make(map[string]bool, len(t.Columns))
			for _, col := range t.Columns {
				if columns[col.ID] {
					dups = append(dups, "column:"+t.ID+"/"+col.ID)
				}
				columns[col.ID] = true
			}
		}
	}
	return dups
}
