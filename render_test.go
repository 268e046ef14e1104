package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/datadict/internal/browse"
)

func TestClassifyDataType(t *testing.T) {
	tests := []struct {
		dataType string
		want     dataTypeClass
	}{
		{"INTEGER", dataTypeInteger},
		{"bigint", dataTypeInteger},
		{"STRING/INTEGER", dataTypeInteger},
		{"VARCHAR(64)", dataTypeString},
		{"text", dataTypeString},
		{"DECIMAL(18,2)", dataTypeDecimal},
		{"float64", dataTypeDecimal},
		{"DATE", dataTypeDate},
		{"TIMESTAMP", dataTypeDate},
		{"BOOLEAN", dataTypeBoolean},
		{"JSONB", dataTypeOther},
		{"", dataTypeOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classifyDataType(tt.dataType), tt.dataType)
	}
}

func TestDetailTabNextWraps(t *testing.T) {
	assert.Equal(t, tabOverview, tabColumns.next(1))
	assert.Equal(t, tabColumns, tabRelations.next(1))
	assert.Equal(t, tabRelations, tabColumns.next(-1))
	assert.Equal(t, "Relations", tabRelations.String())
}

func TestImportanceStars(t *testing.T) {
	assert.Empty(t, importanceStars(0))
	assert.Equal(t, "3/5 ★★★", importanceStars(3))
	assert.Equal(t, "5/5 ★★★★★", importanceStars(9))
}

func TestTableMarkdown(t *testing.T) {
	cat := testCatalog()
	tbl, ok := cat.TableByID("customers")
	require.True(t, ok)

	doc := tableMarkdown(browse.ComposeTable(cat, tbl))
	assert.Contains(t, doc, "# customer_master")
	assert.Contains(t, doc, "Module: **Customer Master**")
	assert.Contains(t, doc, "Raw: 1 • Engineered: 1 • Outcome: 0 • Identifier: 1 • PII: 0")
	assert.Contains(t, doc, "Used in model: 2 • NOT NULL: 2")
	assert.Contains(t, doc, "| `age_years` | INTEGER | Engineered | no | yes |  |")
	assert.Contains(t, doc, "- `customer_id` Join key")
}

func TestTableMarkdownWithoutRelations(t *testing.T) {
	cat := testCatalog()
	tbl, _ := cat.TableByID("card-tx")
	doc := tableMarkdown(browse.ComposeTable(cat, tbl))
	assert.Contains(t, doc, "_No relations detected._")
}

func TestModuleMarkdown(t *testing.T) {
	m, ok := testCatalog().ModuleByID("customer-master")
	require.True(t, ok)

	doc := moduleMarkdown(browse.ComposeModule(m))
	assert.Contains(t, doc, "# Customer Master")
	assert.Contains(t, doc, "Importance: 5/5")
	assert.Contains(t, doc, "Tables: 2 • Columns: 4 • Used in model: 2")
	assert.Contains(t, doc, "| `customer_segment` | 1 | 0 | 1 |  |")
}

func TestSidebarEntries(t *testing.T) {
	cat := testCatalog()
	st := browse.NewState(cat, browse.Options{})
	st.SelectModule("transactions")
	st.SelectTable("segments")

	items := sidebarEntries(browse.Compose(cat, st).Sidebar)
	require.Len(t, items, 4)

	first := items[0].(sidebarEntry)
	assert.Equal(t, "▾ Customer Master", first.Title())
	assert.Equal(t, "  2 tables", first.Description())

	seg := items[2].(sidebarEntry)
	assert.Equal(t, "  • customer_segment ●", seg.Title())

	tx := items[3].(sidebarEntry)
	assert.Equal(t, "▸ Transactions ●", tx.Title())
}

func TestEscapeCell(t *testing.T) {
	assert.Equal(t, `a\|b c`, escapeCell("a|b\nc"))
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "1 table", pluralize(1, "table"))
	assert.Equal(t, "0 tables", pluralize(0, "table"))
}
