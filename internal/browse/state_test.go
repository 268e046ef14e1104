package browse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/datadict/internal/catalog"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Module{
		{
			ID:          "customer-master",
			Name:        "Customer Master",
			Description: "Identity fields",
			Tables: []catalog.Table{
				{
					ID:   "customers",
					Name: "customer_master",
					Columns: []catalog.Column{
						{ID: "customer-id", Name: "customer_id", Category: catalog.CategoryIdentifier},
						{ID: "gender", Name: "gender", Nullable: true, Category: catalog.CategoryRaw, UsedInModel: true},
						{ID: "age", Name: "age_years", Category: catalog.CategoryEngineered, UsedInModel: true},
						{ID: "segment", Name: "segment", Nullable: true, Category: catalog.CategoryRaw},
						{ID: "score", Name: "score", Nullable: true, Category: catalog.CategoryOutcome},
					},
				},
				{
					ID:   "segments",
					Name: "customer_segment",
					Columns: []catalog.Column{
						{ID: "customer-id", Name: "customer_id"},
						{ID: "code", Name: "segment_code", UsedInModel: true},
						{ID: "month", Name: "snapshot_month", Nullable: true},
					},
				},
			},
		},
		{
			ID:          "transactions",
			Name:        "Transactions",
			Description: "Card spending",
			Tables: []catalog.Table{
				{ID: "card-tx", Name: "card_transactions", Columns: []catalog.Column{{ID: "amount", Name: "amount"}}},
			},
		},
	})
}

func TestNewState(t *testing.T) {
	st := NewState(testCatalog(), Options{})

	assert.Equal(t, "customer-master", st.ActiveModuleID())
	assert.Empty(t, st.ActiveTableID())
	assert.Equal(t, []string{"customer-master", "transactions"}, st.ExpandedModules())
	assert.Empty(t, st.ExpandedColumns())
	assert.True(t, st.SidebarOpen())
	assert.Empty(t, st.Query())
}

func TestNewStateEmptyCatalog(t *testing.T) {
	st := NewState(catalog.New(nil), Options{})
	assert.Empty(t, st.ActiveModuleID())
	assert.Empty(t, st.ExpandedModules())
}

func TestSelectModuleClearsTable(t *testing.T) {
	st := NewState(testCatalog(), Options{})
	st.SelectTable("customers")
	st.ToggleColumn("gender")

	st.SelectModule("transactions")
	assert.Equal(t, "transactions", st.ActiveModuleID())
	assert.Empty(t, st.ActiveTableID())
	assert.Empty(t, st.ExpandedColumns())
	// The module started expanded, so selecting it collapses it.
	assert.False(t, st.ModuleExpanded("transactions"))

	st.SelectModule("transactions")
	assert.True(t, st.ModuleExpanded("transactions"))
	assert.Equal(t, "transactions", st.ActiveModuleID())
}

func TestSelectTableKeepsModule(t *testing.T) {
	st := NewState(testCatalog(), Options{})
	before := st.ExpandedModules()

	st.SelectTable("card-tx")
	assert.Equal(t, "card-tx", st.ActiveTableID())
	assert.Equal(t, "customer-master", st.ActiveModuleID())
	assert.Equal(t, before, st.ExpandedModules())
}

func TestSelectTableResetsColumns(t *testing.T) {
	st := NewState(testCatalog(), Options{})
	st.SelectTable("customers")
	st.ToggleColumn("gender")

	st.SelectTable("customers")
	assert.Equal(t, []string{"gender"}, st.ExpandedColumns())

	st.SelectTable("segments")
	assert.Empty(t, st.ExpandedColumns())
}

func TestToggleColumnTwiceRestores(t *testing.T) {
	st := NewState(testCatalog(), Options{})
	st.SelectTable("customers")
	st.ToggleColumn("age")
	before := st.ExpandedColumns()

	assert.True(t, st.ToggleColumn("gender"))
	assert.False(t, st.ToggleColumn("gender"))
	assert.Equal(t, before, st.ExpandedColumns())
}

func TestCompactClosesSidebarAfterNavigation(t *testing.T) {
	st := NewState(testCatalog(), Options{Compact: true})
	require.True(t, st.SidebarOpen())

	st.SelectTable("customers")
	assert.False(t, st.SidebarOpen())

	st.ToggleSidebar()
	st.SelectModule("transactions")
	assert.False(t, st.SidebarOpen())

	// Navigating with the sidebar already closed leaves it closed.
	st.SelectTable("card-tx")
	assert.False(t, st.SidebarOpen())
}

func TestWideLayoutKeepsSidebar(t *testing.T) {
	st := NewState(testCatalog(), Options{})
	st.SelectTable("customers")
	st.SelectModule("transactions")
	assert.True(t, st.SidebarOpen())

	st.SetCompact(true)
	assert.True(t, st.Compact())
	st.SelectTable("card-tx")
	assert.False(t, st.SidebarOpen())
}

func TestSetQueryKeepsWhitespace(t *testing.T) {
	st := NewState(testCatalog(), Options{})
	st.SetQuery("  cust ")
	assert.Equal(t, "  cust ", st.Query())
	assert.Equal(t, "customer-master", st.ActiveModuleID())
}
