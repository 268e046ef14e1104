package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalog() *Catalog {
	return New([]Module{
		{
			ID:          "customer-master",
			Name:        "Customer Master",
			Description: "Identity fields",
			Importance:  5,
			Tables: []Table{
				{
					ID:          "customers",
					Name:        "customer_master",
					Description: "One row per customer",
					Columns: []Column{
						{ID: "customer-id", Name: "customer_id", Nullable: false, Category: CategoryIdentifier},
						{ID: "gender", Name: "gender", Nullable: true, Category: CategoryRaw, UsedInModel: true},
						{ID: "age", Name: "age_years", Nullable: false, Category: CategoryEngineered, UsedInModel: true},
						{ID: "segment", Name: "segment", Nullable: true, Category: CategoryRaw},
						{ID: "score", Name: "score", Nullable: true, Category: CategoryOutcome},
					},
				},
				{
					ID:          "segments",
					Name:        "customer_segment",
					Description: "Monthly marketing segment",
					Columns: []Column{
						{ID: "customer-id", Name: "customer_id", Nullable: false},
						{ID: "code", Name: "segment_code", Nullable: false, UsedInModel: true},
						{ID: "month", Name: "snapshot_month", Nullable: true},
					},
				},
			},
		},
		{
			ID:          "transactions",
			Name:        "Transactions",
			Description: "Card spending",
			Tables: []Table{
				{
					ID:          "card-tx",
					Name:        "card_transactions",
					Description: "Settled card transactions",
					Columns: []Column{
						{ID: "amount", Name: "amount"},
					},
				},
			},
		},
		{
			ID:          "outcomes",
			Name:        "Outcomes",
			Description: "Labels and scores",
		},
	})
}

func TestCatalogLookups(t *testing.T) {
	cat := sampleCatalog()

	m, ok := cat.ModuleByID("transactions")
	require.True(t, ok)
	assert.Equal(t, "Transactions", m.Name)

	_, ok = cat.ModuleByID("missing")
	assert.False(t, ok)

	tbl, ok := cat.TableByID("segments")
	require.True(t, ok)
	assert.Equal(t, "customer_segment", tbl.Name)

	_, ok = cat.TableByID("missing")
	assert.False(t, ok)

	owner, ok := cat.ModuleOfTable("card-tx")
	require.True(t, ok)
	assert.Equal(t, "transactions", owner.ID)
}

func TestModuleHasTable(t *testing.T) {
	m, ok := sampleCatalog().ModuleByID("customer-master")
	require.True(t, ok)
	assert.True(t, m.HasTable("customers"))
	assert.False(t, m.HasTable("card-tx"))
	assert.False(t, m.HasTable(""))
}

func TestCatalogAllTablesPreservesOrder(t *testing.T) {
	cat := sampleCatalog()

	var ids []string
	for _, tbl := range cat.AllTables() {
		ids = append(ids, tbl.ID)
	}
	assert.Equal(t, []string{"customers", "segments", "card-tx"}, ids)
	assert.Equal(t, 3, cat.TableCount())
	assert.Equal(t, 9, cat.ColumnCount())
}

func TestTableByIDFirstMatchWins(t *testing.T) {
	cat := New([]Module{
		{ID: "a", Tables: []Table{{ID: "dup", Name: "first"}}},
		{ID: "b", Tables: []Table{{ID: "dup", Name: "second"}}},
	})

	tbl, ok := cat.TableByID("dup")
	require.True(t, ok)
	assert.Equal(t, "first", tbl.Name)
	assert.Equal(t, []string{"table:dup"}, cat.DuplicateIDs())
}

func TestDuplicateIDs(t *testing.T) {
	cat := New([]Module{
		{ID: "m", Tables: []Table{{ID: "t", Columns: []Column{{ID: "c"}, {ID: "c"}}}}},
		{ID: "m"},
	})
	assert.Equal(t, []string{"column:t/c", "module:m"}, cat.DuplicateIDs())
	assert.Empty(t, sampleCatalog().DuplicateIDs())
}

func TestNilCatalogIsEmpty(t *testing.T) {
	var cat *Catalog
	assert.Equal(t, 0, cat.Len())
	assert.Nil(t, cat.AllTables())
	_, ok := cat.TableByID("x")
	assert.False(t, ok)
	_, ok = cat.First()
	assert.False(t, ok)
}

func TestNewCopiesModules(t *testing.T) {
	modules := []Module{{ID: "a"}, {ID: "b"}}
	cat := New(modules)
	modules[0].ID = "changed"

	first, ok := cat.First()
	require.True(t, ok)
	assert.Equal(t, "a", first.ID)
}

func TestModuleAggregates(t *testing.T) {
	m := Module{Tables: []Table{
		{Columns: []Column{{UsedInModel: true}, {UsedInModel: true}, {}, {}, {}}},
		{Columns: []Column{{UsedInModel: true}, {}, {}}},
	}}
	assert.Equal(t, 8, m.ColumnCount())
	assert.Equal(t, 3, m.UsedInModelCount())
}

func TestTableAggregates(t *testing.T) {
	tbl := Table{Columns: []Column{
		{Name: "customer_id", Nullable: false, Category: CategoryIdentifier},
		{Name: "amount", Nullable: true, Category: CategoryRaw},
		{Name: "paid", Nullable: false, Category: CategoryRaw, UsedInModel: true},
		{Name: "ID_legacy", Nullable: true, Category: CategoryOutcome},
	}}

	assert.Equal(t, 2, tbl.NotNullCount())
	assert.Equal(t, 1, tbl.UsedInModelCount())
	assert.Equal(t, 2, tbl.CategoryCount(CategoryRaw))
	assert.Equal(t, 0, tbl.CategoryCount(CategoryEngineered))

	relations := tbl.RelationCandidates()
	require.Len(t, relations, 2)
	assert.Equal(t, "customer_id", relations[0].Name)
	assert.Equal(t, "paid", relations[1].Name)
}

func TestNotNullCountExample(t *testing.T) {
	tbl := Table{Columns: []Column{{Nullable: false}, {Nullable: true}, {Nullable: false}}}
	assert.Equal(t, 2, tbl.NotNullCount())
}
