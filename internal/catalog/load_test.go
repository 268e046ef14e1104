package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonCatalog = `{
  "modules": [
    {
      "id": "customer-master",
      "name": "Customer Master",
      "description": "Identity",
      "importance": 5,
      "role": "Anchor & label",
      "tables": [
        {
          "id": "customer-master-main",
          "name": "customer_master",
          "schema": "public",
          "description": "Main table",
          "columns": [
            {
              "id": "customer-id",
              "name": "customer_id",
              "dataType": "STRING/INTEGER",
              "nullable": false,
              "description": "Join key",
              "businessMeaning": "Not a feature",
              "example": "CUST_000123",
              "category": "Identifier",
              "usedInModel": false
            }
          ]
        }
      ]
    }
  ]
}`

func TestDecodeJSON(t *testing.T) {
	cat, err := Decode(strings.NewReader(jsonCatalog), FormatJSON)
	require.NoError(t, err)

	col := cat.AllTables()[0].Columns[0]
	assert.Equal(t, "STRING/INTEGER", col.DataType)
	assert.Equal(t, CategoryIdentifier, col.Category)
	assert.Equal(t, "Not a feature", col.BusinessMeaning)

	m, ok := cat.ModuleByID("customer-master")
	require.True(t, ok)
	assert.Equal(t, 5, m.Importance)
	assert.Equal(t, "Anchor & label", m.Role)
}

func TestDecodeBareList(t *testing.T) {
	cat, err := Decode(strings.NewReader(`[{"id":"a","name":"A","description":"","tables":[]}]`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())

	cat, err = Decode(strings.NewReader("- id: a\n  name: A\n- id: b\n  name: B\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, moduleIDs(cat.Modules()))
}

func TestDecodeEmptyYAML(t *testing.T) {
	cat, err := Decode(strings.NewReader(""), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 0, cat.Len())
}

func TestDecodeRejectsSQLiteStream(t *testing.T) {
	_, err := Decode(strings.NewReader(""), FormatSQLite)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"catalog.json":   FormatJSON,
		"catalog.YAML":   FormatYAML,
		"catalog.yml":    FormatYAML,
		"catalog.sqlite": FormatSQLite,
		"catalog.db":     FormatSQLite,
		"dir/x.sqlite3":  FormatSQLite,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("catalog.csv")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = FormatFromPath("catalog")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDefaultCatalog(t *testing.T) {
	cat := Default()
	require.Greater(t, cat.Len(), 0)
	assert.Empty(t, cat.DuplicateIDs())

	first, ok := cat.First()
	require.True(t, ok)
	assert.Equal(t, "customer-master", first.ID)
	assert.NotEmpty(t, cat.Filter("customer"))
}

func TestEncodeDecodeYAMLKeepsFieldNames(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleCatalog(), FormatYAML))
	out := buf.String()
	assert.Contains(t, out, "usedInModel: true")
	assert.Contains(t, out, "modules:")

	cat, err := Decode(&buf, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, moduleIDs(sampleCatalog().Modules()), moduleIDs(cat.Modules()))
	assert.Equal(t, sampleCatalog().AllTables(), cat.AllTables())
}

func TestSQLiteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.sqlite")
	src := sampleCatalog()

	require.NoError(t, Save(path, src, FormatSQLite))
	cat, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, moduleIDs(src.Modules()), moduleIDs(cat.Modules()))
	assert.Equal(t, src.ColumnCount(), cat.ColumnCount())

	tbl, ok := cat.TableByID("customers")
	require.True(t, ok)
	require.Len(t, tbl.Columns, 5)
	assert.Equal(t, "age_years", tbl.Columns[2].Name)
	assert.True(t, tbl.Columns[2].UsedInModel)
	assert.False(t, tbl.Columns[2].Nullable)
	assert.Equal(t, CategoryEngineered, tbl.Columns[2].Category)

	// Saving again replaces the file instead of appending rows.
	require.NoError(t, Save(path, src, FormatSQLite))
	cat, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, src.TableCount(), cat.TableCount())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(filepath.Join(t.TempDir(), "missing.sqlite"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, Save(path, sampleCatalog(), FormatJSON))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sampleCatalog().Modules(), cat.Modules())
}
