package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/datadict/internal/catalog"
)

const dictionary = "# Churn\n\n" +
	"## 5.1 customer_master\n\nCustomers.\n\n" +
	"| Feature | Category |\n|---|---|\n| customer_id | Identifier |\n| gender | Raw |\n\n" +
	"## 5.2 card_transactions\n\nCard spend.\n"

func writeDictionary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "README.md")
	require.NoError(t, os.WriteFile(path, []byte(dictionary), 0o644))
	return path
}

func TestRunWritesJSONToStdout(t *testing.T) {
	in := writeDictionary(t)
	var out bytes.Buffer

	err := run([]string{"--in", in, "--module-name", "Churn Model"}, &out, zerolog.Nop())
	require.NoError(t, err)

	cat, err := catalog.Decode(&out, catalog.FormatJSON)
	require.NoError(t, err)
	m, ok := cat.ModuleByID("churn-model")
	require.True(t, ok)
	require.Len(t, m.Tables, 2)
	assert.Equal(t, "customer_master", m.Tables[0].Name)
	assert.Len(t, m.Tables[0].Columns, 2)
}

func TestRunSavesByExtension(t *testing.T) {
	in := writeDictionary(t)
	out := filepath.Join(t.TempDir(), "dictionary.sqlite")

	require.NoError(t, run([]string{"--in", in, "--out", out, "--module-id", "churn"}, &bytes.Buffer{}, zerolog.Nop()))

	cat, err := catalog.Load(out)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.TableCount())
	_, ok := cat.ModuleByID("churn")
	assert.True(t, ok)
}

func TestRunMerge(t *testing.T) {
	in := writeDictionary(t)
	out := filepath.Join(t.TempDir(), "catalog.yaml")
	existing := catalog.New([]catalog.Module{
		{ID: "churn", Name: "Old churn"},
		{ID: "other", Name: "Other"},
	})
	require.NoError(t, catalog.Save(out, existing, catalog.FormatYAML))

	require.NoError(t, run([]string{"--in", in, "--out", out, "--module-id", "churn", "--merge"}, &bytes.Buffer{}, zerolog.Nop()))

	cat, err := catalog.Load(out)
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())
	m, _ := cat.ModuleByID("churn")
	assert.Len(t, m.Tables, 2)
	_, ok := cat.ModuleByID("other")
	assert.True(t, ok)
}

func TestRunMergeKeepsTableIDsUnique(t *testing.T) {
	in := writeDictionary(t)
	out := filepath.Join(t.TempDir(), "catalog.json")
	existing := catalog.New([]catalog.Module{
		{ID: "crm", Name: "CRM", Tables: []catalog.Table{{ID: "customer-master", Name: "customer_master"}}},
		{ID: "churn", Name: "Old churn", Tables: []catalog.Table{{ID: "card-transactions", Name: "old"}}},
	})
	require.NoError(t, catalog.Save(out, existing, catalog.FormatJSON))

	require.NoError(t, run([]string{"--in", in, "--out", out, "--module-id", "churn", "--merge"}, &bytes.Buffer{}, zerolog.Nop()))

	cat, err := catalog.Load(out)
	require.NoError(t, err)
	assert.Empty(t, cat.DuplicateIDs())
	m, ok := cat.ModuleByID("churn")
	require.True(t, ok)
	require.Len(t, m.Tables, 2)
	assert.Equal(t, "customer-master-2", m.Tables[0].ID)
	// The replaced module's own ids are free again.
	assert.Equal(t, "card-transactions", m.Tables[1].ID)
}

func TestParseFlagsErrors(t *testing.T) {
	_, err := parseFlags(nil)
	assert.EqualError(t, err, "missing --in path")

	_, err = parseFlags([]string{"--in", "x.md", "--merge"})
	assert.EqualError(t, err, "--merge needs --out")
}
