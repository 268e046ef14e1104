package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bekirdag/datadict/internal/catalog"
)

// runCLI executes the root command against a saved copy of testCatalog and
// a config path that does not exist, so the user's ui.yaml is never read.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	catPath := filepath.Join(dir, "catalog.json")
	require.NoError(t, catalog.Save(catPath, testCatalog(), catalog.FormatJSON))

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--config", filepath.Join(dir, "ui.yaml"), "--catalog", catPath))
	err := cmd.Execute()
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	out, err := runCLI(t, "search", "customer")
	require.NoError(t, err)
	assert.Contains(t, out, "customer-master  Customer Master (2 tables)")
	assert.Contains(t, out, "customers customer_master")
	assert.NotContains(t, out, "transactions")
}

func TestSearchCommandNoResults(t *testing.T) {
	out, err := runCLI(t, "search", "zzz_no_match")
	require.NoError(t, err)
	assert.Equal(t, "No results\n", out)
}

func TestShowCommand(t *testing.T) {
	out, err := runCLI(t, "show", "--raw", "customers")
	require.NoError(t, err)
	assert.Contains(t, out, "# customer_master")

	out, err = runCLI(t, "show", "--raw", "transactions")
	require.NoError(t, err)
	assert.Contains(t, out, "# Transactions")

	_, err = runCLI(t, "show", "missing")
	assert.ErrorIs(t, err, errNotFound)
}

func TestExportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.yaml")
	_, err := runCLI(t, "export", "--out", path)
	require.NoError(t, err)

	cat, err := catalog.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, 3, cat.TableCount())
}

func TestExportCommandStdout(t *testing.T) {
	out, err := runCLI(t, "export", "--out", "-", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "modules:")
	assert.Contains(t, out, "usedInModel: true")

	_, err = runCLI(t, "export", "--out", "-", "--format", "sqlite")
	assert.ErrorIs(t, err, catalog.ErrUnsupportedFormat)
}

func TestSettingsFlagsOverrideFile(t *testing.T) {
	opts := &cliOptions{
		configPath:   filepath.Join(t.TempDir(), "ui.yaml"),
		theme:        "light",
		compactWidth: 90,
	}
	cfg := opts.settings()
	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, 90, cfg.CompactWidth)
	assert.Equal(t, defaultSidebarWidth, cfg.SidebarWidth)
}

func TestLoadCatalogDefault(t *testing.T) {
	cat, err := loadCatalog("")
	require.NoError(t, err)
	assert.Greater(t, cat.Len(), 0)

	_, err = loadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
