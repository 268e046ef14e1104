// Command extractschema turns a README-style markdown data dictionary into a
// catalog module. The module is written as JSON, YAML or SQLite.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/bekirdag/datadict/internal/catalog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		exitWithError(err)
	}
}

type options struct {
	inputPath  string
	outputPath string
	format     string
	merge      bool
	importOpts catalog.ImportOptions
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("extractschema", flag.ContinueOnError)
	fs.StringVar(&opts.inputPath, "in", "", "input markdown file (required)")
	fs.StringVar(&opts.outputPath, "out", "", "output catalog path (defaults to JSON on stdout)")
	fs.StringVar(&opts.format, "format", "", "json, yaml or sqlite (defaults to the --out extension)")
	fs.BoolVar(&opts.merge, "merge", false, "add the module to the catalog already at --out, replacing a module with the same id")
	fs.StringVar(&opts.importOpts.ModuleID, "module-id", "", "module id (defaults to a slug of the module name)")
	fs.StringVar(&opts.importOpts.ModuleName, "module-name", "", "module name")
	fs.StringVar(&opts.importOpts.Description, "description", "", "module description")
	fs.StringVar(&opts.importOpts.Schema, "schema", "", "schema assigned to every table")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.inputPath == "" {
		return opts, errors.New("missing --in path")
	}
	if opts.merge && opts.outputPath == "" {
		return opts, errors.New("--merge needs --out")
	}
	return opts, nil
}

func run(args []string, stdout io.Writer, logger zerolog.Logger) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	src, err := os.ReadFile(opts.inputPath)
	if err != nil {
		return fmt.Errorf("read markdown: %w", err)
	}
	var existing []catalog.Module
	if opts.merge {
		if existing, err = loadExisting(opts.outputPath); err != nil {
			return err
		}
	}
	module := importModule(src, opts.importOpts, existing)
	if len(module.Tables) == 0 {
		logger.Warn().Str("in", opts.inputPath).Msg("no numbered table sections found")
	}
	logger.Info().
		Str("module", module.ID).
		Int("tables", len(module.Tables)).
		Int("columns", module.ColumnCount()).
		Msg("parsed data dictionary")

	modules := []catalog.Module{module}
	if opts.merge {
		modules = mergeModule(existing, module)
	}
	cat := catalog.New(modules)

	if opts.outputPath == "" {
		format := catalog.FormatJSON
		if opts.format != "" {
			if format, err = catalog.ParseFormat(opts.format); err != nil {
				return err
			}
		}
		return catalog.Encode(stdout, cat, format)
	}

	format, err := outputFormat(opts)
	if err != nil {
		return err
	}
	if err := catalog.Save(opts.outputPath, cat, format); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	logger.Info().Str("out", opts.outputPath).Str("format", string(format)).Msg("catalog written")
	return nil
}

func outputFormat(opts options) (catalog.Format, error) {
	if opts.format != "" {
		return catalog.ParseFormat(opts.format)
	}
	return catalog.FormatFromPath(opts.outputPath)
}

// loadExisting reads the catalog a merge writes into. A missing file is an
// empty catalog.
func loadExisting(path string) ([]catalog.Module, error) {
	existing, err := catalog.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return existing.Modules(), nil
}

// importModule parses src so that no table id collides with a table of
// another module in existing. The module being replaced does not count.
func importModule(src []byte, opts catalog.ImportOptions, existing []catalog.Module) catalog.Module {
	module := catalog.ImportMarkdown(src, opts)
	var reserved []string
	for _, m := range existing {
		if m.ID == module.ID {
			continue
		}
		for _, t := range m.Tables {
			reserved = append(reserved, t.ID)
		}
	}
	if len(reserved) == 0 {
		return module
	}
	opts.ReservedTableIDs = reserved
	return catalog.ImportMarkdown(src, opts)
}

// mergeModule puts module in place of the module with the same id, or at the
// end.
func mergeModule(existing []catalog.Module, module catalog.Module) []catalog.Module {
	modules := append([]catalog.Module(nil), existing...)
	for i := range modules {
		if modules[i].ID == module.ID {
			modules[i] = module
			return modules
		}
	}
	return append(modules, module)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
