package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/bekirdag/datadict/internal/browse"
	"github.com/bekirdag/datadict/internal/catalog"
)

type cliOptions struct {
	configPath   string
	catalogPath  string
	theme        string
	logLevel     string
	compactWidth int
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	root := &cobra.Command{
		Use:   "datadict",
		Short: "Browse a data dictionary in the terminal",
		Long: `datadict browses a data dictionary of modules, tables and columns.

Without a subcommand it opens the interactive browser. The catalog is read
from --catalog (JSON, YAML or SQLite, chosen by extension) or from the
catalog key in ui.yaml; the built-in sample catalog is used otherwise.

Examples:
  datadict
  datadict --catalog dictionary.yaml
  datadict search customer
  datadict show customer-master-main
  datadict export --format sqlite --out dictionary.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowser(opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to ui.yaml (default <config dir>/datadict/ui.yaml)")
	flags.StringVar(&opts.catalogPath, "catalog", "", "catalog file (.json, .yaml, .yml, .sqlite, .db)")
	flags.StringVar(&opts.theme, "theme", "", "markdown theme: auto, dark, light or notty")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.Flags().IntVar(&opts.compactWidth, "compact-width", 0, "terminal width below which the sidebar overlays the content")

	root.AddCommand(newSearchCmd(opts), newShowCmd(opts), newExportCmd(opts))
	return root
}

// settings merges ui.yaml with the flags. Flags win.
func (o *cliOptions) settings() *uiConfig {
	cfg, _ := loadUIConfig(o.configPath)
	if o.catalogPath != "" {
		cfg.Catalog = o.catalogPath
	}
	if o.theme != "" {
		cfg.Theme = o.theme
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.compactWidth > 0 {
		cfg.CompactWidth = o.compactWidth
	}
	return cfg
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func warnDuplicates(cat *catalog.Catalog, warn func(id string)) {
	for _, id := range cat.DuplicateIDs() {
		warn(id)
	}
}

func runBrowser(opts *cliOptions) error {
	cfg := opts.settings()
	events := openEventLogger(resolveConfigDir(), parseLogLevel(cfg.LogLevel))
	defer events.Close()

	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		events.Warn("catalog load failed", map[string]string{"path": cfg.Catalog, "error": err.Error()})
		return err
	}
	warnDuplicates(cat, func(id string) {
		events.Warn("duplicate id, lookups use the first match", map[string]string{"id": id})
	})
	events.Emit("session_started", map[string]string{
		"catalog": valueOr(cfg.Catalog, "builtin"),
		"modules": fmt.Sprint(cat.Len()),
		"tables":  fmt.Sprint(cat.TableCount()),
	})

	setMarkdownTheme(markdownThemeFromString(cfg.Theme))
	if _, err := tea.NewProgram(
		newModel(cat, cfg, events),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	).Run(); err != nil {
		return err
	}
	events.Emit("session_ended", nil)
	return nil
}

// cliContext is what every non-interactive subcommand needs.
type cliContext struct {
	cfg *uiConfig
	cat *catalog.Catalog
	log zerolog.Logger
	out io.Writer
}

func (o *cliOptions) prepare(cmd *cobra.Command) (*cliContext, error) {
	cfg := o.settings()
	logger := newConsoleLogger(cmd.ErrOrStderr(), parseLogLevel(cfg.LogLevel))
	cat, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("catalog", valueOr(cfg.Catalog, "builtin")).Int("modules", cat.Len()).Msg("catalog loaded")
	warnDuplicates(cat, func(id string) {
		logger.Warn().Str("id", id).Msg("duplicate id, lookups use the first match")
	})
	return &cliContext{cfg: cfg, cat: cat, log: logger, out: cmd.OutOrStdout()}, nil
}

func newSearchCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "List modules whose name, description or tables match QUERY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.prepare(cmd)
			if err != nil {
				return err
			}
			return runSearch(ctx, args[0])
		},
	}
}

func runSearch(ctx *cliContext, query string) error {
	modules := ctx.cat.Filter(query)
	ctx.log.Debug().Str("query", query).Int("matches", len(modules)).Msg("search")
	if len(modules) == 0 {
		_, err := fmt.Fprintln(ctx.out, "No results")
		return err
	}
	width := 0
	for _, m := range modules {
		width = max(width, len(m.ID))
	}
	for _, m := range modules {
		if _, err := fmt.Fprintf(ctx.out, "%-*s  %s (%s)\n", width, m.ID, m.Name, pluralize(len(m.Tables), "table")); err != nil {
			return err
		}
		for _, t := range m.Tables {
			if _, err := fmt.Fprintf(ctx.out, "%-*s    %s %s\n", width, "", t.ID, t.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func newShowCmd(opts *cliOptions) *cobra.Command {
	var raw bool
	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Print a table detail or module overview",
		Long: `Print the detail of the table with ID, or the overview of the module with
ID when no table matches. Output is rendered markdown; --raw prints the
markdown source.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.prepare(cmd)
			if err != nil {
				return err
			}
			return runShow(ctx, args[0], raw)
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "print markdown without rendering")
	return cmd
}

var errNotFound = errors.New("not found")

func runShow(ctx *cliContext, id string, raw bool) error {
	var doc string
	if t, ok := ctx.cat.TableByID(id); ok {
		doc = tableMarkdown(browse.ComposeTable(ctx.cat, t))
	} else if m, ok := ctx.cat.ModuleByID(id); ok {
		doc = moduleMarkdown(browse.ComposeModule(m))
	} else {
		return fmt.Errorf("no module or table with id %q: %w", id, errNotFound)
	}
	if !raw {
		setMarkdownTheme(markdownThemeFromString(ctx.cfg.Theme))
		doc = RenderMarkdown(doc)
	}
	_, err := io.WriteString(ctx.out, doc)
	return err
}

func newExportCmd(opts *cliOptions) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog as JSON, YAML or SQLite",
		Long: `Write the loaded catalog to --out. The format comes from --format, or from
the extension of --out. Use --out - to write JSON or YAML to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := opts.prepare(cmd)
			if err != nil {
				return err
			}
			return runExport(ctx, format, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json, yaml or sqlite")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path, or - for stdout")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runExport(ctx *cliContext, formatName, out string) error {
	var (
		format catalog.Format
		err    error
	)
	switch {
	case strings.TrimSpace(formatName) != "":
		format, err = catalog.ParseFormat(formatName)
	case out == "-":
		format = catalog.FormatJSON
	default:
		format, err = catalog.FormatFromPath(out)
	}
	if err != nil {
		return err
	}

	if out == "-" {
		return catalog.Encode(ctx.out, ctx.cat, format)
	}
	if err := catalog.Save(out, ctx.cat, format); err != nil {
		return err
	}
	ctx.log.Info().Str("path", out).Str("format", string(format)).Int("modules", ctx.cat.Len()).Msg("catalog exported")
	return nil
}
