package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bekirdag/datadict/internal/browse"
	"github.com/bekirdag/datadict/internal/catalog"
)

type dataTypeClass int

const (
	dataTypeOther dataTypeClass = iota
	dataTypeInteger
	dataTypeString
	dataTypeDecimal
	dataTypeDate
	dataTypeBoolean
)

// classifyDataType buckets free-text SQL types for badge coloring. The checks
// run in order, so "INTERVAL" and "POINT" both count as integers.
func classifyDataType(dataType string) dataTypeClass {
	t := strings.ToLower(dataType)
	switch {
	case strings.Contains(t, "int"):
		return dataTypeInteger
	case strings.Contains(t, "varchar"), strings.Contains(t, "string"), strings.Contains(t, "text"):
		return dataTypeString
	case strings.Contains(t, "decimal"), strings.Contains(t, "numeric"), strings.Contains(t, "float"):
		return dataTypeDecimal
	case strings.Contains(t, "date"), strings.Contains(t, "timestamp"):
		return dataTypeDate
	case strings.Contains(t, "boolean"):
		return dataTypeBoolean
	default:
		return dataTypeOther
	}
}

type detailTab int

const (
	tabColumns detailTab = iota
	tabOverview
	tabRelations
)

var detailTabs = []detailTab{tabColumns, tabOverview, tabRelations}

func (t detailTab) String() string {
	switch t {
	case tabOverview:
		return "Overview"
	case tabRelations:
		return "Relations"
	default:
		return "Columns"
	}
}

func (t detailTab) next(delta int) detailTab {
	n := len(detailTabs)
	return detailTabs[((int(t)+delta)%n+n)%n]
}

func importanceStars(n int) string {
	if n <= 0 {
		return ""
	}
	if n > 5 {
		n = 5
	}
	return fmt.Sprintf("%d/5 %s", n, strings.Repeat("★", n))
}

func renderTabs(s styles, active detailTab) string {
	parts := make([]string, 0, len(detailTabs))
	for _, tab := range detailTabs {
		if tab == active {
			parts = append(parts, s.tabActive.Render(tab.String()))
		} else {
			parts = append(parts, s.tabInactive.Render(tab.String()))
		}
	}
	return s.tabsRow.Render(lipgloss.JoinHorizontal(lipgloss.Top, parts...))
}

func renderStats(s styles, width int, stats ...[2]string) string {
	boxes := make([]string, 0, len(stats))
	for _, st := range stats {
		boxes = append(boxes, s.stat.Render(s.muted.Render(st[0])+"\n"+s.statValue.Render(st[1])))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, boxes...)
	if width > 0 && lipgloss.Width(row) > width {
		return lipgloss.JoinVertical(lipgloss.Left, boxes...)
	}
	return row
}

func columnBadges(s styles, col catalog.Column) string {
	badges := []string{s.dataTypeBadge(col.DataType).Render(valueOr(col.DataType, "unknown"))}
	if col.Category != "" {
		badges = append(badges, s.categoryBadge(col.Category).Render(string(col.Category)))
	}
	if !col.Nullable {
		badges = append(badges, s.badgeNotNull.Render("NOT NULL"))
	}
	if col.UsedInModel {
		badges = append(badges, s.badgeModel.Render("✓ used in model"))
	}
	return strings.Join(badges, " ")
}

// renderColumnCard draws one column. Collapsed cards show the name and the
// badges; expanded cards add the description, business meaning and example.
func renderColumnCard(s styles, row browse.ColumnRow, selected bool, width int) string {
	icon := "▸"
	if row.Expanded {
		icon = "▾"
	}
	var b strings.Builder
	b.WriteString(s.cardTitle.Render(icon + " " + row.Column.Name))
	b.WriteString("\n")
	b.WriteString(columnBadges(s, row.Column))
	if row.Expanded {
		b.WriteString("\n\n")
		b.WriteString(s.fieldLabel.Render("Description"))
		b.WriteString("\n")
		b.WriteString(valueOr(row.Column.Description, "—"))
		if row.Column.BusinessMeaning != "" {
			b.WriteString("\n\n")
			b.WriteString(s.fieldLabel.Render("Business meaning"))
			b.WriteString("\n")
			b.WriteString(row.Column.BusinessMeaning)
		}
		if row.Column.Example != "" {
			b.WriteString("\n\n")
			b.WriteString(s.fieldLabel.Render("Example"))
			b.WriteString("\n")
			b.WriteString(s.code.Render(row.Column.Example))
		}
	}
	card := s.card
	if selected {
		card = s.cardSelected
	}
	if width > 4 {
		card = card.Copy().Width(width - 2)
	}
	return card.Render(b.String())
}

// renderColumnCards returns the rendered cards and the first line of the
// selected card, so the caller can scroll it into view.
func renderColumnCards(s styles, td *browse.TableDetail, cursor, width int) (string, int) {
	if len(td.Columns) == 0 {
		return s.muted.Render("This table has no columns."), 0
	}
	var cards []string
	offset, line := 0, 0
	for i, row := range td.Columns {
		if i == cursor {
			offset = line
		}
		card := renderColumnCard(s, row, i == cursor, width)
		line += lipgloss.Height(card)
		cards = append(cards, card)
	}
	return strings.Join(cards, "\n"), offset
}

func renderTableStats(s styles, td *browse.TableDetail, width int) string {
	return renderStats(s, width,
		[2]string{"Raw", fmt.Sprint(td.Categories.Raw)},
		[2]string{"Engineered", fmt.Sprint(td.Categories.Engineered)},
		[2]string{"Outcome", fmt.Sprint(td.Categories.Outcome)},
		[2]string{"Used in model", fmt.Sprint(td.UsedInModel)},
		[2]string{"NOT NULL", fmt.Sprint(td.NotNull)},
	)
}

func renderRelations(s styles, td *browse.TableDetail) string {
	if len(td.Relations) == 0 {
		return s.muted.Render("No relations detected.")
	}
	var b strings.Builder
	b.WriteString(s.muted.Render("Columns that look like join keys:"))
	for _, col := range td.Relations {
		b.WriteString("\n\n")
		b.WriteString(s.cardTitle.Render("⛓ " + col.Name))
		if col.Description != "" {
			b.WriteString("\n  ")
			b.WriteString(s.muted.Render(col.Description))
		}
	}
	return b.String()
}

func renderEmpty(s styles) string {
	return s.muted.Render("Select a module or a table from the sidebar.")
}

// tableOverviewMarkdown is the Overview tab, rendered through glamour.
func tableOverviewMarkdown(td *browse.TableDetail) string {
	t := td.Table
	var b strings.Builder
	b.WriteString("## General information\n\n")
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Table name | `%s` |\n", t.Name)
	fmt.Fprintf(&b, "| Schema | `%s` |\n", valueOr(t.Schema, "—"))
	fmt.Fprintf(&b, "| Columns | %d |\n", len(t.Columns))
	if stars := importanceStars(t.Importance); stars != "" {
		fmt.Fprintf(&b, "| Importance | %s |\n", stars)
	}
	b.WriteString("\n### Description\n\n")
	b.WriteString(valueOr(t.Description, "_No description._"))
	b.WriteString("\n")
	if t.Role != "" {
		b.WriteString("\n### Role\n\n")
		b.WriteString(t.Role)
		b.WriteString("\n")
	}
	return b.String()
}

// tableMarkdown is the full table detail as a markdown document.
func tableMarkdown(td *browse.TableDetail) string {
	t := td.Table
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", t.Name)
	if td.HasModule {
		fmt.Fprintf(&b, "Module: **%s** • Schema: `%s`\n\n", td.Module.Name, valueOr(t.Schema, "—"))
	} else {
		fmt.Fprintf(&b, "Schema: `%s`\n\n", valueOr(t.Schema, "—"))
	}
	if t.Description != "" {
		b.WriteString(t.Description + "\n\n")
	}
	fmt.Fprintf(&b, "Raw: %d • Engineered: %d • Outcome: %d • Identifier: %d • PII: %d\n\n",
		td.Categories.Raw, td.Categories.Engineered, td.Categories.Outcome, td.Categories.Identifier, td.Categories.PII)
	fmt.Fprintf(&b, "Used in model: %d • NOT NULL: %d\n\n", td.UsedInModel, td.NotNull)

	b.WriteString("## Columns\n\n")
	if len(td.Columns) == 0 {
		b.WriteString("_No columns._\n\n")
	} else {
		b.WriteString("| Name | Type | Category | Nullable | Used in model | Description |\n")
		b.WriteString("|---|---|---|---|---|---|\n")
		for _, row := range td.Columns {
			col := row.Column
			fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %s | %s |\n",
				col.Name,
				escapeCell(valueOr(col.DataType, "—")),
				valueOr(string(col.Category), "—"),
				yesNo(col.Nullable),
				yesNo(col.UsedInModel),
				escapeCell(col.Description),
			)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Relations\n\n")
	if len(td.Relations) == 0 {
		b.WriteString("_No relations detected._\n")
	}
	for _, col := range td.Relations {
		fmt.Fprintf(&b, "- `%s` %s\n", col.Name, col.Description)
	}
	return b.String()
}

// moduleMarkdown is the module overview as a markdown document.
func moduleMarkdown(ov *browse.ModuleOverview) string {
	m := ov.Module
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", m.Name)
	if m.Description != "" {
		b.WriteString(m.Description + "\n\n")
	}
	if stars := importanceStars(m.Importance); stars != "" {
		fmt.Fprintf(&b, "Importance: %s\n\n", stars)
	}
	if m.Role != "" {
		fmt.Fprintf(&b, "Role: %s\n\n", m.Role)
	}
	fmt.Fprintf(&b, "Tables: %d • Columns: %d • Used in model: %d\n\n", ov.TableCount, ov.ColumnCount, ov.UsedInModel)
	if len(ov.Tables) == 0 {
		b.WriteString("_No tables._\n")
		return b.String()
	}
	b.WriteString("| Table | Columns | Used in model | NOT NULL | Description |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, ts := range ov.Tables {
		fmt.Fprintf(&b, "| `%s` | %d | %d | %d | %s |\n",
			ts.Table.Name, ts.ColumnCount, ts.UsedInModel, ts.NotNull, escapeCell(ts.Table.Description))
	}
	return b.String()
}

func renderModuleHeader(s styles, ov *browse.ModuleOverview, width int) string {
	parts := []string{renderStats(s, width,
		[2]string{"Tables", fmt.Sprint(ov.TableCount)},
		[2]string{"Columns", fmt.Sprint(ov.ColumnCount)},
		[2]string{"Used in model", fmt.Sprint(ov.UsedInModel)},
	)}
	var meta []string
	if stars := importanceStars(ov.Module.Importance); stars != "" {
		meta = append(meta, "Importance "+stars)
	}
	if ov.Module.Role != "" {
		meta = append(meta, "Role: "+ov.Module.Role)
	}
	if len(meta) > 0 {
		parts = append(parts, s.muted.Render(strings.Join(meta, " • ")))
	}
	if len(ov.Tables) == 0 {
		parts = append(parts, s.muted.Render("This module has no tables."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func escapeCell(value string) string {
	value = strings.ReplaceAll(value, "|", `\|`)
	return strings.ReplaceAll(value, "\n", " ")
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func valueOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
