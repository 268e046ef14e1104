package main

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bekirdag/datadict/internal/catalog"
)

type colorPalette struct {
	text, textMuted, border, selection, accent lipgloss.AdaptiveColor
	danger, success                            lipgloss.AdaptiveColor
}

var palette = colorPalette{
	text:      lipgloss.AdaptiveColor{Light: "#1f2328", Dark: "#e6edf3"},
	textMuted: lipgloss.AdaptiveColor{Light: "#656d76", Dark: "#8d96a0"},
	border:    lipgloss.AdaptiveColor{Light: "#d0d7de", Dark: "#30363d"},
	selection: lipgloss.AdaptiveColor{Light: "#ddf4ff", Dark: "#1f2d3d"},
	accent:    lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#4493f8"},
	danger:    lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"},
	success:   lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"},
}

type styles struct {
	app, topBar, topTitle, topSubtitle lipgloss.Style
	columnTitle, muted                 lipgloss.Style
	panel, panelFocused                lipgloss.Style
	tabActive, tabInactive, tabsRow    lipgloss.Style
	statusBar, statusSeg               lipgloss.Style
	listItem, listSel                  lipgloss.Style
	card, cardSelected, cardTitle      lipgloss.Style
	fieldLabel, code                   lipgloss.Style
	stat, statValue                    lipgloss.Style
	badge, badgeNotNull, badgeModel    lipgloss.Style
	dataTypes                          map[dataTypeClass]lipgloss.Style
	categories                         map[catalog.Category]lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()
	panelBorder := lipgloss.NormalBorder()
	focusedBorder := lipgloss.DoubleBorder()
	badge := base.Copy().Padding(0, 1)

	return styles{
		app:          base,
		topBar:       base.Padding(0, 1),
		topTitle:     base.Copy().Bold(true).Foreground(palette.text),
		topSubtitle:  base.Copy().Foreground(palette.textMuted),
		columnTitle:  base.Copy().Bold(true).Padding(0, 1),
		muted:        base.Copy().Foreground(palette.textMuted),
		panel:        base.BorderStyle(panelBorder).BorderForeground(palette.border),
		panelFocused: base.BorderStyle(focusedBorder).BorderForeground(palette.accent),
		tabActive:    base.Copy().Bold(true).Padding(0, 1).Underline(true).Foreground(palette.accent),
		tabInactive:  base.Padding(0, 1).Foreground(palette.textMuted),
		tabsRow:      base.Padding(0, 1),
		statusBar:    base.Padding(0, 1),
		statusSeg:    base.Padding(0, 1).MarginRight(1),
		listItem:     base.Padding(0, 1),
		listSel:      base.Padding(0, 1).Bold(true).Foreground(palette.accent),
		card:         base.Border(lipgloss.RoundedBorder()).BorderForeground(palette.border).Padding(0, 1),
		cardSelected: base.Border(lipgloss.RoundedBorder()).BorderForeground(palette.accent).Padding(0, 1),
		cardTitle:    base.Copy().Bold(true),
		fieldLabel:   base.Copy().Bold(true).Foreground(palette.textMuted),
		code:         base.Copy().Background(palette.selection).Padding(0, 1),
		stat:         base.Border(lipgloss.RoundedBorder()).BorderForeground(palette.border).Padding(0, 2),
		statValue:    base.Copy().Bold(true),
		badge:        badge,
		badgeNotNull: badge.Copy().Foreground(lipgloss.Color("#ffffff")).Background(palette.danger),
		badgeModel:   badge.Copy().Foreground(lipgloss.Color("#ffffff")).Background(palette.success),
		dataTypes: map[dataTypeClass]lipgloss.Style{
			dataTypeInteger: badge.Copy().Foreground(lipgloss.AdaptiveColor{Light: "#1e40af", Dark: "#bfdbfe"}).Background(lipgloss.AdaptiveColor{Light: "#dbeafe", Dark: "#1e3a8a"}),
			dataTypeString:  badge.Copy().Foreground(lipgloss.AdaptiveColor{Light: "#166534", Dark: "#bbf7d0"}).Background(lipgloss.AdaptiveColor{Light: "#dcfce7", Dark: "#14532d"}),
			dataTypeDecimal: badge.Copy().Foreground(lipgloss.AdaptiveColor{Light: "#6b21a8", Dark: "#e9d5ff"}).Background(lipgloss.AdaptiveColor{Light: "#f3e8ff", Dark: "#581c87"}),
			dataTypeDate:    badge.Copy().Foreground(lipgloss.AdaptiveColor{Light: "#9a3412", Dark: "#fed7aa"}).Background(lipgloss.AdaptiveColor{Light: "#ffedd5", Dark: "#7c2d12"}),
			dataTypeBoolean: badge.Copy().Foreground(lipgloss.AdaptiveColor{Light: "#9d174d", Dark: "#fbcfe8"}).Background(lipgloss.AdaptiveColor{Light: "#fce7f3", Dark: "#831843"}),
			dataTypeOther:   badge.Copy().Foreground(lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#e5e7eb"}).Background(lipgloss.AdaptiveColor{Light: "#f3f4f6", Dark: "#1f2937"}),
		},
		categories: map[catalog.Category]lipgloss.Style{
			catalog.CategoryRaw:        badge.Copy().Foreground(lipgloss.AdaptiveColor{Light: "#1e293b", Dark: "#e2e8f0"}).Background(lipgloss.AdaptiveColor{Light: "#f1f5f9", Dark: "#1e293b"}),
			catalog.CategoryEngineered: badge.Copy().Foreground(lipgloss.AdaptiveColor{Light: "#92400e", Dark: "#fde68a"}).Background(lipgloss.AdaptiveColor{Light: "#fef3c7", Dark: "#92400e"}),
			catalog.CategoryOutcome:    badge.Copy().Foreground(lipgloss.AdaptiveColor{Light: "#991b1b", Dark: "#fecaca"}).Background(lipgloss.AdaptiveColor{Light: "#fee2e2", Dark: "#991b1b"}),
		},
	}
}

func (s styles) dataTypeBadge(dataType string) lipgloss.Style {
	if st, ok := s.dataTypes[classifyDataType(dataType)]; ok {
		return st
	}
	return s.badge
}

// categoryBadge falls back to the neutral data-type style for categories
// without their own color.
func (s styles) categoryBadge(cat catalog.Category) lipgloss.Style {
	if st, ok := s.categories[cat]; ok {
		return st
	}
	return s.dataTypes[dataTypeOther]
}
