package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ImportOptions names the module produced from a markdown data dictionary.
type ImportOptions struct {
	ModuleID    string
	ModuleName  string
	Description string
	Schema      string

	// ReservedTableIDs are table ids already taken elsewhere in the target
	// catalog. Imported tables never reuse them.
	ReservedTableIDs []string
}

var (
	dictionarySection = regexp.MustCompile(`^5\.\d+\s+(.+)$`)
	numberedSection   = regexp.MustCompile(`^\d+\.\d+\s+(.+)$`)
	slugUnsafe        = regexp.MustCompile(`[^a-z0-9]+`)
)

// Header names that carry the column name in a feature table.
var nameHeaders = []string{"feature", "trường", "name", "field", "column"}

type fieldDetail struct {
	DataType        string
	Description     string
	Example         string
	NullPolicy      string
	BusinessMeaning string
}

type markdownSection struct {
	title       string
	description string
	headers     []string
	rows        [][]string
	fieldOrder  []string
	fields      map[string]*fieldDetail
}

// ImportMarkdown turns a README-style data dictionary into one module. Each
// numbered section ("## 5.1 Customer Master") becomes a table; its first
// paragraph is the description, its first markdown table lists the columns,
// and "#### field" blocks followed by a "- Label: value" list add details.
// When no "5.x" sections exist any "## N.M" or "### N.M" heading is used.
func ImportMarkdown(src []byte, opts ImportOptions) Module {
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	doc := md.Parser().Parse(text.NewReader(src))

	sections := collectSections(doc, src, func(level int, title string) (string, bool) {
		if level != 2 {
			return "", false
		}
		if match := dictionarySection.FindStringSubmatch(title); match != nil {
			return match[1], true
		}
		return "", false
	})
	if len(sections) == 0 {
		sections = collectSections(doc, src, func(level int, title string) (string, bool) {
			if level != 2 && level != 3 {
				return "", false
			}
			if match := numberedSection.FindStringSubmatch(title); match != nil {
				return match[1], true
			}
			return "", false
		})
	}

	module := Module{
		ID:          opts.ModuleID,
		Name:        opts.ModuleName,
		Description: opts.Description,
	}
	if module.Name == "" {
		module.Name = "Data Dictionary"
	}
	if module.ID == "" {
		module.ID = slugify(module.Name)
	}
	taken := make(map[string]bool, len(opts.ReservedTableIDs))
	for _, id := range opts.ReservedTableIDs {
		taken[id] = true
	}
	for _, sec := range sections {
		module.Tables = append(module.Tables, sec.table(opts.Schema, taken))
	}
	return module
}

func collectSections(doc ast.Node, src []byte, match func(level int, title string) (string, bool)) []*markdownSection {
	var (
		sections []*markdownSection
		current  *markdownSection
		field    string
	)
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		switch n := node.(type) {
		case *ast.Heading:
			title := nodeText(n, src)
			if name, ok := match(n.Level, title); ok {
				current = &markdownSection{title: strings.TrimSpace(name), fields: make(map[string]*fieldDetail)}
				sections = append(sections, current)
				field = ""
				continue
			}
			if current == nil {
				continue
			}
			if n.Level == 4 {
				field = strings.Trim(title, "` ")
				continue
			}
			// Unnumbered subheadings stay inside the section; only a
			// chapter-level heading ends it.
			field = ""
			if n.Level <= 2 {
				current = nil
			}
		case *ast.Paragraph:
			if current != nil && current.description == "" && field == "" && current.headers == nil {
				current.description = nodeText(n, src)
			}
		case *east.Table:
			if current != nil && current.headers == nil {
				current.headers, current.rows = tableCells(n, src)
			}
		case *ast.List:
			if current != nil && field != "" {
				current.addField(field, listDetail(n, src))
				field = ""
			}
		}
	}
	return sections
}

func (s *markdownSection) addField(name string, detail *fieldDetail) {
	if _, ok := s.fields[name]; !ok {
		s.fieldOrder = append(s.fieldOrder, name)
	}
	s.fields[name] = detail
}

func (s *markdownSection) table(schema string, taken map[string]bool) Table {
	t := Table{
		ID:          uniqueID(slugify(s.title), taken),
		Name:        s.title,
		Schema:      schema,
		Description: s.description,
	}
	seen := make(map[string]bool)
	if len(s.rows) > 0 {
		nameIdx := headerIndex(s.headers, nameHeaders...)
		for _, row := range s.rows {
			name := ""
			if nameIdx >= 0 && nameIdx < len(row) {
				name = strings.Trim(row[nameIdx], "` ")
			}
			col := s.rowColumn(row)
			col.Name = name
			if detail, ok := s.fields[name]; ok && name != "" {
				applyDetail(&col, detail)
			}
			col.ID = uniqueID(slugify(name), seen)
			t.Columns = append(t.Columns, col)
		}
		return t
	}
	for _, name := range s.fieldOrder {
		col := Column{Name: name, Nullable: true}
		applyDetail(&col, s.fields[name])
		col.ID = uniqueID(slugify(name), seen)
		t.Columns = append(t.Columns, col)
	}
	return t
}

func (s *markdownSection) rowColumn(row []string) Column {
	cell := func(names ...string) string {
		idx := headerIndex(s.headers, names...)
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	col := Column{
		DataType:        cell("kiểu dữ liệu", "data type", "type", "datatype"),
		Description:     cell("mô tả", "description"),
		Example:         cell("ví dụ", "example"),
		BusinessMeaning: cell("ý nghĩa nghiệp vụ", "business meaning"),
		Nullable:        nullableFromPolicy(cell("null policy", "nullable", "null")),
		Category:        parseCategory(cell("category", "loại", "nhóm")),
		UsedInModel:     parseFlag(cell("used in model", "dùng trong model", "model")),
	}
	return col
}

func applyDetail(col *Column, detail *fieldDetail) {
	if detail == nil {
		return
	}
	if detail.DataType != "" {
		col.DataType = detail.DataType
	}
	if detail.Description != "" {
		col.Description = detail.Description
	}
	if detail.Example != "" {
		col.Example = detail.Example
	}
	if detail.BusinessMeaning != "" {
		col.BusinessMeaning = detail.BusinessMeaning
	}
	if detail.NullPolicy != "" {
		col.Nullable = nullableFromPolicy(detail.NullPolicy)
	}
}

func listDetail(list *ast.List, src []byte) *fieldDetail {
	detail := &fieldDetail{}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		label, value, ok := strings.Cut(nodeText(item, src), ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.ToLower(strings.TrimSpace(label)) {
		case "kiểu dữ liệu", "data type", "type":
			detail.DataType = value
		case "mô tả", "description":
			detail.Description = value
		case "ví dụ", "example":
			detail.Example = strings.Trim(value, "`")
		case "null policy", "nullable":
			detail.NullPolicy = value
		case "ý nghĩa nghiệp vụ", "business meaning":
			detail.BusinessMeaning = value
		}
	}
	return detail
}

func tableCells(table *east.Table, src []byte) ([]string, [][]string) {
	var (
		headers []string
		rows    [][]string
	)
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []string
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, nodeText(cell, src))
		}
		if _, ok := row.(*east.TableHeader); ok {
			headers = cells
			continue
		}
		rows = append(rows, cells)
	}
	if headers == nil {
		headers = []string{}
	}
	return headers, rows
}

func nodeText(node ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func headerIndex(headers []string, names ...string) int {
	for i, h := range headers {
		normalized := strings.ToLower(strings.TrimSpace(h))
		for _, name := range names {
			if normalized == name {
				return i
			}
		}
	}
	return -1
}

func nullableFromPolicy(policy string) bool {
	p := strings.ToLower(strings.TrimSpace(policy))
	if p == "" {
		return true
	}
	for _, marker := range []string{"not null", "non-null", "no null", "không null", "không được null", "required", "bắt buộc"} {
		if strings.Contains(p, marker) {
			return false
		}
	}
	switch p {
	case "no", "false", "n":
		return false
	}
	return true
}

func parseCategory(value string) Category {
	for _, cat := range Categories {
		if strings.EqualFold(strings.TrimSpace(value), string(cat)) {
			return cat
		}
	}
	return ""
}

func parseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "true", "x", "✓", "✔", "có", "1":
		return true
	}
	return false
}

var letterFolds = strings.NewReplacer("đ", "d", "Đ", "D")

// foldDiacritics strips combining marks so "Giao dịch" slugs as "giao-dich".
func foldDiacritics(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, value)
	if err != nil {
		folded = value
	}
	return letterFolds.Replace(folded)
}

func slugify(value string) string {
	slug := slugUnsafe.ReplaceAllString(strings.ToLower(foldDiacritics(value)), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "item"
	}
	return slug
}

func uniqueID(base string, seen map[string]bool) string {
	id := base
	for n := 2; seen[id]; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	seen[id] = true
	return id
}
