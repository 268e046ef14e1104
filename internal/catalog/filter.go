package catalog

import "strings"

// Filter returns the modules matching query, in catalog order. An empty query
// matches every module.
func (c *Catalog) Filter(query string) []Module {
	if c == nil {
		return nil
	}
	if query == "" {
		return c.Modules()
	}
	needle := strings.ToLower(query)
	out := make([]Module, 0, len(c.modules))
	for _, m := range c.modules {
		if matchModule(m, needle) {
			out = append(out, m)
		}
	}
	return out
}

// MatchModule reports whether the module name or description, or any of its
// tables' names or descriptions, contains query case-insensitively.
func MatchModule(m Module, query string) bool {
	return matchModule(m, strings.ToLower(query))
}

func matchModule(m Module, needle string) bool {
	if containsFold(m.Name, needle) || containsFold(m.Description, needle) {
		return true
	}
	for _, t := range m.Tables {
		if containsFold(t.Name, needle) || containsFold(t.Description, needle) {
			return true
		}
	}
	return false
}

func containsFold(haystack, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(haystack), lowerNeedle)
}
