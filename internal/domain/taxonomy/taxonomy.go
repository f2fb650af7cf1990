// Package taxonomy provides the canonical category lookup table mapping
// sub-categories (e.g. dish sub-cuisines) to their parent category.
//
// The table is built once from configuration and is immutable afterward,
// so several framework versions can hold distinct taxonomies without any
// shared mutable state between runs.
package taxonomy

import "strings"

// Table is an immutable sub-category to parent-category mapping. The zero
// value is usable and maps nothing.
type Table struct {
	parents map[string]string
}

// New builds a Table from a mapping. Keys are matched case-insensitively;
// the input map is copied so later mutation by the caller cannot leak in.
func New(parents map[string]string) Table {
	copied := make(map[string]string, len(parents))
	for sub, parent := range parents {
		copied[normalize(sub)] = parent
	}
	return Table{parents: copied}
}

// Parent returns the parent category for a sub-category, if mapped.
func (t Table) Parent(sub string) (string, bool) {
	parent, ok := t.parents[normalize(sub)]
	return parent, ok
}

// Canonical returns the parent category when one is mapped, otherwise the
// name unchanged. Used to fold sub-cuisine entity ids into their
// canonical cuisine before scoring.
func (t Table) Canonical(name string) string {
	if parent, ok := t.Parent(name); ok {
		return parent
	}
	return name
}

// Len returns the number of mapped sub-categories.
func (t Table) Len() int {
	return len(t.parents)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
