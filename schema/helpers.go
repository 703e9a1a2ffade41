package schema

import (
	"fmt"
	"strings"
)

// FormatTopAuthors formats the first n ranked authors as "Alice (62%), Bob (30%)".
func FormatTopAuthors(authors []RankedAuthor, n int) string {
	if n <= 0 || n > len(authors) {
		n = len(authors)
	}
	parts := make([]string, 0, n)
	for _, a := range authors[:n] {
		parts = append(parts, fmt.Sprintf("%s (%.0f%%)", a.Author, a.Share))
	}
	return strings.Join(parts, ", ")
}

// Patterns tags each glob with the given category.
func Patterns(category FileCategory, globs []string) []FilePattern {
	out := make([]FilePattern, 0, len(globs))
	for _, g := range globs {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		out = append(out, FilePattern{Glob: g, Category: category})
	}
	return out
}
