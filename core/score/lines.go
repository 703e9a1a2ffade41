package score

import (
	"path"
	"strings"

	"github.com/huangsam/siri/schema"
	"github.com/src-d/enry/v2"
)

// defaultCommentMarkers is used for files whose language is unknown.
var defaultCommentMarkers = []string{"//"}

var (
	cStyle    = []string{"//", "/*", "*/", "* "}
	hashStyle = []string{"#"}
	dashStyle = []string{"--"}
	markup    = []string{"<!--"}
)

// commentMarkers lists line comment prefixes by enry language name.
var commentMarkers = map[string][]string{
	"Go":              cStyle,
	"C":               cStyle,
	"C++":             cStyle,
	"C#":              cStyle,
	"Objective-C":     cStyle,
	"Objective-C++":   cStyle,
	"Java":            cStyle,
	"Kotlin":          cStyle,
	"Scala":           cStyle,
	"Swift":           cStyle,
	"Rust":            cStyle,
	"Dart":            cStyle,
	"Groovy":          cStyle,
	"JavaScript":      cStyle,
	"TypeScript":      cStyle,
	"TSX":             cStyle,
	"SCSS":            cStyle,
	"Less":            cStyle,
	"CSS":             {"/*", "*/", "* "},
	"PHP":             append([]string{"#"}, cStyle...),
	"Protocol Buffer": cStyle,
	"Python":          hashStyle,
	"Ruby":            hashStyle,
	"Shell":           hashStyle,
	"Perl":            hashStyle,
	"R":               hashStyle,
	"YAML":            hashStyle,
	"TOML":            hashStyle,
	"Makefile":        hashStyle,
	"Dockerfile":      hashStyle,
	"SQL":             dashStyle,
	"PLSQL":           dashStyle,
	"Lua":             dashStyle,
	"Haskell":         dashStyle,
	"HTML":            markup,
	"XML":             markup,
	"Markdown":        markup,
}

// CommentMarkers returns the comment prefixes for the language of a file.
func CommentMarkers(filename string) []string {
	lang := enry.GetLanguage(path.Base(filename), nil)
	if markers, ok := commentMarkers[lang]; ok {
		return markers
	}
	return defaultCommentMarkers
}

// ClassifyLine reports whether a line is blank, a comment or code.
func ClassifyLine(content string, markers []string) schema.LineKind {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return schema.BlankLine
	}
	for _, m := range markers {
		if strings.HasPrefix(trimmed, m) || trimmed == strings.TrimSpace(m) {
			return schema.CommentLine
		}
	}
	return schema.CodeLine
}
