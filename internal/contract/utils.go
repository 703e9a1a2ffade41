package contract

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fatih/color"
)

// Verdict label constants for the SIRI percentage.
const (
	RewriteValue = "Rewrite" // Rewrite verdict
	LikelyValue  = "Likely"  // Likely verdict
	MaybeValue   = "Maybe"   // Maybe verdict
	KeepValue    = "Keep"    // Keep verdict
)

// Color variables for console output.
var (
	RewriteColor = color.New(color.FgRed, color.Bold)     // RewriteColor represents standard danger.
	LikelyColor  = color.New(color.FgMagenta, color.Bold) // LikelyColor represents strong warning.
	MaybeColor   = color.New(color.FgYellow)              // MaybeColor represents caution, not bold.
	KeepColor    = color.New(color.FgCyan)                // KeepColor represents informational signal.
)

// GetPlainLabel returns a plain text verdict for a SIRI percentage.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(percent float64) string {
	switch {
	case percent >= 80:
		return RewriteValue
	case percent >= 60:
		return LikelyValue
	case percent >= 40:
		return MaybeValue
	default:
		return KeepValue
	}
}

// GetColorLabel returns a colored verdict for console output.
func GetColorLabel(percent float64) string {
	text := GetPlainLabel(percent)

	switch text {
	case RewriteValue:
		return RewriteColor.Sprint(text)
	case LikelyValue:
		return LikelyColor.Sprint(text)
	case MaybeValue:
		return MaybeColor.Sprint(text)
	default:
		return KeepColor.Sprint(text)
	}
}

// SelectOutputFile returns the file handle for output, or os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// MatchesPattern reports whether a repo-relative path matches a file pattern.
// Patterns containing "**" are matched against the full path and may span
// directories. Other glob patterns (*, ?, [ ]) are matched against the full
// path and the base name. Patterns ending with '/' are prefixes, patterns
// starting with '.' are suffix (extension) matches, and anything else must
// equal the base name or the full path.
func MatchesPattern(p string, pattern string) bool {
	return matchPattern(p, strings.TrimSpace(pattern), false)
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// Unlike MatchesPattern, plain patterns also match as substrings, so a user
// can provide patterns like "vendor/", "node_modules", "*.min.js".
func ShouldIgnore(p string, excludes []string) bool {
	for _, ex := range excludes {
		if matchPattern(p, strings.TrimSpace(ex), true) {
			return true
		}
	}
	return false
}

func matchPattern(p string, pattern string, substring bool) bool {
	if pattern == "" {
		return false
	}

	if strings.Contains(pattern, "**") {
		re, err := globstarRegexp(pattern)
		return err == nil && re.MatchString(p)
	}
	if strings.ContainsAny(pattern, "*?[") {
		if ok, err := path.Match(pattern, p); err == nil && ok {
			return true
		}
		ok, err := path.Match(pattern, path.Base(p))
		return err == nil && ok
	}

	switch {
	case strings.HasSuffix(pattern, "/"):
		return strings.HasPrefix(p, pattern)
	case strings.HasPrefix(pattern, "."):
		return strings.HasSuffix(p, pattern)
	case substring:
		return strings.Contains(p, pattern)
	default:
		return p == pattern || path.Base(p) == pattern
	}
}

// globstarRegexp translates a glob with "**" into an anchored regexp.
// "**/" matches zero or more directories, "**" anything, "*" and "?" stay
// within one path segment.
func globstarRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case strings.HasPrefix(pattern[i:], "**/"):
			b.WriteString("(?:.*/)?")
			i += 2
		case strings.HasPrefix(pattern[i:], "**"):
			b.WriteString(".*")
			i++
		case c == '*':
			b.WriteString("[^/]*")
		case c == '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for the score store.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".siri_history.db"
	}
	return filepath.Join(homeDir, ".siri_history.db")
}

// NormalizeRepoPath normalizes a user-provided path relative to the repo root
// and ensures it's within the repository boundaries. Directories keep a
// trailing slash so they act as prefixes.
func NormalizeRepoPath(repoPath, userPath string) (string, error) {
	isDir := strings.HasSuffix(userPath, "/") || strings.HasSuffix(userPath, string(filepath.Separator))

	// Handle absolute paths by making them relative to repo
	if filepath.IsAbs(userPath) {
		relPath, err := filepath.Rel(repoPath, userPath)
		if err != nil {
			return "", fmt.Errorf("path is outside repository: %s", userPath)
		}
		userPath = relPath
	}

	cleanPath := filepath.Clean(userPath)
	if cleanPath == ".." || strings.HasPrefix(cleanPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path is outside repository: %s", userPath)
	}
	if cleanPath == "." {
		return "", nil
	}

	normalized := filepath.ToSlash(cleanPath)
	if !isDir {
		if info, err := os.Stat(filepath.Join(repoPath, cleanPath)); err == nil && info.IsDir() {
			isDir = true
		}
	}
	if isDir {
		normalized += "/"
	}
	return normalized, nil
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to leave room for the "..." prefix.
func TruncatePath(p string, maxWidth int) string {
	runes := []rune(p)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return p
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
