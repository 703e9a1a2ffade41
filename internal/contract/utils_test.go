package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "zero", input: 0.0, expected: KeepValue},
		{name: "just before maybe", input: 39.9, expected: KeepValue},
		{name: "exactly maybe", input: 40.0, expected: MaybeValue},
		{name: "just before likely", input: 59.9, expected: MaybeValue},
		{name: "exactly likely", input: 60.0, expected: LikelyValue},
		{name: "just before rewrite", input: 79.9, expected: LikelyValue},
		{name: "exactly rewrite", input: 80.0, expected: RewriteValue},
		{name: "everything", input: 100.0, expected: RewriteValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	// Color codes depend on the terminal, so only check the text survives.
	assert.Contains(t, GetColorLabel(95), RewriteValue)
	assert.Contains(t, GetColorLabel(10), KeepValue)
}

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		path    string
		pattern string
		want    bool
	}{
		{"main.go", ".go", true},
		{"cmd/siri/main.go", ".go", true},
		{"main.go.orig", ".go", false},
		{"App/View.xib", "*.xib", true},
		{"App/View.xib", "App/*.xib", true},
		{"App/Sub/View.xib", "App/**.xib", true},
		{"App/View.xib", "Other/*.xib", false},
		{"View.xib", "*.xib", true},
		{"App/Sub/Deep/View.xib", "App/**/*.xib", true},
		{"App/View.xib", "App/**/*.xib", true},
		{"Lib/View.xib", "App/**/*.xib", false},
		{"src/util/str.c", "src/", true},
		{"lib/src/str.c", "src/", false},
		{"Makefile", "Makefile", true},
		{"build/Makefile", "Makefile", true},
		{"Makefile.am", "Makefile", false},
		{"main.go", "", false},
		{"main.go", "[", false},
	}

	for _, tt := range tests {
		t.Run(tt.path+"~"+tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesPattern(tt.path, tt.pattern))
		})
	}
}

func TestShouldIgnore(t *testing.T) {
	excludes := []string{"vendor/", ".min.js", "*_generated.go", "testdata"}

	assert.True(t, ShouldIgnore("vendor/lib/a.go", excludes))
	assert.True(t, ShouldIgnore("web/app.min.js", excludes))
	assert.True(t, ShouldIgnore("api/types_generated.go", excludes))
	assert.True(t, ShouldIgnore("core/blame/testdata/x.txt", excludes), "plain patterns match as substrings")
	assert.False(t, ShouldIgnore("core/blame/blame.go", excludes))
	assert.False(t, ShouldIgnore("main.go", nil))
}

func TestNormalizeRepoPath(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "pkg"), 0o755))

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "relative file", input: "main.go", want: "main.go"},
		{name: "existing directory gets slash", input: "src", want: "src/"},
		{name: "explicit directory", input: "lib/", want: "lib/"},
		{name: "dot segments", input: "./src/../src/pkg", want: "src/pkg/"},
		{name: "absolute inside repo", input: filepath.Join(root, "src"), want: "src/"},
		{name: "repo root", input: ".", want: ""},
		{name: "outside repo", input: "../elsewhere", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeRepoPath(root, tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTruncatePath(t *testing.T) {
	assert.Equal(t, "short.go", TruncatePath("short.go", 20))
	assert.Equal(t, "...deep/file.go", TruncatePath("very/long/path/to/deep/file.go", 15))
	assert.Equal(t, "abcdef", TruncatePath("abcdef", 3), "too small a width leaves the path alone")
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}
