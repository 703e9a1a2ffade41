//go:build integration

// Package integration contains integration tests for siri.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags integration ./integration
package integration

import (
	"encoding/json"
	"os/exec"
	"strings"
	"testing"

	"github.com/huangsam/siri/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jsonReport struct {
	schema.ScoreReport
	Label string `json:"label"`
}

func scoreJSON(t *testing.T, dir string, args ...string) jsonReport {
	t.Helper()
	out, err := runSiri(t, dir, nil, append([]string{"--output", "json"}, args...)...)
	require.NoError(t, err)

	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	return report
}

// TestSiriVerification scores a sample repository and checks the totals against git.
func TestSiriVerification(t *testing.T) {
	repo := sampleRepo(t)
	report := scoreJSON(t, repo.Root, "--detail")

	assert.Equal(t, 4, report.FilesScanned)
	assert.Equal(t, 0, report.FilesSkipped)
	assert.Equal(t, 16, report.TotalLines)

	sum := 0
	for _, a := range report.Authors {
		sum += a.Lines
	}
	assert.Equal(t, report.TotalLines, sum, "bucket policy tallies every blamed line")

	// Each per-file line count matches the blob at HEAD.
	require.Len(t, report.Files, 4)
	for _, f := range report.Files {
		t.Run(f.Path, func(t *testing.T) {
			out, err := exec.Command("git", "-C", repo.Root, "show", "HEAD:"+f.Path).Output()
			require.NoError(t, err)
			assert.Equal(t, strings.Count(string(out), "\n"), f.Lines)
		})
	}

	// Alice 6 code-ish lines, Bob 3 + 3, Mallory 4 unknown.
	byAuthor := make(map[string]schema.RankedAuthor)
	for _, a := range report.Authors {
		byAuthor[a.Author] = a
	}
	assert.Equal(t, 6, byAuthor["Alice"].Lines)
	assert.Equal(t, 6, byAuthor["Bob"].Lines)
	assert.Equal(t, 4, byAuthor[schema.UnknownAuthor].Lines)
	assert.Equal(t, report.HeadHash, strings.TrimSpace(repo.Git(t, "rev-parse", "HEAD")))
}

// TestSiriPolicies checks that the unknown-author policy only changes the unknown lines.
func TestSiriPolicies(t *testing.T) {
	repo := sampleRepo(t)

	dropped := scoreJSON(t, repo.Root, "--unknown-policy", "drop")
	assert.Equal(t, 4, dropped.DroppedLines)
	for _, a := range dropped.Authors {
		assert.NotEqual(t, schema.UnknownAuthor, a.Author)
	}

	kept := scoreJSON(t, repo.Root, "--unknown-policy", "keep")
	assert.Equal(t, 0, kept.DroppedLines)
	var found bool
	for _, a := range kept.Authors {
		found = found || a.Author == "mallory@gone.example"
	}
	assert.True(t, found, "keep policy tallies under the raw email")
}

// TestSiriFilters checks category flags and path filters.
func TestSiriFilters(t *testing.T) {
	repo := sampleRepo(t)

	resources := scoreJSON(t, repo.Root, "--resource")
	assert.Equal(t, 1, resources.FilesScanned)
	assert.Equal(t, 3, resources.TotalLines)

	single := scoreJSON(t, repo.Root, "legacy.go")
	assert.Equal(t, 1, single.FilesScanned)
	require.Len(t, single.Authors, 1)
	assert.Equal(t, schema.UnknownAuthor, single.Authors[0].Author)
	assert.Equal(t, "Keep", single.Label)
}

// TestSiriInvalidRepo checks the exit status for a path outside any checkout.
func TestSiriInvalidRepo(t *testing.T) {
	_, err := runSiri(t, t.TempDir(), nil, "--repo", "does-not-exist")
	require.Error(t, err)
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 1, exitErr.ExitCode())
}
