// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"

	"github.com/huangsam/siri/schema"
)

// GitClient defines the Git operations needed to score a repository.
// This allows the core logic to be tested without needing a real git executable.
type GitClient interface {
	// Run executes a git command and returns its stdout.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)

	// GetRepoHash returns the commit hash the given reference resolves to.
	GetRepoHash(ctx context.Context, repoPath string, ref string) (string, error)

	// ListFilesAtRef returns all tracked files in the repository at a specific reference.
	ListFilesAtRef(ctx context.Context, repoPath string, ref string) ([]string, error)

	// GetBlame returns the raw `git blame --line-porcelain` output for a file at a reference.
	GetBlame(ctx context.Context, repoPath string, ref string, path string) ([]byte, error)
}

// ScoreStore defines the interface for recording score runs.
// This allows mocking the store for testing.
type ScoreStore interface {
	// RecordRun stores the report and its author tallies, returning the new run ID.
	RecordRun(ctx context.Context, report schema.ScoreReport) (int64, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]schema.ScoreRunRecord, error)

	// GetStatus returns status information about the store.
	GetStatus() (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}
