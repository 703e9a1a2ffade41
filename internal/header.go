// Package internal has console helpers shared by the command layer and core.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/siri/internal/contract"
)

// LogScanHeader prints a concise, 2-line header before a scan.
// It goes to stderr so that CSV and JSON output on stdout stays clean.
func LogScanHeader(cfg *contract.Config) {
	repoName := filepath.Base(cfg.RepoPath)
	if repoName == "" || repoName == "." {
		repoName = "current"
	}

	// Line 1: The repository and ref being blamed
	_, _ = fmt.Fprintf(os.Stderr, "🔎 Repo: %s (Ref: %s)\n", repoName, cfg.Ref)

	// Line 2: What is being counted
	scope := "whole tree"
	if len(cfg.PathFilters) > 0 {
		scope = fmt.Sprintf("%v", cfg.PathFilters)
	}
	_, _ = fmt.Fprintf(os.Stderr, "🧮 Scope: %s (%d patterns, %d authors, unknown: %s)\n",
		scope, len(cfg.Patterns), len(cfg.Identities), cfg.UnknownPolicy)
}
