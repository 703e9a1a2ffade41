// Package walk enumerates the repository files that take part in a scan.
package walk

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"strings"

	"github.com/huangsam/siri/internal/contract"
	"github.com/huangsam/siri/schema"
	"github.com/src-d/enry/v2"
)

// Walk lists the files tracked at cfg.Ref and yields each one that matches
// a configured pattern, at most once, in the order git lists them.
//
// If the root is missing or not a git checkout, the sequence yields a single
// error wrapping contract.ErrNotFound and stops.
func Walk(ctx context.Context, cfg *contract.Config, client contract.GitClient) iter.Seq2[schema.FileMatch, error] {
	return func(yield func(schema.FileMatch, error) bool) {
		files, err := listFiles(ctx, cfg, client)
		if err != nil {
			yield(schema.FileMatch{}, err)
			return
		}

		seen := make(map[string]struct{}, len(files))
		for _, f := range files {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}

			match, ok := Classify(cfg, f)
			if !ok {
				continue
			}
			if !yield(match, nil) {
				return
			}
		}
	}
}

// Classify reports whether a repo-relative path takes part in the scan and
// which category it falls into. The first matching pattern wins.
func Classify(cfg *contract.Config, p string) (schema.FileMatch, bool) {
	if p == "" || !withinFilters(p, cfg.PathFilters) {
		return schema.FileMatch{}, false
	}
	if contract.ShouldIgnore(p, cfg.Excludes) {
		return schema.FileMatch{}, false
	}
	if !cfg.IncludeVendor && enry.IsVendor(p) {
		return schema.FileMatch{}, false
	}
	for _, pattern := range cfg.Patterns {
		if contract.MatchesPattern(p, pattern.Glob) {
			return schema.FileMatch{Path: p, Category: pattern.Category}, true
		}
	}
	return schema.FileMatch{}, false
}

// listFiles checks the root and returns every file tracked at the ref.
func listFiles(ctx context.Context, cfg *contract.Config, client contract.GitClient) ([]string, error) {
	if cfg.RepoPath == "" {
		return nil, fmt.Errorf("%w: no repository path given", contract.ErrNotFound)
	}
	info, err := os.Stat(cfg.RepoPath)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", contract.ErrNotFound, cfg.RepoPath)
	}
	if _, err := client.GetRepoRoot(ctx, cfg.RepoPath); err != nil {
		if errors.Is(err, contract.ErrGitMissing) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s is not a git checkout: %v", contract.ErrNotFound, cfg.RepoPath, err)
	}

	files, err := client.ListFilesAtRef(ctx, cfg.RepoPath, cfg.Ref)
	if err != nil {
		return nil, fmt.Errorf("failed to list files at %s: %w", cfg.Ref, err)
	}
	return files, nil
}

// withinFilters reports whether p is under one of the filters. Directory
// filters end with '/'; any other filter must equal the path.
func withinFilters(p string, filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		switch {
		case f == "":
			return true
		case strings.HasSuffix(f, "/"):
			if strings.HasPrefix(p, f) {
				return true
			}
		case p == f:
			return true
		}
	}
	return false
}
