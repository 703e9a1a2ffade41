// Package blame extracts line-level authorship from git blame output.
package blame

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/siri/internal/contract"
	"github.com/huangsam/siri/schema"
)

// author is the identity recorded for one commit in the porcelain stream.
type author struct {
	name  string
	email string
}

// Extract runs blame for one matched file at cfg.Ref and returns its record.
// Any git or parsing failure is reported as a *contract.HistoryError so the
// caller can skip the file and continue. A cancelled context is returned as is.
func Extract(ctx context.Context, cfg *contract.Config, client contract.GitClient, match schema.FileMatch) (schema.BlameRecord, error) {
	out, err := client.GetBlame(ctx, cfg.RepoPath, cfg.Ref, match.Path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return schema.BlameRecord{}, ctxErr
		}
		return schema.BlameRecord{}, &contract.HistoryError{Path: match.Path, Err: err}
	}

	lines, err := ParsePorcelain(out)
	if err != nil {
		return schema.BlameRecord{}, &contract.HistoryError{Path: match.Path, Err: err}
	}

	return schema.BlameRecord{
		Path:     match.Path,
		Category: match.Category,
		Lines:    lines,
	}, nil
}

// ParsePorcelain parses `git blame --porcelain` or `--line-porcelain` output.
// Author details are only guaranteed on the first line blamed to a commit,
// so they are remembered per commit and reused for later lines.
func ParsePorcelain(data []byte) ([]schema.BlameLine, error) {
	commits := make(map[string]*author)
	var result []schema.BlameLine
	var pending *schema.BlameLine
	lineNo := 0

	for raw := range strings.Lines(string(data)) {
		lineNo++
		line := strings.TrimSuffix(raw, "\n")

		// Content line closes the current entry
		if strings.HasPrefix(line, "\t") {
			if pending == nil {
				return nil, fmt.Errorf("line %d: content without a commit header", lineNo)
			}
			a := commits[pending.Commit]
			pending.AuthorName = a.name
			pending.AuthorEmail = a.email
			pending.Content = line[1:]
			result = append(result, *pending)
			pending = nil
			continue
		}

		if pending == nil {
			if line == "" {
				continue
			}
			entry, err := parseHeader(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if _, ok := commits[entry.Commit]; !ok {
				commits[entry.Commit] = &author{}
			}
			pending = &entry
			continue
		}

		key, value, _ := strings.Cut(line, " ")
		switch key {
		case "author":
			commits[pending.Commit].name = value
		case "author-mail":
			commits[pending.Commit].email = strings.TrimSuffix(strings.TrimPrefix(value, "<"), ">")
		}
	}

	if pending != nil {
		return nil, fmt.Errorf("truncated blame output: commit %s has no content line", pending.Commit)
	}
	return result, nil
}

// parseHeader parses "<sha> <orig-line> <final-line> [<group-size>]".
func parseHeader(line string) (schema.BlameLine, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 || len(fields) > 4 || !isCommitHash(fields[0]) {
		return schema.BlameLine{}, fmt.Errorf("unexpected blame header %q", line)
	}
	final, err := strconv.Atoi(fields[2])
	if err != nil || final < 1 {
		return schema.BlameLine{}, fmt.Errorf("invalid line number in header %q", line)
	}
	return schema.BlameLine{Number: final, Commit: fields[0]}, nil
}

// isCommitHash accepts SHA-1 and SHA-256 object names.
func isCommitHash(s string) bool {
	if len(s) != 40 && len(s) != 64 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
