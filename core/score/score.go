// Package score tallies blamed lines per canonical author and computes the
// SIRI percentage.
package score

import (
	"iter"

	"github.com/huangsam/siri/schema"
)

// Aggregator accumulates blame records into a repository-wide tally.
// It is not safe for concurrent use.
type Aggregator struct {
	resolver *Resolver
	policy   schema.UnknownPolicy
	tally    schema.ScoreTally
	commits  map[string]map[string]struct{}
}

// NewAggregator creates an aggregator for the given identities and policy.
// An empty policy behaves like schema.BucketPolicy.
func NewAggregator(identities []schema.AuthorIdentity, policy schema.UnknownPolicy) *Aggregator {
	if policy == "" {
		policy = schema.BucketPolicy
	}
	return &Aggregator{
		resolver: NewResolver(identities),
		policy:   policy,
		tally:    newTally(),
		commits:  make(map[string]map[string]struct{}),
	}
}

// Add tallies one record and returns the tally of that file alone.
func (a *Aggregator) Add(rec schema.BlameRecord) schema.ScoreTally {
	file := newTally()
	fileCommits := make(map[string]map[string]struct{})
	markers := CommentMarkers(rec.Path)

	for _, line := range rec.Lines {
		file.TotalLines++
		a.tally.TotalLines++

		key, known, ok := a.attribute(line)
		if !ok {
			file.DroppedLines++
			a.tally.DroppedLines++
			continue
		}

		kind := ClassifyLine(line.Content, markers)
		countLine(file, fileCommits, key, known, kind, line.Commit)
		countLine(a.tally, a.commits, key, known, kind, line.Commit)
	}
	return file
}

// Tally returns a copy of the accumulated tally.
func (a *Aggregator) Tally() schema.ScoreTally {
	out := schema.ScoreTally{
		Authors:      make(map[string]*schema.AuthorStats, len(a.tally.Authors)),
		TotalLines:   a.tally.TotalLines,
		DroppedLines: a.tally.DroppedLines,
	}
	for k, v := range a.tally.Authors {
		stats := *v
		out.Authors[k] = &stats
	}
	return out
}

// Aggregate tallies every record of the sequence.
func Aggregate(records iter.Seq[schema.BlameRecord], identities []schema.AuthorIdentity, policy schema.UnknownPolicy) schema.ScoreTally {
	agg := NewAggregator(identities, policy)
	for rec := range records {
		agg.Add(rec)
	}
	return agg.Tally()
}

// SiriPercent returns the factor-weighted share of code lines written by
// known authors, in percent. It is 0 when there are no code lines.
func SiriPercent(tally schema.ScoreTally, identities []schema.AuthorIdentity) float64 {
	resolver := NewResolver(identities)
	var weighted float64
	total := 0
	for name, stats := range tally.Authors {
		total += stats.Code
		if !stats.Known {
			continue
		}
		if factor, ok := resolver.Factor(name); ok {
			weighted += float64(stats.Code) * factor
		}
	}
	if total == 0 {
		return 0
	}
	return 100 * weighted / float64(total)
}

// attribute picks the tally key for a line. The last result is false when
// the line is dropped by the policy.
func (a *Aggregator) attribute(line schema.BlameLine) (key string, known bool, ok bool) {
	if canonical, found := a.resolver.Resolve(line.AuthorName, line.AuthorEmail); found {
		return canonical, true, true
	}
	switch a.policy {
	case schema.DropPolicy:
		return "", false, false
	case schema.KeepPolicy:
		if line.AuthorEmail != "" {
			return line.AuthorEmail, false, true
		}
		if line.AuthorName != "" {
			return line.AuthorName, false, true
		}
	}
	return schema.UnknownAuthor, false, true
}

func countLine(t schema.ScoreTally, commits map[string]map[string]struct{}, key string, known bool, kind schema.LineKind, commit string) {
	stats, ok := t.Authors[key]
	if !ok {
		stats = &schema.AuthorStats{Known: known}
		t.Authors[key] = stats
	}
	stats.Lines++
	switch kind {
	case schema.BlankLine:
		stats.Blank++
	case schema.CommentLine:
		stats.Comments++
	default:
		stats.Code++
	}

	set, ok := commits[key]
	if !ok {
		set = make(map[string]struct{})
		commits[key] = set
	}
	set[commit] = struct{}{}
	stats.Commits = len(set)
}

func newTally() schema.ScoreTally {
	return schema.ScoreTally{Authors: make(map[string]*schema.AuthorStats)}
}
