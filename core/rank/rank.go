// Package rank orders tallied authors for reporting.
package rank

import (
	"sort"

	"github.com/huangsam/siri/schema"
)

// RankAuthors sorts the authors of a tally by line count in descending order,
// breaking ties by name, and returns the top 'limit' entries. A limit of zero
// or less returns every author. Shares are computed against the tally sum.
func RankAuthors(tally schema.ScoreTally, limit int) []schema.RankedAuthor {
	ranked := make([]schema.RankedAuthor, 0, len(tally.Authors))
	for name, stats := range tally.Authors {
		ranked = append(ranked, schema.RankedAuthor{Author: name, AuthorStats: *stats})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Lines != ranked[j].Lines {
			return ranked[i].Lines > ranked[j].Lines
		}
		return ranked[i].Author < ranked[j].Author
	})

	sum := tally.Sum()
	for i := range ranked {
		ranked[i].Rank = i + 1
		if sum > 0 {
			ranked[i].Share = 100 * float64(ranked[i].Lines) / float64(sum)
		}
	}

	if limit > 0 && len(ranked) > limit {
		return ranked[:limit]
	}
	return ranked
}
