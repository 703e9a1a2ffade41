package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTopAuthors(t *testing.T) {
	authors := []RankedAuthor{
		{Rank: 1, Author: "Alice", Share: 62.4},
		{Rank: 2, Author: "Bob", Share: 30.1},
		{Rank: 3, Author: UnknownAuthor, Share: 7.5},
	}

	assert.Equal(t, "Alice (62%), Bob (30%)", FormatTopAuthors(authors, 2))
	assert.Equal(t, "Alice (62%), Bob (30%), (unknown) (8%)", FormatTopAuthors(authors, 0))
	assert.Equal(t, "Alice (62%), Bob (30%), (unknown) (8%)", FormatTopAuthors(authors, 10))
	assert.Empty(t, FormatTopAuthors(nil, 2))
}

func TestPatterns(t *testing.T) {
	got := Patterns(CodeCategory, []string{".go", "  ", " *.m "})
	assert.Equal(t, []FilePattern{
		{Glob: ".go", Category: CodeCategory},
		{Glob: "*.m", Category: CodeCategory},
	}, got)
}

func TestScoreTallySum(t *testing.T) {
	tally := ScoreTally{
		Authors: map[string]*AuthorStats{
			"Alice":       {Lines: 10},
			UnknownAuthor: {Lines: 3},
		},
		TotalLines:   15,
		DroppedLines: 2,
	}
	assert.Equal(t, 13, tally.Sum())
	assert.Equal(t, tally.TotalLines, tally.Sum()+tally.DroppedLines)
}
