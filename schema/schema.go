// Package schema has models and constants shared by all parts of siri.
package schema

import "time"

// AuthorIdentity is a known contributor. All aliases (names or emails)
// resolve to the canonical Name.
type AuthorIdentity struct {
	Name    string   `json:"name" yaml:"name"`
	Aliases []string `json:"aliases" yaml:"aliases"`
	Factor  float64  `json:"factor" yaml:"factor"` // Weight in the SIRI percentage
}

// FilePattern is a glob pattern tagged with the category it selects.
type FilePattern struct {
	Glob     string
	Category FileCategory
}

// FileMatch is a repository file that matched a configured pattern.
type FileMatch struct {
	Path     string       `json:"path"` // Repo-relative, slash-separated
	Category FileCategory `json:"category"`
}

// BlameLine is the last change recorded for a single line of a file.
type BlameLine struct {
	Number      int    // 1-based line number in the file at the ref
	Commit      string // Full commit hash
	AuthorName  string
	AuthorEmail string
	Content     string
}

// BlameRecord holds the line-level authorship of one file.
type BlameRecord struct {
	Path     string
	Category FileCategory
	Lines    []BlameLine
}

// AuthorStats are the line counts accumulated for one canonical identity.
type AuthorStats struct {
	Lines    int  `json:"lines"` // Every blamed line, regardless of kind
	Code     int  `json:"code"`
	Comments int  `json:"comments"`
	Blank    int  `json:"blank"`
	Commits  int  `json:"commits"` // Distinct commits that last touched these lines
	Known    bool `json:"known"`
}

// ScoreTally maps canonical identities to their accumulated stats.
// The sum of Authors[*].Lines plus DroppedLines always equals TotalLines.
type ScoreTally struct {
	Authors      map[string]*AuthorStats
	TotalLines   int
	DroppedLines int
}

// Sum returns the number of lines attributed to any identity.
func (t ScoreTally) Sum() int {
	sum := 0
	for _, s := range t.Authors {
		sum += s.Lines
	}
	return sum
}

// RankedAuthor is a tally entry with its position in the ranking.
type RankedAuthor struct {
	Rank   int     `json:"rank"`
	Author string  `json:"author"`
	Share  float64 `json:"share"` // Percent of tallied lines
	AuthorStats
}

// FileScore is the ranked authorship of a single file.
type FileScore struct {
	Path     string         `json:"path"`
	Category FileCategory   `json:"category"`
	Lines    int            `json:"lines"`
	Authors  []RankedAuthor `json:"authors"`
}

// ScoreReport is the final result of a scan.
type ScoreReport struct {
	RepoPath      string         `json:"repo_path"`
	Ref           string         `json:"ref"`
	HeadHash      string         `json:"head_hash,omitempty"`
	UnknownPolicy UnknownPolicy  `json:"unknown_policy"`
	Authors       []RankedAuthor `json:"authors"`
	Files         []FileScore    `json:"files,omitempty"`
	TotalLines    int            `json:"total_lines"`
	DroppedLines  int            `json:"dropped_lines"`
	FilesScanned  int            `json:"files_scanned"`
	FilesSkipped  int            `json:"files_skipped"`
	SkippedFiles  []string       `json:"skipped_files,omitempty"`
	SiriPercent   float64        `json:"siri_percent"`
	GeneratedAt   time.Time      `json:"generated_at"`
}
