package schema

import "time"

// StoreStatus represents the status of the score store.
type StoreStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// ScoreRunRecord represents a row from the siri_score_runs table.
type ScoreRunRecord struct {
	RunID        int64     `json:"run_id"`
	RepoPath     string    `json:"repo_path"`
	Ref          string    `json:"ref"`
	HeadHash     string    `json:"head_hash"`
	RunTime      time.Time `json:"run_time"`
	TotalLines   int       `json:"total_lines"`
	DroppedLines int       `json:"dropped_lines"`
	FilesScanned int       `json:"files_scanned"`
	FilesSkipped int       `json:"files_skipped"`
	SiriPercent  float64   `json:"siri_percent"`
	TopAuthor    string    `json:"top_author"`
}
