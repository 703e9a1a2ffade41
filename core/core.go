// Package core has the scan pipeline that turns git blame into SIRI scores.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/siri/core/blame"
	"github.com/huangsam/siri/core/rank"
	"github.com/huangsam/siri/core/score"
	"github.com/huangsam/siri/core/walk"
	"github.com/huangsam/siri/internal"
	"github.com/huangsam/siri/internal/contract"
	"github.com/huangsam/siri/internal/outwriter"
	"github.com/huangsam/siri/schema"
)

// ExecuteSiri scans the repository, records the run when a store is given
// and writes the report in the configured output format.
// It serves as the main entry point for the root command.
func ExecuteSiri(ctx context.Context, cfg *contract.Config, client contract.GitClient, store contract.ScoreStore) error {
	start := time.Now()
	report, err := GetSiriResults(ctx, cfg, client)
	if err != nil {
		return err
	}

	if store != nil {
		runID, err := store.RecordRun(ctx, *report)
		if err != nil {
			contract.LogWarn("Score run recording failed", err)
		} else if cfg.Verbose && runID > 0 {
			_, _ = fmt.Fprintf(os.Stderr, "🗃️  Recorded run #%d (%s)\n", runID, cfg.StoreBackend)
		}
	}

	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteScore(report, cfg, duration)
}

// GetSiriResults runs walker, extractor, aggregator and ranker and returns
// the report without printing it. Files without history are skipped.
func GetSiriResults(ctx context.Context, cfg *contract.Config, client contract.GitClient) (*schema.ScoreReport, error) {
	if !shouldSuppressHeader(ctx) {
		internal.LogScanHeader(cfg)
	}

	agg := score.NewAggregator(cfg.Identities, cfg.UnknownPolicy)
	report := &schema.ScoreReport{
		RepoPath:      cfg.RepoPath,
		Ref:           cfg.Ref,
		UnknownPolicy: cfg.UnknownPolicy,
	}

	for match, err := range walk.Walk(ctx, cfg, client) {
		if err != nil {
			return nil, err
		}

		record, err := blame.Extract(ctx, cfg, client, match)
		if err != nil {
			if !contract.IsHistoryError(err) {
				return nil, err
			}
			report.FilesSkipped++
			report.SkippedFiles = append(report.SkippedFiles, match.Path)
			if cfg.Verbose {
				contract.LogWarn("Skipping file", err)
			}
			continue
		}

		fileTally := agg.Add(record)
		report.FilesScanned++
		if cfg.Detail {
			report.Files = append(report.Files, schema.FileScore{
				Path:     match.Path,
				Category: match.Category,
				Lines:    fileTally.TotalLines,
				Authors:  rank.RankAuthors(fileTally, 0),
			})
		}
	}

	hash, err := client.GetRepoHash(ctx, cfg.RepoPath, cfg.Ref)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", cfg.Ref, err)
	}
	report.HeadHash = hash

	tally := agg.Tally()
	report.Authors = rank.RankAuthors(tally, cfg.ResultLimit)
	report.TotalLines = tally.TotalLines
	report.DroppedLines = tally.DroppedLines
	report.SiriPercent = score.SiriPercent(tally, cfg.Identities)
	report.GeneratedAt = time.Now().UTC()
	return report, nil
}
