package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/siri/internal/contract"
	"github.com/huangsam/siri/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// statusTimeFormat is used for timestamps in store status output.
const statusTimeFormat = "2006-01-02 15:04:05"

// WriteRunRecords outputs recorded score runs in the configured format.
func WriteRunRecords(runs []schema.ScoreRunRecord, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsCSV(w, runs, fmtFloat, intFmt)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsTable(w, runs, cfg, fmtFloat)
		}, "Wrote table")
	}
}

func writeRunsTable(w io.Writer, runs []schema.ScoreRunRecord, cfg *contract.Config, fmtFloat func(float64) string) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No score runs recorded yet")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Run", "When", "Repo", "Ref", "Lines", "Files", "SIRI", "Label", "Top Author"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTablePathWidth(cfg)
	var data [][]string
	for _, r := range runs {
		data = append(data, []string{
			strconv.FormatInt(r.RunID, 10),
			humanize.Time(r.RunTime),
			contract.TruncatePath(r.RepoPath, maxWidth),
			r.Ref,
			formatCount(r.TotalLines),
			formatCount(r.FilesScanned),
			fmtFloat(r.SiriPercent) + "%",
			contract.GetColorLabel(r.SiriPercent),
			r.TopAuthor,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeRunsCSV(w io.Writer, runs []schema.ScoreRunRecord, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"run_id",
		"run_time",
		"repo_path",
		"ref",
		"head_hash",
		"total_lines",
		"dropped_lines",
		"files_scanned",
		"files_skipped",
		"siri_percent",
		"label",
		"top_author",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range runs {
			rec := []string{
				strconv.FormatInt(r.RunID, 10),
				r.RunTime.UTC().Format(time.RFC3339),
				r.RepoPath,
				r.Ref,
				r.HeadHash,
				fmt.Sprintf(intFmt, r.TotalLines),
				fmt.Sprintf(intFmt, r.DroppedLines),
				fmt.Sprintf(intFmt, r.FilesScanned),
				fmt.Sprintf(intFmt, r.FilesSkipped),
				fmtFloat(r.SiriPercent),
				contract.GetPlainLabel(r.SiriPercent),
				r.TopAuthor,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteStoreStatus prints score store status information.
func WriteStoreStatus(w io.Writer, status schema.StoreStatus) error {
	lines := []string{
		fmt.Sprintf("Store Backend: %s", status.Backend),
		fmt.Sprintf("Connected: %t", status.Connected),
	}
	if status.Connected {
		lines = append(lines, fmt.Sprintf("Total Runs: %s", formatCount(status.TotalRuns)))
		if status.TotalRuns > 0 {
			lines = append(lines,
				fmt.Sprintf("Last Run ID: %d", status.LastRunID),
				fmt.Sprintf("Last Run: %s", status.LastRunTime.Format(statusTimeFormat)),
				fmt.Sprintf("Oldest Run: %s", status.OldestRunTime.Format(statusTimeFormat)),
			)
		}
		lines = append(lines, "Table Sizes:")
		tables := make([]string, 0, len(status.TableSizes))
		for table := range status.TableSizes {
			tables = append(tables, table)
		}
		slices.Sort(tables)
		for _, table := range tables {
			lines = append(lines, fmt.Sprintf("  %s: %s rows", table, humanize.Comma(status.TableSizes[table])))
		}
	}

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
