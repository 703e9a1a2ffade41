package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/siri/internal/contract"
	"github.com/huangsam/siri/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// topAuthorsPerFile is how many authors the per-file table lists.
const topAuthorsPerFile = 3

// WriteScoreReport outputs a score report, dispatching based on the output format configured.
func WriteScoreReport(report *schema.ScoreReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreCSV(w, report, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreTable(w, report, cfg, fmtFloat, intFmt, duration)
		}, "Wrote table")
	}
	return nil
}

// writeScoreTable renders the author ranking, the optional per-file table
// and the summary lines.
func writeScoreTable(w io.Writer, report *schema.ScoreReport, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	headers := []string{"Rank", "Author", "Lines", "Share", "Activity"}
	if cfg.Detail {
		headers = append(headers, "Code", "Comments", "Blank", "Commits")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, a := range report.Authors {
		row := []string{
			strconv.Itoa(a.Rank),
			a.Author,
			formatCount(a.Lines),
			fmtFloat(a.Share) + "%",
			activityBar(a.Share),
		}
		if cfg.Detail {
			row = append(
				row,
				fmt.Sprintf(intFmt, a.Code),
				fmt.Sprintf(intFmt, a.Comments),
				fmt.Sprintf(intFmt, a.Blank),
				fmt.Sprintf(intFmt, a.Commits),
			)
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if cfg.Detail && len(report.Files) > 0 {
		if err := writeFileScoreTable(w, report.Files, cfg); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Scanned %s files (%s skipped), %s lines at %s (%s)\n",
		formatCount(report.FilesScanned), formatCount(report.FilesSkipped),
		formatCount(report.TotalLines), report.Ref, shortHash(report.HeadHash)); err != nil {
		return err
	}
	if report.DroppedLines > 0 {
		if _, err := fmt.Fprintf(w, "Dropped %s lines by unknown authors\n", formatCount(report.DroppedLines)); err != nil {
			return err
		}
	}
	if cfg.Verbose {
		for _, p := range report.SkippedFiles {
			if _, err := fmt.Fprintf(w, "  skipped: %s\n", p); err != nil {
				return err
			}
		}
	}
	if _, err := fmt.Fprintf(w, "SIRI: %s%% %s\n", fmtFloat(report.SiriPercent), contract.GetColorLabel(report.SiriPercent)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scan completed in %v. Store backend: %s\n", duration, cfg.StoreBackend); err != nil {
		return err
	}
	return nil
}

// writeFileScoreTable renders one row per scanned file with its top authors.
func writeFileScoreTable(w io.Writer, files []schema.FileScore, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Path", "Category", "Lines", "Top Authors"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	maxWidth := GetMaxTablePathWidth(cfg)
	var data [][]string
	for _, f := range files {
		data = append(data, []string{
			contract.TruncatePath(f.Path, maxWidth),
			string(f.Category),
			formatCount(f.Lines),
			schema.FormatTopAuthors(f.Authors, topAuthorsPerFile),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeScoreCSV writes one row per (scope, author). The scope is "total" for
// the repository ranking and the file path for per-file rows.
func writeScoreCSV(w io.Writer, report *schema.ScoreReport, fmtFloat func(float64) string, intFmt string) error {
	header := []string{
		"scope",
		"rank",
		"author",
		"lines",
		"code",
		"comments",
		"blank",
		"commits",
		"share",
		"known",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		if err := writeAuthorRows(cw, schema.TotalScope, report.Authors, fmtFloat, intFmt); err != nil {
			return err
		}
		for _, f := range report.Files {
			if err := writeAuthorRows(cw, f.Path, f.Authors, fmtFloat, intFmt); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeAuthorRows(cw *csv.Writer, scope string, authors []schema.RankedAuthor, fmtFloat func(float64) string, intFmt string) error {
	for _, a := range authors {
		rec := []string{
			scope,
			strconv.Itoa(a.Rank),
			a.Author,
			fmt.Sprintf(intFmt, a.Lines),
			fmt.Sprintf(intFmt, a.Code),
			fmt.Sprintf(intFmt, a.Comments),
			fmt.Sprintf(intFmt, a.Blank),
			fmt.Sprintf(intFmt, a.Commits),
			fmtFloat(a.Share),
			strconv.FormatBool(a.Known),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeScoreJSON writes the report with its verdict label.
func writeScoreJSON(w io.Writer, report *schema.ScoreReport) error {
	type jsonScoreReport struct {
		*schema.ScoreReport
		Label string `json:"label"`
	}
	return writeJSON(w, jsonScoreReport{
		ScoreReport: report,
		Label:       contract.GetPlainLabel(report.SiriPercent),
	})
}
