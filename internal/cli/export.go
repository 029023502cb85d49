package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/board"
	"github.com/vijay-prabhu/jobmatch/internal/database"
	"github.com/vijay-prabhu/jobmatch/internal/tracker"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export scored jobs or stored overviews",
	Long: `Export scored jobs to stdout, or stored overviews to a file.

Supported formats:
  - csv: Scored jobs as comma-separated values (spreadsheet-compatible)
  - json: Scored jobs as a JSON array
  - overviews: Stored overviews in the browser extension's export format

Examples:
  jobmatch export --format=csv > matches.csv
  jobmatch export --format=json --min 65 > good.json
  jobmatch export --format=overviews --file jobOverviews.json`,
	RunE: runExport,
}

var (
	exportFormat string
	exportMin    int
	exportFile   string
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format (csv, json, overviews)")
	exportCmd.Flags().IntVar(&exportMin, "min", 0, "Minimum match percentage")
	exportCmd.Flags().StringVar(&exportFile, "file", "jobOverviews.json", "Output file for --format=overviews")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if exportFormat == "overviews" {
		return saveOverviews(cmd, exportFile)
	}

	_, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	matches, err := db.ListMatches(ctx, database.MatchListOptions{MinPercent: exportMin})
	if err != nil {
		return fmt.Errorf("failed to list matches: %w", err)
	}

	switch exportFormat {
	case "csv":
		return exportCSV(matches)
	case "json":
		return exportJSON(matches)
	default:
		return fmt.Errorf("unknown format: %s (use csv, json or overviews)", exportFormat)
	}
}

// saveOverviews writes every stored overview to path
func saveOverviews(cmd *cobra.Command, path string) error {
	cfg, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	overviews, err := tracker.New(db, nil, nil, cfg, nil).Overviews(cmd.Context())
	if err != nil {
		return err
	}
	if err := board.WriteOverviewsFile(path, overviews); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Saved %d overviews to %s\n", len(overviews), path)
	return nil
}

// ExportRow is a scored job as written by export
type ExportRow struct {
	JobID       string  `json:"job_id"`
	Title       string  `json:"title"`
	Score       float64 `json:"score"`
	Percent     int     `json:"percent"`
	Band        string  `json:"band"`
	Domain      string  `json:"domain"`
	Fallback    bool    `json:"fallback"`
	CommonTerms string  `json:"common_terms"`
	ScoredAt    string  `json:"scored_at"`
}

func toExportRow(m database.Match) ExportRow {
	return ExportRow{
		JobID:       m.JobID,
		Title:       m.Title,
		Score:       m.Score,
		Percent:     m.Percent,
		Band:        m.Band,
		Domain:      m.Domain,
		Fallback:    m.Fallback,
		CommonTerms: strings.Join(m.CommonTerms, " "),
		ScoredAt:    m.ScoredAt.Format(time.RFC3339),
	}
}

func exportCSV(matches []database.Match) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{
		"job_id", "title", "score", "percent", "band", "domain",
		"fallback", "common_terms", "scored_at",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, m := range matches {
		row := toExportRow(m)
		record := []string{
			row.JobID,
			row.Title,
			strconv.FormatFloat(row.Score, 'f', 4, 64),
			strconv.Itoa(row.Percent),
			row.Band,
			row.Domain,
			strconv.FormatBool(row.Fallback),
			row.CommonTerms,
			row.ScoredAt,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return nil
}

func exportJSON(matches []database.Match) error {
	rows := make([]ExportRow, len(matches))
	for i, m := range matches {
		rows[i] = toExportRow(m)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(rows); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
