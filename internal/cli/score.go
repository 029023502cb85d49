package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/board"
	"github.com/vijay-prabhu/jobmatch/internal/output"
	"github.com/vijay-prabhu/jobmatch/internal/resume"
	"github.com/vijay-prabhu/jobmatch/internal/tracker"
)

var (
	scoreJob    string
	scoreResume string
	scoreHTML   bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single job overview without storing it",
	Long: `Score compares one job overview with a resume and explains the result:
the detected domain, the extracted sections and the terms that matched.

The job is read from a text file, or from an HTML overview page with --html.
The active resume is used unless --resume is given.

Examples:
  jobmatch score --job overview.txt
  jobmatch score --job posting.html --html
  jobmatch score --job - --resume resume.pdf < overview.txt
  jobmatch score --job overview.txt -o json`,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringVar(&scoreJob, "job", "", "Job overview file (- for stdin)")
	scoreCmd.Flags().StringVar(&scoreResume, "resume", "", "Resume file to use instead of the active resume")
	scoreCmd.Flags().BoolVar(&scoreHTML, "html", false, "Parse the job file as a WaterlooWorks overview page")
	_ = scoreCmd.MarkFlagRequired("job")
}

func readJobText(path string, html bool) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read job overview: %w", err)
	}

	if html {
		return board.ParseOverview(string(data)).Text, nil
	}
	return string(data), nil
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	jobText, err := readJobText(scoreJob, scoreHTML)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var resumeText string
	if scoreResume != "" {
		doc, err := resume.Load(scoreResume)
		if err != nil {
			return err
		}
		resumeText = doc.Text
	} else {
		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		r, err := db.GetResume(ctx)
		if err != nil {
			return fmt.Errorf("failed to get resume: %w", err)
		}
		if r == nil {
			return tracker.ErrNoResume
		}
		resumeText = r.Content
	}

	report := newMatcher(cfg).Explain(jobText, resumeText)

	if outputFmt != output.FormatTable {
		return output.Output(outputFmt, report)
	}

	terminal := NewTerminal()
	fmt.Printf("%s  %s\n\n", terminal.Score(report.Formatted), report.Formatted.Band.Label())
	return output.Table(&report)
}
