package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/board"
	"github.com/vijay-prabhu/jobmatch/internal/tracker"
)

var importForce bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import job overviews exported from the browser extension",
	Long: `Import reads job overviews saved by the WaterlooWorks browser extension,
stores them and scores them against your resume.

The file may hold a JSON array of overviews or an object with a
"jobOverviews" array, as written by 'jobmatch export --format=overviews'.

Examples:
  jobmatch import jobOverviews.json
  jobmatch import jobOverviews.json --force   # Rescore already scored jobs`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().BoolVar(&importForce, "force", false, "Rescore jobs that already have a score")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	overviews, err := board.LoadOverviewsFile(args[0])
	if err != nil {
		return err
	}
	if len(overviews) == 0 {
		fmt.Printf("No job overviews found in %s\n", args[0])
		return nil
	}

	cfg, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	t := tracker.New(db, nil, newMatcher(cfg), cfg, nil)
	terminal := NewTerminal()

	fmt.Printf("Importing %d job overviews...\n", len(overviews))
	result, err := t.Import(ctx, overviews, tracker.ScoreOptions{
		Force:    importForce,
		Progress: progressPrinter(terminal),
	})
	terminal.ClearLine()
	if err != nil && !errors.Is(err, tracker.ErrNoResume) {
		return fmt.Errorf("import failed: %w", err)
	}

	printResult(result)
	if errors.Is(err, tracker.ErrNoResume) {
		fmt.Println()
		fmt.Println("Overviews stored but not scored: no resume set.")
		fmt.Println("Run 'jobmatch resume set <file>' to score them.")
	}
	return nil
}
