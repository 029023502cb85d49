package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/tracker"
)

var matchForce bool

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score stored job overviews against your resume",
	Long: `Match scores every stored job overview that has no score yet.

Scores are cached per resume; saving a new resume clears them.

Examples:
  jobmatch match           # Score new overviews only
  jobmatch match --force   # Rescore everything (e.g. after changing [matching])`,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().BoolVar(&matchForce, "force", false, "Rescore jobs that already have a score")
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	t := tracker.New(db, nil, newMatcher(cfg), cfg, nil)
	terminal := NewTerminal()

	result, err := t.Rescore(ctx, tracker.ScoreOptions{
		Force:    matchForce,
		Progress: progressPrinter(terminal),
	})
	terminal.ClearLine()
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	printResult(result)
	return printSummary(ctx, db, cfg.Matching.StrongMatchPercent)
}
