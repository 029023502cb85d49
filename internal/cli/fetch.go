package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/board"
	"github.com/vijay-prabhu/jobmatch/internal/config"
	"github.com/vijay-prabhu/jobmatch/internal/output"
	"github.com/vijay-prabhu/jobmatch/internal/tracker"
)

var (
	fetchListing string
	fetchSave    string
	fetchForce   bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [job-id...]",
	Short: "Fetch job overviews from WaterlooWorks and score them",
	Long: `Fetch downloads the overview of each posting from WaterlooWorks, stores it
and scores it against your resume.

Requests use the session cookie from the [board] section of the config file.
Without job IDs the postings are read from the listing page.

Examples:
  jobmatch fetch                          # All postings on the listing page
  jobmatch fetch 410854 410855            # Specific postings
  jobmatch fetch --listing jobs.html      # Postings on a saved listing page
  jobmatch fetch --save overviews.json    # Also write the overviews to a file`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().StringVar(&fetchListing, "listing", "", "Read job IDs (and the action token) from a saved listing page")
	fetchCmd.Flags().StringVar(&fetchSave, "save", "", "Also write all stored overviews to this file")
	fetchCmd.Flags().BoolVar(&fetchForce, "force", false, "Rescore jobs that already have a score")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Board.SessionCookie == "" {
		return fmt.Errorf("board.session_cookie is not set in %s (copy it from a logged-in browser)", configPath)
	}

	client := newBoardClient(cfg)
	ids := args

	if fetchListing != "" {
		page, err := os.ReadFile(fetchListing)
		if err != nil {
			return fmt.Errorf("failed to read listing page: %w", err)
		}
		if client.ActionToken() == "" {
			if token, ok := board.ExtractActionToken(string(page)); ok {
				client.SetActionToken(token)
			}
		}
		ids = append(ids, board.ScrapeJobIDs(string(page))...)
		if len(ids) == 0 {
			return fmt.Errorf("no job IDs found in %s", fetchListing)
		}
	}

	t := tracker.New(db, client, newMatcher(cfg), cfg, nil)
	terminal := NewTerminal()

	opts := tracker.SyncOptions{
		ScoreOptions: tracker.ScoreOptions{
			Force:    fetchForce,
			Progress: progressPrinter(terminal),
		},
		JobIDs: ids,
	}

	if len(ids) > 0 {
		fmt.Printf("Fetching %d job overviews...\n", len(ids))
	} else {
		fmt.Printf("Fetching job overviews from %s...\n", cfg.ListingURL())
	}

	result, err := t.Sync(ctx, opts)
	terminal.ClearLine()
	if err != nil && !errors.Is(err, tracker.ErrNoResume) {
		return fmt.Errorf("fetch failed: %w", err)
	}

	printResult(result)
	if errors.Is(err, tracker.ErrNoResume) {
		fmt.Println()
		fmt.Println("Overviews stored but not scored: no resume set.")
		fmt.Println("Run 'jobmatch resume set <file>' to score them.")
	}

	if fetchSave != "" {
		if err := saveOverviews(cmd, fetchSave); err != nil {
			return err
		}
	}

	return nil
}

func newBoardClient(cfg *config.Config) *board.Client {
	return board.NewClient(board.ClientOptions{
		OverviewURL:       cfg.OverviewURL(),
		ActionToken:       cfg.Board.ActionToken,
		SessionCookie:     cfg.Board.SessionCookie,
		Timeout:           cfg.Board.Timeout(),
		RequestsPerSecond: cfg.Board.RequestsPerSecond,
	})
}

// progressPrinter renders pipeline progress on one line in a terminal, or as
// occasional lines otherwise. Progress is suppressed for machine-readable output.
func progressPrinter(terminal *Terminal) tracker.ProgressCallback {
	if outputFmt != output.FormatTable {
		return nil
	}

	var lastPhase tracker.ProgressPhase
	return func(p tracker.Progress) {
		terminal.ClearLine()

		var eta string
		if etaDur := p.ETA(); etaDur > 0 {
			eta = fmt.Sprintf(" (ETA: %s)", FormatETA(etaDur))
		}

		var msg string
		switch p.Phase {
		case tracker.PhaseDiscovering:
			msg = fmt.Sprintf("%s Reading job listing...", terminal.Spinner())
		case tracker.PhaseFetching:
			msg = fmt.Sprintf("Fetching overviews: %d/%d (%d%%)%s", p.Current, p.Total, p.Percentage(), eta)
		case tracker.PhaseStoring:
			msg = fmt.Sprintf("Storing overviews: %d/%d", p.Current, p.Total)
		case tracker.PhaseScoring:
			msg = fmt.Sprintf("Scoring jobs: %d/%d (%d%%)%s", p.Current, p.Total, p.Percentage(), eta)
		case tracker.PhaseSaving:
			msg = fmt.Sprintf("%s Saving scores...", terminal.Spinner())
		}

		msg = terminal.Color(PhaseColor(p.Phase), msg)

		if terminal.IsTerminal {
			fmt.Print(msg)
			terminal.Flush()
		} else {
			// For non-terminals, print on phase change or every 25 items
			shouldPrint := p.Phase != lastPhase || p.Current == p.Total || p.Current%25 == 0
			if shouldPrint {
				fmt.Println(msg)
			}
		}
		lastPhase = p.Phase
	}
}

func printResult(result *tracker.Result) {
	if result == nil {
		return
	}

	fmt.Println()
	fmt.Println("Done:")
	if result.Fetched > 0 {
		fmt.Printf("  Overviews fetched:     %d\n", result.Fetched)
	}
	if result.Stored > 0 {
		fmt.Printf("  Overviews stored:      %d\n", result.Stored)
	}
	fmt.Printf("  Jobs scored:           %d\n", result.Scored)
	if result.Cached > 0 {
		fmt.Printf("  Already scored:        %d (use --force to rescore)\n", result.Cached)
	}

	if len(result.Errors) > 0 {
		fmt.Println()
		fmt.Printf("Warnings: %d\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  - %v\n", e)
		}
	}
}
