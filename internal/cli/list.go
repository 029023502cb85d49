package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/database"
	"github.com/vijay-prabhu/jobmatch/internal/match"
	"github.com/vijay-prabhu/jobmatch/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List scored jobs, best match first",
	Long: `List scored jobs with optional filters.

Examples:
  jobmatch list                    # All scored jobs
  jobmatch list --min 65           # At least 65%
  jobmatch list --good             # Good matches and better ([matching] good_match_percent)
  jobmatch list --band excellent   # Only excellent matches
  jobmatch list --search analyst   # Titles containing "analyst"
  jobmatch list -o json            # Output as JSON`,
	RunE: runList,
}

var (
	listMin    int
	listBand   string
	listSearch string
	listLimit  int
	listGood   bool
)

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntVar(&listMin, "min", 0, "Minimum match percentage")
	listCmd.Flags().StringVar(&listBand, "band", "", "Filter by band (excellent, good, medium, below_average, poor, very_poor)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "Filter by title or job ID")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of results")
	listCmd.Flags().BoolVar(&listGood, "good", false, "Only good matches and better")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if listMin < 0 || listMin > 100 {
		return fmt.Errorf("--min must be between 0 and 100")
	}

	cfg, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	opts := database.MatchListOptions{
		MinPercent: listMin,
		Limit:      listLimit,
	}

	if listGood && opts.MinPercent < cfg.Matching.GoodMatchPercent {
		opts.MinPercent = cfg.Matching.GoodMatchPercent
	}
	if listBand != "" {
		if !match.Band(listBand).Valid() {
			return fmt.Errorf("unknown band: %s", listBand)
		}
		opts.Band = &listBand
	}
	if listSearch != "" {
		opts.Search = &listSearch
	}

	matches, err := db.ListMatches(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to list matches: %w", err)
	}

	return output.Output(outputFmt, matches)
}
