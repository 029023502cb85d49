package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/database"
	"github.com/vijay-prabhu/jobmatch/internal/output"
)

var showOverview bool

var showCmd = &cobra.Command{
	Use:   "show <job-id>",
	Short: "Show the score and overview of a job",
	Long: `Show the cached score of one job, and optionally its stored overview.

Examples:
  jobmatch show 410854
  jobmatch show 410854 --overview`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showOverview, "overview", false, "Also print the stored overview text")
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	jobID := args[0]

	_, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	m, err := db.GetMatch(ctx, jobID)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	o, err := db.GetOverview(ctx, jobID)
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}

	if m == nil && o == nil {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if outputFmt != output.FormatTable {
		data := struct {
			Match    *database.Match       `json:"match,omitempty"`
			Overview *database.JobOverview `json:"overview,omitempty"`
		}{
			Match:    m,
			Overview: o,
		}
		return output.Output(outputFmt, data)
	}

	if m == nil {
		fmt.Printf("Job %s is stored but not scored yet. Run 'jobmatch match'.\n", jobID)
	} else if err := output.Table(m); err != nil {
		return err
	}

	if showOverview && o != nil {
		fmt.Println()
		fmt.Println("Overview:")
		fmt.Println(output.Wrap(o.Overview, 80, "  "))
	}
	return nil
}
