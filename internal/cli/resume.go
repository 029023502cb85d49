package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/jobmatch/internal/output"
	"github.com/vijay-prabhu/jobmatch/internal/resume"
	"github.com/vijay-prabhu/jobmatch/internal/tracker"
)

var resumeText string

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Manage the resume used for matching",
	Long: `Manage the resume that job overviews are scored against.

Only one resume is active at a time. Setting a new resume clears every
cached score and rescores the stored overviews.`,
}

var resumeSetCmd = &cobra.Command{
	Use:   "set [file]",
	Short: "Set the active resume from a PDF or text file",
	Long: `Set the active resume.

PDF files are converted to text. Any other file is read as UTF-8 text.
Use "-" to read from stdin, or --text to pass the resume directly.

Examples:
  jobmatch resume set resume.pdf
  jobmatch resume set resume.txt
  pbpaste | jobmatch resume set -
  jobmatch resume set --text "Python developer with AWS experience"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResumeSet,
}

var resumeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active resume",
	RunE:  runResumeShow,
}

var resumeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the active resume and its scores",
	RunE:  runResumeClear,
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.AddCommand(resumeSetCmd)
	resumeCmd.AddCommand(resumeShowCmd)
	resumeCmd.AddCommand(resumeClearCmd)

	resumeSetCmd.Flags().StringVar(&resumeText, "text", "", "Resume text to use instead of a file")
}

func readResume(args []string) (*resume.Document, error) {
	switch {
	case resumeText != "":
		if len(args) > 0 {
			return nil, fmt.Errorf("use either a file or --text, not both")
		}
		return resume.FromText("pasted text", []byte(resumeText))
	case len(args) == 0:
		return nil, resume.ErrEmpty
	case args[0] == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return resume.FromText("stdin", data)
	default:
		return resume.Load(args[0])
	}
}

func runResumeSet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	doc, err := readResume(args)
	if err != nil {
		return err
	}

	cfg, db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	r := doc.Resume()
	if err := db.SaveResume(ctx, r); err != nil {
		return fmt.Errorf("failed to save resume: %w", err)
	}

	fmt.Printf("Resume set: %s (%d characters", r.Name, len([]rune(r.Content)))
	if r.PageCount > 0 {
		fmt.Printf(", %d pages", r.PageCount)
	}
	fmt.Println(")")

	count, err := db.CountOverviews(ctx)
	if err != nil {
		return fmt.Errorf("failed to count overviews: %w", err)
	}
	if count == 0 {
		fmt.Println("No job overviews stored yet. Run 'jobmatch fetch' or 'jobmatch import <file>'.")
		return nil
	}

	t := tracker.New(db, nil, newMatcher(cfg), cfg, nil)
	terminal := NewTerminal()

	result, err := t.Rescore(ctx, tracker.ScoreOptions{Progress: progressPrinter(terminal)})
	terminal.ClearLine()
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	fmt.Printf("Scored %d jobs.\n", result.Scored)
	return printSummary(ctx, db, cfg.Matching.StrongMatchPercent)
}

func runResumeShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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

	if outputFmt != output.FormatTable {
		data := struct {
			Resume  any    `json:"resume"`
			Content string `json:"content"`
		}{Resume: r, Content: r.Content}
		return output.Output(outputFmt, data)
	}
	return output.Table(r)
}

func runResumeClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

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
		fmt.Println("No resume set.")
		return nil
	}

	if err := db.ClearResume(ctx); err != nil {
		return fmt.Errorf("failed to clear resume: %w", err)
	}
	fmt.Printf("Removed resume %s and its scores.\n", r.Name)
	return nil
}

