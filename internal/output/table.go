package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/jobmatch/internal/board"
	"github.com/vijay-prabhu/jobmatch/internal/database"
	"github.com/vijay-prabhu/jobmatch/internal/match"
	"github.com/vijay-prabhu/jobmatch/internal/tracker"
)

// Table writes data as a formatted table to stdout
func Table(data interface{}) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data interface{}) error {
	switch v := data.(type) {
	case []database.Match:
		return matchesTable(w, v)
	case *database.Match:
		return matchDetail(w, v)
	case *match.Report:
		return reportDetail(w, v)
	case tracker.Summary:
		return summaryTable(w, v)
	case *database.Resume:
		return resumeDetail(w, v)
	case []board.JobOverview:
		return overviewsTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func matchesTable(w io.Writer, matches []database.Match) error {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Job ID", "Title", "Match", "Band", "Domain", "Scored")

	for _, m := range matches {
		row := []string{
			m.JobID,
			truncate(m.Title, 40),
			strconv.Itoa(m.Percent) + "%",
			match.Band(m.Band).Label(),
			m.Domain,
			tracker.Age(m.ScoredAt),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}

	return table.Render()
}

func overviewsTable(w io.Writer, overviews []board.JobOverview) error {
	if len(overviews) == 0 {
		fmt.Fprintln(w, "No job overviews found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Job ID", "Title", "Overview")

	for _, o := range overviews {
		if err := table.Append([]string{o.JobID, truncate(o.Overview.Title, 40), truncate(o.Overview.Text, 60)}); err != nil {
			return err
		}
	}

	return table.Render()
}

func matchDetail(w io.Writer, m *database.Match) error {
	fmt.Fprintf(w, "Job:         %s\n", m.JobID)
	if m.Title != "" {
		fmt.Fprintf(w, "Title:       %s\n", m.Title)
	}
	fmt.Fprintf(w, "Match:       %d%% (%s)\n", m.Percent, match.Band(m.Band).Label())
	fmt.Fprintf(w, "Domain:      %s\n", m.Domain)
	if m.Fallback {
		fmt.Fprintln(w, "Fallback:    yes")
	}
	if len(m.CommonTerms) > 0 {
		fmt.Fprintf(w, "Shared:      %s\n", wordWrap(strings.Join(m.CommonTerms, ", "), 64))
	}
	fmt.Fprintf(w, "Scored:      %s\n", m.ScoredAt.Format("Jan 02, 2006 15:04"))

	return nil
}

func reportDetail(w io.Writer, r *match.Report) error {
	fmt.Fprintf(w, "Score:       %s (%s)\n", r.Formatted.Score, r.Formatted.Band.Label())
	if r.Fallback {
		fmt.Fprintf(w, "Fallback:    %s\n", r.FallbackReason)
		return nil
	}

	fmt.Fprintf(w, "Domain:      %s\n", r.Domain)
	fmt.Fprintf(w, "Raw score:   %.3f\n", r.Result.RawScore)
	fmt.Fprintf(w, "Terms:       %d job, %d resume\n", r.JobTermCount, r.ResumeTermCount)
	fmt.Fprintf(w, "Weight:      %.2f matched of %.2f (%.2f resume-only)\n",
		r.Result.MatchWeight, r.Result.TotalWeight, r.Result.ResumeOnlyWeight)

	if len(r.Result.CommonTerms) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Shared terms:")
		fmt.Fprintln(w, indent(wordWrap(strings.Join(r.Result.CommonTerms, ", "), 74), "  "))
	}
	if len(r.Result.ApproximateTerms) > 0 || len(r.Result.StemTerms) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Related terms:")
		for _, p := range r.Result.ApproximateTerms {
			fmt.Fprintf(w, "  %s ~ %s\n", p.Job, p.Resume)
		}
		for _, p := range r.Result.StemTerms {
			fmt.Fprintf(w, "  %s ~ %s (stem)\n", p.Job, p.Resume)
		}
	}

	return nil
}

func summaryTable(w io.Writer, s tracker.Summary) error {
	fmt.Fprintln(w, "Match Summary")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Jobs scored:            %d\n", s.Count)
	if s.Count == 0 {
		return nil
	}
	fmt.Fprintf(w, "Average match:          %d%%\n", s.AveragePercent)
	fmt.Fprintf(w, "Strong matches:         %d\n", s.StrongMatches)

	fmt.Fprintln(w)
	for _, band := range match.Bands() {
		if n := s.Bands[band]; n > 0 {
			fmt.Fprintf(w, "%-24s%d\n", band.Label()+":", n)
		}
	}

	return nil
}

func resumeDetail(w io.Writer, r *database.Resume) error {
	fmt.Fprintf(w, "Name:        %s\n", r.Name)
	fmt.Fprintf(w, "Source:      %s\n", r.Source)
	if r.Title != nil && *r.Title != "" {
		fmt.Fprintf(w, "Title:       %s\n", *r.Title)
	}
	if r.Author != nil && *r.Author != "" {
		fmt.Fprintf(w, "Author:      %s\n", *r.Author)
	}
	if r.PageCount > 0 {
		fmt.Fprintf(w, "Pages:       %d\n", r.PageCount)
	}
	fmt.Fprintf(w, "Saved:       %s\n", r.CreatedAt.Format("Jan 02, 2006"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, wordWrap(r.Preview(400), 78))

	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func indent(s, prefix string) string {
	return prefix + strings.ReplaceAll(s, "\n", "\n"+prefix)
}

// wordWrap wraps text at the specified width
func wordWrap(text string, width int) string {
	var result strings.Builder
	lines := strings.Split(text, "\n")

	for _, line := range lines {
		if len(line) <= width {
			result.WriteString(line)
			result.WriteString("\n")
			continue
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if len(currentLine)+1+len(word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}
		result.WriteString(currentLine)
		result.WriteString("\n")
	}

	return strings.TrimSuffix(result.String(), "\n")
}

// Wrap word-wraps text to width and prefixes every line
func Wrap(text string, width int, prefix string) string {
	return indent(wordWrap(text, width-len(prefix)), prefix)
}
