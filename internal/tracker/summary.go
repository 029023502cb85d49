package tracker

import (
	"fmt"
	"math"
	"time"

	"github.com/vijay-prabhu/jobmatch/internal/match"
)

// DefaultStrongPercent is the match percentage counted as a strong match
const DefaultStrongPercent = 70

// Summary aggregates match scores across all scored jobs
type Summary struct {
	Count          int                `json:"count"`
	AveragePercent int                `json:"average_percent"`
	StrongMatches  int                `json:"strong_matches"`
	Bands          map[match.Band]int `json:"bands"`
}

// Summarize computes the average percentage and the number of strong matches. Scores
// are rounded to whole percentages before averaging.
func Summarize(scores []float64, strongPercent int) Summary {
	s := Summary{
		Count: len(scores),
		Bands: make(map[match.Band]int),
	}
	if len(scores) == 0 {
		return s
	}

	total := 0
	for _, score := range scores {
		pct := match.Percent(score)
		total += pct
		if pct >= strongPercent {
			s.StrongMatches++
		}
		s.Bands[match.BandFor(pct)]++
	}
	s.AveragePercent = int(math.Round(float64(total) / float64(len(scores))))

	return s
}

// String renders the summary the way the status line shows it
func (s Summary) String() string {
	if s.Count == 0 {
		return "No jobs scored yet"
	}
	return fmt.Sprintf("Average match: %d%% (%d strong matches found)", s.AveragePercent, s.StrongMatches)
}

// Age returns a human-readable summary of how long ago t was
func Age(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	days := int(time.Since(t).Hours() / 24)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days < 7:
		return formatDays(days) + " ago"
	case days < 30:
		return formatWeeks(days/7) + " ago"
	default:
		return formatDays(days) + " ago"
	}
}

func formatDays(days int) string {
	if days == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", days)
}

func formatWeeks(weeks int) string {
	if weeks == 1 {
		return "1 week"
	}
	return fmt.Sprintf("%d weeks", weeks)
}
