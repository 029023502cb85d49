// Package board talks to the WaterlooWorks job board: it discovers posting IDs on a
// listing page, fetches each posting's overview and turns the overview HTML into text
// the matcher can score.
package board

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	unknownTitle    = "Unknown Job Title"
	errorTitle      = "Error Parsing Job"
	errorOverview   = "Failed to parse job data"
	titleSelector   = ".heading--banner"
	noiseSelector   = "script, style"
	contentSelector = "body"
)

// The banner heading carries a trailing "TAGS" button label.
var tagsLabel = regexp.MustCompile(`(?i)TAGS`)

// Overview is the parsed content of a posting's overview panel. The JSON field names
// match what the browser extension keeps in storage.
type Overview struct {
	Title string `json:"Job Title"`
	Text  string `json:"overview"`
}

// JobOverview is a fetched posting with its parsed overview
type JobOverview struct {
	JobID    string   `json:"jobId"`
	Overview Overview `json:"overview"`
	RawHTML  string   `json:"rawHtml,omitempty"`
}

// Source fetches posting overviews by job ID
type Source interface {
	FetchOverview(ctx context.Context, jobID string) (*JobOverview, error)
}

// ParseOverview extracts the title and the flattened body text from overview HTML.
// It never fails: unparseable input yields a placeholder overview.
func ParseOverview(html string) Overview {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Overview{Title: errorTitle, Text: errorOverview}
	}

	title := unknownTitle
	if heading := doc.Find(titleSelector).First(); heading.Length() > 0 {
		if text := strings.TrimSpace(heading.Text()); text != "" {
			title = strings.TrimSpace(removeFirst(tagsLabel, text))
		}
	}

	doc.Find(noiseSelector).Remove()

	return Overview{
		Title: title,
		Text:  collapseWhitespace(doc.Find(contentSelector).Text()),
	}
}

// NewJobOverview parses html and wraps it with its job ID
func NewJobOverview(jobID, html string) *JobOverview {
	return &JobOverview{
		JobID:    jobID,
		Overview: ParseOverview(html),
		RawHTML:  html,
	}
}

// String identifies the posting in log lines and errors
func (j *JobOverview) String() string {
	return fmt.Sprintf("%s (%s)", j.Overview.Title, j.JobID)
}

func removeFirst(re *regexp.Regexp, s string) string {
	loc := re.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]] + s[loc[1]:]
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
