package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/vijay-prabhu/jobmatch/internal/database"
	"github.com/vijay-prabhu/jobmatch/internal/match"
)

const topMatchesLimit = 10

// Resource defines an MCP resource
type Resource struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mimeType,omitempty"`
}

// ResourceDefinitions lists all available resources
var ResourceDefinitions = []Resource{
	{
		URI:         "jobmatch://summary",
		Name:        "Match Summary",
		Description: "Average match percentage, strong matches and counts per band",
		MimeType:    "text/plain",
	},
	{
		URI:         "jobmatch://top",
		Name:        "Top Matches",
		Description: "The 10 best matching jobs",
		MimeType:    "text/plain",
	},
	{
		URI:         "jobmatch://resume",
		Name:        "Saved Resume",
		Description: "Metadata and a preview of the resume used for scoring",
		MimeType:    "text/plain",
	},
}

// resourcesListResult is the response for resources/list
type resourcesListResult struct {
	Resources []Resource `json:"resources"`
}

// readResourceParams is the params for resources/read
type readResourceParams struct {
	URI string `json:"uri"`
}

// readResourceResult is the response for resources/read
type readResourceResult struct {
	Contents []resourceContent `json:"contents"`
}

type resourceContent struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
}

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case "jobmatch://summary":
		return s.summaryResource(ctx)
	case "jobmatch://top":
		return s.topResource(ctx)
	case "jobmatch://resume":
		return s.resumeResource(ctx)
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func (s *Server) summaryResource(ctx context.Context) (string, error) {
	summary, err := s.summary(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(summary.String())
	b.WriteString("\n")
	if summary.Count > 0 {
		fmt.Fprintf(&b, "Jobs scored: %d\n", summary.Count)
		for _, band := range match.Bands() {
			if n := summary.Bands[band]; n > 0 {
				fmt.Fprintf(&b, "  %s: %d\n", band.Label(), n)
			}
		}
	}
	return b.String(), nil
}

func (s *Server) topResource(ctx context.Context) (string, error) {
	matches, err := s.db.ListMatches(ctx, database.MatchListOptions{Limit: topMatchesLimit})
	if err != nil {
		return "", fmt.Errorf("database error: %w", err)
	}
	if len(matches) == 0 {
		return "No jobs scored yet.\n", nil
	}

	var b strings.Builder
	for i, m := range matches {
		title := m.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(&b, "%2d. %3d%%  %s  [%s]\n", i+1, m.Percent, title, m.JobID)
	}
	return b.String(), nil
}

func (s *Server) resumeResource(ctx context.Context) (string, error) {
	resume, err := s.db.GetResume(ctx)
	if err != nil {
		return "", fmt.Errorf("database error: %w", err)
	}
	if resume == nil {
		return "No resume saved.\n", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s (%s)\n", resume.Name, resume.Source)
	if resume.Title != nil {
		fmt.Fprintf(&b, "Title: %s\n", *resume.Title)
	}
	if resume.PageCount > 0 {
		fmt.Fprintf(&b, "Pages: %d\n", resume.PageCount)
	}
	b.WriteString("\n")
	b.WriteString(resume.Preview(500))
	b.WriteString("\n")
	return b.String(), nil
}
