package database

import (
	"database/sql"
	"encoding/json"
	"time"
)

// ResumeSource records how resume text was obtained
type ResumeSource string

const (
	SourcePDF  ResumeSource = "pdf"
	SourceText ResumeSource = "text"
)

// Resume is the active resume used for matching
type Resume struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Source    ResumeSource `json:"source"`
	Content   string       `json:"-"` // Can be large; exposed through Preview
	Title     *string      `json:"title,omitempty"`
	Author    *string      `json:"author,omitempty"`
	PageCount int          `json:"page_count"`
	CreatedAt time.Time    `json:"created_at"`
}

// Preview returns at most n runes of the resume text
func (r *Resume) Preview(n int) string {
	runes := []rune(r.Content)
	if len(runes) <= n {
		return r.Content
	}
	return string(runes[:n]) + "..."
}

// JobOverview is the stored text of one job posting
type JobOverview struct {
	JobID     string    `json:"job_id"`
	Title     string    `json:"title"`
	Overview  string    `json:"overview"`
	RawHTML   *string   `json:"-"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Match is a cached score for one job against the active resume
type Match struct {
	JobID       string    `json:"job_id"`
	ResumeID    string    `json:"resume_id"`
	Title       string    `json:"title,omitempty"` // Joined from job_overviews on read
	Score       float64   `json:"score"`
	Percent     int       `json:"percent"`
	Band        string    `json:"band"`
	Domain      string    `json:"domain"`
	Fallback    bool      `json:"fallback"`
	CommonTerms []string  `json:"common_terms,omitempty"`
	ScoredAt    time.Time `json:"scored_at"`
}

// MatchListOptions contains options for listing matches
type MatchListOptions struct {
	MinPercent int
	Band       *string
	Search     *string
	Limit      int
	Offset     int
}

// NullString is a helper to convert *string to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// StringPtr converts sql.NullString to *string
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// encodeTerms stores a term list as a JSON array
func encodeTerms(terms []string) sql.NullString {
	if len(terms) == 0 {
		return sql.NullString{}
	}
	data, err := json.Marshal(terms)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(data), Valid: true}
}

// decodeTerms parses a stored JSON term list
func decodeTerms(ns sql.NullString) ([]string, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	var terms []string
	if err := json.Unmarshal([]byte(ns.String), &terms); err != nil {
		return nil, err
	}
	return terms, nil
}
