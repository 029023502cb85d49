package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/vijay-prabhu/jobmatch/internal/database"
	"github.com/vijay-prabhu/jobmatch/internal/match"
	"github.com/vijay-prabhu/jobmatch/internal/tracker"
)

const defaultListLimit = 20

func (s *Server) registerHandlers() {
	s.handlers["score_match"] = s.handleScoreMatch
	s.handlers["format_score"] = s.handleFormatScore
	s.handlers["detect_domain"] = s.handleDetectDomain
	s.handlers["list_matches"] = s.handleListMatches
	s.handlers["get_match"] = s.handleGetMatch
	s.handlers["get_summary"] = s.handleGetSummary
}

func decodeParams(params json.RawMessage, v interface{}) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

type scoreMatchParams struct {
	JobText    string `json:"job_text"`
	ResumeText string `json:"resume_text"`
	Explain    bool   `json:"explain"`
}

type scoreMatchResult struct {
	match.FormattedScore
	Value float64 `json:"value"`
}

func (s *Server) handleScoreMatch(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p scoreMatchParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.JobText) == "" {
		return nil, fmt.Errorf("job_text is required")
	}

	resumeText := p.ResumeText
	if resumeText == "" {
		resume, err := s.db.GetResume(ctx)
		if err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if resume == nil {
			return nil, tracker.ErrNoResume
		}
		resumeText = resume.Content
	}

	report := s.matcher.Explain(p.JobText, resumeText)
	if p.Explain {
		return report, nil
	}

	return scoreMatchResult{FormattedScore: report.Formatted, Value: report.Score}, nil
}

type formatScoreParams struct {
	Score *float64 `json:"score"`
}

func (s *Server) handleFormatScore(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p formatScoreParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.Score == nil {
		return nil, fmt.Errorf("score is required")
	}
	if math.IsNaN(*p.Score) || *p.Score < 0 || *p.Score > 1 {
		return nil, fmt.Errorf("score must be between 0 and 1, got %v", *p.Score)
	}

	return match.FormatSimilarityScore(*p.Score), nil
}

type detectDomainParams struct {
	Text string `json:"text"`
}

type detectDomainResult struct {
	Domain match.Domain         `json:"domain"`
	Scores map[match.Domain]int `json:"scores"`
}

func (s *Server) handleDetectDomain(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p detectDomainParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Text) == "" {
		return nil, fmt.Errorf("text is required")
	}

	scores := match.DomainScores(p.Text)
	for d, n := range scores {
		if n == 0 {
			delete(scores, d)
		}
	}

	return detectDomainResult{
		Domain: match.DetectDomain(p.Text),
		Scores: scores,
	}, nil
}

type listMatchesParams struct {
	MinPercent int    `json:"min_percent"`
	Band       string `json:"band"`
	Search     string `json:"search"`
	Limit      int    `json:"limit"`
}

func (s *Server) handleListMatches(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p listMatchesParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}

	opts := database.MatchListOptions{
		MinPercent: p.MinPercent,
		Limit:      defaultListLimit,
	}
	if p.Limit > 0 {
		opts.Limit = p.Limit
	}
	if p.Band != "" {
		if !match.Band(p.Band).Valid() {
			return nil, fmt.Errorf("unknown band: %s", p.Band)
		}
		opts.Band = &p.Band
	}
	if p.Search != "" {
		opts.Search = &p.Search
	}

	matches, err := s.db.ListMatches(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if matches == nil {
		matches = []database.Match{}
	}

	return matches, nil
}

type getMatchParams struct {
	JobID string `json:"job_id"`
}

func (s *Server) handleGetMatch(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p getMatchParams
	if err := decodeParams(params, &p); err != nil {
		return nil, err
	}
	if p.JobID == "" {
		return nil, fmt.Errorf("job_id is required")
	}

	m, err := s.db.GetMatch(ctx, p.JobID)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if m == nil {
		return nil, fmt.Errorf("no score for job: %s", p.JobID)
	}

	return m, nil
}

func (s *Server) handleGetSummary(ctx context.Context, params json.RawMessage) (interface{}, error) {
	return s.summary(ctx)
}

func (s *Server) summary(ctx context.Context) (tracker.Summary, error) {
	scores, err := s.db.MatchScores(ctx)
	if err != nil {
		return tracker.Summary{}, fmt.Errorf("database error: %w", err)
	}
	return tracker.Summarize(scores, s.config.Matching.StrongMatchPercent), nil
}
