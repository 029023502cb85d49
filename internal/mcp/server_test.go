package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijay-prabhu/jobmatch/internal/config"
	"github.com/vijay-prabhu/jobmatch/internal/database"
	"github.com/vijay-prabhu/jobmatch/internal/logger"
	"github.com/vijay-prabhu/jobmatch/internal/match"
)

const (
	testJob    = "Job Description Looking for a Python developer with AWS experience Targeted Clusters"
	testResume = "Experienced Python developer with AWS and Docker skills"
)

func setupServer(t *testing.T) (*Server, *database.DB) {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Default()
	log := logger.Discard()
	m := match.NewMatcher(cfg.Matching.MatcherConfig(), log)

	return New(db, cfg, m, log, "test"), db
}

// call sends one request through Serve and decodes the single response
func call(t *testing.T, s *Server, method string, params interface{}) jsonRPCResponse {
	t.Helper()

	req := map[string]interface{}{"jsonrpc": "2.0", "id": 1, "method": method}
	if params != nil {
		req["params"] = params
	}
	line, err := json.Marshal(req)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, s.Serve(context.Background(), bytes.NewReader(append(line, '\n')), &out))

	var resp jsonRPCResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	return resp
}

// callTool invokes a tool and returns its text content
func callTool(t *testing.T, s *Server, name string, args interface{}) (string, bool) {
	t.Helper()

	resp := call(t, s, "tools/call", map[string]interface{}{"name": name, "arguments": args})
	require.Nil(t, resp.Error)

	raw, err := json.Marshal(resp.Result)
	require.NoError(t, err)
	var result callToolResult
	require.NoError(t, json.Unmarshal(raw, &result))
	require.Len(t, result.Content, 1)

	return result.Content[0].Text, result.IsError
}

func saveResume(t *testing.T, db *database.DB) *database.Resume {
	t.Helper()

	r := &database.Resume{Name: "resume.txt", Source: database.SourceText, Content: testResume}
	require.NoError(t, db.SaveResume(context.Background(), r))
	return r
}

func TestServe_Initialize(t *testing.T) {
	s, _ := setupServer(t)

	resp := call(t, s, "initialize", map[string]interface{}{})
	require.Nil(t, resp.Error)

	raw, _ := json.Marshal(resp.Result)
	assert.Contains(t, string(raw), `"protocolVersion":"2024-11-05"`)
	assert.Contains(t, string(raw), `"name":"jobmatch"`)
}

func TestServe_Notifications(t *testing.T) {
	s, _ := setupServer(t)

	var out bytes.Buffer
	in := strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n\n")
	require.NoError(t, s.Serve(context.Background(), in, &out))
	assert.Empty(t, out.String())
}

func TestServe_Errors(t *testing.T) {
	s, _ := setupServer(t)

	var out bytes.Buffer
	require.NoError(t, s.Serve(context.Background(), strings.NewReader("not json\n"), &out))
	var resp jsonRPCResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeParseError, resp.Error.Code)

	resp = call(t, s, "does/not/exist", nil)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeMethodNotFound, resp.Error.Code)

	resp = call(t, s, "tools/call", map[string]interface{}{"name": "nope"})
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeInvalidParams, resp.Error.Code)
}

func TestServe_ToolsList(t *testing.T) {
	s, _ := setupServer(t)

	resp := call(t, s, "tools/list", nil)
	require.Nil(t, resp.Error)

	raw, _ := json.Marshal(resp.Result)
	for _, name := range []string{"score_match", "format_score", "detect_domain", "list_matches", "get_match", "get_summary"} {
		assert.Contains(t, string(raw), `"name":"`+name+`"`)
		assert.Contains(t, s.handlers, name)
	}
}

func TestTool_ScoreMatch(t *testing.T) {
	s, db := setupServer(t)

	text, isErr := callTool(t, s, "score_match", map[string]interface{}{"job_text": testJob, "resume_text": testResume})
	require.False(t, isErr, text)
	var got scoreMatchResult
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, match.CalculateJobResumeMatch(testJob, testResume), got.Value)
	assert.True(t, got.IsGoodMatch)

	// Falls back to the saved resume
	text, isErr = callTool(t, s, "score_match", map[string]interface{}{"job_text": testJob})
	assert.True(t, isErr)
	assert.Contains(t, text, "no resume set")

	saveResume(t, db)
	text, isErr = callTool(t, s, "score_match", map[string]interface{}{"job_text": testJob, "explain": true})
	require.False(t, isErr, text)
	var report match.Report
	require.NoError(t, json.Unmarshal([]byte(text), &report))
	assert.Equal(t, match.DomainTechnology, report.Domain)
	assert.Contains(t, report.Result.CommonTerms, "python")
}

func TestTool_FormatScore(t *testing.T) {
	s, _ := setupServer(t)

	text, isErr := callTool(t, s, "format_score", map[string]interface{}{"score": 0.82})
	require.False(t, isErr, text)
	var got match.FormattedScore
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, "82% Match", got.Score)
	assert.Equal(t, "#28a745", got.Color)

	_, isErr = callTool(t, s, "format_score", map[string]interface{}{"score": 1.5})
	assert.True(t, isErr)

	_, isErr = callTool(t, s, "format_score", map[string]interface{}{})
	assert.True(t, isErr)
}

func TestTool_DetectDomain(t *testing.T) {
	s, _ := setupServer(t)

	text, isErr := callTool(t, s, "detect_domain", map[string]interface{}{"text": "Python software developer writing code"})
	require.False(t, isErr, text)
	var got detectDomainResult
	require.NoError(t, json.Unmarshal([]byte(text), &got))
	assert.Equal(t, match.DomainTechnology, got.Domain)
	assert.Positive(t, got.Scores[match.DomainTechnology])
}

func TestTool_Matches(t *testing.T) {
	s, db := setupServer(t)
	ctx := context.Background()
	r := saveResume(t, db)

	require.NoError(t, db.UpsertOverview(ctx, &database.JobOverview{JobID: "100001", Title: "Python Developer", Overview: testJob}))
	require.NoError(t, db.SaveMatches(ctx, []database.Match{
		{JobID: "100001", ResumeID: r.ID, Score: 0.95, Percent: 95, Band: "excellent", Domain: "technology", CommonTerms: []string{"python"}},
		{JobID: "100002", ResumeID: r.ID, Score: 0.41, Percent: 41, Band: "below_average", Domain: "marketing"},
	}))

	text, isErr := callTool(t, s, "list_matches", map[string]interface{}{"min_percent": 50})
	require.False(t, isErr, text)
	var matches []database.Match
	require.NoError(t, json.Unmarshal([]byte(text), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "Python Developer", matches[0].Title)

	_, isErr = callTool(t, s, "list_matches", map[string]interface{}{"band": "stellar"})
	assert.True(t, isErr)

	text, isErr = callTool(t, s, "get_match", map[string]interface{}{"job_id": "100001"})
	require.False(t, isErr, text)
	assert.Contains(t, text, `"python"`)

	_, isErr = callTool(t, s, "get_match", map[string]interface{}{"job_id": "999999"})
	assert.True(t, isErr)

	text, isErr = callTool(t, s, "get_summary", nil)
	require.False(t, isErr, text)
	assert.Contains(t, text, `"average_percent": 68`)
	assert.Contains(t, text, `"strong_matches": 1`)
}

func TestResources(t *testing.T) {
	s, db := setupServer(t)
	ctx := context.Background()

	text, err := s.handleReadResource(ctx, "jobmatch://summary")
	require.NoError(t, err)
	assert.Contains(t, text, "No jobs scored yet")

	r := saveResume(t, db)
	require.NoError(t, db.SaveMatches(ctx, []database.Match{
		{JobID: "100001", ResumeID: r.ID, Score: 0.82, Percent: 82, Band: "excellent", Domain: "technology"},
	}))

	text, err = s.handleReadResource(ctx, "jobmatch://summary")
	require.NoError(t, err)
	assert.Contains(t, text, "Average match: 82% (1 strong matches found)")

	text, err = s.handleReadResource(ctx, "jobmatch://top")
	require.NoError(t, err)
	assert.Contains(t, text, "82%")
	assert.Contains(t, text, "[100001]")

	text, err = s.handleReadResource(ctx, "jobmatch://resume")
	require.NoError(t, err)
	assert.Contains(t, text, "resume.txt")

	_, err = s.handleReadResource(ctx, "jobmatch://nope")
	assert.Error(t, err)

	resp := call(t, s, "resources/read", map[string]interface{}{"uri": "jobmatch://top"})
	require.Nil(t, resp.Error)
}
