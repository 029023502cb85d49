package database

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) (*DB, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "jobmatch-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := Open(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open database: %v", err)
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(tmpDir)
	}

	return db, cleanup
}

func saveTestResume(t *testing.T, db *DB) *Resume {
	t.Helper()

	r := &Resume{
		Name:    "resume.txt",
		Source:  SourceText,
		Content: "Experienced Python developer with AWS and Docker skills",
	}
	if err := db.SaveResume(context.Background(), r); err != nil {
		t.Fatalf("SaveResume failed: %v", err)
	}
	return r
}

func TestOpen(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	if db == nil {
		t.Fatal("expected non-nil database")
	}

	// Verify tables exist
	for _, table := range []string{"resumes", "job_overviews", "matches"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Fatalf("failed to query tables: %v", err)
		}
		if count != 1 {
			t.Errorf("expected %s table to exist", table)
		}
	}

	if err := db.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}

	version, err := db.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("SchemaVersion() = %d, want 1", version)
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	saveTestResume(t, db)
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	r, err := db.GetResume(context.Background())
	if err != nil {
		t.Fatalf("GetResume failed: %v", err)
	}
	if r == nil {
		t.Fatal("expected resume to survive reopen")
	}
	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}
}

func TestResumeLifecycle(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// Empty
	r, err := db.GetResume(ctx)
	if err != nil {
		t.Fatalf("GetResume failed: %v", err)
	}
	if r != nil {
		t.Fatal("expected no resume")
	}

	// Save
	title := "Jane Doe CV"
	saved := &Resume{
		Name:      "cv.pdf",
		Source:    SourcePDF,
		Content:   "Go developer",
		Title:     &title,
		PageCount: 2,
	}
	if err := db.SaveResume(ctx, saved); err != nil {
		t.Fatalf("SaveResume failed: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected ID to be set after save")
	}

	got, err := db.GetResume(ctx)
	if err != nil {
		t.Fatalf("GetResume failed: %v", err)
	}
	if got.ID != saved.ID || got.Content != "Go developer" || got.Source != SourcePDF {
		t.Errorf("GetResume() = %+v", got)
	}
	if got.Title == nil || *got.Title != title {
		t.Errorf("Title = %v, want %q", got.Title, title)
	}
	if got.Author != nil {
		t.Errorf("Author = %v, want nil", *got.Author)
	}
	if got.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", got.PageCount)
	}

	// Clear
	if err := db.ClearResume(ctx); err != nil {
		t.Fatalf("ClearResume failed: %v", err)
	}
	got, _ = db.GetResume(ctx)
	if got != nil {
		t.Error("expected resume to be cleared")
	}
}

func TestSaveResume_ClearsMatches(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	r := saveTestResume(t, db)
	err := db.SaveMatches(ctx, []Match{{JobID: "100001", ResumeID: r.ID, Score: 0.8, Percent: 80, Band: "excellent", Domain: "technology"}})
	if err != nil {
		t.Fatalf("SaveMatches failed: %v", err)
	}

	saveTestResume(t, db)

	scores, err := db.MatchScores(ctx)
	if err != nil {
		t.Fatalf("MatchScores failed: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("expected matches to be cleared, got %v", scores)
	}
}

func TestOverviewUpsert(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	html := "<div>raw</div>"
	o := &JobOverview{JobID: "123456", Title: "Software Developer", Overview: "Python", RawHTML: &html}
	if err := db.UpsertOverview(ctx, o); err != nil {
		t.Fatalf("UpsertOverview failed: %v", err)
	}

	o.Title = "Senior Software Developer"
	o.FetchedAt = time.Now().Add(time.Minute)
	if err := db.UpsertOverview(ctx, o); err != nil {
		t.Fatalf("UpsertOverview (update) failed: %v", err)
	}

	got, err := db.GetOverview(ctx, "123456")
	if err != nil {
		t.Fatalf("GetOverview failed: %v", err)
	}
	if got.Title != "Senior Software Developer" {
		t.Errorf("Title = %q, want updated title", got.Title)
	}
	if got.RawHTML == nil || *got.RawHTML != html {
		t.Errorf("RawHTML = %v, want %q", got.RawHTML, html)
	}

	n, err := db.CountOverviews(ctx)
	if err != nil {
		t.Fatalf("CountOverviews failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountOverviews() = %d, want 1", n)
	}

	missing, err := db.GetOverview(ctx, "999999")
	if err != nil || missing != nil {
		t.Errorf("GetOverview(missing) = %v, %v; want nil, nil", missing, err)
	}

	if err := db.UpsertOverview(ctx, &JobOverview{JobID: "654321", Title: "Analyst", Overview: "Excel"}); err != nil {
		t.Fatalf("UpsertOverview failed: %v", err)
	}
	all, err := db.ListOverviews(ctx)
	if err != nil {
		t.Fatalf("ListOverviews failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("len(ListOverviews()) = %d, want 2", len(all))
	}
}

func TestMatches(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	r := saveTestResume(t, db)
	for _, o := range []JobOverview{
		{JobID: "100001", Title: "Backend Developer", Overview: "Go"},
		{JobID: "100002", Title: "Marketing Coordinator", Overview: "SEO"},
	} {
		if err := db.UpsertOverview(ctx, &o); err != nil {
			t.Fatalf("UpsertOverview failed: %v", err)
		}
	}

	matches := []Match{
		{JobID: "100001", ResumeID: r.ID, Score: 0.91, Percent: 91, Band: "excellent", Domain: "technology", CommonTerms: []string{"aws", "python"}},
		{JobID: "100002", ResumeID: r.ID, Score: 0.41, Percent: 41, Band: "below_average", Domain: "marketing"},
		{JobID: "100003", ResumeID: r.ID, Score: 0.20, Percent: 20, Band: "poor", Domain: "general", Fallback: true},
	}
	if err := db.SaveMatches(ctx, matches); err != nil {
		t.Fatalf("SaveMatches failed: %v", err)
	}

	// Get
	m, err := db.GetMatch(ctx, "100001")
	if err != nil {
		t.Fatalf("GetMatch failed: %v", err)
	}
	if m.Title != "Backend Developer" {
		t.Errorf("Title = %q, want joined overview title", m.Title)
	}
	if !reflect.DeepEqual(m.CommonTerms, []string{"aws", "python"}) {
		t.Errorf("CommonTerms = %v", m.CommonTerms)
	}

	fb, _ := db.GetMatch(ctx, "100003")
	if !fb.Fallback || fb.Title != "" {
		t.Errorf("fallback match = %+v", fb)
	}

	// List ordering and filters
	all, err := db.ListMatches(ctx, MatchListOptions{})
	if err != nil {
		t.Fatalf("ListMatches failed: %v", err)
	}
	if len(all) != 3 || all[0].JobID != "100001" || all[2].JobID != "100003" {
		t.Errorf("ListMatches() order = %v", all)
	}

	strong, _ := db.ListMatches(ctx, MatchListOptions{MinPercent: 70})
	if len(strong) != 1 {
		t.Errorf("len(strong) = %d, want 1", len(strong))
	}

	band := "below_average"
	byBand, _ := db.ListMatches(ctx, MatchListOptions{Band: &band})
	if len(byBand) != 1 || byBand[0].JobID != "100002" {
		t.Errorf("ListMatches(band) = %v", byBand)
	}

	search := "marketing"
	bySearch, _ := db.ListMatches(ctx, MatchListOptions{Search: &search})
	if len(bySearch) != 1 || bySearch[0].JobID != "100002" {
		t.Errorf("ListMatches(search) = %v", bySearch)
	}

	paged, _ := db.ListMatches(ctx, MatchListOptions{Offset: 1})
	if len(paged) != 2 {
		t.Errorf("len(paged) = %d, want 2", len(paged))
	}

	// Cache lookup
	ids, err := db.ScoredJobIDs(ctx, r.ID)
	if err != nil {
		t.Fatalf("ScoredJobIDs failed: %v", err)
	}
	if len(ids) != 3 || !ids["100002"] {
		t.Errorf("ScoredJobIDs() = %v", ids)
	}

	// Upsert replaces
	matches[1].Score = 0.55
	matches[1].Percent = 55
	if err := db.SaveMatches(ctx, matches[1:2]); err != nil {
		t.Fatalf("SaveMatches (update) failed: %v", err)
	}
	updated, _ := db.GetMatch(ctx, "100002")
	if updated.Percent != 55 {
		t.Errorf("Percent = %d, want 55", updated.Percent)
	}

	last, err := db.LastScoredAt(ctx)
	if err != nil {
		t.Fatalf("LastScoredAt failed: %v", err)
	}
	if last == nil {
		t.Error("LastScoredAt() = nil, want a time")
	}

	// Clear
	if err := db.ClearMatches(ctx); err != nil {
		t.Fatalf("ClearMatches failed: %v", err)
	}
	scores, _ := db.MatchScores(ctx)
	if len(scores) != 0 {
		t.Errorf("expected no scores after clear, got %v", scores)
	}
	if last, _ := db.LastScoredAt(ctx); last != nil {
		t.Errorf("LastScoredAt() = %v after clear, want nil", last)
	}
}

func TestResumePreview(t *testing.T) {
	r := &Resume{Content: "héllo world"}

	if got := r.Preview(5); got != "héllo..." {
		t.Errorf("Preview(5) = %q", got)
	}
	if got := r.Preview(100); got != "héllo world" {
		t.Errorf("Preview(100) = %q", got)
	}
}
