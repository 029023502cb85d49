package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vijay-prabhu/jobmatch/internal/board"
	"github.com/vijay-prabhu/jobmatch/internal/config"
	"github.com/vijay-prabhu/jobmatch/internal/database"
	"github.com/vijay-prabhu/jobmatch/internal/match"
)

// ErrNoResume is returned when scoring is requested before a resume is set
var ErrNoResume = errors.New("no resume set (run 'jobmatch resume set <file>')")

// Discoverer lists the posting IDs on a board listing page
type Discoverer interface {
	Discover(ctx context.Context, listingURL string) ([]string, error)
}

// Tracker orchestrates fetching job overviews and scoring them against the resume
type Tracker struct {
	db      *database.DB
	source  board.Source
	matcher *match.Matcher
	config  *config.Config
	logger  *slog.Logger
}

// New creates a new Tracker. source may be nil when overviews only come from imports.
func New(db *database.DB, source board.Source, matcher *match.Matcher, cfg *config.Config, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		db:      db,
		source:  source,
		matcher: matcher,
		config:  cfg,
		logger:  logger.With("component", "tracker"),
	}
}

// ScoreOptions configures scoring
type ScoreOptions struct {
	Force    bool             // Rescore jobs that already have a cached score
	Progress ProgressCallback // Optional progress callback
}

// SyncOptions configures a board sync
type SyncOptions struct {
	ScoreOptions
	JobIDs []string // Postings to fetch; discovered from the listing page when empty
}

// Result contains the results of a fetch and score run
type Result struct {
	Fetched int
	Stored  int
	Scored  int
	Cached  int
	Errors  []error
}

// Sync fetches overviews from the board, stores them and scores them
func (t *Tracker) Sync(ctx context.Context, opts SyncOptions) (*Result, error) {
	if t.source == nil {
		return nil, fmt.Errorf("no job board configured")
	}

	rep := &reporter{fn: opts.Progress}
	ids := opts.JobIDs
	if len(ids) == 0 {
		d, ok := t.source.(Discoverer)
		if !ok {
			return nil, fmt.Errorf("no job IDs given and the board cannot list postings")
		}
		rep.report(PhaseDiscovering, 0, 0, "Reading job listing")
		var err error
		ids, err = d.Discover(ctx, t.config.ListingURL())
		if err != nil {
			return nil, fmt.Errorf("failed to discover postings: %w", err)
		}
	}
	if len(ids) == 0 {
		return &Result{}, nil
	}

	fetchOpts := board.FetchOptions{
		Concurrency: t.config.Board.Concurrency,
		BatchDelay:  t.config.Board.BatchDelay(),
	}
	overviews, fetchErrs := board.FetchAll(ctx, t.source, ids, fetchOpts, func(current, total int) {
		rep.report(PhaseFetching, current, total, "Fetching job overviews")
	})
	for _, err := range fetchErrs {
		t.logger.Warn("overview fetch failed", "error", err)
	}

	result, err := t.importWith(ctx, overviews, opts.ScoreOptions, rep)
	if result != nil {
		result.Fetched = len(overviews)
		result.Errors = append(fetchErrs, result.Errors...)
	}

	return result, err
}

// Import stores overviews obtained elsewhere (an extension export) and scores them.
// Without a resume the overviews are still stored; the partial result is returned
// together with ErrNoResume.
func (t *Tracker) Import(ctx context.Context, overviews []board.JobOverview, opts ScoreOptions) (*Result, error) {
	return t.importWith(ctx, overviews, opts, &reporter{fn: opts.Progress})
}

func (t *Tracker) importWith(ctx context.Context, overviews []board.JobOverview, opts ScoreOptions, rep *reporter) (*Result, error) {
	result := &Result{}

	total := len(overviews)
	for i := range overviews {
		rep.report(PhaseStoring, i+1, total, "Storing job overviews")
		if err := t.db.UpsertOverview(ctx, toDBOverview(&overviews[i])); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to store job %s: %w", overviews[i].JobID, err))
			continue
		}
		result.Stored++
	}

	scored, err := t.scoreWith(ctx, overviews, opts, rep)
	if err != nil {
		return result, err
	}
	result.Scored = scored.Scored
	result.Cached = scored.Cached
	result.Errors = append(result.Errors, scored.Errors...)

	return result, nil
}

// Rescore scores every stored overview against the active resume
func (t *Tracker) Rescore(ctx context.Context, opts ScoreOptions) (*Result, error) {
	overviews, err := t.Overviews(ctx)
	if err != nil {
		return nil, err
	}

	return t.ScoreJobs(ctx, overviews, opts)
}

// Overviews returns every stored overview in board form
func (t *Tracker) Overviews(ctx context.Context) ([]board.JobOverview, error) {
	stored, err := t.db.ListOverviews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list overviews: %w", err)
	}

	overviews := make([]board.JobOverview, len(stored))
	for i, o := range stored {
		overviews[i] = board.JobOverview{
			JobID:    o.JobID,
			Overview: board.Overview{Title: o.Title, Text: o.Overview},
		}
	}
	return overviews, nil
}

// ScoreJobs scores overviews against the active resume. Jobs that already have a
// cached score are skipped unless opts.Force is set.
func (t *Tracker) ScoreJobs(ctx context.Context, overviews []board.JobOverview, opts ScoreOptions) (*Result, error) {
	return t.scoreWith(ctx, overviews, opts, &reporter{fn: opts.Progress})
}

func (t *Tracker) scoreWith(ctx context.Context, overviews []board.JobOverview, opts ScoreOptions, rep *reporter) (*Result, error) {
	resume, err := t.db.GetResume(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load resume: %w", err)
	}
	if resume == nil {
		return nil, ErrNoResume
	}

	cached := map[string]bool{}
	if !opts.Force {
		cached, err = t.db.ScoredJobIDs(ctx, resume.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load cached scores: %w", err)
		}
	}

	result := &Result{}
	var pending []board.JobOverview
	seen := make(map[string]bool, len(overviews))
	for _, o := range overviews {
		if seen[o.JobID] {
			continue
		}
		seen[o.JobID] = true
		if cached[o.JobID] {
			result.Cached++
			continue
		}
		pending = append(pending, o)
	}

	matches, errs := t.scoreConcurrently(ctx, resume, pending, rep)
	result.Errors = append(result.Errors, errs...)

	rep.report(PhaseSaving, 0, len(matches), "Saving match scores")
	if err := t.db.SaveMatches(ctx, matches); err != nil {
		return nil, fmt.Errorf("failed to save matches: %w", err)
	}
	rep.report(PhaseSaving, len(matches), len(matches), "Saving match scores")
	result.Scored = len(matches)

	t.logger.Info("scored jobs",
		"scored", result.Scored,
		"cached", result.Cached,
		"errors", len(result.Errors),
	)

	return result, nil
}

// scoreConcurrently runs the matcher over overviews with a bounded number of workers
func (t *Tracker) scoreConcurrently(ctx context.Context, resume *database.Resume, overviews []board.JobOverview, rep *reporter) ([]database.Match, []error) {
	type scored struct {
		index int
		match *database.Match
		err   error
	}

	workers := t.config.Matching.Workers
	if workers < 1 {
		workers = 1
	}

	total := len(overviews)
	resultChan := make(chan scored, total)
	var scoredCount int64

	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	rep.report(PhaseScoring, 0, total, "Scoring jobs")

	for i, o := range overviews {
		wg.Add(1)
		go func(index int, o board.JobOverview) {
			defer wg.Done()

			// Acquire semaphore
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				resultChan <- scored{index: index, err: fmt.Errorf("job %s not scored: %w", o.JobID, ctx.Err())}
				return
			}

			m := t.scoreOne(resume, &o)
			current := int(atomic.AddInt64(&scoredCount, 1))
			rep.report(PhaseScoring, current, total, "Scoring jobs")

			resultChan <- scored{index: index, match: m}
		}(i, o)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	slots := make([]*database.Match, total)
	var errs []error
	for r := range resultChan {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		slots[r.index] = r.match
	}

	matches := make([]database.Match, 0, total)
	for _, m := range slots {
		if m != nil {
			matches = append(matches, *m)
		}
	}

	return matches, errs
}

func (t *Tracker) scoreOne(resume *database.Resume, o *board.JobOverview) *database.Match {
	report := t.matcher.Explain(o.Overview.Text, resume.Content)
	if report.Fallback {
		t.logger.Warn("job scored with fallback",
			"job_id", o.JobID,
			"reason", report.FallbackReason,
		)
	}

	return &database.Match{
		JobID:       o.JobID,
		ResumeID:    resume.ID,
		Title:       o.Overview.Title,
		Score:       report.Score,
		Percent:     report.Formatted.Percent,
		Band:        string(report.Formatted.Band),
		Domain:      string(report.Domain),
		Fallback:    report.Fallback,
		CommonTerms: report.Result.CommonTerms,
		ScoredAt:    time.Now(),
	}
}

func toDBOverview(o *board.JobOverview) *database.JobOverview {
	var raw *string
	if o.RawHTML != "" {
		raw = &o.RawHTML
	}
	return &database.JobOverview{
		JobID:    o.JobID,
		Title:    o.Overview.Title,
		Overview: o.Overview.Text,
		RawHTML:  raw,
	}
}
