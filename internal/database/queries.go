package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SaveResume replaces the active resume. Cached matches belong to the old
// resume and are removed with it.
func (db *DB) SaveResume(ctx context.Context, r *Resume) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	r.CreatedAt = time.Now()

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM matches`); err != nil {
			return fmt.Errorf("failed to clear matches: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM resumes`); err != nil {
			return fmt.Errorf("failed to clear resume: %w", err)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO resumes (id, name, source, content, title, author, page_count, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			r.ID, r.Name, r.Source, r.Content, NullString(r.Title), NullString(r.Author),
			r.PageCount, r.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert resume: %w", err)
		}
		return nil
	})
}

// GetResume returns the active resume, or nil if none is set
func (db *DB) GetResume(ctx context.Context) (*Resume, error) {
	r := &Resume{}
	var title, author sql.NullString

	err := db.QueryRowContext(ctx, `
		SELECT id, name, source, content, title, author, page_count, created_at
		FROM resumes ORDER BY created_at DESC LIMIT 1
	`).Scan(
		&r.ID, &r.Name, &r.Source, &r.Content, &title, &author, &r.PageCount, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	r.Title = StringPtr(title)
	r.Author = StringPtr(author)
	return r, nil
}

// ClearResume removes the active resume and its cached matches
func (db *DB) ClearResume(ctx context.Context) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM matches`); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM resumes`)
		return err
	})
}

// UpsertOverview inserts or refreshes a job overview
func (db *DB) UpsertOverview(ctx context.Context, o *JobOverview) error {
	if o.FetchedAt.IsZero() {
		o.FetchedAt = time.Now()
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO job_overviews (job_id, title, overview, raw_html, fetched_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(job_id) DO UPDATE SET
			title = excluded.title,
			overview = excluded.overview,
			raw_html = excluded.raw_html,
			fetched_at = excluded.fetched_at
	`, o.JobID, o.Title, o.Overview, NullString(o.RawHTML), o.FetchedAt)
	return err
}

// GetOverview retrieves a job overview by job ID
func (db *DB) GetOverview(ctx context.Context, jobID string) (*JobOverview, error) {
	o := &JobOverview{}
	var rawHTML sql.NullString

	err := db.QueryRowContext(ctx, `
		SELECT job_id, title, overview, raw_html, fetched_at
		FROM job_overviews WHERE job_id = ?
	`, jobID).Scan(&o.JobID, &o.Title, &o.Overview, &rawHTML, &o.FetchedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	o.RawHTML = StringPtr(rawHTML)
	return o, nil
}

// ListOverviews returns every stored overview, newest first
func (db *DB) ListOverviews(ctx context.Context) ([]JobOverview, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT job_id, title, overview, raw_html, fetched_at
		FROM job_overviews ORDER BY fetched_at DESC, job_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overviews []JobOverview
	for rows.Next() {
		var o JobOverview
		var rawHTML sql.NullString
		if err := rows.Scan(&o.JobID, &o.Title, &o.Overview, &rawHTML, &o.FetchedAt); err != nil {
			return nil, err
		}
		o.RawHTML = StringPtr(rawHTML)
		overviews = append(overviews, o)
	}

	return overviews, rows.Err()
}

// CountOverviews returns the number of stored overviews
func (db *DB) CountOverviews(ctx context.Context) (int, error) {
	var n int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM job_overviews`).Scan(&n)
	return n, err
}

// SaveMatches upserts a batch of match scores in one transaction
func (db *DB) SaveMatches(ctx context.Context, matches []Match) error {
	if len(matches) == 0 {
		return nil
	}

	return db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO matches (
				job_id, resume_id, score, percent, band, domain, fallback, common_terms, scored_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(job_id) DO UPDATE SET
				resume_id = excluded.resume_id,
				score = excluded.score,
				percent = excluded.percent,
				band = excluded.band,
				domain = excluded.domain,
				fallback = excluded.fallback,
				common_terms = excluded.common_terms,
				scored_at = excluded.scored_at
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i := range matches {
			m := &matches[i]
			if m.ScoredAt.IsZero() {
				m.ScoredAt = time.Now()
			}
			_, err := stmt.ExecContext(ctx,
				m.JobID, m.ResumeID, m.Score, m.Percent, m.Band, m.Domain,
				m.Fallback, encodeTerms(m.CommonTerms), m.ScoredAt,
			)
			if err != nil {
				return fmt.Errorf("failed to save match for job %s: %w", m.JobID, err)
			}
		}
		return nil
	})
}

const matchColumns = `
	m.job_id, m.resume_id, COALESCE(o.title, ''), m.score, m.percent, m.band,
	m.domain, m.fallback, m.common_terms, m.scored_at
`

func scanMatch(scanner interface{ Scan(...any) error }) (*Match, error) {
	m := &Match{}
	var terms sql.NullString

	err := scanner.Scan(
		&m.JobID, &m.ResumeID, &m.Title, &m.Score, &m.Percent, &m.Band,
		&m.Domain, &m.Fallback, &terms, &m.ScoredAt,
	)
	if err != nil {
		return nil, err
	}

	m.CommonTerms, err = decodeTerms(terms)
	if err != nil {
		return nil, fmt.Errorf("failed to decode terms for job %s: %w", m.JobID, err)
	}
	return m, nil
}

// GetMatch retrieves the cached match for a job, or nil if not scored
func (db *DB) GetMatch(ctx context.Context, jobID string) (*Match, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+matchColumns+`
		FROM matches m LEFT JOIN job_overviews o ON o.job_id = m.job_id
		WHERE m.job_id = ?
	`, jobID)

	m, err := scanMatch(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

// ListMatches retrieves cached matches, best first
func (db *DB) ListMatches(ctx context.Context, opts MatchListOptions) ([]Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches m LEFT JOIN job_overviews o ON o.job_id = m.job_id
		WHERE 1=1
	`
	args := []interface{}{}

	if opts.MinPercent > 0 {
		query += " AND m.percent >= ?"
		args = append(args, opts.MinPercent)
	}
	if opts.Band != nil {
		query += " AND m.band = ?"
		args = append(args, *opts.Band)
	}
	if opts.Search != nil {
		query += " AND (LOWER(o.title) LIKE LOWER(?) OR m.job_id = ?)"
		args = append(args, "%"+*opts.Search+"%", *opts.Search)
	}

	query += " ORDER BY m.score DESC, m.job_id"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}
	if opts.Offset > 0 {
		if opts.Limit <= 0 {
			query += " LIMIT -1"
		}
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}

	return matches, rows.Err()
}

// ScoredJobIDs returns the job IDs that already have a score for the resume
func (db *DB) ScoredJobIDs(ctx context.Context, resumeID string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT job_id FROM matches WHERE resume_id = ?`, resumeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}

	return ids, rows.Err()
}

// MatchScores returns every cached score, for summaries
func (db *DB) MatchScores(ctx context.Context) ([]float64, error) {
	rows, err := db.QueryContext(ctx, `SELECT score FROM matches ORDER BY job_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var s float64
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}

	return scores, rows.Err()
}

// LastScoredAt returns when the most recent score was saved
func (db *DB) LastScoredAt(ctx context.Context) (*time.Time, error) {
	var t time.Time
	err := db.QueryRowContext(ctx, `SELECT scored_at FROM matches ORDER BY scored_at DESC LIMIT 1`).Scan(&t)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ClearMatches removes every cached score
func (db *DB) ClearMatches(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `DELETE FROM matches`)
	return err
}
