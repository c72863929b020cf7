package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/distill"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ distill.CrawlHistory = (*CrawlService)(nil)

// CrawlService implements distill.CrawlHistory using SQLite.
type CrawlService struct {
	db *DB
}

// NewCrawlService creates a new CrawlService.
func NewCrawlService(db *DB) *CrawlService {
	return &CrawlService{db: db}
}

// CreateCrawl records the start of a run.
func (s *CrawlService) CreateCrawl(ctx context.Context, run *distill.CrawlRun) error {
	if err := run.Validate(); err != nil {
		return err
	}

	run.ID = uuid.New().String()
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crawls (id, start_url, output_dir, started_at)
		VALUES (?, ?, ?, ?)
	`, run.ID, run.StartURL, run.OutputDir, formatTime(run.StartedAt))
	return err
}

// FinishCrawl stores the counters and finish time of run.
func (s *CrawlService) FinishCrawl(ctx context.Context, run *distill.CrawlRun) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE crawls
		SET finished_at = ?, saved = ?, failed = ?, skipped = ?, unchanged = ?
		WHERE id = ?
	`, formatTime(run.FinishedAt), run.Saved, run.Failed, run.Skipped, run.Unchanged, run.ID)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return distill.Errorf(distill.ENOTFOUND, "crawl not found")
	}
	return nil
}

// FindCrawls retrieves runs matching the filter, most recent first.
func (s *CrawlService) FindCrawls(ctx context.Context, filter distill.CrawlFilter) ([]*distill.CrawlRun, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, start_url, output_dir, started_at, finished_at, saved, failed, skipped, unchanged
		FROM crawls WHERE 1=1`)
	if filter.StartURL != nil {
		query.WriteString(" AND start_url = ?")
		args = append(args, *filter.StartURL)
	}
	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*distill.CrawlRun{}
	for rows.Next() {
		run, err := scanCrawl(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func scanCrawl(row scanner) (*distill.CrawlRun, error) {
	var run distill.CrawlRun
	var startedAt, finishedAt string
	err := row.Scan(&run.ID, &run.StartURL, &run.OutputDir, &startedAt, &finishedAt,
		&run.Saved, &run.Failed, &run.Skipped, &run.Unchanged)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, distill.Errorf(distill.ENOTFOUND, "crawl not found")
	}
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	return &run, nil
}
