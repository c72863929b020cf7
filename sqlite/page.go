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
var _ distill.PageIndex = (*PageService)(nil)

// PageService implements distill.PageIndex using SQLite.
type PageService struct {
	db *DB
}

// NewPageService creates a new PageService.
func NewPageService(db *DB) *PageService {
	return &PageService{db: db}
}

// FindPageByURL retrieves the record for url.
func (s *PageService) FindPageByURL(ctx context.Context, url string) (*distill.PageRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, url, title, content_hash, language, crawled_at
		FROM pages
		WHERE url = ?
	`, url)

	rec, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, distill.Errorf(distill.ENOTFOUND, "page not found: %s", url)
	}
	return rec, err
}

// FindPages retrieves records matching the filter, ordered by URL.
func (s *PageService) FindPages(ctx context.Context, filter distill.PageFilter) ([]*distill.PageRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, url, title, content_hash, language, crawled_at FROM pages WHERE 1=1")
	if filter.URLPrefix != nil {
		query.WriteString(` AND url LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(*filter.URLPrefix)+"%")
	}
	query.WriteString(" ORDER BY url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []*distill.PageRecord{}
	for rows.Next() {
		rec, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// UpsertPage creates or replaces the record for rec.URL. A new record gets
// a generated ID; an existing one keeps its ID, which is written back to rec.
func (s *PageService) UpsertPage(ctx context.Context, rec *distill.PageRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if rec.CrawledAt.IsZero() {
		rec.CrawledAt = time.Now().UTC()
	}

	return s.db.QueryRowContext(ctx, `
		INSERT INTO pages (id, url, title, content_hash, language, crawled_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			content_hash = excluded.content_hash,
			language = excluded.language,
			crawled_at = excluded.crawled_at
		RETURNING id
	`, uuid.New().String(), rec.URL, rec.Title, rec.ContentHash, rec.Language,
		formatTime(rec.CrawledAt)).Scan(&rec.ID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPage(row scanner) (*distill.PageRecord, error) {
	var rec distill.PageRecord
	var crawledAt string
	if err := row.Scan(&rec.ID, &rec.URL, &rec.Title, &rec.ContentHash, &rec.Language, &crawledAt); err != nil {
		return nil, err
	}

	var err error
	if rec.CrawledAt, err = parseRFC3339(crawledAt, "crawled_at"); err != nil {
		return nil, err
	}
	return &rec, nil
}
