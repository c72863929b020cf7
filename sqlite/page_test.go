package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upsertPages(t *testing.T, svc *sqlite.PageService, urls ...string) {
	t.Helper()
	for _, u := range urls {
		require.NoError(t, svc.UpsertPage(context.Background(), &distill.PageRecord{
			URL:         u,
			Title:       "Title of " + u,
			ContentHash: "hash-" + u,
			Language:    "en",
		}))
	}
}

func TestPageService_UpsertPage(t *testing.T) {
	t.Parallel()

	t.Run("creates record with generated ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))
		crawledAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		rec := &distill.PageRecord{
			URL:         "https://example.com/docs/intro",
			Title:       "Intro",
			ContentHash: "abc123",
			Language:    "de",
			CrawledAt:   crawledAt,
		}

		err := svc.UpsertPage(context.Background(), rec)

		require.NoError(t, err)
		assert.NotEmpty(t, rec.ID)

		got, err := svc.FindPageByURL(context.Background(), rec.URL)
		require.NoError(t, err)
		assert.Equal(t, rec, got)
	})

	t.Run("replaces existing record and keeps its ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))
		ctx := context.Background()
		first := &distill.PageRecord{URL: "https://example.com/a", Title: "Old", ContentHash: "h1"}
		require.NoError(t, svc.UpsertPage(ctx, first))

		second := &distill.PageRecord{URL: "https://example.com/a", Title: "New", ContentHash: "h2", Language: "fr"}
		require.NoError(t, svc.UpsertPage(ctx, second))

		assert.Equal(t, first.ID, second.ID)
		got, err := svc.FindPageByURL(ctx, "https://example.com/a")
		require.NoError(t, err)
		assert.Equal(t, "New", got.Title)
		assert.Equal(t, "h2", got.ContentHash)
		assert.Equal(t, "fr", got.Language)

		all, err := svc.FindPages(ctx, distill.PageFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("sets crawl time when missing", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))
		rec := &distill.PageRecord{URL: "https://example.com/", ContentHash: "h"}

		require.NoError(t, svc.UpsertPage(context.Background(), rec))

		assert.False(t, rec.CrawledAt.IsZero())
	})

	t.Run("returns error for invalid record", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))

		err := svc.UpsertPage(context.Background(), &distill.PageRecord{URL: "https://example.com/"})

		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})
}

func TestPageService_FindPageByURL(t *testing.T) {
	t.Parallel()

	svc := sqlite.NewPageService(setupTestDB(t))

	_, err := svc.FindPageByURL(context.Background(), "https://example.com/missing")

	assert.Equal(t, distill.ENOTFOUND, distill.ErrorCode(err))
}

func TestPageService_FindPages(t *testing.T) {
	t.Parallel()

	t.Run("returns empty slice when nothing is recorded", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))

		recs, err := svc.FindPages(context.Background(), distill.PageFilter{})

		require.NoError(t, err)
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
	})

	t.Run("orders by URL", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))
		upsertPages(t, svc, "https://example.com/c", "https://example.com/a", "https://example.com/b")

		recs, err := svc.FindPages(context.Background(), distill.PageFilter{})

		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "https://example.com/a", recs[0].URL)
		assert.Equal(t, "https://example.com/b", recs[1].URL)
		assert.Equal(t, "https://example.com/c", recs[2].URL)
	})

	t.Run("filters by URL prefix", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))
		upsertPages(t, svc,
			"https://example.com/docs/a",
			"https://example.com/docs/b",
			"https://example.com/blog/a",
			"https://example.com/docs_old/a",
		)
		prefix := "https://example.com/docs/"

		recs, err := svc.FindPages(context.Background(), distill.PageFilter{URLPrefix: &prefix})

		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "https://example.com/docs/a", recs[0].URL)
		assert.Equal(t, "https://example.com/docs/b", recs[1].URL)
	})

	t.Run("treats LIKE wildcards in the prefix literally", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))
		upsertPages(t, svc, "https://example.com/a_b/1", "https://example.com/axb/1")
		prefix := "https://example.com/a_b"

		recs, err := svc.FindPages(context.Background(), distill.PageFilter{URLPrefix: &prefix})

		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "https://example.com/a_b/1", recs[0].URL)
	})

	t.Run("paginates", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewPageService(setupTestDB(t))
		for i := 0; i < 5; i++ {
			upsertPages(t, svc, fmt.Sprintf("https://example.com/%d", i))
		}
		ctx := context.Background()

		page, err := svc.FindPages(ctx, distill.PageFilter{Offset: 1, Limit: 2})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "https://example.com/1", page[0].URL)
		assert.Equal(t, "https://example.com/2", page[1].URL)

		rest, err := svc.FindPages(ctx, distill.PageFilter{Offset: 3})
		require.NoError(t, err)
		require.Len(t, rest, 2)
		assert.Equal(t, "https://example.com/3", rest[0].URL)
	})
}
