package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
	"github.com/fwojciec/distill/goquery"
	"github.com/fwojciec/distill/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_Process(t *testing.T) {
	t.Parallel()

	crawledAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	t.Run("runs every stage in order", func(t *testing.T) {
		t.Parallel()

		analysis := &distill.StructureAnalysis{Main: distill.Locator{Tag: "main"}}
		var stages []string
		p := &crawl.Pipeline{
			Analyzer: &mock.StructureAnalyzer{
				AnalyzeFn: func(html string) *distill.StructureAnalysis {
					stages = append(stages, "analyze")
					assert.Equal(t, "<html>raw</html>", html)
					return analysis
				},
			},
			Filter: &mock.ContentFilter{
				FilterFn: func(markdown, html string, got *distill.StructureAnalysis) string {
					stages = append(stages, "filter")
					assert.Equal(t, "# Guide\n\n[Menu](/)\n\nBody text", markdown)
					assert.Same(t, analysis, got)
					return "# Guide\n\n\n\n[Menu](/)\n\nBody text\nBody text"
				},
			},
			Metadata: &crawl.MetadataExtractor{},
			Now:      func() time.Time { return crawledAt },
		}
		doc := &distill.Document{
			URL:      "https://example.com/guide",
			HTML:     "<html>raw</html>",
			Markdown: "# Guide\n\n[Menu](/)\n\nBody text",
			Title:    "Guide",
		}

		page, err := p.Process(context.Background(), doc)

		require.NoError(t, err)
		assert.Equal(t, []string{"analyze", "filter"}, stages)
		assert.Same(t, doc, page.Document)
		assert.Same(t, analysis, page.Analysis)
		assert.Equal(t, "# Guide\n\nBody text", page.Content)
		assert.Equal(t, "https://example.com/guide", page.URL())
		assert.Equal(t, "https://example.com/guide", page.Metadata.URL)
		assert.Equal(t, "Guide", page.Metadata.Title)
		assert.Equal(t, crawledAt.UTC(), page.Metadata.CrawledAt)
		assert.Equal(t, distill.ContentHash(page.Content), page.Metadata.ContentHash)
		assert.NotNil(t, page.Assets)
		assert.Empty(t, page.Assets)
	})

	t.Run("titles untitled pages", func(t *testing.T) {
		t.Parallel()

		p := newPipeline()

		page, err := p.Process(context.Background(), &distill.Document{
			URL:      "https://example.com/",
			HTML:     "<html><body><p>Hello</p></body></html>",
			Markdown: "Hello",
		})

		require.NoError(t, err)
		assert.Equal(t, crawl.DefaultTitle, page.Metadata.Title)
	})

	t.Run("rejects a document without URL", func(t *testing.T) {
		t.Parallel()

		_, err := newPipeline().Process(context.Background(), &distill.Document{HTML: "<p>x</p>"})

		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})

	t.Run("keeps only the main region of a real page", func(t *testing.T) {
		t.Parallel()

		html := `<html lang="de"><body>
<nav class="site-nav"><a href="/">Startseite</a></nav>
<main><h1>Anleitung</h1><p>Der eigentliche Inhalt der Seite.</p></main>
<footer class="site-footer"><p>Impressum und Datenschutz</p></footer>
</body></html>`
		markdown := "[Startseite](/)\n\n# Anleitung\n\nDer eigentliche Inhalt der Seite.\n\nImpressum und Datenschutz"

		page, err := newPipeline().Process(context.Background(), &distill.Document{
			URL:      "https://example.com/de/",
			HTML:     html,
			Markdown: markdown,
			Title:    "Anleitung",
		})

		require.NoError(t, err)
		assert.Equal(t, "# Anleitung\n\nDer eigentliche Inhalt der Seite.", page.Content)
		assert.Equal(t, "de", page.Metadata.Language)
		assert.False(t, page.Analysis.Fallback)
	})
}

// newPipeline returns a pipeline wired with the goquery components.
func newPipeline() *crawl.Pipeline {
	return &crawl.Pipeline{
		Analyzer: goquery.NewAnalyzer(),
		Filter:   goquery.NewFilter(),
		Metadata: &crawl.MetadataExtractor{
			Languages: []distill.LanguageDetector{goquery.NewLanguageDetector()},
		},
	}
}
