package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements distill.Extractor at compile time.
var _ distill.Extractor = (*trafilatura.Extractor)(nil)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts title from meta tags", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head>
<title>Getting Started - My Docs</title>
<meta property="og:title" content="Getting Started Guide">
</head>
<body>
<nav>Navigation here</nav>
<main>
<h1>Getting Started</h1>
<p>This is the main content of the documentation page. It explains how to
install the tool, how to configure it and how to run the first crawl.</p>
</main>
<footer>Footer content</footer>
</body>
</html>`

		result, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.Title, "Getting Started")
	})

	t.Run("handles Docusaurus-style documentation", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Introduction | Docusaurus</title></head>
<body>
<nav class="navbar"><a href="/">Home</a></nav>
<div class="main-wrapper">
<aside class="theme-doc-sidebar-container"><ul><li>Intro</li><li>Tutorial</li></ul></aside>
<main class="docMainContainer">
<article>
<div class="theme-doc-markdown markdown">
<h1>Introduction</h1>
<p>Welcome to the documentation. This guide walks you through the basics
and explains the concepts you need before writing your first page.</p>
<h2>Prerequisites</h2>
<p>Node.js version 18 or above, which can be checked by running node -v.</p>
</div>
</article>
</main>
</div>
</body>
</html>`

		result, err := trafilatura.NewExtractor().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, result.Title, "Introduction")
	})

	t.Run("returns error for empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor().Extract("")

		require.Error(t, err)
		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	})
}
