package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	main "github.com/fwojciec/distill/cmd/distill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allCommands = []string{"crawl", "extract", "clean", "history", "pages"}

// newTestMain returns a Main that keeps its database in a temp dir and
// sees an empty environment.
func newTestMain(t *testing.T) *main.Main {
	t.Helper()
	m := main.NewMain()
	m.DBPath = filepath.Join(t.TempDir(), "distill.db")
	m.Getenv = func(string) string { return "" }
	return m
}

func TestCLI_HelpShowsAllCommands(t *testing.T) {
	t.Parallel()

	cli := &main.CLI{}
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	parser, err := kong.New(cli,
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)

	_, _ = parser.Parse([]string{"--help"})

	for _, cmd := range allCommands {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("help returns nil and lists commands", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := newTestMain(t).Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		for _, cmd := range allCommands {
			assert.Contains(t, stdout.String(), cmd)
		}
	})

	t.Run("no arguments is an error", func(t *testing.T) {
		t.Parallel()

		err := newTestMain(t).Run(context.Background(), nil, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
	})

	t.Run("unknown command is an error", func(t *testing.T) {
		t.Parallel()

		err := newTestMain(t).Run(context.Background(), []string{"frobnicate"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
	})

	t.Run("invalid order is rejected by the parser", func(t *testing.T) {
		t.Parallel()

		err := newTestMain(t).Run(context.Background(),
			[]string{"crawl", "https://example.com/", "--order", "random", "--no-index"},
			&bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
	})

	t.Run("invalid include pattern", func(t *testing.T) {
		t.Parallel()

		err := newTestMain(t).Run(context.Background(),
			[]string{"crawl", "https://example.com/", "-I", "([", "--no-index", "--browser", "never"},
			&bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid include pattern")
	})

	t.Run("AI without an API key", func(t *testing.T) {
		t.Parallel()

		stderr := &bytes.Buffer{}
		err := newTestMain(t).Run(context.Background(),
			[]string{"crawl", "https://example.com/", "--ai", "--no-index", "--browser", "never"},
			&bytes.Buffer{}, stderr)

		require.Error(t, err)
		assert.Contains(t, stderr.String(), "GEMINI_API_KEY")
	})
}

func TestMain_Run_Clean(t *testing.T) {
	t.Parallel()

	t.Run("reads stdin", func(t *testing.T) {
		t.Parallel()

		m := newTestMain(t)
		m.Stdin = strings.NewReader("# Title\n\n\n\nText\n")
		stdout := &bytes.Buffer{}

		err := m.Run(context.Background(), []string{"clean"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "# Title\n\nText", strings.TrimSpace(stdout.String()))
	})

	t.Run("reads a file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.md")
		require.NoError(t, os.WriteFile(path, []byte("Body\n\n\n\nMore\n"), 0644))
		stdout := &bytes.Buffer{}

		err := newTestMain(t).Run(context.Background(), []string{"clean", path}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Equal(t, "Body\n\nMore", strings.TrimSpace(stdout.String()))
	})
}

const extractPage = `<!DOCTYPE html>
<html lang="en">
<head><title>Install Guide</title></head>
<body>
<nav class="menu"><a href="/">Home</a> <a href="/docs">Docs</a></nav>
<main>
<h1>Install Guide</h1>
<p>Download the archive and unpack it into a directory on your path. The
installer checks your system and reports missing dependencies.</p>
</main>
<footer>Copyright Example</footer>
</body>
</html>`

func TestMain_Run_Extract(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(extractPage), 0644))

	t.Run("prints the main content", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := newTestMain(t).Run(context.Background(), []string{"extract", path}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "# Install Guide")
		assert.Contains(t, stdout.String(), "Download the archive")
		assert.NotContains(t, stdout.String(), "Copyright Example")
	})

	t.Run("prints frontmatter", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := newTestMain(t).Run(context.Background(),
			[]string{"extract", path, "--frontmatter", "--url", "https://example.com/install"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(stdout.String(), "---\n"))
		assert.Contains(t, stdout.String(), `url: "https://example.com/install"`)
		assert.Contains(t, stdout.String(), `language: "en"`)
	})

	t.Run("prints metadata as JSON", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := newTestMain(t).Run(context.Background(), []string{"extract", path, "--json"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `"content_hash"`)
		assert.Contains(t, stdout.String(), `"language": "en"`)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		err := newTestMain(t).Run(context.Background(),
			[]string{"extract", filepath.Join(t.TempDir(), "missing.html")}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
	})
}

// newTestSite serves a two-page site with a robots.txt.
func newTestSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html lang="en"><head><title>Home</title></head><body>
<nav><a href="/guide">Guide</a> <a href="/private">Private</a></nav>
<main><h1>Welcome</h1><p>This is the home page of the test site with enough words to count.</p></main>
</body></html>`))
	})
	mux.HandleFunc("/guide", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html lang="en"><head><title>Guide</title></head><body>
<main><h1>Guide</h1><p>Step one is to read the guide. Step two is to follow it.</p></main>
</body></html>`))
	})
	mux.HandleFunc("/private", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("robots.txt disallowed path was fetched")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMain_Run_Crawl(t *testing.T) {
	t.Parallel()

	srv := newTestSite(t)
	m := newTestMain(t)
	out := t.TempDir()
	stdout := &bytes.Buffer{}

	err := m.Run(context.Background(), []string{
		"crawl", srv.URL + "/",
		"--output", out, "--name", "site",
		"--browser", "never", "--delay", "0s",
		"--no-detect-language",
	}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "2 saved")
	assert.Contains(t, stdout.String(), "1 skipped")
	assert.FileExists(t, filepath.Join(out, "site", "index", "content.md"))
	assert.FileExists(t, filepath.Join(out, "site", "index", "metadata.json"))
	assert.FileExists(t, filepath.Join(out, "site", "guide", "content.md"))
	assert.FileExists(t, filepath.Join(out, "site", "crawl_summary.json"))
	assert.NoDirExists(t, filepath.Join(out, "site.tmp"))

	guide, err := os.ReadFile(filepath.Join(out, "site", "guide", "content.md"))
	require.NoError(t, err)
	assert.Contains(t, string(guide), "Step one is to read the guide.")

	t.Run("history lists the crawl", func(t *testing.T) {
		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"history"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), srv.URL+"/")
		assert.Contains(t, stdout.String(), "2 saved")
	})

	t.Run("pages lists the index", func(t *testing.T) {
		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"pages", srv.URL + "/g"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), srv.URL+"/guide")
		assert.NotContains(t, stdout.String(), srv.URL+"/\n")
	})

	t.Run("recrawl reports unchanged pages", func(t *testing.T) {
		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{
			"crawl", srv.URL + "/",
			"--output", out, "--name", "site",
			"--browser", "never", "--delay", "0s",
			"--no-detect-language",
		}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "2 unchanged")
	})
}

func TestMain_Run_History_Empty(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	err := newTestMain(t).Run(context.Background(), []string{"history"}, stdout, &bytes.Buffer{})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "No crawls found")
}
