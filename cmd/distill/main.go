package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
	"github.com/fwojciec/distill/fs"
	"github.com/fwojciec/distill/gemini"
	"github.com/fwojciec/distill/goquery"
	"github.com/fwojciec/distill/htmltomarkdown"
	distillhttp "github.com/fwojciec/distill/http"
	"github.com/fwojciec/distill/lingua"
	"github.com/fwojciec/distill/readability"
	"github.com/fwojciec/distill/rod"
	distillslog "github.com/fwojciec/distill/slog"
	"github.com/fwojciec/distill/sqlite"
	"github.com/fwojciec/distill/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when no --db flag or DISTILL_DB is given.
	DBPath string

	// SQLite database backing the recrawl index and crawl history.
	DB *sqlite.DB

	// Stdin is read by the clean command.
	Stdin io.Reader

	// Getenv looks up environment variables.
	Getenv func(string) string

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
		Stdin:  os.Stdin,
		Getenv: os.Getenv,
	}
}

// Close releases everything opened by Run, in reverse order.
func (m *Main) Close() error {
	var err error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if cerr := m.closers[i](); cerr != nil && err == nil {
			err = cerr
		}
	}
	m.closers = nil
	return err
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("distill"),
		kong.Description("Extract clean, deduplicated markdown from web pages"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'distill --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	defer m.Close()

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	switch strings.Fields(kongCtx.Command())[0] {
	case "crawl":
		if !cli.Crawl.NoIndex {
			if err := m.openDB(cli.Crawl.DB, deps); err != nil {
				fmt.Fprintln(stderr, "Hint: use --no-index to crawl without the recrawl index")
				return err
			}
		}
		if err := m.wireCrawl(ctx, &cli.Crawl, deps); err != nil {
			return err
		}
	case "extract":
		m.wireExtract(deps)
	case "history":
		if err := m.openDB(cli.History.DB, deps); err != nil {
			return err
		}
	case "pages":
		if err := m.openDB(cli.Pages.DB, deps); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// openDB opens the database at path, or at m.DBPath when path is empty.
func (m *Main) openDB(path string, deps *Dependencies) error {
	if path == "" {
		path = m.DBPath
	}
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: Set DISTILL_DB to use a different database path")
		return fmt.Errorf("failed to open database at %q: %w", path, err)
	}
	m.closers = append(m.closers, m.DB.Close)

	deps.History = sqlite.NewCrawlService(m.DB)
	deps.Index = sqlite.NewPageService(m.DB)
	return nil
}

// wireCrawl assembles the crawler for c.
func (m *Main) wireCrawl(ctx context.Context, c *CrawlCmd, deps *Dependencies) error {
	log := deps.Logger

	start, err := url.Parse(c.URL)
	if err != nil || start.Host == "" {
		return distill.Errorf(distill.EINVALID, "invalid start URL %q", c.URL)
	}
	filter, err := compileFilter(c.Include, c.Exclude)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: c.Timeout}

	fetcher, err := m.fetcher(c, deps)
	if err != nil {
		return err
	}

	var extractor distill.Extractor = trafilatura.NewExtractor()
	if c.TitleFrom == "readability" {
		extractor = readability.NewExtractor()
	}

	languages := []distill.LanguageDetector{goquery.NewLanguageDetector()}
	if c.DetectLanguage {
		languages = append(languages, lingua.NewDetector(lingua.WithLowAccuracyMode()))
	}
	metadata := &crawl.MetadataExtractor{Languages: languages, Logger: log}

	var captioner distill.Captioner
	var tokens distill.TokenCounter
	if c.AI || c.AltText {
		apiKey := m.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			fmt.Fprintln(deps.Stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return fmt.Errorf("GEMINI_API_KEY not set")
		}
		ai, err := gemini.NewClient(ctx, apiKey)
		if err != nil {
			return fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		if c.AI {
			metadata.Summarizer = distillslog.NewLoggingSummarizer(gemini.NewSummarizer(ai, ""), log)
		}
		if c.AltText {
			captioner = distillslog.NewLoggingCaptioner(gemini.NewCaptioner(ai, ""), log)
		}
	}
	if c.CountTokens {
		tc, err := gemini.NewTokenCounter("")
		if err != nil {
			return fmt.Errorf("failed to create token counter: %w", err)
		}
		tokens = distillslog.NewLoggingTokenCounter(tc, log)
	}

	name := c.Name
	if name == "" {
		name = strings.ReplaceAll(start.Hostname(), ":", "_")
	}
	opts := []fs.Option{fs.WithCrawlInfo(c.URL, c.Depth)}
	if c.Frontmatter {
		opts = append(opts, fs.WithFrontmatter())
	}
	if c.Raw {
		opts = append(opts, fs.WithRawArtifacts())
	}
	deps.Pages = fs.NewFileStore(c.Output, name, opts...)

	origin := start.Scheme + "://" + start.Host
	deps.Crawler = &crawl.Crawler{
		Renderer: distillslog.NewLoggingRenderer(&crawl.Renderer{
			Fetcher:   fetcher,
			Converter: htmltomarkdown.NewConverter(htmltomarkdown.WithDomain(origin)),
			Extractor: extractor,
		}, log),
		Pipeline: &crawl.Pipeline{
			Analyzer: goquery.NewAnalyzer(),
			Filter:   goquery.NewFilter(),
			Metadata: metadata,
			Logger:   log,
		},
		Pages:         deps.Pages,
		Links:         goquery.NewLinkExtractor(),
		Index:         deps.Index,
		TokenCounter:  tokens,
		Logger:        log,
		Order:         distill.CrawlOrder(c.Order),
		MaxDepth:      c.Depth,
		MaxPages:      c.MaxPages,
		AllowExternal: c.AllowExternal,
		Filter:        filter,
		Concurrency:   c.Concurrency,
	}

	if c.Assets {
		deps.Crawler.Assets = &crawl.AssetCollector{
			Discoverer: goquery.NewAssetDiscoverer(),
			Downloader: distillslog.NewLoggingDownloader(distillhttp.NewDownloader(), log),
			Store:      fs.NewAssetStore(deps.Pages.StagingDir()),
			Captioner:  captioner,
			Logger:     log,
		}
	}
	if c.Sitemap {
		deps.Crawler.Sitemaps = distillslog.NewLoggingSitemapService(distillhttp.NewSitemapService(client), log)
	}

	delay := c.Delay
	if !c.IgnoreRobots {
		robots := distillhttp.NewRobotsPolicy(client, "")
		deps.Crawler.Robots = robots
		if d := robots.CrawlDelay(ctx, c.URL); d > delay {
			log.Info("honouring robots.txt crawl delay", "delay", d)
			delay = d
		}
	}
	deps.Crawler.RateLimiter = crawl.NewDomainLimiter(delay)

	return nil
}

// fetcher returns the page fetcher for the chosen browser mode. The
// browser is optional in auto mode: if Chrome cannot start, pages are
// fetched statically.
func (m *Main) fetcher(c *CrawlCmd, deps *Dependencies) (distill.Fetcher, error) {
	static := distillhttp.NewFetcher(distillhttp.WithTimeout(c.Timeout))
	if c.Browser == "never" {
		return distillslog.NewLoggingFetcher(static, deps.Logger), nil
	}

	browser, err := rod.NewFetcher(rod.WithFetchTimeout(3 * c.Timeout))
	if err != nil {
		if c.Browser == "always" {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		deps.Logger.Warn("browser unavailable, fetching statically", "err", err)
		return distillslog.NewLoggingFetcher(static, deps.Logger), nil
	}

	var f distill.Fetcher = &crawl.FallbackFetcher{
		Static:  static,
		Browser: browser,
		Probe:   goquery.NewProber(),
		Logger:  deps.Logger,
	}
	if c.Browser == "always" {
		f = browser
	}
	m.closers = append(m.closers, f.Close)
	return distillslog.NewLoggingFetcher(f, deps.Logger), nil
}

// wireExtract assembles the offline pipeline.
func (m *Main) wireExtract(deps *Dependencies) {
	deps.Converter = htmltomarkdown.NewConverter()
	deps.Extractor = trafilatura.NewExtractor()
	deps.Pipeline = &crawl.Pipeline{
		Analyzer: goquery.NewAnalyzer(),
		Filter:   goquery.NewFilter(),
		Metadata: &crawl.MetadataExtractor{
			Languages: []distill.LanguageDetector{
				goquery.NewLanguageDetector(),
				lingua.NewDetector(lingua.WithLowAccuracyMode()),
			},
			Logger: deps.Logger,
		},
		Logger: deps.Logger,
	}
}

// compileFilter builds a URL filter from include and exclude patterns.
// It returns nil when no pattern is given.
func compileFilter(include, exclude []string) (*distill.URLFilter, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return nil, nil
	}
	filter := &distill.URLFilter{}
	for _, p := range include {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, distill.Errorf(distill.EINVALID, "invalid include pattern %q: %v", p, err)
		}
		filter.Include = append(filter.Include, re)
	}
	for _, p := range exclude {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, distill.Errorf(distill.EINVALID, "invalid exclude pattern %q: %v", p, err)
		}
		filter.Exclude = append(filter.Exclude, re)
	}
	return filter, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "distill.db"
	}
	dir := filepath.Join(home, ".distill")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "distill.db")
}
