package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
	"github.com/fwojciec/distill/fs"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// crawl
	Crawler *crawl.Crawler
	Pages   *fs.FileStore

	// extract
	Pipeline  *crawl.Pipeline
	Converter distill.Converter
	Extractor distill.Extractor

	// Optional; nil when the database is disabled.
	History distill.CrawlHistory
	Index   distill.PageIndex
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool `short:"v" help:"Log debug output to stderr"`

	Crawl   CrawlCmd   `cmd:"" help:"Crawl a site and store its pages as clean markdown"`
	Extract ExtractCmd `cmd:"" help:"Extract the main content of a saved HTML page"`
	Clean   CleanCmd   `cmd:"" help:"Clean markdown from a file or stdin"`
	History HistoryCmd `cmd:"" help:"List past crawls"`
	Pages   PagesCmd   `cmd:"" help:"List pages in the recrawl index"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	URL    string `arg:"" help:"Start URL"`
	Output string `short:"o" default:"." help:"Parent directory of the output directory"`
	Name   string `short:"n" help:"Output directory name (default: host of the start URL)"`

	Depth         int           `short:"d" default:"2" help:"Link hops to follow from the start URL"`
	MaxPages      int           `default:"1000" help:"Maximum number of pages to crawl"`
	Order         string        `enum:"bfs,dfs" default:"bfs" help:"Traversal order (bfs or dfs)"`
	Concurrency   int           `short:"c" default:"4" help:"Concurrent page workers"`
	Delay         time.Duration `default:"500ms" help:"Minimum delay between requests to one host"`
	Timeout       time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	Sitemap       bool          `help:"Seed the crawl with the site's sitemap URLs"`
	AllowExternal bool          `help:"Follow links to other hosts"`
	Include       []string      `short:"I" help:"Only follow URLs matching regex (repeatable)"`
	Exclude       []string      `short:"X" help:"Never follow URLs matching regex (repeatable)"`
	IgnoreRobots  bool          `help:"Do not honour robots.txt"`

	Frontmatter    bool   `help:"Write metadata as a YAML block at the top of content.md"`
	Raw            bool   `help:"Keep raw.html and raw.md for each page"`
	Assets         bool   `default:"true" negatable:"" help:"Download images and linked files"`
	AI             bool   `help:"Describe pages with Gemini (needs GEMINI_API_KEY)"`
	AltText        bool   `help:"Caption images without alt text with Gemini (needs GEMINI_API_KEY)"`
	CountTokens    bool   `help:"Count tokens with the Gemini tokenizer"`
	DetectLanguage bool   `default:"true" negatable:"" help:"Detect the language from text when a page declares none"`
	Browser        string `enum:"auto,always,never" default:"auto" help:"When to render pages in headless Chrome (auto, always, never)"`
	TitleFrom      string `enum:"trafilatura,readability" default:"trafilatura" help:"Title extractor (trafilatura or readability)"`

	DB      string `env:"DISTILL_DB" help:"Recrawl index database (default: ~/.distill/distill.db)"`
	NoIndex bool   `help:"Do not record pages in the recrawl index"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	HTML        string `arg:"" type:"existingfile" help:"Saved HTML page"`
	Markdown    string `short:"m" type:"existingfile" help:"Markdown rendering of the page (default: converted from the HTML)"`
	URL         string `short:"u" default:"https://localhost/" help:"URL the page was saved from"`
	Frontmatter bool   `help:"Prefix the content with a YAML metadata block"`
	JSON        bool   `help:"Print the metadata as JSON instead of the content"`
}

// CleanCmd is the "clean" subcommand.
type CleanCmd struct {
	File string `arg:"" optional:"" help:"Markdown file (default: stdin)"`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	URL   string `arg:"" optional:"" help:"Only show crawls of this start URL"`
	Limit int    `short:"l" default:"20" help:"Maximum number of crawls to show"`
	DB    string `env:"DISTILL_DB" help:"Recrawl index database (default: ~/.distill/distill.db)"`
}

// PagesCmd is the "pages" subcommand.
type PagesCmd struct {
	Prefix string `arg:"" optional:"" help:"Only show URLs starting with this prefix"`
	Limit  int    `short:"l" default:"100" help:"Maximum number of pages to show"`
	Offset int    `help:"Number of pages to skip"`
	DB     string `env:"DISTILL_DB" help:"Recrawl index database (default: ~/.distill/distill.db)"`
}
