package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/crawl"
	"github.com/fwojciec/distill/fs"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	html, err := os.ReadFile(c.HTML)
	if err != nil {
		return fmt.Errorf("read html: %w", err)
	}

	doc := &distill.Document{URL: c.URL, HTML: string(html)}
	if c.Markdown != "" {
		md, err := os.ReadFile(c.Markdown)
		if err != nil {
			return fmt.Errorf("read markdown: %w", err)
		}
		doc.Markdown = string(md)
	} else {
		if doc.Markdown, err = deps.Converter.Convert(doc.HTML); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
			return err
		}
	}
	if deps.Extractor != nil {
		if res, err := deps.Extractor.Extract(doc.HTML); err == nil {
			doc.Title = res.Title
		}
	}

	page, err := deps.Pipeline.Process(deps.Ctx, doc)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", distill.ErrorMessage(err))
		return err
	}

	switch {
	case c.JSON:
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(page.Metadata)
	case c.Frontmatter:
		var out string
		if out, err = fs.FormatFrontmatter(page.Metadata, page.Content); err == nil {
			_, err = fmt.Fprint(deps.Stdout, out)
		}
	default:
		_, err = fmt.Fprint(deps.Stdout, page.Content)
	}
	if err != nil {
		return err
	}

	if page.Analysis.Fallback {
		fmt.Fprintln(deps.Stderr, "warning: no main content region found, used the whole body")
	}
	if page.Metadata.Title == crawl.DefaultTitle {
		deps.Logger.Info("page has no title", "file", c.HTML)
	}
	return nil
}
