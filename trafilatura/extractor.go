// Package trafilatura reads page titles with go-trafilatura.
package trafilatura

import (
	"fmt"
	"strings"

	"github.com/fwojciec/distill"
	"github.com/markusmobius/go-trafilatura"
)

// Ensure Extractor implements distill.Extractor at compile time.
var _ distill.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura. Only the page metadata is used; the
// main content is located by the structure analyzer instead.
type Extractor struct {
	opts trafilatura.Options
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{
		opts: trafilatura.Options{
			EnableFallback:  true,
			ExcludeComments: true,
		},
	}
}

// Extract returns the title of rawHTML.
func (e *Extractor) Extract(rawHTML string) (*distill.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, distill.Errorf(distill.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil {
		return nil, fmt.Errorf("trafilatura: %w", err)
	}

	return &distill.ExtractResult{
		Title: strings.Join(strings.Fields(result.Metadata.Title), " "),
	}, nil
}
