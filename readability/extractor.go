// Package readability reads page titles with go-readability.
package readability

import (
	"fmt"
	"strings"

	"github.com/fwojciec/distill"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements distill.Extractor at compile time.
var _ distill.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the title of rawHTML.
func (e *Extractor) Extract(rawHTML string) (*distill.ExtractResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, distill.Errorf(distill.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, fmt.Errorf("readability: %w", err)
	}

	return &distill.ExtractResult{
		Title: strings.Join(strings.Fields(article.Title), " "),
	}, nil
}
