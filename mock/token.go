package mock

import (
	"context"

	"github.com/fwojciec/distill"
)

var _ distill.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of distill.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return tc.CountTokensFn(ctx, text)
}

var _ distill.Summarizer = (*Summarizer)(nil)

// Summarizer is a mock implementation of distill.Summarizer.
type Summarizer struct {
	SummarizeFn func(ctx context.Context, text string) (*distill.Summary, error)
}

func (s *Summarizer) Summarize(ctx context.Context, text string) (*distill.Summary, error) {
	return s.SummarizeFn(ctx, text)
}

var _ distill.Captioner = (*Captioner)(nil)

// Captioner is a mock implementation of distill.Captioner.
type Captioner struct {
	CaptionFn func(ctx context.Context, image []byte, mimeType string) (string, error)
}

func (c *Captioner) Caption(ctx context.Context, image []byte, mimeType string) (string, error) {
	return c.CaptionFn(ctx, image, mimeType)
}

var _ distill.LanguageDetector = (*LanguageDetector)(nil)

// LanguageDetector is a mock implementation of distill.LanguageDetector.
type LanguageDetector struct {
	DetectLanguageFn func(html, text string) (string, bool)
}

func (d *LanguageDetector) DetectLanguage(html, text string) (string, bool) {
	return d.DetectLanguageFn(html, text)
}
