package distill

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

// DefaultLanguage is used when a page declares no language and none can
// be detected.
const DefaultLanguage = "en"

// MaxPreviewLength bounds the content handed to a Summarizer.
const MaxPreviewLength = 8000

// ContentHash returns the hex SHA-256 digest of cleaned markdown.
// It identifies a version of a page's content across crawls.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// EstimateTokens approximates the token count of text as 1.3 tokens per
// whitespace-separated word.
func EstimateTokens(text string) int {
	return int(float64(len(strings.Fields(text))) * 1.3)
}

// Preview returns at most MaxPreviewLength characters of text.
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= MaxPreviewLength {
		return text
	}
	return string([]rune(text)[:MaxPreviewLength])
}

// NormalizeLanguage reduces a language tag such as "de-AT" or "en_US" to
// its lowercase primary subtag. The bool result is false unless the
// subtag is exactly two ASCII letters.
func NormalizeLanguage(tag string) (string, bool) {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	tag = strings.ToLower(tag)
	if len(tag) != 2 {
		return "", false
	}
	for i := 0; i < len(tag); i++ {
		if tag[i] < 'a' || tag[i] > 'z' {
			return "", false
		}
	}
	return tag, true
}

// LanguageDetector determines the language of a page.
type LanguageDetector interface {
	// DetectLanguage returns a two-letter lowercase code. The bool result
	// is false when the detector has no answer for the page.
	DetectLanguage(html, text string) (string, bool)
}

// Summary is a description and keyword list produced by a Summarizer.
type Summary struct {
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}

// Summarizer produces a description and keywords for page content,
// typically by calling a language model.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (*Summary, error)
}

// Captioner describes an image in a short sentence.
type Captioner interface {
	Caption(ctx context.Context, image []byte, mimeType string) (string, error)
}

// TokenCounter counts tokens in text for a specific model.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}
