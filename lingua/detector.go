// Package lingua detects the language of page text with lingua-go.
package lingua

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/distill"
	"github.com/pemistahl/lingua-go"
)

// Ensure Detector implements distill.LanguageDetector at compile time.
var _ distill.LanguageDetector = (*Detector)(nil)

// DefaultMinTextLength is the number of runes below which text is
// considered too short to classify.
const DefaultMinTextLength = 40

// DefaultLanguages are the languages a Detector chooses between unless
// WithLanguages is given.
var DefaultLanguages = []lingua.Language{
	lingua.English,
	lingua.German,
	lingua.French,
	lingua.Spanish,
	lingua.Italian,
	lingua.Portuguese,
	lingua.Dutch,
	lingua.Polish,
	lingua.Russian,
	lingua.Japanese,
	lingua.Chinese,
	lingua.Korean,
}

// Detector classifies the extracted text of a page. It ignores the HTML;
// declared languages are read elsewhere.
type Detector struct {
	detector  lingua.LanguageDetector
	minLength int
}

type config struct {
	languages   []lingua.Language
	minLength   int
	minDistance float64
	lowAccuracy bool
}

// Option configures a Detector.
type Option func(*config)

// WithLanguages restricts detection to the given languages.
func WithLanguages(languages ...lingua.Language) Option {
	return func(c *config) {
		c.languages = languages
	}
}

// WithMinTextLength sets the shortest text, in runes, that is classified.
func WithMinTextLength(n int) Option {
	return func(c *config) {
		c.minLength = n
	}
}

// WithMinimumRelativeDistance makes the detector answer only when the
// best language wins by at least distance (0 to 0.99).
func WithMinimumRelativeDistance(distance float64) Option {
	return func(c *config) {
		c.minDistance = distance
	}
}

// WithLowAccuracyMode trades accuracy on short text for memory.
func WithLowAccuracyMode() Option {
	return func(c *config) {
		c.lowAccuracy = true
	}
}

// NewDetector builds a Detector. Language models are loaded lazily on
// first use.
func NewDetector(opts ...Option) *Detector {
	cfg := config{
		languages: DefaultLanguages,
		minLength: DefaultMinTextLength,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := lingua.NewLanguageDetectorBuilder().FromLanguages(cfg.languages...)
	if cfg.minDistance > 0 {
		b = b.WithMinimumRelativeDistance(cfg.minDistance)
	}
	if cfg.lowAccuracy {
		b = b.WithLowAccuracyMode()
	}

	return &Detector{
		detector:  b.Build(),
		minLength: cfg.minLength,
	}
}

// DetectLanguage returns the two-letter code of text's language. It
// reports false for short text or when no language is reliable enough.
func (d *Detector) DetectLanguage(_, text string) (string, bool) {
	text = strings.TrimSpace(text)
	if utf8.RuneCountInString(text) < d.minLength {
		return "", false
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return "", false
	}
	return distill.NormalizeLanguage(lang.IsoCode639_1().String())
}
