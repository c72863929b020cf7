package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
)

// Ensure LanguageDetector implements distill.LanguageDetector at compile time.
var _ distill.LanguageDetector = (*LanguageDetector)(nil)

// LanguageDetector reads the language a page declares about itself.
type LanguageDetector struct{}

// NewLanguageDetector creates a new LanguageDetector.
func NewLanguageDetector() *LanguageDetector {
	return &LanguageDetector{}
}

// DetectLanguage returns the declared language of html. The text argument
// is ignored.
func (d *LanguageDetector) DetectLanguage(rawHTML, _ string) (string, bool) {
	return d.DeclaredLanguage(rawHTML)
}

// DeclaredLanguage checks, in order, the lang attribute of the root
// element, the og:locale meta tag, and the language and content-language
// meta tags. A source whose value is not a two-letter code is skipped.
func (d *LanguageDetector) DeclaredLanguage(rawHTML string) (string, bool) {
	doc, err := parse(rawHTML)
	if err != nil {
		return "", false
	}

	if lang, ok := distill.NormalizeLanguage(doc.Find("html").AttrOr("lang", "")); ok {
		return lang, true
	}

	metas := doc.Find("meta[content]")
	for _, match := range []func(s *goquery.Selection) bool{
		func(s *goquery.Selection) bool {
			return metaKey(s, "property") == "og:locale" || metaKey(s, "name") == "og:locale"
		},
		func(s *goquery.Selection) bool {
			return metaKey(s, "name") == "language" || metaKey(s, "http-equiv") == "content-language"
		},
	} {
		var lang string
		var ok bool
		metas.FilterFunction(func(_ int, s *goquery.Selection) bool {
			return match(s)
		}).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			lang, ok = distill.NormalizeLanguage(s.AttrOr("content", ""))
			return !ok
		})
		if ok {
			return lang, true
		}
	}
	return "", false
}

func metaKey(s *goquery.Selection, attr string) string {
	return strings.ToLower(strings.TrimSpace(s.AttrOr(attr, "")))
}
