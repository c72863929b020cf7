package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/distill"
)

// Ensure Filter implements distill.ContentFilter at compile time.
var _ distill.ContentFilter = (*Filter)(nil)

// Fragment matching parameters, in characters.
const (
	minFragmentLine = 10
	fragmentKeyLen  = 50
	partialKeyLen   = 20
)

// Filter keeps the markdown lines whose text also appears in the
// main-content region of the HTML.
type Filter struct{}

// NewFilter creates a new Filter.
func NewFilter() *Filter {
	return &Filter{}
}

// Filter returns the lines of markdown attributable to analysis.Main.
// Structural lines (blank, headings, table rows) always survive.
func (f *Filter) Filter(markdown, rawHTML string, analysis *distill.StructureAnalysis) string {
	if analysis == nil || analysis.Fallback || analysis.Main.IsZero() {
		return markdown
	}

	fragments, ok := mainFragments(rawHTML, analysis)
	if !ok || len(fragments) == 0 {
		return markdown
	}

	var kept []string
	prevBlank := true
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"), strings.HasPrefix(trimmed, "|"):
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			if !matchesFragment(trimmed[2:], fragments) {
				continue
			}
		case utf8.RuneCountInString(trimmed) > minFragmentLine:
			if !matchesFragment(trimmed, fragments) {
				continue
			}
		default:
			// Short continuation lines follow retained text.
			if prevBlank {
				continue
			}
		}
		kept = append(kept, line)
		prevBlank = trimmed == ""
	}

	result := strings.Join(kept, "\n")
	if strings.TrimSpace(result) == "" {
		return markdown
	}
	return result
}

// mainFragments returns the fragment keys of the main region: the
// lowercase leading characters of every visible text line in it. The bool
// result is false when the main locator does not resolve.
func mainFragments(rawHTML string, analysis *distill.StructureAnalysis) ([]string, bool) {
	doc, err := parse(rawHTML)
	if err != nil {
		return nil, false
	}

	region := resolve(doc, analysis.Main)
	if region.Length() == 0 {
		return nil, false
	}
	removeExcluded(doc, analysis.Exclude, region.Nodes[0])

	var fragments []string
	seen := make(map[string]bool)
	eachText(region, func(text string) {
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if utf8.RuneCountInString(line) <= minFragmentLine {
				continue
			}
			key := prefix(strings.ToLower(line), fragmentKeyLen)
			if !seen[key] {
				seen[key] = true
				fragments = append(fragments, key)
			}
		}
	})
	return fragments, true
}

// matchesFragment reports whether a markdown line shares a leading
// substring with one of the fragments, in either direction.
func matchesFragment(line string, fragments []string) bool {
	text := strings.ToLower(distill.StripInline(line))
	if text == "" {
		return false
	}
	key := prefix(text, fragmentKeyLen)
	short := prefix(text, partialKeyLen)
	for _, frag := range fragments {
		if strings.Contains(frag, key) ||
			strings.HasPrefix(frag, short) ||
			strings.Contains(key, prefix(frag, partialKeyLen)) {
			return true
		}
	}
	return false
}

// prefix returns the first n characters of s.
func prefix(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
