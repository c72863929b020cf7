package distill

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NoDescription is returned when no line of the content can describe it.
const NoDescription = "No description available"

// Description limits.
const (
	MaxDescriptionLength = 200
	minDescriptionLength = 50
	minDescriptionLetter = 40
	minCombinedLength    = 100
)

var (
	headingPrefix = regexp.MustCompile(`^#+\s+`)
	listPrefix    = regexp.MustCompile(`^([-*+]|\d+\.)\s+`)
	markdownImage = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	markdownLink  = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	emphasisMark  = regexp.MustCompile("[*_`]")
	urlPattern    = regexp.MustCompile(`https?://\S+`)
	emailPattern  = regexp.MustCompile(`\S+@\S+`)
	spaceRun      = regexp.MustCompile(`\s+`)

	navigationWord = regexp.MustCompile(`^(mehr\s*\.{0,3}|more\s*\.{0,3}|read more\s*\.{0,3}|\d+|weiter|zurück|next|back|previous)$`)
)

// Describe derives a short description from cleaned markdown.
//
// The first plain-text line with enough letters is used as is, or cut at a
// word boundary when it is too long. Without such a line, successive lines
// are combined. NoDescription is returned when the content has no text.
func Describe(markdown string) string {
	var candidates []string
	for _, raw := range strings.Split(markdown, "\n") {
		line := plainLine(raw)
		if line == "" || isNavigationLine(line) {
			continue
		}
		if letterCount(line) >= minDescriptionLetter && utf8.RuneCountInString(line) >= minDescriptionLength {
			return CapDescription(line)
		}
		candidates = append(candidates, line)
	}

	var parts []string
	var n int
	for _, line := range candidates {
		parts = append(parts, line)
		n += utf8.RuneCountInString(line)
		if n >= minCombinedLength {
			break
		}
	}
	if len(parts) == 0 {
		return NoDescription
	}
	return CapDescription(strings.Join(parts, " "))
}

// CapDescription limits s to MaxDescriptionLength characters. Longer text is
// cut at the last word boundary and ends in "...".
func CapDescription(s string) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxDescriptionLength {
		return s
	}

	r := []rune(s)
	cut := string(r[:MaxDescriptionLength-3])
	if !unicode.IsSpace(r[MaxDescriptionLength-3]) {
		if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRightFunc(cut, unicode.IsSpace) + "..."
}

// plainLine strips markdown syntax, URLs and email addresses from a line.
func plainLine(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "|") {
		return ""
	}
	line = headingPrefix.ReplaceAllString(line, "")
	line = listPrefix.ReplaceAllString(line, "")
	line = StripInline(line)
	line = urlPattern.ReplaceAllString(line, "")
	line = emailPattern.ReplaceAllString(line, "")
	line = spaceRun.ReplaceAllString(line, " ")
	return strings.TrimSpace(line)
}

// StripInline removes inline markdown from s: images are dropped, links
// are replaced by their text and emphasis or code markers are removed.
func StripInline(s string) string {
	s = markdownImage.ReplaceAllString(s, "")
	s = markdownLink.ReplaceAllString(s, "$1")
	s = emphasisMark.ReplaceAllString(s, "")
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// isNavigationLine reports whether line looks like a navigation control
// rather than prose.
func isNavigationLine(line string) bool {
	if navigationWord.MatchString(strings.ToLower(line)) {
		return true
	}
	if strings.HasSuffix(line, "»") || strings.HasSuffix(line, "›") ||
		strings.HasSuffix(line, "→") || strings.HasSuffix(line, "...") ||
		strings.HasSuffix(line, "…") {
		return true
	}
	return strings.Count(line, "»")+strings.Count(line, "›") > 2
}

func letterCount(s string) int {
	var n int
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
