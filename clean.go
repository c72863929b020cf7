package distill

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// Chunk parameters for repeated-block detection.
const (
	chunkLines     = 5
	minChunkLength = 50
)

// denyPatterns match boilerplate lines. They are applied in order to the
// lowercased line.
var denyPatterns = []*regexp.Regexp{
	// menu and navigation links
	regexp.MustCompile(`^\s*\[.*menu.*\].*$`),
	regexp.MustCompile(`^\s*\[.*nav.*\].*$`),
	// submenu controls
	regexp.MustCompile(`^\s*open submenu`),
	regexp.MustCompile(`^\s*close submenu`),
	// lone symbols
	regexp.MustCompile(`^\s*\+\s*$`),
	regexp.MustCompile(`^\s*-\s*$`),
	regexp.MustCompile(`^\s*×\s*$`),
	// zoom and slider controls
	regexp.MustCompile(`^\s*zoom`),
	regexp.MustCompile(`^\s*slider`),
	regexp.MustCompile(`^\s*\[prev\]`),
	regexp.MustCompile(`^\s*\[next\]`),
	regexp.MustCompile(`^\s*\[start\]`),
	regexp.MustCompile(`^\s*\[stop\]`),
	// go to top / back to home
	regexp.MustCompile(`gehe zum`),
	regexp.MustCompile(`zur startseite`),
	regexp.MustCompile(`^\s*\[?(go|back) to (the )?(top|home|start)`),
	// back / next bracket links
	regexp.MustCompile(`^\s*\[zur.{0,2}ck\]`),
	regexp.MustCompile(`^\s*\[back\]`),
	regexp.MustCompile(`^\s*\[weiter\]`),
	// pagination
	regexp.MustCompile(`^\s*\[\d+\]\(`),
	regexp.MustCompile(`^\s*\d+\|`),
	// view all links
	regexp.MustCompile(`^\s*\[alle .*aufrufen`),
	regexp.MustCompile(`^\s*\[view all`),
}

var newlineRun = regexp.MustCompile(`\n{3,}`)

// strayTableSeparator is a table header separator without a header row,
// left behind when a layout table is rendered to markdown.
const strayTableSeparator = "---|---"

// Clean removes boilerplate lines, repeated lines and repeated blocks from
// markdown and collapses blank-line runs.
//
// Clean is idempotent: Clean(Clean(s)) == Clean(s).
func Clean(markdown string) string {
	text := cleanOnce(markdown)
	for {
		next := cleanOnce(text)
		if next == text {
			return text
		}
		// Each pass only deletes, so the text shrinks until it is stable.
		text = next
	}
}

// cleanOnce runs a single cleaning pass over markdown.
func cleanOnce(markdown string) string {
	lines := strings.Split(markdown, "\n")
	chunks := newChunkSet()

	kept := make([]string, 0, len(lines))
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if isBoilerplate(line) || trimmed == strayTableSeparator {
			continue
		}

		if len(kept) > 0 {
			prev := strings.TrimSpace(kept[len(kept)-1])
			if trimmed != "" && trimmed == prev {
				continue
			}
			if trimmed == "" && prev == "" {
				continue
			}
		}

		if chunks.repeated(lines, i) {
			continue
		}

		kept = append(kept, line)
	}

	text := strings.Join(kept, "\n")
	text = newlineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// isBoilerplate reports whether line matches any deny pattern.
func isBoilerplate(line string) bool {
	lower := strings.ToLower(line)
	for _, re := range denyPatterns {
		if re.MatchString(lower) {
			return true
		}
	}
	return false
}

// chunkSet remembers the multi-line chunks seen while cleaning a single
// document. A new set is created for every pass.
type chunkSet struct {
	seen map[uint64]struct{}
}

func newChunkSet() *chunkSet {
	return &chunkSet{seen: make(map[uint64]struct{})}
}

// repeated reports whether the chunk starting at lines[i] was already seen
// and records it otherwise. Chunks shorter than minChunkLength are ignored.
func (s *chunkSet) repeated(lines []string, i int) bool {
	if i+chunkLines > len(lines) {
		return false
	}

	var b strings.Builder
	for j, l := range lines[i : i+chunkLines] {
		if j > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.TrimSpace(l))
	}
	chunk := strings.TrimSpace(b.String())
	if utf8.RuneCountInString(chunk) <= minChunkLength {
		return false
	}

	key := xxhash.Sum64String(chunk)
	if _, ok := s.seen[key]; ok {
		return true
	}
	s.seen[key] = struct{}{}
	return false
}
