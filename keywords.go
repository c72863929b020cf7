package distill

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Keyword limits.
const (
	MaxKeywords       = 10
	minKeywordLength  = 4
	keywordCandidates = 15
	minKeywordFreq    = 2
	minKeywordsAlways = 3
)

var keywordPunctuation = regexp.MustCompile("[#*`\\[\\]()]")

// stopwords are ignored when ranking keywords. Only words of at least
// minKeywordLength letters are listed since shorter ones never qualify.
var stopwords = toSet(
	// web and navigation
	"http", "https", "html", "href", "link", "links", "site", "page", "pages",
	"mehr", "weiter", "zurück", "next", "prev", "previous", "navigation",
	"menu", "header", "footer", "mail", "email", "info", "home", "click",
	"nodeid", "params", "index", "detail", "cached", "resource", "cookie",
	"cookies", "login",
	// German
	"alle", "aber", "dieser", "diese", "dieses", "haben", "hatte", "wird",
	"sind", "sein", "seine", "auch", "sich", "nach", "oder", "kann", "über",
	"beim", "muss", "etwa", "dass", "noch", "hier", "dann", "ihnen", "ihre",
	"ihrer", "einen", "einem", "einer", "eine", "eines", "werden", "wurde",
	"wurden", "worden", "damit", "nicht", "wenn", "durch", "unter", "sowie",
	"sehr", "schon", "wieder", "zwischen", "unsere", "unser", "ihren",
	"sondern", "weil", "können", "müssen", "sollen", "gibt",
	"jetzt", "immer", "denn", "mich", "dich", "euch", "dort", "ohne",
	// English
	"this", "that", "with", "from", "have", "will", "your", "they", "them",
	"been", "were", "what", "when", "which", "their", "there", "about",
	"would", "could", "should", "into", "more", "other", "some", "such",
	"than", "then", "these", "those", "only", "also", "just", "very", "each",
	"most", "over", "here", "where", "while", "after", "before", "because",
	"does", "like", "make", "many", "much", "must", "need", "same", "well",
	"even", "both", "being", "through", "upon", "among", "within", "without",
	"across", "since", "until", "unto", "every", "another", "whose", "whom",
)

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// IsStopword reports whether word is never used as a keyword.
func IsStopword(word string) bool {
	return stopwords[word]
}

// Keywords ranks the words of title and content by frequency and returns
// at most MaxKeywords of them. Each keyword is lowercase, at least four
// letters long and not a stopword.
func Keywords(content, title string) []string {
	text := norm.NFC.String(strings.ToLower(title + " " + content))
	text = urlPattern.ReplaceAllString(text, " ")
	text = emailPattern.ReplaceAllString(text, " ")
	text = keywordPunctuation.ReplaceAllString(text, " ")

	counts := make(map[string]int)
	var order []string
	for _, word := range strings.FieldsFunc(text, isWordBreak) {
		if !isKeywordCandidate(word) {
			continue
		}
		if counts[word] == 0 {
			order = append(order, word)
		}
		counts[word]++
	}

	// Stable sort keeps first occurrence order among equal counts.
	slices.SortStableFunc(order, func(a, b string) int {
		return counts[b] - counts[a]
	})

	keywords := []string{}
	for _, word := range order[:min(len(order), keywordCandidates)] {
		if counts[word] >= minKeywordFreq || len(keywords) < minKeywordsAlways {
			keywords = append(keywords, word)
		}
		if len(keywords) >= MaxKeywords {
			break
		}
	}
	return keywords
}

// NormalizeKeywords applies the keyword bounds to externally produced
// keywords: lowercase, unique, at least four characters, no stopwords and
// at most MaxKeywords entries.
func NormalizeKeywords(words []string) []string {
	keywords := []string{}
	seen := make(map[string]bool)
	for _, w := range words {
		w = norm.NFC.String(strings.ToLower(strings.TrimSpace(w)))
		w = strings.Join(strings.Fields(w), " ")
		if utf8.RuneCountInString(w) < minKeywordLength || stopwords[w] || seen[w] {
			continue
		}
		if strings.HasPrefix(w, "http") || strings.HasPrefix(w, "www") {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
		if len(keywords) >= MaxKeywords {
			break
		}
	}
	return keywords
}

func isWordBreak(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// isKeywordCandidate reports whether word is long enough, made of letters
// only and not a stopword or URL fragment.
func isKeywordCandidate(word string) bool {
	if utf8.RuneCountInString(word) < minKeywordLength {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	if stopwords[word] {
		return false
	}
	return !strings.HasPrefix(word, "http") && !strings.HasPrefix(word, "www")
}
