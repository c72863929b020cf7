package goquery

import (
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
)

// Ensure Analyzer implements distill.StructureAnalyzer at compile time.
var _ distill.StructureAnalyzer = (*Analyzer)(nil)

// Scoring parameters.
const (
	minCandidateText  = 200
	linkCountPenalty  = 20
	linkTextPenalty   = 0.5
	maxExclusions     = 10
	maxCandidatesKept = 5
)

// contentKeywords mark containers whose id or class suggests main content.
var contentKeywords = []string{"content", "main", "article", "inhalt", "body", "post"}

// menuClass matches classes of menu-like blocks.
var menuClass = regexp.MustCompile(`(?i)menu|nav|navigation`)

// Analyzer locates the main-content region of a page using semantic
// elements first and a text density score otherwise.
type Analyzer struct{}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze returns the main locator, the regions to exclude and the scored
// candidates of html.
func (a *Analyzer) Analyze(rawHTML string) *distill.StructureAnalysis {
	analysis := &distill.StructureAnalysis{
		Main:       distill.BodyLocator,
		Exclude:    []distill.Locator{},
		Candidates: []distill.Candidate{},
		Fallback:   true,
	}

	doc, err := parse(rawHTML)
	if err != nil {
		return analysis
	}

	analysis.Exclude = exclusions(doc)

	for _, tag := range []string{"main", "article"} {
		if doc.Find(tag).Length() > 0 {
			analysis.Main = distill.Locator{Tag: tag}
			analysis.Fallback = false
			return analysis
		}
	}

	candidates := scoreCandidates(doc)
	if len(candidates) > maxCandidatesKept {
		analysis.Candidates = candidates[:maxCandidatesKept]
	} else {
		analysis.Candidates = candidates
	}

	if len(candidates) > 0 {
		analysis.Main = candidates[0].Locator
		analysis.Fallback = false
	}

	return analysis
}

// scoreCandidates returns the qualifying containers ordered by descending
// score. Equal scores keep document order.
func scoreCandidates(doc *goquery.Document) []distill.Candidate {
	containers := doc.Find("div, section, main, article").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return hasContentKeyword(s)
	})
	if containers.Length() == 0 {
		containers = doc.Find("div, section, article")
	}

	nth := positions(doc, "div", "section", "main", "article")
	candidates := []distill.Candidate{}
	containers.Each(func(_ int, s *goquery.Selection) {
		c := score(s)
		c.Locator.Nth = nth[s.Nodes[0]]
		if c.TextLength > minCandidateText {
			candidates = append(candidates, c)
		}
	})

	slices.SortStableFunc(candidates, func(a, b distill.Candidate) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return candidates
}

// score computes textLength - 20*linkCount - 0.5*linkTextLength for s.
func score(s *goquery.Selection) distill.Candidate {
	links := s.Find("a")
	c := distill.Candidate{
		Locator:        locatorFor(s),
		TextLength:     textLength(s),
		LinkCount:      links.Length(),
		LinkTextLength: textLength(links),
	}
	c.Score = float64(c.TextLength) -
		linkCountPenalty*float64(c.LinkCount) -
		linkTextPenalty*float64(c.LinkTextLength)
	return c
}

func hasContentKeyword(s *goquery.Selection) bool {
	id, _ := s.Attr("id")
	class, _ := s.Attr("class")
	attrs := strings.ToLower(id + " " + class)
	for _, kw := range contentKeywords {
		if strings.Contains(attrs, kw) {
			return true
		}
	}
	return false
}

// exclusions returns locators for navigation, header and footer elements
// and menu-like blocks, without duplicates and capped at maxExclusions.
func exclusions(doc *goquery.Document) []distill.Locator {
	locators := []distill.Locator{}
	seen := make(map[string]bool)
	add := func(loc distill.Locator) {
		key := loc.Selector()
		if key == "" || seen[key] || len(locators) >= maxExclusions {
			return
		}
		seen[key] = true
		locators = append(locators, loc)
	}

	doc.Find("nav, header, footer").Each(func(_ int, s *goquery.Selection) {
		add(locatorFor(s))
	})

	doc.Find("div[class], ul[class]").Each(func(_ int, s *goquery.Selection) {
		class, _ := s.Attr("class")
		if !menuClass.MatchString(class) {
			return
		}
		add(distill.Locator{Tag: goquery.NodeName(s), Class: firstClass(s)})
	})

	return locators
}
