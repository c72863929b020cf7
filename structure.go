package distill

// Locator is an abstract reference to an HTML region.
// ID takes precedence over Class; a Locator with neither refers to the
// first element with the given Tag.
//
// Nth, when set, pins the locator to one element: the Nth element named
// Tag in document order, counting from 1. Scored candidates always carry
// it. Exclusions leave Nth zero and apply to every element they match.
type Locator struct {
	Tag   string `json:"tag,omitempty"`
	ID    string `json:"id,omitempty"`
	Class string `json:"class,omitempty"`
	Nth   int    `json:"nth,omitempty"`
}

// BodyLocator refers to the document body. It is the main locator when
// no content region could be identified.
var BodyLocator = Locator{Tag: "body"}

// Selector renders the locator as a CSS-style selector, e.g. "#content",
// ".post" or "main". Nth is not part of the selector.
func (l Locator) Selector() string {
	switch {
	case l.ID != "":
		return "#" + l.ID
	case l.Class != "":
		return "." + l.Class
	default:
		return l.Tag
	}
}

// IsZero reports whether the locator refers to nothing.
func (l Locator) IsZero() bool {
	return l.Tag == "" && l.ID == "" && l.Class == "" && l.Nth == 0
}

// Candidate is a scored main-content candidate.
type Candidate struct {
	Locator        Locator `json:"locator"`
	Score          float64 `json:"score"`
	TextLength     int     `json:"textLength"`
	LinkCount      int     `json:"linkCount"`
	LinkTextLength int     `json:"linkTextLength"`
}

// StructureAnalysis is the result of analyzing the structure of a page.
// It is produced once per document and read-only afterwards.
type StructureAnalysis struct {
	Main       Locator     `json:"main"`
	Exclude    []Locator   `json:"exclude"`
	Candidates []Candidate `json:"candidates"`

	// Fallback is set when no candidate qualified and Main is the body.
	Fallback bool `json:"fallback"`
}

// StructureAnalyzer locates the main-content region of a page and the
// navigation-like regions to exclude from it.
type StructureAnalyzer interface {
	// Analyze never fails: unparsable input yields the body fallback.
	Analyze(html string) *StructureAnalysis
}

// ContentFilter narrows rendered markdown down to the lines that originate
// from the main-content region.
type ContentFilter interface {
	// Filter returns markdown unchanged when analysis carries no signal.
	Filter(markdown, html string, analysis *StructureAnalysis) string
}
