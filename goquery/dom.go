// Package goquery implements HTML structure analysis, content filtering,
// language and asset discovery on top of github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/distill"
	"golang.org/x/net/html"
)

// hiddenTags never contribute visible text.
var hiddenTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"head":     true,
}

// parse parses html into a document.
func parse(rawHTML string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, distill.Errorf(distill.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// eachText calls fn with every non-empty, trimmed visible text node below
// the selection, in document order.
func eachText(sel *goquery.Selection, fn func(text string)) {
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if s := strings.TrimSpace(n.Data); s != "" {
				fn(s)
			}
			return
		case html.ElementNode:
			if hiddenTags[n.Data] {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
}

// textLength returns the number of visible characters below the selection,
// ignoring surrounding whitespace of each text node.
func textLength(sel *goquery.Selection) int {
	var n int
	eachText(sel, func(s string) {
		n += utf8.RuneCountInString(s)
	})
	return n
}

// selectAll returns every element addressed by loc.
func selectAll(doc *goquery.Document, loc distill.Locator) *goquery.Selection {
	switch {
	case loc.ID != "":
		return doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			id, _ := s.Attr("id")
			return id == loc.ID
		})
	case loc.Class != "":
		return doc.Find("[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return s.HasClass(loc.Class)
		})
	case loc.Tag != "":
		return doc.Find(loc.Tag)
	default:
		return doc.FindNodes()
	}
}

// resolve returns the single element addressed by loc. A positional
// locator picks the Nth element named Tag as long as that element still
// matches the locator's id or class; otherwise the first match is used.
func resolve(doc *goquery.Document, loc distill.Locator) *goquery.Selection {
	if loc.Nth > 0 && loc.Tag != "" {
		if s := doc.Find(loc.Tag).Eq(loc.Nth - 1); s.Length() > 0 && matches(s, loc) {
			return s
		}
	}
	return selectAll(doc, loc).First()
}

func matches(s *goquery.Selection, loc distill.Locator) bool {
	switch {
	case loc.ID != "":
		id, _ := s.Attr("id")
		return strings.TrimSpace(id) == loc.ID
	case loc.Class != "":
		return s.HasClass(loc.Class)
	default:
		return true
	}
}

// positions maps every element named by one of tags to its 1-based
// position among the elements of the same name, in document order.
func positions(doc *goquery.Document, tags ...string) map[*html.Node]int {
	nth := make(map[*html.Node]int)
	for _, tag := range tags {
		doc.Find(tag).Each(func(i int, s *goquery.Selection) {
			nth[s.Nodes[0]] = i + 1
		})
	}
	return nth
}

// locatorFor returns a locator for the element, preferring its id over its
// first class. Elements with neither are addressed by tag.
func locatorFor(sel *goquery.Selection) distill.Locator {
	loc := distill.Locator{Tag: goquery.NodeName(sel)}
	if id, ok := sel.Attr("id"); ok && strings.TrimSpace(id) != "" {
		loc.ID = strings.TrimSpace(id)
		return loc
	}
	if class := firstClass(sel); class != "" {
		loc.Class = class
	}
	return loc
}

func firstClass(sel *goquery.Selection) string {
	class, _ := sel.Attr("class")
	fields := strings.Fields(class)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// removeExcluded removes the elements addressed by the exclusion locators
// from doc. Elements that are or contain keep are left in place.
func removeExcluded(doc *goquery.Document, exclude []distill.Locator, keep *html.Node) {
	for _, loc := range exclude {
		selectAll(doc, loc).Each(func(_ int, s *goquery.Selection) {
			if keep != nil && (s.Nodes[0] == keep || s.Contains(keep)) {
				return
			}
			s.Remove()
		})
	}
}
