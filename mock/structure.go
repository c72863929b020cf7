package mock

import "github.com/fwojciec/distill"

var _ distill.StructureAnalyzer = (*StructureAnalyzer)(nil)

// StructureAnalyzer is a mock implementation of distill.StructureAnalyzer.
type StructureAnalyzer struct {
	AnalyzeFn func(html string) *distill.StructureAnalysis
}

func (a *StructureAnalyzer) Analyze(html string) *distill.StructureAnalysis {
	return a.AnalyzeFn(html)
}

var _ distill.ContentFilter = (*ContentFilter)(nil)

// ContentFilter is a mock implementation of distill.ContentFilter.
type ContentFilter struct {
	FilterFn func(markdown, html string, analysis *distill.StructureAnalysis) string
}

func (f *ContentFilter) Filter(markdown, html string, analysis *distill.StructureAnalysis) string {
	return f.FilterFn(markdown, html, analysis)
}
