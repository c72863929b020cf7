// Package distill extracts the main content of rendered web pages and
// normalizes it into clean, deduplicated, metadata-tagged markdown.
//
// The pipeline runs in four steps: a StructureAnalyzer locates the
// main-content region of the HTML, a ContentFilter narrows the parallel
// markdown rendering down to that region, Clean strips boilerplate and
// repeated blocks, and a MetadataExtractor derives description, keywords,
// language and a content hash. Media referenced by the page is stored once
// per distinct byte sequence by an AssetStore.
//
// This package contains domain types, interfaces and the dependency-free
// text algorithms following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, rod/, gemini/, sqlite/).
package distill
