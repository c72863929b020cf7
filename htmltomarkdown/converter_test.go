package htmltomarkdown_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/htmltomarkdown"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Converter implements distill.Converter at compile time.
var _ distill.Converter = (*htmltomarkdown.Converter)(nil)

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "headings",
			html: `<h1>Title</h1><h2>Subtitle</h2><h3>Section</h3>`,
			want: []string{"# Title", "## Subtitle", "### Section"},
		},
		{
			name: "links",
			html: `<p>Visit <a href="https://example.com">Example</a> for more info.</p>`,
			want: []string{"[Example](https://example.com)"},
		},
		{
			name: "lists",
			html: `<ul><li>First</li><li>Second</li></ul><ol><li>One</li><li>Two</li></ol>`,
			want: []string{"- First", "- Second", "1. One", "2. Two"},
		},
		{
			name: "inline code",
			html: `<p>Run <code>go build</code> to compile.</p>`,
			want: []string{"`go build`"},
		},
		{
			name: "code block with language hint",
			html: "<pre><code class=\"language-go\">package main\n</code></pre>",
			want: []string{"```go", "package main"},
		},
		{
			name: "tables",
			html: `<table><thead><tr><th>Name</th><th>Age</th></tr></thead><tbody><tr><td>Alice</td><td>30</td></tr></tbody></table>`,
			want: []string{"Name", "Alice", "|", "---"},
		},
		{
			name: "emphasis",
			html: `<p><strong>Bold</strong> and <em>italic</em> text.</p>`,
			want: []string{"**Bold**", "*italic*"},
		},
		{
			name: "strikethrough",
			html: `<p><del>Deprecated</del> since 2.0</p>`,
			want: []string{"~~Deprecated~~"},
		},
		{
			name: "images keep alt text",
			html: `<p><img src="https://example.com/a.png" alt="Diagram"></p>`,
			want: []string{"![Diagram](https://example.com/a.png)"},
		},
		{
			name: "navigation is kept",
			html: `<nav><a href="https://example.com/docs">Docs</a></nav><main><p>Body text.</p></main>`,
			want: []string{"[Docs](https://example.com/docs)", "Body text."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			md, err := htmltomarkdown.NewConverter().Convert(tt.html)

			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, md, w)
			}
		})
	}
}

func TestConverter_Convert_WithDomain(t *testing.T) {
	t.Parallel()

	html := `<p><a href="/docs/intro">Intro</a> <img src="/img/a.png" alt="A"></p>`

	md, err := htmltomarkdown.NewConverter(htmltomarkdown.WithDomain("https://example.com/")).Convert(html)

	require.NoError(t, err)
	assert.Contains(t, md, "[Intro](https://example.com/docs/intro)")
	assert.Contains(t, md, "![A](https://example.com/img/a.png)")
}

func TestConverter_Convert_RejectsEmptyInput(t *testing.T) {
	t.Parallel()

	for _, html := range []string{"", "  \n\t"} {
		_, err := htmltomarkdown.NewConverter().Convert(html)

		assert.Equal(t, distill.EINVALID, distill.ErrorCode(err))
	}
}
