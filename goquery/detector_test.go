package goquery_test

import (
	"testing"

	"github.com/fwojciec/distill"
	"github.com/fwojciec/distill/goquery"
	"github.com/stretchr/testify/assert"
)

// Ensure Prober implements distill.RenderProbe at compile time.
var _ distill.RenderProbe = (*goquery.Prober)(nil)

func TestProber_RequiresJS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want bool
	}{
		{
			name: "react mount point",
			html: `<html><body><div id="root"></div><script src="/main.js"></script></body></html>`,
			want: true,
		},
		{
			name: "next.js mount point with little text",
			html: `<html><body><div id="__next"><p>Loading...</p></div></body></html>`,
			want: true,
		},
		{
			name: "noscript notice",
			html: `<html><body><noscript>You need to enable JavaScript to run this app.</noscript><p>Loading</p></body></html>`,
			want: true,
		},
		{
			name: "client rendered generator",
			html: `<html><head><meta name="generator" content="GitBook 3.2"></head><body><p>` + paragraph(20) + `</p></body></html>`,
			want: true,
		},
		{
			name: "empty body",
			html: `<html><body></body></html>`,
			want: true,
		},
		{
			name: "server rendered mount point",
			html: `<html><body><div id="app"><article><p>` + paragraph(20) + `</p></article></div></body></html>`,
			want: false,
		},
		{
			name: "plain article",
			html: `<html><body><article><h1>Title</h1><p>Some text.</p></article></body></html>`,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, goquery.NewProber().RequiresJS(tt.html))
		})
	}
}
