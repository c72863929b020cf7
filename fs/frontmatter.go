package fs

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/distill"
	"gopkg.in/yaml.v3"
)

// FormatFrontmatter renders content with its metadata as a leading YAML
// block. Keys follow the metadata.json order and every string value is
// double-quoted.
func FormatFrontmatter(m *distill.Metadata, content string) (string, error) {
	front := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		front.Content = append(front.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
	}

	add("crawled_at", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: m.CrawledAt.UTC().Format(time.RFC3339)})
	add("url", quoted(m.URL))
	add("title", quoted(m.Title))
	add("content_hash", quoted(m.ContentHash))
	add("language", quoted(m.Language))
	add("estimated_tokens", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(m.EstimatedTokens)})
	add("description", quoted(m.Description))
	add("keywords", list(m.Keywords))
	add("image_hashes", list(m.ImageHashes))
	add("file_hashes", list(m.FileHashes))

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(front); err != nil {
		return "", distill.Errorf(distill.EINTERNAL, "encode frontmatter: %v", err)
	}
	if err := enc.Close(); err != nil {
		return "", distill.Errorf(distill.EINTERNAL, "encode frontmatter: %v", err)
	}
	buf.WriteString("---\n\n")
	buf.WriteString(content)
	return buf.String(), nil
}

func quoted(s string) *yaml.Node {
	return &yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Style: yaml.DoubleQuotedStyle,
		Value: strings.ToValidUTF8(s, "\uFFFD"),
	}
}

// list renders values as a block sequence, or [] when empty.
func list(values []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if len(values) == 0 {
		seq.Style = yaml.FlowStyle
	}
	for _, v := range values {
		seq.Content = append(seq.Content, quoted(v))
	}
	return seq
}
