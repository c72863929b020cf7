package gemini

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fwojciec/distill"
	"google.golang.org/genai"
)

// Ensure Summarizer implements distill.Summarizer at compile time.
var _ distill.Summarizer = (*Summarizer)(nil)

// Summarizer implements distill.Summarizer using Google Gemini.
type Summarizer struct {
	client *genai.Client
	model  string
}

// NewSummarizer creates a new Summarizer. An empty model selects
// DefaultModel.
func NewSummarizer(client *genai.Client, model string) *Summarizer {
	if model == "" {
		model = DefaultModel
	}
	return &Summarizer{client: client, model: model}
}

// Summarize asks for a description and keywords of text. The answer is
// returned as given; bounds are applied by the caller.
func (s *Summarizer) Summarize(ctx context.Context, text string) (*distill.Summary, error) {
	if strings.TrimSpace(text) == "" {
		return nil, distill.Errorf(distill.EINVALID, "text required")
	}

	raw, err := generate(ctx, s.client, s.model,
		[]*genai.Part{{Text: BuildSummaryPrompt(text)}},
		BuildSummaryConfig(),
	)
	if err != nil {
		return nil, err
	}
	return ParseSummary(raw)
}

// BuildSummaryConfig returns the GenerateContentConfig for summary calls.
// The answer is constrained to a JSON object.
func BuildSummaryConfig() *genai.GenerateContentConfig {
	temp := float32(0.2)
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{
				Text: "You write metadata for web pages. Answer in the language of the page.",
			}},
		},
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"description": {Type: genai.TypeString},
				"keywords":    {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
			},
			Required: []string{"description", "keywords"},
		},
	}
}

// BuildSummaryPrompt builds the user prompt for text.
func BuildSummaryPrompt(text string) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following page content and return:\n")
	sb.WriteString("1. A concise description of at most 200 characters\n")
	sb.WriteString("2. The 10 most important keywords\n\n")
	sb.WriteString(`Answer only with a JSON object: {"description": "...", "keywords": ["...", "..."]}`)
	sb.WriteString("\n\n<content>\n")
	sb.WriteString(text)
	sb.WriteString("\n</content>")
	return sb.String()
}

// ParseSummary decodes a model answer. A surrounding markdown code fence
// is ignored.
func ParseSummary(raw string) (*distill.Summary, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	}

	var summary distill.Summary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, distill.Errorf(distill.EINTERNAL, "unparsable summary: %v", err)
	}
	return &summary, nil
}
