package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/distill"
	"google.golang.org/genai"
)

// Ensure Captioner implements distill.Captioner at compile time.
var _ distill.Captioner = (*Captioner)(nil)

// CaptionPrompt asks for alt text.
const CaptionPrompt = "Describe this image in one or two short sentences for use as alt text. Be precise and descriptive. Answer with the description only."

// Captioner implements distill.Captioner using Google Gemini.
type Captioner struct {
	client *genai.Client
	model  string
}

// NewCaptioner creates a new Captioner. An empty model selects
// DefaultModel.
func NewCaptioner(client *genai.Client, model string) *Captioner {
	if model == "" {
		model = DefaultModel
	}
	return &Captioner{client: client, model: model}
}

// Caption returns a short description of image.
func (c *Captioner) Caption(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", distill.Errorf(distill.EINVALID, "image required")
	}
	if !strings.HasPrefix(mimeType, "image/") || mimeType == "image/svg+xml" {
		return "", distill.Errorf(distill.EINVALID, "unsupported image type %q", mimeType)
	}

	temp := float32(0.2)
	text, err := generate(ctx, c.client, c.model,
		[]*genai.Part{
			genai.NewPartFromBytes(image, mimeType),
			{Text: CaptionPrompt},
		},
		&genai.GenerateContentConfig{Temperature: &temp},
	)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
