// Package gemini provides Google Gemini implementations of the distill AI
// collaborators: page summaries, image captions and token counting.
package gemini

import (
	"context"

	"github.com/fwojciec/distill"
	"google.golang.org/genai"
)

// DefaultModel is the model used for summaries and captions.
const DefaultModel = "gemini-2.5-flash"

// NewClient creates a Gemini API client authenticated with apiKey.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, distill.Errorf(distill.EINVALID, "Gemini API key required")
	}
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// generate sends parts to model and returns the text of the answer.
func generate(ctx context.Context, client *genai.Client, model string, parts []*genai.Part, config *genai.GenerateContentConfig) (string, error) {
	if client == nil {
		return "", distill.Errorf(distill.EUNAVAILABLE, "gemini client not configured")
	}

	result, err := client.Models.GenerateContent(ctx, model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)},
		config,
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", distill.Errorf(distill.EINTERNAL, "gemini returned nil result")
	}
	return result.Text(), nil
}
