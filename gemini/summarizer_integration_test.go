//go:build integration

package gemini_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/fwojciec/distill/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizer_Integration_ReturnsSummary(t *testing.T) {
	t.Parallel()

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := gemini.NewClient(ctx, apiKey)
	require.NoError(t, err)

	summary, err := gemini.NewSummarizer(client, "").Summarize(ctx, `# Getting Started

Install the library with go get, then create a client with NewClient and
call Connect to open a session. Sessions are closed with Close.`)

	require.NoError(t, err)
	assert.NotEmpty(t, summary.Description)
	assert.NotEmpty(t, summary.Keywords)
}
