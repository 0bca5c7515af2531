package gemini

import (
	"context"

	"google.golang.org/genai"
)

// Client sends GenerateContent requests to Gemini.
type Client interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}
