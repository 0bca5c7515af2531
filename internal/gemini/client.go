package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

type generateFunc func(ctx context.Context, key, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)

// keyState is shared by concurrent pipelines.
type keyState struct {
	mu         sync.Mutex
	currentKey int
	clients    map[string]*genai.Client
}

// GenerateContent calls Gemini with the current key and rotates keys on
// 429 / quota errors until every key was tried once.
func (c *implClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	var lastErr error

	for range len(c.apiKeys) {
		idx, key := c.current()

		result, err := c.call(ctx, key, model, contents, config)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("generate content: %w", ctx.Err())
			}
			if isRateLimited(err) {
				c.logger.Warn(ctx, "Gemini key %d rate limited, rotating...", idx+1)
				c.rotateFrom(idx)
				lastErr = err
				continue
			}
			return nil, fmt.Errorf("generate content: %w", err)
		}
		return result, nil
	}

	return nil, fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (c *implClient) current() (int, string) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	return c.state.currentKey, c.apiKeys[c.state.currentKey]
}

// rotateFrom advances past idx unless another goroutine already did.
func (c *implClient) rotateFrom(idx int) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	if c.state.currentKey == idx {
		c.state.currentKey = (idx + 1) % len(c.apiKeys)
	}
}

func (c *implClient) generateWithKey(ctx context.Context, key, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	client, err := c.clientFor(ctx, key)
	if err != nil {
		return nil, err
	}
	return client.Models.GenerateContent(ctx, model, contents, config)
}

func (c *implClient) clientFor(ctx context.Context, key string) (*genai.Client, error) {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()

	if client, ok := c.state.clients[key]; ok {
		return client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	c.state.clients[key] = client
	return client, nil
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// ErrEmptyResponse means Gemini answered without any usable candidate part.
var ErrEmptyResponse = errors.New("empty response from Gemini")

// Text concatenates the text parts of the first candidate.
func Text(result *genai.GenerateContentResponse) (string, error) {
	parts, err := firstParts(result)
	if err != nil {
		return "", err
	}
	var text strings.Builder
	for _, part := range parts {
		if part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}

// InlineData returns the first inline blob of the first candidate.
func InlineData(result *genai.GenerateContentResponse) (*genai.Blob, error) {
	parts, err := firstParts(result)
	if err != nil {
		return nil, err
	}
	for _, part := range parts {
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData, nil
		}
	}
	return nil, ErrEmptyResponse
}

func firstParts(result *genai.GenerateContentResponse) ([]*genai.Part, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, ErrEmptyResponse
	}
	return result.Candidates[0].Content.Parts, nil
}
