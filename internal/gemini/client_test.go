package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/nguyentantai21042004/cram-flow/internal/logger"
	"google.golang.org/genai"
)

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestClient(t *testing.T, keys []string, call generateFunc) *implClient {
	t.Helper()
	c, err := New(keys, logger.New("error"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	impl := c.(*implClient)
	impl.call = call
	return impl
}

func TestNewWithoutKeys(t *testing.T) {
	if _, err := New(nil, logger.New("error")); !errors.Is(err, ErrNoAPIKeys) {
		t.Fatalf("New(nil) error = %v, want %v", err, ErrNoAPIKeys)
	}
}

func TestGenerateContentRotatesOnRateLimit(t *testing.T) {
	var used []string
	c := newTestClient(t, []string{"k1", "k2", "k3"}, func(ctx context.Context, key, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		used = append(used, key)
		if key == "k3" {
			return textResponse("ok"), nil
		}
		return nil, errors.New("Error 429, RESOURCE_EXHAUSTED")
	})

	result, err := c.GenerateContent(context.Background(), "m", genai.Text("hi"), nil)
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if text, _ := Text(result); text != "ok" {
		t.Errorf("text = %q, want ok", text)
	}
	if len(used) != 3 || used[0] != "k1" || used[2] != "k3" {
		t.Errorf("keys used = %v", used)
	}

	// the working key stays current for the next call
	used = nil
	if _, err := c.GenerateContent(context.Background(), "m", genai.Text("hi"), nil); err != nil {
		t.Fatal(err)
	}
	if len(used) != 1 || used[0] != "k3" {
		t.Errorf("second call keys = %v, want [k3]", used)
	}
}

func TestGenerateContentAllKeysExhausted(t *testing.T) {
	calls := 0
	c := newTestClient(t, []string{"k1", "k2"}, func(ctx context.Context, key, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		calls++
		return nil, errors.New("quota exceeded")
	})

	if _, err := c.GenerateContent(context.Background(), "m", genai.Text("hi"), nil); err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestGenerateContentOtherErrorStops(t *testing.T) {
	calls := 0
	boom := errors.New("invalid argument")
	c := newTestClient(t, []string{"k1", "k2"}, func(ctx context.Context, key, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
		calls++
		return nil, boom
	})

	_, err := c.GenerateContent(context.Background(), "m", genai.Text("hi"), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped %v", err, boom)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name    string
		result  *genai.GenerateContentResponse
		want    string
		wantErr bool
	}{
		{"nil response", nil, "", true},
		{"no candidates", &genai.GenerateContentResponse{}, "", true},
		{"blank text", textResponse("  "), "", true},
		{"joined parts", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{Text: "a"}, {Text: "b"}}},
			}},
		}, "ab", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text(tt.result)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Text() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInlineData(t *testing.T) {
	result := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{
				{Text: "ignored"},
				{InlineData: &genai.Blob{MIMEType: "audio/L16;rate=24000", Data: []byte{1, 2}}},
			}},
		}},
	}

	blob, err := InlineData(result)
	if err != nil {
		t.Fatalf("InlineData() error = %v", err)
	}
	if len(blob.Data) != 2 {
		t.Errorf("data len = %d, want 2", len(blob.Data))
	}

	if _, err := InlineData(textResponse("x")); !errors.Is(err, ErrEmptyResponse) {
		t.Errorf("InlineData(text only) error = %v, want %v", err, ErrEmptyResponse)
	}
}
