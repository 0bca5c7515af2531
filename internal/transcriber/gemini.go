package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/cram-flow/internal/gemini"
	"google.golang.org/genai"
)

// maxInlineAudio is the request size Gemini accepts for inline data.
const maxInlineAudio = 20 * 1024 * 1024

const transcribePrompt = `Transcribe the speech in this lecture recording verbatim.
Return only the spoken words as plain text, without timestamps, speaker labels or commentary.`

// Transcribe uploads the audio inline and asks Gemini for a verbatim transcript.
func (g *implGemini) Transcribe(ctx context.Context, audioPath string) (string, error) {
	data, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}
	if len(data) > maxInlineAudio {
		return "", fmt.Errorf("audio %s is %d bytes, inline limit is %d", filepath.Base(audioPath), len(data), maxInlineAudio)
	}

	g.logger.Info(ctx, "Transcribing with %s: %s", g.model, audioPath)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(transcribePrompt),
			genai.NewPartFromBytes(data, audioMIMEType(audioPath)),
		}, genai.RoleUser),
	}

	result, err := g.client.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0),
	})
	if err != nil {
		return "", fmt.Errorf("gemini transcribe: %w", err)
	}

	text, err := gemini.Text(result)
	if err != nil {
		return "", fmt.Errorf("gemini transcribe: %w", err)
	}

	g.logger.Info(ctx, "Transcription completed: %d characters", len(text))
	return strings.TrimSpace(text), nil
}

func audioMIMEType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return "audio/mp3"
	case ".flac":
		return "audio/flac"
	case ".ogg":
		return "audio/ogg"
	default:
		return "audio/wav"
	}
}
