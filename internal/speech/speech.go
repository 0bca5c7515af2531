package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/cram-flow/internal/gemini"
	"google.golang.org/genai"
)

// Gemini TTS answers with headerless 16-bit mono PCM.
const defaultPCMRate = 24000

// Synthesize asks Gemini for speech and encodes the PCM answer to MP3.
func (s *implGemini) Synthesize(ctx context.Context, text, taskID string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("synthesize speech: empty narration text")
	}

	s.logger.Info(ctx, "Synthesizing narration with %s (voice %s): %d characters", s.model, s.voice, len(text))

	result, err := s.client.GenerateContent(ctx, s.model, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{VoiceName: s.voice},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("synthesize speech: %w", err)
	}

	blob, err := gemini.InlineData(result)
	if err != nil {
		return "", fmt.Errorf("synthesize speech: %w", err)
	}

	pcm, err := os.CreateTemp(s.tempDir, taskID+"-*.pcm")
	if err != nil {
		return "", fmt.Errorf("create pcm file: %w", err)
	}
	defer os.Remove(pcm.Name())

	if _, err := pcm.Write(blob.Data); err != nil {
		pcm.Close()
		return "", fmt.Errorf("write pcm file: %w", err)
	}
	if err := pcm.Close(); err != nil {
		return "", fmt.Errorf("close pcm file: %w", err)
	}

	outputPath := voicePath(s.outputDir, taskID)
	inputArgs := []string{"-f", "s16le", "-ar", strconv.Itoa(pcmRate(blob.MIMEType)), "-ac", "1"}
	if err := s.encoder.EncodeMP3(ctx, pcm.Name(), inputArgs, outputPath); err != nil {
		return "", fmt.Errorf("synthesize speech: %w", err)
	}

	s.logger.Info(ctx, "Narration written: %s", outputPath)
	return outputPath, nil
}

// Synthesize renders the text to WAV with espeak-ng and encodes it to MP3.
func (s *implEspeak) Synthesize(ctx context.Context, text, taskID string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("synthesize speech: empty narration text")
	}

	workDir, err := os.MkdirTemp(s.tempDir, "espeak-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	textPath := filepath.Join(workDir, "narration.txt")
	wavPath := filepath.Join(workDir, "narration.wav")
	if err := os.WriteFile(textPath, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("write narration text: %w", err)
	}

	s.logger.Info(ctx, "Synthesizing narration with espeak-ng (voice %s): %d characters", s.voice, len(text))

	if _, err := s.executor.Execute(ctx, s.binaryPath, "-v", s.voice, "-f", textPath, "-w", wavPath); err != nil {
		return "", fmt.Errorf("espeak synthesize: %w", err)
	}

	outputPath := voicePath(s.outputDir, taskID)
	if err := s.encoder.EncodeMP3(ctx, wavPath, nil, outputPath); err != nil {
		return "", fmt.Errorf("synthesize speech: %w", err)
	}

	s.logger.Info(ctx, "Narration written: %s", outputPath)
	return outputPath, nil
}

func voicePath(outputDir, taskID string) string {
	return filepath.Join(outputDir, taskID+"_voice.mp3")
}

// pcmRate reads the sample rate from a mime type like
// "audio/L16;codec=pcm;rate=24000".
func pcmRate(mimeType string) int {
	for _, param := range strings.Split(mimeType, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok || !strings.EqualFold(key, "rate") {
			continue
		}
		if rate, err := strconv.Atoi(value); err == nil && rate > 0 {
			return rate
		}
	}
	return defaultPCMRate
}
