package transcriber

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/cram-flow/internal/config"
	"github.com/nguyentantai21042004/cram-flow/internal/logger"
	"google.golang.org/genai"
)

// fakeExecutor simulates whisper writing its .txt output.
type fakeExecutor struct {
	output string
	err    error
	args   []string
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.args = args
	if f.err != nil {
		return "", f.err
	}
	prefix := argValue(args, "--output-file")
	if err := os.WriteFile(prefix+".txt", []byte(f.output), 0644); err != nil {
		return "", err
	}
	return "", nil
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func argValue(args []string, key string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == key {
			return args[i+1]
		}
	}
	return ""
}

func whisperConfig() config.WhisperConfig {
	return config.WhisperConfig{
		ModelPath:  "models/ggml-base.bin",
		BinaryPath: "whisper-cli",
		Language:   "en",
		Threads:    4,
	}
}

func TestWhisperTranscribe(t *testing.T) {
	audio := filepath.Join(t.TempDir(), "t1_audio.wav")
	exec := &fakeExecutor{output: " Hello students.\n\n Today we cover graphs.\n"}

	w := NewWhisper(whisperConfig(), exec, logger.New("error"))
	text, err := w.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "Hello students. Today we cover graphs." {
		t.Errorf("text = %q", text)
	}
	if argValue(exec.args, "-l") != "en" || argValue(exec.args, "-t") != "4" {
		t.Errorf("args = %v", exec.args)
	}
	if _, err := os.Stat(strings.TrimSuffix(audio, ".wav") + ".txt"); !os.IsNotExist(err) {
		t.Error("transcript file should be removed")
	}
}

func TestWhisperTranscribeErrors(t *testing.T) {
	tests := []struct {
		name string
		exec *fakeExecutor
	}{
		{"command fails", &fakeExecutor{err: errors.New("exit status 1")}},
		{"empty transcript", &fakeExecutor{output: "\n \n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audio := filepath.Join(t.TempDir(), "a.wav")
			w := NewWhisper(whisperConfig(), tt.exec, logger.New("error"))
			if _, err := w.Transcribe(context.Background(), audio); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

type fakeGemini struct {
	contents []*genai.Content
	result   *genai.GenerateContentResponse
	err      error
}

func (f *fakeGemini) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.contents = contents
	return f.result, f.err
}

func TestGeminiTranscribe(t *testing.T) {
	audio := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(audio, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}
	client := &fakeGemini{result: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: "  lecture text \n"}}},
		}},
	}}

	g := NewGemini(client, "gemini-2.5-flash", logger.New("error"))
	text, err := g.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if text != "lecture text" {
		t.Errorf("text = %q", text)
	}

	parts := client.contents[0].Parts
	if len(parts) != 2 || parts[1].InlineData == nil || parts[1].InlineData.MIMEType != "audio/wav" {
		t.Errorf("unexpected request parts: %+v", parts)
	}
}

func TestGeminiTranscribeEmptyResponse(t *testing.T) {
	audio := filepath.Join(t.TempDir(), "a.wav")
	if err := os.WriteFile(audio, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}
	g := NewGemini(&fakeGemini{result: &genai.GenerateContentResponse{}}, "m", logger.New("error"))
	if _, err := g.Transcribe(context.Background(), audio); err == nil {
		t.Fatal("expected error for empty response")
	}
}

func TestAudioMIMEType(t *testing.T) {
	tests := map[string]string{
		"a.wav":  "audio/wav",
		"a.MP3":  "audio/mp3",
		"a.flac": "audio/flac",
		"a":      "audio/wav",
	}
	for path, want := range tests {
		if got := audioMIMEType(path); got != want {
			t.Errorf("audioMIMEType(%q) = %q, want %q", path, got, want)
		}
	}
}
