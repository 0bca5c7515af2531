package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Transcribe runs whisper.cpp on a 16kHz mono WAV and returns the plain text.
func (w *implWhisper) Transcribe(ctx context.Context, audioPath string) (string, error) {
	// whisper appends .txt to the prefix
	outputPrefix := strings.TrimSuffix(audioPath, filepath.Ext(audioPath))
	txtPath := outputPrefix + ".txt"

	w.logger.Info(ctx, "Starting transcription with %d threads: %s", w.cfg.Threads, audioPath)

	// -otxt: plain text output, -l: force language (prevents hallucination),
	// -bo 5: best of 5 candidates
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", audioPath,
		"-otxt",
		"-l", w.cfg.Language,
		"-t", strconv.Itoa(w.cfg.Threads),
		"-bo", "5",
		"--output-file", outputPrefix,
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--prompt", w.cfg.Prompt)
	}

	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}
	defer func() {
		if err := os.Remove(txtPath); err != nil && !os.IsNotExist(err) {
			w.logger.Warn(ctx, "Failed to cleanup transcript file %s: %v", txtPath, err)
		}
	}()

	data, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}

	text := normalize(string(data))
	if text == "" {
		return "", fmt.Errorf("whisper transcribe: no speech detected in %s", filepath.Base(audioPath))
	}

	w.logger.Info(ctx, "Transcription completed: %d characters", len(text))
	return text, nil
}

// normalize joins whisper's per-segment lines into one paragraph.
func normalize(raw string) string {
	lines := strings.Split(raw, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, " ")
}
