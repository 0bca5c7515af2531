package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nguyentantai21042004/cram-flow/pkg/executor"
)

// ExtractAudio extracts audio from a video file and converts it to 16kHz mono WAV,
// the input format whisper.cpp expects.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, taskID string) (string, error) {
	if _, err := os.Stat(videoPath); err != nil {
		return "", fmt.Errorf("source video: %w", err)
	}

	audioPath := filepath.Join(f.outputDir, taskID+"_audio.wav")

	f.logger.Info(ctx, "Extracting audio: %s -> %s", videoPath, audioPath)

	// -vn: drop video, -ac 1: mono, pcm_s16le: uncompressed 16-bit
	args := []string{
		"-i", videoPath,
		"-vn",
		"-ar", strconv.Itoa(f.cfg.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		audioPath,
	}

	if _, err := f.executor.Execute(ctx, f.cfg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("ffmpeg extract audio: %w", explain(err))
	}

	f.logger.Info(ctx, "Audio extracted successfully: %s", audioPath)
	return audioPath, nil
}

// EncodeMP3 converts inputPath to MP3. inputArgs are placed before -i and
// describe headerless input such as raw PCM.
func (f *FFmpeg) EncodeMP3(ctx context.Context, inputPath string, inputArgs []string, outputPath string) error {
	args := append([]string{}, inputArgs...)
	args = append(args,
		"-i", inputPath,
		"-vn",
		"-c:a", "libmp3lame",
		"-b:a", f.cfg.MP3Bitrate,
		"-y",
		outputPath,
	)

	f.logger.Debug(ctx, "Encoding MP3: %s -> %s", inputPath, outputPath)

	if _, err := f.executor.Execute(ctx, f.cfg.BinaryPath, args...); err != nil {
		return fmt.Errorf("ffmpeg encode mp3: %w", explain(err))
	}
	return nil
}

var errFFmpegMissing = errors.New("ffmpeg not found, install it with: brew install ffmpeg (Mac) or apt install ffmpeg (Linux)")

func explain(err error) error {
	var cmdErr *executor.CommandError
	if errors.As(err, &cmdErr) && cmdErr.NotFound() {
		return fmt.Errorf("%w: %v", errFFmpegMissing, err)
	}
	return err
}
