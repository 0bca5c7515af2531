package media

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/cram-flow/internal/config"
	"github.com/nguyentantai21042004/cram-flow/internal/logger"
	"github.com/nguyentantai21042004/cram-flow/pkg/executor"
)

type fakeExecutor struct {
	calls [][]string
	err   error
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return "", f.err
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func testConfig() config.FFmpegConfig {
	return config.FFmpegConfig{BinaryPath: "ffmpeg", SampleRate: 16000, MP3Bitrate: "128k"}
}

func TestExtractAudio(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "lecture.mp4")
	if err := os.WriteFile(video, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	runner := &fakeExecutor{}
	f := New(testConfig(), dir, runner, logger.New("error"))

	audio, err := f.ExtractAudio(context.Background(), video, "t1")
	if err != nil {
		t.Fatalf("ExtractAudio() error = %v", err)
	}
	if audio != filepath.Join(dir, "t1_audio.wav") {
		t.Errorf("audio path = %q", audio)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(runner.calls))
	}
	cmd := strings.Join(runner.calls[0], " ")
	for _, want := range []string{"ffmpeg -i " + video, "-vn", "-ar 16000", "-ac 1", audio} {
		if !strings.Contains(cmd, want) {
			t.Errorf("command %q missing %q", cmd, want)
		}
	}
}

func TestExtractAudioMissingVideo(t *testing.T) {
	runner := &fakeExecutor{}
	f := New(testConfig(), t.TempDir(), runner, logger.New("error"))

	if _, err := f.ExtractAudio(context.Background(), "/nope/video.mp4", "t1"); err == nil {
		t.Fatal("expected error for missing video")
	}
	if len(runner.calls) != 0 {
		t.Errorf("ffmpeg should not run, calls = %v", runner.calls)
	}
}

func TestExtractAudioMissingFFmpeg(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "lecture.mp4")
	if err := os.WriteFile(video, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	runner := &fakeExecutor{err: &executor.CommandError{Name: "ffmpeg", ExitCode: -1, Err: exec.ErrNotFound}}
	f := New(testConfig(), dir, runner, logger.New("error"))

	_, err := f.ExtractAudio(context.Background(), video, "t1")
	if !errors.Is(err, errFFmpegMissing) {
		t.Fatalf("error = %v, want %v", err, errFFmpegMissing)
	}
}

func TestEncodeMP3(t *testing.T) {
	runner := &fakeExecutor{}
	f := New(testConfig(), t.TempDir(), runner, logger.New("error"))

	err := f.EncodeMP3(context.Background(), "in.pcm", []string{"-f", "s16le", "-ar", "24000"}, "out.mp3")
	if err != nil {
		t.Fatalf("EncodeMP3() error = %v", err)
	}
	cmd := strings.Join(runner.calls[0], " ")
	if !strings.HasPrefix(cmd, "ffmpeg -f s16le -ar 24000 -i in.pcm") {
		t.Errorf("command = %q, input args must precede -i", cmd)
	}
	if !strings.Contains(cmd, "-b:a 128k") || !strings.HasSuffix(cmd, "out.mp3") {
		t.Errorf("command = %q", cmd)
	}
}

func TestRemoveFiles(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	if err := os.WriteFile(a, nil, 0644); err != nil {
		t.Fatal(err)
	}

	RemoveFiles(context.Background(), logger.New("error"), a, "", filepath.Join(dir, "missing"))

	if _, err := os.Stat(a); !os.IsNotExist(err) {
		t.Errorf("file still exists: %v", err)
	}
}
