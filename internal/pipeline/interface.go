package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/cram-flow/internal/task"
)

// AudioExtractor pulls the audio track out of a video.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, videoPath, taskID string) (string, error)
}

// Transcriber converts audio to plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// ContentGenerator produces notes, narration text and a quiz from a transcript.
type ContentGenerator interface {
	GenerateNotes(ctx context.Context, transcript string) ([]task.Section, error)
	SummarizeForNarration(ctx context.Context, notes []task.Section) (string, error)
	GenerateQuiz(ctx context.Context, transcript string, notes []task.Section, count int) ([]task.Question, error)
}

// Synthesizer reads narration text aloud into an audio file.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, taskID string) (string, error)
}

// Service accepts uploads, drives them through the pipeline and answers
// status queries.
type Service interface {
	// Submit validates and stores the upload, creates a pending task and
	// starts processing it in the background.
	Submit(ctx context.Context, in Upload) (string, error)
	Status(id string) (StatusView, error)
	// Results is only available once the task completed.
	Results(id string) (Results, error)
	// Narration returns the path of the synthesized narration.
	Narration(id string) (string, error)
	// Delete removes the task and its files.
	Delete(ctx context.Context, id string) error
	List(limit int) []StatusView
	// Shutdown stops accepting uploads and waits for running pipelines.
	Shutdown(ctx context.Context) error
}
