package pipeline

import (
	"time"

	"github.com/nguyentantai21042004/cram-flow/internal/task"
)

// Upload is a video waiting to be accepted.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	// Save writes the video to dst. It is only called after validation passed.
	Save func(dst string) error
}

// StatusView is what pollers see of a task.
type StatusView struct {
	TaskID      string      `json:"task_id"`
	Status      task.Status `json:"status"`
	Progress    int         `json:"progress"`
	CurrentStep string      `json:"current_step"`
	SourceName  string      `json:"source_name,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Results are the study materials of a completed task.
type Results struct {
	TaskID     string
	SourceName string
	Notes      []task.Section
	Quiz       []task.Question
	AudioPath  string
}

// Options tune the service.
type Options struct {
	UploadDir      string
	MaxUploadBytes int64
	AllowedTypes   []string
	MaxConcurrent  int
	QuizQuestions  int
	// StageTimeout bounds each stage; zero means no limit.
	StageTimeout time.Duration
}

// Collaborators are the external capabilities the pipeline calls.
type Collaborators struct {
	Extractor   AudioExtractor
	Transcriber Transcriber
	Generator   ContentGenerator
	Synthesizer Synthesizer
}

func viewOf(t task.Task) StatusView {
	return StatusView{
		TaskID:      t.ID,
		Status:      t.Status,
		Progress:    t.Progress,
		CurrentStep: t.CurrentStep,
		SourceName:  t.SourceName,
		CreatedAt:   t.CreatedAt,
	}
}
