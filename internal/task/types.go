package task

import "time"

// Status is the lifecycle state of a task.
type Status string

const (
	StatusPending         Status = "pending"
	StatusExtractingAudio Status = "extracting_audio"
	StatusTranscribing    Status = "transcribing"
	StatusGeneratingNotes Status = "generating_notes"
	StatusCreatingVoice   Status = "creating_voice"
	StatusBuildingQuiz    Status = "building_quiz"
	StatusCompleted       Status = "completed"
	StatusFailed          Status = "failed"
)

// Terminal reports whether no further transitions can happen from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Section is one titled block of study notes.
type Section struct {
	Title   string   `json:"title"`
	Content []string `json:"content"`
}

// Option is one labeled answer of a quiz question.
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a multiple choice quiz question.
type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []Option `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// Task is the processing record of one uploaded video.
type Task struct {
	ID          string     `json:"task_id"`
	Status      Status     `json:"status"`
	Progress    int        `json:"progress"`
	CurrentStep string     `json:"current_step"`
	Notes       []Section  `json:"notes,omitempty"`
	Quiz        []Question `json:"quiz,omitempty"`
	AudioPath   string     `json:"-"`
	Error       string     `json:"error,omitempty"`
	SourcePath  string     `json:"-"`
	SourceName  string     `json:"source_name,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
