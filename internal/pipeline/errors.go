package pipeline

import (
	"errors"
	"fmt"

	"github.com/nguyentantai21042004/cram-flow/internal/task"
)

var (
	// ErrShuttingDown rejects uploads once Shutdown started.
	ErrShuttingDown = errors.New("service shutting down")
	// ErrNarrationNotFound means the task has no narration file (yet).
	ErrNarrationNotFound = errors.New("audio not found")
)

// ValidationError rejects an upload before any task is created.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StageError is a collaborator failure attributed to the stage it happened in.
type StageError struct {
	Stage task.Status
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NotReadyError is returned for results of a task still being processed.
type NotReadyError struct {
	Status task.Status
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("Task not completed. Current status: %s", e.Status)
}

// FailedError is returned for results of a failed task and carries its error.
type FailedError struct {
	Message string
}

func (e *FailedError) Error() string {
	return e.Message
}
