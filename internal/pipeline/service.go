package pipeline

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/cram-flow/internal/logger"
	"github.com/nguyentantai21042004/cram-flow/internal/media"
	"github.com/nguyentantai21042004/cram-flow/internal/task"
)

// Submit validates the upload, stores it and hands the new task to a goroutine.
// It returns as soon as the task is PENDING.
func (s *implService) Submit(ctx context.Context, in Upload) (string, error) {
	if err := s.validate(in); err != nil {
		return "", err
	}

	if err := s.reserve(); err != nil {
		return "", err
	}
	started := false
	defer func() {
		if !started {
			s.wg.Done()
		}
	}()

	id := s.newID()
	ctx = logger.WithTaskID(ctx, id)
	sourcePath := filepath.Join(s.opts.UploadDir, id+"_"+safeName(in.Filename))

	if err := in.Save(sourcePath); err != nil {
		media.RemoveFiles(ctx, s.logger, sourcePath)
		return "", fmt.Errorf("save upload: %w", err)
	}

	err := s.store.Create(task.Task{
		ID:          id,
		Status:      task.StatusPending,
		Progress:    0,
		CurrentStep: stepQueued,
		SourcePath:  sourcePath,
		SourceName:  in.Filename,
	})
	if err != nil {
		media.RemoveFiles(ctx, s.logger, sourcePath)
		return "", fmt.Errorf("create task: %w", err)
	}

	s.logger.Info(ctx, "Accepted %s (%d bytes)", in.Filename, in.Size)

	started = true
	go s.process(id)
	return id, nil
}

// reserve counts a pipeline goroutine in before it exists so Shutdown
// cannot miss it.
func (s *implService) reserve() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrShuttingDown
	}
	s.wg.Add(1)
	return nil
}

func (s *implService) validate(in Upload) error {
	if strings.TrimSpace(in.Filename) == "" {
		return &ValidationError{Field: "file", Message: "No file uploaded"}
	}
	if !s.allowedType(in.ContentType) {
		return &ValidationError{
			Field:   "content_type",
			Message: fmt.Sprintf("Invalid file type %q. Allowed: %s", in.ContentType, strings.Join(s.opts.AllowedTypes, ", ")),
		}
	}
	if in.Size <= 0 {
		return &ValidationError{Field: "file", Message: "Uploaded file is empty"}
	}
	if s.opts.MaxUploadBytes > 0 && in.Size > s.opts.MaxUploadBytes {
		return &ValidationError{
			Field:   "file",
			Message: fmt.Sprintf("File too large. Maximum size: %dMB", s.opts.MaxUploadBytes/(1024*1024)),
		}
	}
	if in.Save == nil {
		return &ValidationError{Field: "file", Message: "Upload has no content"}
	}
	return nil
}

func (s *implService) allowedType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	for _, allowed := range s.opts.AllowedTypes {
		if strings.EqualFold(mediaType, allowed) {
			return true
		}
	}
	return false
}

// Status returns the current snapshot without waiting on the pipeline.
func (s *implService) Status(id string) (StatusView, error) {
	t, err := s.store.Get(id)
	if err != nil {
		return StatusView{}, err
	}
	return viewOf(t), nil
}

// Results returns notes, quiz and narration of a completed task.
func (s *implService) Results(id string) (Results, error) {
	t, err := s.store.Get(id)
	if err != nil {
		return Results{}, err
	}

	switch t.Status {
	case task.StatusCompleted:
		return Results{
			TaskID:     t.ID,
			SourceName: t.SourceName,
			Notes:      t.Notes,
			Quiz:       t.Quiz,
			AudioPath:  t.AudioPath,
		}, nil
	case task.StatusFailed:
		return Results{}, &FailedError{Message: t.Error}
	default:
		return Results{}, &NotReadyError{Status: t.Status}
	}
}

// Narration returns the narration path if the file is still on disk.
func (s *implService) Narration(id string) (string, error) {
	t, err := s.store.Get(id)
	if err != nil {
		return "", err
	}
	if t.AudioPath == "" {
		return "", ErrNarrationNotFound
	}
	if _, err := os.Stat(t.AudioPath); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNarrationNotFound, err)
	}
	return t.AudioPath, nil
}

// Delete removes the record, its narration and the source video if it is
// still around. A running pipeline notices on its next write and stops.
func (s *implService) Delete(ctx context.Context, id string) error {
	t, err := s.store.Delete(id)
	if err != nil {
		return err
	}
	ctx = logger.WithTaskID(ctx, id)
	media.RemoveFiles(ctx, s.logger, t.AudioPath, t.SourcePath)
	s.logger.Info(ctx, "Task deleted (status %s)", t.Status)
	return nil
}

// List returns the newest tasks first.
func (s *implService) List(limit int) []StatusView {
	tasks := s.store.List(limit)
	out := make([]StatusView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, viewOf(t))
	}
	return out
}

// Shutdown rejects new uploads, fails tasks still queued and waits for
// running pipelines. When ctx ends first, running collaborator calls are
// cancelled and their tasks fail.
func (s *implService) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.cancelQueue()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancelRun()
		return nil
	case <-ctx.Done():
		s.cancelRun()
		<-done
		return fmt.Errorf("shutdown: %w", ctx.Err())
	}
}

// safeName keeps only the base name of a client supplied filename.
func safeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}

// IsNotFound reports whether err means the task or its narration is unknown.
func IsNotFound(err error) bool {
	return errors.Is(err, task.ErrTaskNotFound) || errors.Is(err, ErrNarrationNotFound)
}
