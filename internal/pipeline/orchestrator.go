package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/cram-flow/internal/logger"
	"github.com/nguyentantai21042004/cram-flow/internal/media"
	"github.com/nguyentantai21042004/cram-flow/internal/task"
)

// runState carries stage outputs from one stage to the next.
type runState struct {
	stage      task.Status
	videoPath  string
	audioPath  string
	transcript string
	notes      []task.Section
	voicePath  string
}

type stageFunc func(s *implService, ctx context.Context, id string, st *runState) error

type stage struct {
	status   task.Status
	progress int
	step     string
	run      stageFunc
}

// stages run in this order; progress only grows along it.
var stages = []stage{
	{task.StatusExtractingAudio, 10, "Extracting audio from video...", (*implService).extractAudio},
	{task.StatusTranscribing, 30, "Transcribing speech to text...", (*implService).transcribe},
	{task.StatusGeneratingNotes, 50, "Generating study notes...", (*implService).generateNotes},
	{task.StatusCreatingVoice, 70, "Creating voice summary...", (*implService).createVoice},
	{task.StatusBuildingQuiz, 90, "Building interactive quiz...", (*implService).buildQuiz},
}

const (
	stepQueued   = "Queued for processing..."
	stepComplete = "Processing complete!"
)

// process waits for a pipeline slot and runs the task.
func (s *implService) process(id string) {
	defer s.wg.Done()
	ctx := logger.WithTaskID(s.runCtx, id)

	if busy := s.slots.busy(); busy >= s.slots.size() {
		s.logger.Info(ctx, "Waiting for a pipeline slot (%d/%d busy)", busy, s.slots.size())
	}
	if err := s.slots.take(s.queueCtx); err != nil {
		s.logger.Warn(ctx, "Task dropped before it started: %v", err)
		s.fail(ctx, id, &runState{stage: task.StatusPending}, &StageError{Stage: task.StatusPending, Err: ErrShuttingDown})
		return
	}
	defer s.slots.put()

	s.run(ctx, id)
}

// run drives one task through every stage. Nothing escapes it: collaborator
// errors and panics end in FAILED.
func (s *implService) run(ctx context.Context, id string) {
	t, err := s.store.Get(id)
	if err != nil {
		s.logger.Warn(ctx, "Task vanished before processing: %v", err)
		return
	}

	startTime := time.Now()
	st := &runState{stage: task.StatusPending, videoPath: t.SourcePath}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error(ctx, "Panic in stage %s: %v", st.stage, r)
			s.fail(ctx, id, st, &StageError{Stage: st.stage, Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	s.logger.Info(ctx, "Starting pipeline for %s", t.SourceName)

	for _, stg := range stages {
		if err := s.enter(id, stg); err != nil {
			s.abandon(ctx, id, st, err)
			return
		}
		st.stage = stg.status
		s.logger.Info(ctx, "Stage %s (%d%%)", stg.status, stg.progress)

		if err := s.runStage(ctx, id, stg, st); err != nil {
			if errors.Is(err, task.ErrTaskNotFound) {
				s.abandon(ctx, id, st, err)
				return
			}
			s.fail(ctx, id, st, &StageError{Stage: stg.status, Err: err})
			return
		}
	}

	media.RemoveFiles(ctx, s.logger, st.videoPath, st.audioPath)
	s.logger.Info(ctx, "Processing completed successfully in %s", time.Since(startTime).Round(time.Millisecond))
}

// enter publishes the stage before its collaborator is called.
func (s *implService) enter(id string, stg stage) error {
	_, err := s.store.Update(id, func(t *task.Task) {
		t.Status = stg.status
		t.Progress = stg.progress
		t.CurrentStep = stg.step
	})
	return err
}

func (s *implService) runStage(ctx context.Context, id string, stg stage, st *runState) error {
	stageCtx, cancel := s.stageContext(ctx)
	defer cancel()

	err := stg.run(s, stageCtx, id, st)
	if err != nil && errors.Is(stageCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("timed out after %s: %w", s.opts.StageTimeout, err)
	}
	return err
}

func (s *implService) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.StageTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.StageTimeout)
	}
	return context.WithCancel(ctx)
}

func (s *implService) extractAudio(ctx context.Context, id string, st *runState) error {
	audioPath, err := s.collab.Extractor.ExtractAudio(ctx, st.videoPath, id)
	if err != nil {
		return err
	}
	st.audioPath = audioPath
	return nil
}

func (s *implService) transcribe(ctx context.Context, id string, st *runState) error {
	transcript, err := s.collab.Transcriber.Transcribe(ctx, st.audioPath)
	if err != nil {
		return err
	}
	st.transcript = transcript
	return nil
}

func (s *implService) generateNotes(ctx context.Context, id string, st *runState) error {
	notes, err := s.collab.Generator.GenerateNotes(ctx, st.transcript)
	if err != nil {
		return err
	}
	st.notes = notes
	_, err = s.store.Update(id, func(t *task.Task) {
		t.Notes = notes
	})
	return err
}

func (s *implService) createVoice(ctx context.Context, id string, st *runState) error {
	narration, err := s.collab.Generator.SummarizeForNarration(ctx, st.notes)
	if err != nil {
		return fmt.Errorf("summarize for narration: %w", err)
	}

	voicePath, err := s.collab.Synthesizer.Synthesize(ctx, narration, id)
	if err != nil {
		return err
	}
	st.voicePath = voicePath

	_, err = s.store.Update(id, func(t *task.Task) {
		t.AudioPath = voicePath
	})
	return err
}

// buildQuiz stores the quiz and completes the task in one update so results
// never show up half done.
func (s *implService) buildQuiz(ctx context.Context, id string, st *runState) error {
	quiz, err := s.collab.Generator.GenerateQuiz(ctx, st.transcript, st.notes, s.opts.QuizQuestions)
	if err != nil {
		return err
	}

	_, err = s.store.Update(id, func(t *task.Task) {
		t.Quiz = quiz
		t.Status = task.StatusCompleted
		t.Progress = 100
		t.CurrentStep = stepComplete
	})
	return err
}

// fail moves the task to FAILED keeping its progress and earlier outputs.
func (s *implService) fail(ctx context.Context, id string, st *runState, stageErr *StageError) {
	msg := logger.FormatError(stageErr)
	s.logger.Error(ctx, "Processing failed: %s", msg)

	_, err := s.store.Update(id, func(t *task.Task) {
		if t.Status.Terminal() {
			return
		}
		t.Status = task.StatusFailed
		t.Error = msg
		t.CurrentStep = "Error: " + msg
	})
	if errors.Is(err, task.ErrTaskNotFound) {
		s.abandon(ctx, id, st, err)
		return
	}

	media.RemoveFiles(ctx, s.logger, st.audioPath)
}

// abandon cleans up after a task that was deleted while it was running.
func (s *implService) abandon(ctx context.Context, id string, st *runState, cause error) {
	s.logger.Warn(ctx, "Task deleted during %s, abandoning: %v", st.stage, cause)
	media.RemoveFiles(ctx, s.logger, st.videoPath, st.audioPath, st.voicePath)
}
