package generator

import (
	"context"

	"github.com/nguyentantai21042004/cram-flow/internal/task"
)

// Generator turns a transcript into study material with a language model.
type Generator interface {
	GenerateNotes(ctx context.Context, transcript string) ([]task.Section, error)
	SummarizeForNarration(ctx context.Context, notes []task.Section) (string, error)
	GenerateQuiz(ctx context.Context, transcript string, notes []task.Section, count int) ([]task.Question, error)
}
