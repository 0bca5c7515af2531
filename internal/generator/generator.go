package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/cram-flow/internal/gemini"
	"github.com/nguyentantai21042004/cram-flow/internal/task"
	"google.golang.org/genai"
)

// quizExcerptLimit caps how much transcript goes into the quiz prompt; the
// notes already summarize the rest.
const quizExcerptLimit = 3000

// ErrMalformedOutput is returned when the model answer does not match the
// requested structure.
var ErrMalformedOutput = errors.New("malformed model output")

var optionLabels = []string{"A", "B", "C", "D"}

// GenerateNotes asks the model for sectioned study notes.
func (g *implGenerator) GenerateNotes(ctx context.Context, transcript string) ([]task.Section, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("generate notes: empty transcript")
	}

	g.logger.Info(ctx, "Generating notes from %d characters of transcript", len(transcript))

	var out struct {
		Sections []task.Section `json:"sections"`
	}
	if err := g.generateJSON(ctx, fmt.Sprintf(notesPrompt, transcript), 0.3, &out); err != nil {
		return nil, fmt.Errorf("generate notes: %w", err)
	}

	sections := make([]task.Section, 0, len(out.Sections))
	for _, s := range out.Sections {
		title := strings.TrimSpace(s.Title)
		content := compact(s.Content)
		if title == "" || len(content) == 0 {
			continue
		}
		sections = append(sections, task.Section{Title: title, Content: content})
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("generate notes: %w: no sections", ErrMalformedOutput)
	}

	g.logger.Info(ctx, "Generated %d note sections", len(sections))
	return sections, nil
}

// SummarizeForNarration produces text meant to be read aloud. An empty model
// answer falls back to the flattened notes.
func (g *implGenerator) SummarizeForNarration(ctx context.Context, notes []task.Section) (string, error) {
	notesText := NotesToText(notes)
	if notesText == "" {
		return "", fmt.Errorf("summarize for narration: no notes")
	}

	result, err := g.client.GenerateContent(ctx, g.model, genai.Text(fmt.Sprintf(narrationPrompt, notesText)), g.config(0.7, ""))
	if err != nil {
		return "", fmt.Errorf("summarize for narration: %w", err)
	}

	text, err := gemini.Text(result)
	if errors.Is(err, gemini.ErrEmptyResponse) {
		g.logger.Warn(ctx, "Empty narration from model, reading the notes instead")
		return notesText, nil
	}
	if err != nil {
		return "", fmt.Errorf("summarize for narration: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// GenerateQuiz asks for count questions and validates their structure.
func (g *implGenerator) GenerateQuiz(ctx context.Context, transcript string, notes []task.Section, count int) ([]task.Question, error) {
	if count <= 0 {
		return nil, fmt.Errorf("generate quiz: invalid question count %d", count)
	}

	g.logger.Info(ctx, "Generating %d quiz questions", count)

	prompt := fmt.Sprintf(quizPrompt, count, notesOutline(notes), excerpt(transcript, quizExcerptLimit))

	var out struct {
		Questions []task.Question `json:"questions"`
	}
	if err := g.generateJSON(ctx, prompt, 0.5, &out); err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}

	if len(out.Questions) < count {
		return nil, fmt.Errorf("generate quiz: %w: got %d questions, want %d", ErrMalformedOutput, len(out.Questions), count)
	}

	questions := out.Questions[:count]
	for i := range questions {
		questions[i].ID = i + 1
		if err := validateQuestion(questions[i]); err != nil {
			return nil, fmt.Errorf("generate quiz: question %d: %w", i+1, err)
		}
	}
	return questions, nil
}

func (g *implGenerator) generateJSON(ctx context.Context, prompt string, temperature float32, out any) error {
	result, err := g.client.GenerateContent(ctx, g.model, genai.Text(prompt), g.config(temperature, "application/json"))
	if err != nil {
		return err
	}

	text, err := gemini.Text(result)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(stripCodeFence(text)), out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return nil
}

func (g *implGenerator) config(temperature float32, mimeType string) *genai.GenerateContentConfig {
	if g.temperature > 0 {
		temperature = g.temperature
	}
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(temperature),
		ResponseMIMEType: mimeType,
	}
}

func validateQuestion(q task.Question) error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("%w: empty question text", ErrMalformedOutput)
	}
	if len(q.Options) != len(optionLabels) {
		return fmt.Errorf("%w: %d options, want %d", ErrMalformedOutput, len(q.Options), len(optionLabels))
	}
	for i, opt := range q.Options {
		if opt.ID != optionLabels[i] {
			return fmt.Errorf("%w: option %d labeled %q, want %q", ErrMalformedOutput, i+1, opt.ID, optionLabels[i])
		}
	}
	for _, opt := range q.Options {
		if opt.ID == q.CorrectAnswer {
			return nil
		}
	}
	return fmt.Errorf("%w: correct answer %q matches no option", ErrMalformedOutput, q.CorrectAnswer)
}

// NotesToText flattens notes into sentences for narration.
func NotesToText(notes []task.Section) string {
	parts := make([]string, 0, len(notes)*4)
	for _, s := range notes {
		parts = append(parts, s.Title+".")
		parts = append(parts, s.Content...)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func notesOutline(notes []task.Section) string {
	var b strings.Builder
	for i, s := range notes {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.Title + ":\n")
		for _, c := range s.Content {
			b.WriteString("- " + c + "\n")
		}
	}
	return b.String()
}

func compact(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// excerpt cuts s to at most n bytes without splitting a UTF-8 sequence.
func excerpt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// stripCodeFence removes a ```json fence some models wrap around JSON answers.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
