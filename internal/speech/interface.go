package speech

import "context"

// Synthesizer reads text aloud and returns the path of the MP3 it wrote.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, taskID string) (string, error)
}
