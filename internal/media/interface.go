package media

import "context"

// Extractor pulls the audio track out of an uploaded video.
type Extractor interface {
	ExtractAudio(ctx context.Context, videoPath, taskID string) (string, error)
}

// Encoder converts raw or intermediate audio into the MP3 served to clients.
type Encoder interface {
	EncodeMP3(ctx context.Context, inputPath string, inputArgs []string, outputPath string) error
}
