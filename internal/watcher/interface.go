package watcher

import (
	"context"

	"github.com/nguyentantai21042004/cram-flow/internal/pipeline"
)

// Watcher defines the interface for drop-folder monitoring
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// Submitter accepts a video as a new processing task.
type Submitter interface {
	Submit(ctx context.Context, in pipeline.Upload) (string, error)
}
