package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/cram-flow/internal/logger"
)

const defaultSettleDelay = 500 * time.Millisecond

// New creates a Watcher that submits every video dropped into inboxDir.
// settle is how long a new file is left alone before it is picked up.
func New(inboxDir string, submitter Submitter, log logger.Logger, settle time.Duration) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inboxDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if settle <= 0 {
		settle = defaultSettleDelay
	}

	return &implWatcher{
		inboxDir:  inboxDir,
		submitter: submitter,
		logger:    log,
		watcher:   watcher,
		settle:    settle,
	}, nil
}
