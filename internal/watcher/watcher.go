package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/cram-flow/internal/logger"
	"github.com/nguyentantai21042004/cram-flow/internal/pipeline"
)

// contentTypes maps the supported video extensions to the MIME type the
// upload validation expects.
var contentTypes = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".mov":  "video/quicktime",
	".avi":  "video/x-msvideo",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
}

type implWatcher struct {
	inboxDir  string
	submitter Submitter
	logger    logger.Logger
	watcher   *fsnotify.Watcher
	settle    time.Duration
	wg        sync.WaitGroup
}

// Start monitors the inbox until ctx is done. Pickups run in their own
// goroutines so a slow disk never stalls the event loop.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started. Monitoring: %s", w.inboxDir)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for pending pickups...")
			w.wg.Wait()
			w.logger.Info(ctx, "Inbox watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher events channel closed")
			}

			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if _, ok := contentTypeFor(event.Name); !ok {
				w.logger.Debug(ctx, "Ignoring non-video file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New video detected: %s", event.Name)
			w.wg.Add(1)
			go func(path string) {
				defer w.wg.Done()
				select {
				case <-time.After(w.settle):
				case <-ctx.Done():
					return
				}
				if _, err := w.pickup(ctx, path); err != nil {
					w.logger.Error(ctx, "Failed to submit %s: %v", path, err)
				}
			}(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// pickup submits one inbox file. The file leaves the inbox only when the
// pipeline accepts it.
func (w *implWatcher) pickup(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat: %w", err)
	}
	if info.IsDir() {
		return "", nil
	}

	contentType, _ := contentTypeFor(path)
	id, err := w.submitter.Submit(ctx, pipeline.Upload{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Save: func(dst string) error {
			return moveFile(path, dst)
		},
	})
	if err != nil {
		var vErr *pipeline.ValidationError
		if errors.As(err, &vErr) {
			w.logger.Warn(ctx, "Rejected %s: %s", filepath.Base(path), vErr.Message)
			return "", nil
		}
		return "", err
	}

	w.logger.Info(logger.WithTaskID(ctx, id), "Queued %s from inbox", filepath.Base(path))
	return id, nil
}

func contentTypeFor(path string) (string, bool) {
	ct, ok := contentTypes[strings.ToLower(filepath.Ext(path))]
	return ct, ok
}

// moveFile renames src to dst, copying when they sit on different devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("copy: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("close destination: %w", err)
	}
	return os.Remove(src)
}
