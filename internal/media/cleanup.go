package media

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/nguyentantai21042004/cram-flow/internal/logger"
)

// RemoveFiles deletes every non-empty path. Missing files are ignored and other
// failures are only logged.
func RemoveFiles(ctx context.Context, log logger.Logger, paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			log.Warn(ctx, "Failed to cleanup file %s: %v", path, err)
		} else {
			log.Debug(ctx, "Cleaned up file: %s", path)
		}
	}
}
