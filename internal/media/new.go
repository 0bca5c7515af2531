package media

import (
	"github.com/nguyentantai21042004/cram-flow/internal/config"
	"github.com/nguyentantai21042004/cram-flow/internal/logger"
	"github.com/nguyentantai21042004/cram-flow/pkg/executor"
)

// FFmpeg runs the ffmpeg binary through an Executor.
type FFmpeg struct {
	cfg       config.FFmpegConfig
	outputDir string
	executor  executor.Executor
	logger    logger.Logger
}

// New creates the ffmpeg backed Extractor and Encoder. Extracted audio is
// written to outputDir.
func New(cfg config.FFmpegConfig, outputDir string, exec executor.Executor, log logger.Logger) *FFmpeg {
	return &FFmpeg{
		cfg:       cfg,
		outputDir: outputDir,
		executor:  exec,
		logger:    log,
	}
}
