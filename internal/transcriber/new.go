package transcriber

import (
	"github.com/nguyentantai21042004/cram-flow/internal/config"
	"github.com/nguyentantai21042004/cram-flow/internal/gemini"
	"github.com/nguyentantai21042004/cram-flow/internal/logger"
	"github.com/nguyentantai21042004/cram-flow/pkg/executor"
)

type implWhisper struct {
	cfg      config.WhisperConfig
	executor executor.Executor
	logger   logger.Logger
}

// NewWhisper creates a Transcriber that runs a local whisper.cpp binary.
func NewWhisper(cfg config.WhisperConfig, exec executor.Executor, log logger.Logger) Transcriber {
	return &implWhisper{
		cfg:      cfg,
		executor: exec,
		logger:   log,
	}
}

type implGemini struct {
	client gemini.Client
	model  string
	logger logger.Logger
}

// NewGemini creates a Transcriber that sends the audio inline to Gemini.
func NewGemini(client gemini.Client, model string, log logger.Logger) Transcriber {
	return &implGemini{
		client: client,
		model:  model,
		logger: log,
	}
}
