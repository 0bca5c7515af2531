package generator

import (
	"github.com/nguyentantai21042004/cram-flow/internal/gemini"
	"github.com/nguyentantai21042004/cram-flow/internal/logger"
)

type implGenerator struct {
	client      gemini.Client
	model       string
	temperature float32
	logger      logger.Logger
}

// New creates a Gemini backed Generator. temperature <= 0 keeps the
// per-request defaults.
func New(client gemini.Client, model string, temperature float32, log logger.Logger) Generator {
	return &implGenerator{
		client:      client,
		model:       model,
		temperature: temperature,
		logger:      log,
	}
}
