package speech

import (
	"github.com/nguyentantai21042004/cram-flow/internal/gemini"
	"github.com/nguyentantai21042004/cram-flow/internal/logger"
	"github.com/nguyentantai21042004/cram-flow/internal/media"
	"github.com/nguyentantai21042004/cram-flow/pkg/executor"
)

type implGemini struct {
	client    gemini.Client
	model     string
	voice     string
	encoder   media.Encoder
	outputDir string
	tempDir   string
	logger    logger.Logger
}

// NewGemini creates a Synthesizer using a Gemini text-to-speech model with a
// prebuilt voice.
func NewGemini(client gemini.Client, model, voice string, encoder media.Encoder, outputDir, tempDir string, log logger.Logger) Synthesizer {
	return &implGemini{
		client:    client,
		model:     model,
		voice:     voice,
		encoder:   encoder,
		outputDir: outputDir,
		tempDir:   tempDir,
		logger:    log,
	}
}

type implEspeak struct {
	binaryPath string
	voice      string
	executor   executor.Executor
	encoder    media.Encoder
	outputDir  string
	tempDir    string
	logger     logger.Logger
}

// NewEspeak creates an offline Synthesizer backed by espeak-ng.
func NewEspeak(binaryPath, voice string, exec executor.Executor, encoder media.Encoder, outputDir, tempDir string, log logger.Logger) Synthesizer {
	return &implEspeak{
		binaryPath: binaryPath,
		voice:      voice,
		executor:   exec,
		encoder:    encoder,
		outputDir:  outputDir,
		tempDir:    tempDir,
		logger:     log,
	}
}
