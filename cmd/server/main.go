package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nguyentantai21042004/cram-flow/internal/config"
	"github.com/nguyentantai21042004/cram-flow/internal/gemini"
	"github.com/nguyentantai21042004/cram-flow/internal/generator"
	"github.com/nguyentantai21042004/cram-flow/internal/httpapi"
	"github.com/nguyentantai21042004/cram-flow/internal/logger"
	"github.com/nguyentantai21042004/cram-flow/internal/media"
	"github.com/nguyentantai21042004/cram-flow/internal/pipeline"
	"github.com/nguyentantai21042004/cram-flow/internal/speech"
	"github.com/nguyentantai21042004/cram-flow/internal/task"
	"github.com/nguyentantai21042004/cram-flow/internal/transcriber"
	"github.com/nguyentantai21042004/cram-flow/internal/watcher"
	"github.com/nguyentantai21042004/cram-flow/pkg/executor"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithFormat(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	log.Info(ctx, "========================================")
	log.Info(ctx, "cramAI study material service")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s, %d CPU cores", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Transcription: %s, speech: %s", cfg.Transcription.Provider, cfg.Speech.Provider)
	log.Info(ctx, "Max concurrent pipelines: %d", cfg.Pipeline.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	svc, err := buildService(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to initialize pipeline: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errChan := make(chan error, 2)

	if cfg.Paths.Inbox != "" {
		w, err := watcher.New(cfg.Paths.Inbox, svc, log, 0)
		if err != nil {
			log.Error(ctx, "Failed to create inbox watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()

		go func() {
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("inbox watcher: %w", err)
			}
		}()
	}

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: httpapi.New(svc, httpapi.Options{
			AllowedOrigins:     cfg.Server.AllowedOrigins,
			MaxUploadBytes:     cfg.MaxUploadBytes(),
			MaxMultipartMemory: cfg.Server.MaxMultipartMB << 20,
			ExportDir:          cfg.Paths.Temp,
		}, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info(ctx, "Listening on %s", cfg.Server.Addr)
	if cfg.Paths.Inbox != "" {
		log.Info(ctx, "Watching inbox: %s", cfg.Paths.Inbox)
	}
	log.Info(ctx, "Press Ctrl+C to stop")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Fatal error: %v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "HTTP server shutdown: %v", err)
	}
	if err := svc.Shutdown(shutdownCtx); err != nil {
		log.Warn(shutdownCtx, "Pipeline shutdown: %v", err)
	}

	log.Info(shutdownCtx, "cramAI stopped")
}

// buildService wires the configured providers into the pipeline.
func buildService(cfg *config.Config, log logger.Logger) (pipeline.Service, error) {
	exec := executor.New()
	ffmpeg := media.New(cfg.FFmpeg, cfg.Paths.Outputs, exec, log)

	client, err := gemini.New(cfg.Gemini.APIKeys, log)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	var stt pipeline.Transcriber
	switch cfg.Transcription.Provider {
	case config.ProviderGemini:
		stt = transcriber.NewGemini(client, cfg.Gemini.Model, log)
	default:
		stt = transcriber.NewWhisper(cfg.Whisper, exec, log)
	}

	var tts pipeline.Synthesizer
	switch cfg.Speech.Provider {
	case config.ProviderEspeak:
		tts = speech.NewEspeak(cfg.Speech.EspeakPath, cfg.Speech.EspeakVoice, exec, ffmpeg, cfg.Paths.Outputs, cfg.Paths.Temp, log)
	default:
		tts = speech.NewGemini(client, cfg.Gemini.TTSModel, cfg.Gemini.Voice, ffmpeg, cfg.Paths.Outputs, cfg.Paths.Temp, log)
	}

	return pipeline.New(task.NewMemoryStore(), pipeline.Collaborators{
		Extractor:   ffmpeg,
		Transcriber: stt,
		Generator:   generator.New(client, cfg.Gemini.Model, cfg.Gemini.Temperature, log),
		Synthesizer: tts,
	}, pipeline.Options{
		UploadDir:      cfg.Paths.Uploads,
		MaxUploadBytes: cfg.MaxUploadBytes(),
		AllowedTypes:   cfg.Upload.AllowedTypes,
		MaxConcurrent:  cfg.Pipeline.MaxConcurrent,
		QuizQuestions:  cfg.Pipeline.QuizQuestions,
		StageTimeout:   cfg.Pipeline.StageTimeout,
	}, log), nil
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Uploads,
		cfg.Paths.Outputs,
		cfg.Paths.Temp,
	}
	if cfg.Paths.Inbox != "" {
		dirs = append(dirs, cfg.Paths.Inbox)
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
