package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Paths         PathsConfig         `yaml:"paths"`
	Upload        UploadConfig        `yaml:"upload"`
	FFmpeg        FFmpegConfig        `yaml:"ffmpeg"`
	Whisper       WhisperConfig       `yaml:"whisper"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	Speech        SpeechConfig        `yaml:"speech"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Logging       LoggingConfig       `yaml:"logging"`
}

type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxMultipartMB int64    `yaml:"max_multipart_mb"`
}

type PathsConfig struct {
	Uploads string `yaml:"uploads"`
	Outputs string `yaml:"outputs"`
	Inbox   string `yaml:"inbox"`
	Temp    string `yaml:"temp"`
}

type UploadConfig struct {
	MaxFileSizeMB int64    `yaml:"max_file_size_mb"`
	AllowedTypes  []string `yaml:"allowed_types"`
}

type FFmpegConfig struct {
	BinaryPath string `yaml:"binary_path"`
	SampleRate int    `yaml:"sample_rate"`
	MP3Bitrate string `yaml:"mp3_bitrate"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
}

type TranscriptionConfig struct {
	Provider string `yaml:"provider"`
}

type GeminiConfig struct {
	APIKeys     []string `yaml:"api_keys"`
	Model       string   `yaml:"model"`
	TTSModel    string   `yaml:"tts_model"`
	Voice       string   `yaml:"voice"`
	Temperature float32  `yaml:"temperature"`
}

type SpeechConfig struct {
	Provider    string `yaml:"provider"`
	EspeakPath  string `yaml:"espeak_path"`
	EspeakVoice string `yaml:"espeak_voice"`
}

type PipelineConfig struct {
	MaxConcurrent int           `yaml:"max_concurrent"`
	QuizQuestions int           `yaml:"quiz_questions"`
	StageTimeout  time.Duration `yaml:"stage_timeout"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	ProviderWhisper = "whisper"
	ProviderGemini  = "gemini"
	ProviderEspeak  = "espeak"
)

// Load reads the YAML file at path, applies environment overrides and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// applyEnv lets secrets stay out of the YAML file.
func (c *Config) applyEnv() {
	if keys := os.Getenv("GEMINI_API_KEYS"); keys != "" {
		c.Gemini.APIKeys = nil
		for _, k := range strings.Split(keys, ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.Gemini.APIKeys = append(c.Gemini.APIKeys, k)
			}
		}
	}
	if key := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); key != "" {
		c.Gemini.APIKeys = append(c.Gemini.APIKeys, key)
	}
}

func (c *Config) Validate() error {
	if c.Paths.Uploads == "" {
		return fmt.Errorf("paths.uploads is required")
	}
	if c.Paths.Outputs == "" {
		return fmt.Errorf("paths.outputs is required")
	}
	if len(c.Gemini.APIKeys) == 0 {
		return fmt.Errorf("gemini.api_keys is required (or set GEMINI_API_KEYS)")
	}

	switch c.Transcription.Provider {
	case "":
		c.Transcription.Provider = ProviderWhisper
	case ProviderWhisper, ProviderGemini:
	default:
		return fmt.Errorf("transcription.provider must be %q or %q", ProviderWhisper, ProviderGemini)
	}
	if c.Transcription.Provider == ProviderWhisper {
		if c.Whisper.ModelPath == "" {
			return fmt.Errorf("whisper.model_path is required")
		}
		if c.Whisper.BinaryPath == "" {
			return fmt.Errorf("whisper.binary_path is required")
		}
	}

	switch c.Speech.Provider {
	case "":
		c.Speech.Provider = ProviderGemini
	case ProviderGemini, ProviderEspeak:
	default:
		return fmt.Errorf("speech.provider must be %q or %q", ProviderGemini, ProviderEspeak)
	}

	if c.Pipeline.MaxConcurrent < 0 {
		return fmt.Errorf("pipeline.max_concurrent must not be negative")
	}
	if c.Pipeline.StageTimeout < 0 {
		return fmt.Errorf("pipeline.stage_timeout must not be negative")
	}

	c.applyDefaults()
	return nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{
			"http://localhost:5173",
			"http://localhost:3000",
			"http://localhost:8080",
			"http://127.0.0.1:5173",
			"http://127.0.0.1:3000",
			"http://127.0.0.1:8080",
		}
	}
	if c.Server.MaxMultipartMB == 0 {
		c.Server.MaxMultipartMB = 32
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Upload.MaxFileSizeMB == 0 {
		c.Upload.MaxFileSizeMB = 500
	}
	if len(c.Upload.AllowedTypes) == 0 {
		c.Upload.AllowedTypes = []string{
			"video/mp4",
			"video/avi",
			"video/x-msvideo",
			"video/mov",
			"video/quicktime",
			"video/x-matroska",
			"video/webm",
		}
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.SampleRate == 0 {
		c.FFmpeg.SampleRate = 16000
	}
	if c.FFmpeg.MP3Bitrate == "" {
		c.FFmpeg.MP3Bitrate = "128k"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.TTSModel == "" {
		c.Gemini.TTSModel = "gemini-2.5-flash-preview-tts"
	}
	if c.Gemini.Voice == "" {
		c.Gemini.Voice = "Kore"
	}
	if c.Speech.EspeakPath == "" {
		c.Speech.EspeakPath = "espeak-ng"
	}
	if c.Speech.EspeakVoice == "" {
		c.Speech.EspeakVoice = "en-us"
	}
	if c.Pipeline.MaxConcurrent == 0 {
		c.Pipeline.MaxConcurrent = 2
	}
	if c.Pipeline.QuizQuestions == 0 {
		c.Pipeline.QuizQuestions = 5
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// MaxUploadBytes is the upload size limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Upload.MaxFileSizeMB * 1024 * 1024
}
