package config

import (
	"fmt"
	"time"
)

type Config struct {
	LLM          LLMConfig          `yaml:"llm"`
	Retry        RetryConfig        `yaml:"retry"`
	Chunking     ChunkingConfig     `yaml:"chunking"`
	Segmentation SegmentationConfig `yaml:"segmentation"`
	Prompts      PromptsConfig      `yaml:"prompts"`
	Paths        PathsConfig        `yaml:"paths"`
	Whisper      WhisperConfig      `yaml:"whisper"`
	FFmpeg       FFmpegConfig       `yaml:"ffmpeg"`
	Logging      LoggingConfig      `yaml:"logging"`
	Performance  PerformanceConfig  `yaml:"performance"`
	Journal      JournalConfig      `yaml:"journal"`
	Export       ExportConfig       `yaml:"export"`
}

type LLMConfig struct {
	Provider          string  `yaml:"provider"`
	APIKey            string  `yaml:"api_key"`
	BaseURL           string  `yaml:"base_url"`
	Model             string  `yaml:"model"`
	Temperature       float64 `yaml:"temperature"`
	MaxTokens         int     `yaml:"max_tokens"`
	MaxInFlight       int     `yaml:"max_in_flight"`
	RequestsPerMinute int     `yaml:"requests_per_minute"`
}

type RetryConfig struct {
	MaxAttempts        int           `yaml:"max_attempts"`
	RateLimitBaseDelay time.Duration `yaml:"rate_limit_base_delay"`
	RateLimitMaxDelay  time.Duration `yaml:"rate_limit_max_delay"`
	TransientBaseDelay time.Duration `yaml:"transient_base_delay"`
	TransientMaxDelay  time.Duration `yaml:"transient_max_delay"`
}

// ChunkingConfig sizes are in seconds.
type ChunkingConfig struct {
	Enabled              *bool         `yaml:"enabled"`
	MinChunkDuration     float64       `yaml:"min_chunk_duration"`
	SizeReductionFactor  float64       `yaml:"size_reduction_factor"`
	MaxShrinkAttempts    *int          `yaml:"max_shrink_attempts"`
	BoundarySearchWindow float64       `yaml:"boundary_search_window"`
	BoundaryMaxTokens    int           `yaml:"boundary_max_tokens"`
	DelayBetweenChunks   time.Duration `yaml:"delay_between_chunks"`
}

// IsEnabled reports whether budget failures fall back to chunked processing.
func (c ChunkingConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// ShrinkAttempts is how many times a chunk is shrunk after budget failures. 0 disables shrinking.
func (c ChunkingConfig) ShrinkAttempts() int {
	if c.MaxShrinkAttempts == nil {
		return 3
	}
	return *c.MaxShrinkAttempts
}

type SegmentationConfig struct {
	EditorPass *bool `yaml:"editor_pass"`
}

// EditorEnabled reports whether the second review pass runs.
func (c SegmentationConfig) EditorEnabled() bool {
	return c.EditorPass == nil || *c.EditorPass
}

// PromptsConfig holds optional files overriding the built-in prompts.
type PromptsConfig struct {
	SegmentationSystem string `yaml:"segmentation_system"`
	SegmentationUser   string `yaml:"segmentation_user"`
	EditorSystem       string `yaml:"editor_system"`
	EditorUser         string `yaml:"editor_user"`
	BoundarySystem     string `yaml:"boundary_system"`
	BoundaryUser       string `yaml:"boundary_user"`
	SummarySystem      string `yaml:"summary_system"`
	SummaryUser        string `yaml:"summary_user"`
	SummaryMergeSystem string `yaml:"summary_merge_system"`
	SummaryMergeUser   string `yaml:"summary_merge_user"`
}

type PathsConfig struct {
	Input         string `yaml:"input"`
	Audio         string `yaml:"audio"`
	Transcripts   string `yaml:"transcripts"`
	Segmentations string `yaml:"segmentations"`
	Summaries     string `yaml:"summaries"`
	Exports       string `yaml:"exports"`
	Temp          string `yaml:"temp"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Language   string `yaml:"language"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
}

type FFmpegConfig struct {
	Binary      string `yaml:"binary"`
	ProbeBinary string `yaml:"probe_binary"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type JournalConfig struct {
	Path string `yaml:"path"`
}

type ExportConfig struct {
	XLSX bool `yaml:"xlsx"`
	DOCX bool `yaml:"docx"`
}

func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "":
		c.LLM.Provider = "gemini"
	case "gemini", "openai", "mock":
	default:
		return fmt.Errorf("llm.provider %q is not supported", c.LLM.Provider)
	}
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Chunking.SizeReductionFactor < 0 || c.Chunking.SizeReductionFactor >= 1 {
		return fmt.Errorf("chunking.size_reduction_factor must be in [0, 1)")
	}
	if c.Chunking.MinChunkDuration < 0 {
		return fmt.Errorf("chunking.min_chunk_duration must not be negative")
	}
	if c.Chunking.ShrinkAttempts() < 0 {
		return fmt.Errorf("chunking.max_shrink_attempts must not be negative")
	}

	if c.LLM.Model == "" {
		if c.LLM.Provider == "openai" {
			c.LLM.Model = "gpt-4o-mini"
		} else {
			c.LLM.Model = "gemini-2.5-flash"
		}
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.3
	}
	if c.LLM.MaxInFlight == 0 {
		c.LLM.MaxInFlight = 4
	}

	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 5
	}
	if c.Retry.RateLimitBaseDelay == 0 {
		c.Retry.RateLimitBaseDelay = 5 * time.Second
	}
	if c.Retry.RateLimitMaxDelay == 0 {
		c.Retry.RateLimitMaxDelay = 120 * time.Second
	}
	if c.Retry.TransientBaseDelay == 0 {
		c.Retry.TransientBaseDelay = 2 * time.Second
	}
	if c.Retry.TransientMaxDelay == 0 {
		c.Retry.TransientMaxDelay = 60 * time.Second
	}

	if c.Chunking.MinChunkDuration == 0 {
		c.Chunking.MinChunkDuration = 300
	}
	if c.Chunking.SizeReductionFactor == 0 {
		c.Chunking.SizeReductionFactor = 0.2
	}
	if c.Chunking.BoundarySearchWindow == 0 {
		c.Chunking.BoundarySearchWindow = 60
	}
	if c.Chunking.BoundaryMaxTokens == 0 {
		c.Chunking.BoundaryMaxTokens = 10
	}
	if c.Chunking.DelayBetweenChunks == 0 {
		c.Chunking.DelayBetweenChunks = 10 * time.Second
	}

	if c.Paths.Audio == "" {
		c.Paths.Audio = "data/audio"
	}
	if c.Paths.Transcripts == "" {
		c.Paths.Transcripts = "data/transcripts"
	}
	if c.Paths.Segmentations == "" {
		c.Paths.Segmentations = "data/segmentations"
	}
	if c.Paths.Summaries == "" {
		c.Paths.Summaries = "data/summaries"
	}
	if c.Paths.Exports == "" {
		c.Paths.Exports = "data/exports"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}

	if c.Whisper.BinaryPath == "" {
		c.Whisper.BinaryPath = "whisper-cli"
	}
	if c.Whisper.Language == "" {
		c.Whisper.Language = "en"
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.FFmpeg.Binary == "" {
		c.FFmpeg.Binary = "ffmpeg"
	}
	if c.FFmpeg.ProbeBinary == "" {
		c.FFmpeg.ProbeBinary = "ffprobe"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Journal.Path == "" {
		c.Journal.Path = "data/journal.sqlite"
	}

	return nil
}

// Dirs returns every directory the pipeline writes to.
func (c *Config) Dirs() []string {
	return []string{
		c.Paths.Input,
		c.Paths.Audio,
		c.Paths.Transcripts,
		c.Paths.Segmentations,
		c.Paths.Summaries,
		c.Paths.Exports,
		c.Paths.Temp,
	}
}
