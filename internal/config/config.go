package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Extract     ExtractConfig     `yaml:"extract"`
	FFmpeg      FFmpegConfig      `yaml:"ffmpeg"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Whisper     WhisperConfig     `yaml:"whisper"`
	Gemini      GeminiConfig      `yaml:"gemini"`
	Subtitle    SubtitleConfig    `yaml:"subtitle"`
	Batch       BatchConfig       `yaml:"batch"`
}

type PathsConfig struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Archived string `yaml:"archived"`
	Temp     string `yaml:"temp"`
	Ledger   string `yaml:"ledger"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Language string `yaml:"language"`
	Catalog  string `yaml:"catalog"`
}

type ExtractConfig struct {
	MaxArchiveDepth int            `yaml:"max_archive_depth"`
	MaxArchiveBytes int64          `yaml:"max_archive_bytes"`
	Binaries        BinariesConfig `yaml:"binaries"`
}

// BinariesConfig names the external converters used for formats that have no
// in-process reader.
type BinariesConfig struct {
	PDFToText string `yaml:"pdftotext"`
	Antiword  string `yaml:"antiword"`
	Catppt    string `yaml:"catppt"`
	XLS2CSV   string `yaml:"xls2csv"`
}

type FFmpegConfig struct {
	BinaryPath   string `yaml:"binary_path"`
	VideoBitrate string `yaml:"video_bitrate"`
	AudioCodec   string `yaml:"audio_codec"`
	Encoder      string `yaml:"encoder"`
	Preset       string `yaml:"preset"`
}

type TranscriberConfig struct {
	Backend string        `yaml:"backend"`
	Locale  string        `yaml:"locale"`
	Timeout time.Duration `yaml:"timeout"`
}

type WhisperConfig struct {
	ModelPath  string `yaml:"model_path"`
	BinaryPath string `yaml:"binary_path"`
	Prompt     string `yaml:"prompt"`
	Threads    int    `yaml:"threads"`
}

type GeminiConfig struct {
	Model   string   `yaml:"model"`
	APIKeys []string `yaml:"api_keys"`
}

type SubtitleConfig struct {
	MinSilenceMs    int     `yaml:"min_silence_ms"`
	SilenceOffsetDB float64 `yaml:"silence_offset_db"`
	KeepSilenceMs   int     `yaml:"keep_silence_ms"`
	Burn            bool    `yaml:"burn"`
}

type BatchConfig struct {
	Selection string   `yaml:"selection"`
	Keywords  []string `yaml:"keywords"`
	Docx      bool     `yaml:"docx"`
}

const (
	BackendWhisper = "whisper"
	BackendGemini  = "gemini"
)

func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	c.Transcriber.Backend = strings.ToLower(c.Transcriber.Backend)
	if c.Transcriber.Backend == "" {
		c.Transcriber.Backend = BackendWhisper
	}
	switch c.Transcriber.Backend {
	case BackendWhisper:
		if c.Whisper.ModelPath == "" {
			return fmt.Errorf("whisper.model_path is required")
		}
		if c.Whisper.BinaryPath == "" {
			return fmt.Errorf("whisper.binary_path is required")
		}
	case BackendGemini:
		if len(c.Gemini.APIKeys) == 0 {
			return fmt.Errorf("gemini.api_keys is required")
		}
	default:
		return fmt.Errorf("transcriber.backend %q is not supported", c.Transcriber.Backend)
	}

	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Language == "" {
		c.Logging.Language = "eng"
	}
	if c.Extract.MaxArchiveDepth == 0 {
		c.Extract.MaxArchiveDepth = 3
	}
	if c.Extract.MaxArchiveBytes == 0 {
		c.Extract.MaxArchiveBytes = 512 << 20
	}
	if c.Extract.Binaries.PDFToText == "" {
		c.Extract.Binaries.PDFToText = "pdftotext"
	}
	if c.Extract.Binaries.Antiword == "" {
		c.Extract.Binaries.Antiword = "antiword"
	}
	if c.Extract.Binaries.Catppt == "" {
		c.Extract.Binaries.Catppt = "catppt"
	}
	if c.Extract.Binaries.XLS2CSV == "" {
		c.Extract.Binaries.XLS2CSV = "xls2csv"
	}
	if c.FFmpeg.BinaryPath == "" {
		c.FFmpeg.BinaryPath = "ffmpeg"
	}
	if c.FFmpeg.Encoder == "" {
		c.FFmpeg.Encoder = "libx264"
	}
	if c.FFmpeg.VideoBitrate == "" {
		c.FFmpeg.VideoBitrate = "5M"
	}
	if c.FFmpeg.AudioCodec == "" {
		c.FFmpeg.AudioCodec = "copy"
	}
	if c.FFmpeg.Preset == "" {
		c.FFmpeg.Preset = "medium"
	}
	if c.Transcriber.Locale == "" {
		c.Transcriber.Locale = "it-IT"
	}
	if c.Transcriber.Timeout == 0 {
		c.Transcriber.Timeout = 2 * time.Minute
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Subtitle.MinSilenceMs == 0 {
		c.Subtitle.MinSilenceMs = 500
	}
	if c.Subtitle.SilenceOffsetDB == 0 {
		c.Subtitle.SilenceOffsetDB = 14
	}
	if c.Subtitle.KeepSilenceMs == 0 {
		c.Subtitle.KeepSilenceMs = 500
	}
	if c.Batch.Selection == "" {
		c.Batch.Selection = "noLimit"
	}

	return nil
}
