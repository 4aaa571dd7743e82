package transcriber

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/ingest-flow/internal/config"
	"github.com/nguyentantai21042004/ingest-flow/internal/logger"
	"github.com/nguyentantai21042004/ingest-flow/pkg/executor"
)

type implWhisper struct {
	cfg      config.WhisperConfig
	tempDir  string
	timeout  time.Duration
	executor executor.Executor
	logger   logger.Logger
}

// NewWhisper creates a Transcriber backed by a local whisper.cpp binary.
func NewWhisper(cfg config.WhisperConfig, tempDir string, timeout time.Duration, exec executor.Executor, log logger.Logger) Transcriber {
	return &implWhisper{
		cfg:      cfg,
		tempDir:  tempDir,
		timeout:  timeout,
		executor: exec,
		logger:   log,
	}
}

// Transcribe runs whisper.cpp with plain-text output and reads the result back.
func (w *implWhisper) Transcribe(ctx context.Context, audioPath, locale string) (string, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	workDir, err := os.MkdirTemp(w.tempDir, "whisper-*")
	if err != nil {
		return "", fmt.Errorf("create whisper workspace: %w", err)
	}
	defer os.RemoveAll(workDir)

	outputPrefix := filepath.Join(workDir, strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath)))

	// -otxt: plain transcript, -of: output prefix (whisper appends .txt)
	args := []string{
		"-m", w.cfg.ModelPath,
		"-f", audioPath,
		"-otxt",
		"-of", outputPrefix,
		"-t", strconv.Itoa(w.cfg.Threads),
		"-np",
	}
	if lang := whisperLanguage(locale); lang != "" {
		args = append(args, "-l", lang)
	}
	if w.cfg.Prompt != "" {
		args = append(args, "--prompt", w.cfg.Prompt)
	}

	w.logger.Debug(ctx, "Starting whisper transcription: %s", audioPath)

	if _, err := w.executor.Execute(ctx, w.cfg.BinaryPath, args...); err != nil {
		return "", fmt.Errorf("whisper transcribe: %w", err)
	}

	content, err := os.ReadFile(outputPrefix + ".txt")
	if err != nil {
		return "", fmt.Errorf("read whisper transcript: %w", err)
	}

	text := strings.TrimSpace(string(content))
	if text == "" || text == "[BLANK_AUDIO]" {
		return "", ErrNoSpeech
	}

	return text, nil
}

// whisperLanguage maps a locale such as "it-IT" to whisper's "it"; "auto" and
// empty mean no override.
func whisperLanguage(locale string) string {
	lang := strings.TrimSpace(locale)
	if lang == "" || strings.EqualFold(lang, "auto") {
		return ""
	}
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	return strings.ToLower(lang)
}
