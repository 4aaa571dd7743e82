package capability

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/ingest-flow/internal/audio"
	"github.com/nguyentantai21042004/ingest-flow/internal/logger"
	"github.com/nguyentantai21042004/ingest-flow/internal/transcriber"
	"github.com/nguyentantai21042004/ingest-flow/pkg/executor"
)

// SpeechNotUnderstood is the text extracted from media in which the
// transcriber recognized nothing.
const SpeechNotUnderstood = "Speech not understood"

// mediaReader turns audio and video into text: ffmpeg normalizes the track to
// 16 kHz mono WAV in the temp dir, then the transcriber runs on it.
type mediaReader struct {
	exec    executor.Executor
	tr      transcriber.Transcriber
	log     logger.Logger
	ffmpeg  string
	tempDir string
	locale  string
}

func (r mediaReader) Extract(ctx context.Context, path string) (string, error) {
	if err := os.MkdirAll(r.tempDir, 0755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}

	wavPath := filepath.Join(r.tempDir, "audio-"+uuid.NewString()+".wav")
	defer os.Remove(wavPath)

	if err := audio.ExtractWAV(ctx, r.exec, r.ffmpeg, path, wavPath); err != nil {
		return "", err
	}

	text, err := r.tr.Transcribe(ctx, wavPath, r.locale)
	if errors.Is(err, transcriber.ErrNoSpeech) {
		r.log.Warn(ctx, "Speech not understood: %s", path)
		return SpeechNotUnderstood, nil
	}
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	return text, nil
}
