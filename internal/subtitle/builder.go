package subtitle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/ingest-flow/internal/audio"
	"github.com/nguyentantai21042004/ingest-flow/internal/transcriber"
)

const (
	textNotUnderstood = "Speech not understood"
	textServiceError  = "Service error: %v"
)

func (b *implBuilder) Build(ctx context.Context, track *audio.Track, locale string) ([]Cue, error) {
	return b.BuildChunks(ctx, audio.SplitOnSilence(track, b.splitOptions(track)), locale)
}

func (b *implBuilder) BuildChunks(ctx context.Context, chunks []audio.Chunk, locale string) ([]Cue, error) {
	dir, err := b.scratchDir()
	if err != nil {
		return nil, err
	}
	defer b.removeScratch(ctx, dir)

	return b.transcribeChunks(ctx, dir, chunks, locale)
}

func (b *implBuilder) Generate(ctx context.Context, wavPath, srtPath, locale string) ([]Cue, error) {
	track, err := audio.ReadWAV(wavPath)
	if err != nil {
		return nil, fmt.Errorf("load audio: %w", err)
	}

	chunks := audio.SplitOnSilence(track, b.splitOptions(track))
	b.logger.Info(ctx, "Audio split into %d chunks: %s", len(chunks), wavPath)

	dir, err := b.scratchDir()
	if err != nil {
		return nil, err
	}
	// chunk files stay on disk until the subtitle file is written
	defer b.removeScratch(ctx, dir)

	cues, err := b.transcribeChunks(ctx, dir, chunks, locale)
	if err != nil {
		return nil, err
	}

	if err := WriteSRT(srtPath, cues); err != nil {
		return nil, err
	}
	b.logger.Info(ctx, "SRT file written: %s", srtPath)

	return cues, nil
}

// transcribeChunks emits one cue per chunk. Cue times accumulate chunk
// durations, so the offset advances even when a chunk yields no text.
func (b *implBuilder) transcribeChunks(ctx context.Context, dir string, chunks []audio.Chunk, locale string) ([]Cue, error) {
	cues := make([]Cue, 0, len(chunks))
	var offset time.Duration

	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		cue := Cue{
			Index: i + 1,
			Start: offset,
			End:   offset + chunk.Duration,
			Text:  b.transcribeChunk(ctx, dir, i, chunk, locale),
		}
		cues = append(cues, cue)
		offset = cue.End
	}

	return cues, nil
}

func (b *implBuilder) transcribeChunk(ctx context.Context, dir string, i int, chunk audio.Chunk, locale string) string {
	chunkPath := filepath.Join(dir, fmt.Sprintf("chunk_%04d.wav", i))
	if err := audio.WriteWAV(chunkPath, chunk.Track); err != nil {
		b.logger.Error(ctx, "Service error in segment: %d - %v", i+1, err)
		return fmt.Sprintf(textServiceError, err)
	}

	text, err := b.transcriber.Transcribe(ctx, chunkPath, locale)
	switch {
	case errors.Is(err, transcriber.ErrNoSpeech):
		b.logger.Warn(ctx, "Audio not understood in segment: %d", i+1)
		return textNotUnderstood
	case err != nil:
		b.logger.Error(ctx, "Service error in segment: %d - %v", i+1, err)
		return fmt.Sprintf(textServiceError, err)
	}

	b.logger.Debug(ctx, "SRT segment generated: %d", i+1)
	return text
}

func (b *implBuilder) scratchDir() (string, error) {
	dir := filepath.Join(b.tempDir, "subtitle-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create chunk scratch dir: %w", err)
	}
	return dir, nil
}

func (b *implBuilder) removeScratch(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		b.logger.Warn(ctx, "Failed to remove chunk files %s: %v", dir, err)
	} else {
		b.logger.Debug(ctx, "Removed chunk files: %s", dir)
	}
}
