package subtitle

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/ingest-flow/internal/audio"
)

// Cue is one timed subtitle entry. Index is 1-based.
type Cue struct {
	Index int
	Start time.Duration
	End   time.Duration
	Text  string
}

// Builder turns an audio track into back-to-back cues, one per non-silent chunk.
type Builder interface {
	// Build splits the track on silence and transcribes every chunk.
	Build(ctx context.Context, track *audio.Track, locale string) ([]Cue, error)
	// BuildChunks transcribes already split chunks in order.
	BuildChunks(ctx context.Context, chunks []audio.Chunk, locale string) ([]Cue, error)
	// Generate reads a WAV file, builds its cues and writes them as SRT.
	Generate(ctx context.Context, wavPath, srtPath, locale string) ([]Cue, error)
}
