package subtitle

import (
	"time"

	"github.com/nguyentantai21042004/ingest-flow/internal/audio"
	"github.com/nguyentantai21042004/ingest-flow/internal/config"
	"github.com/nguyentantai21042004/ingest-flow/internal/logger"
	"github.com/nguyentantai21042004/ingest-flow/internal/transcriber"
)

type implBuilder struct {
	minSilence  time.Duration
	offsetDB    float64
	keepSilence time.Duration
	tempDir     string
	transcriber transcriber.Transcriber
	logger      logger.Logger
}

// New creates a Builder. Silence is anything quieter than the track's own
// loudness minus cfg.SilenceOffsetDB.
func New(cfg config.SubtitleConfig, tempDir string, tr transcriber.Transcriber, log logger.Logger) Builder {
	return &implBuilder{
		minSilence:  time.Duration(cfg.MinSilenceMs) * time.Millisecond,
		offsetDB:    cfg.SilenceOffsetDB,
		keepSilence: time.Duration(cfg.KeepSilenceMs) * time.Millisecond,
		tempDir:     tempDir,
		transcriber: tr,
		logger:      log,
	}
}

func (b *implBuilder) splitOptions(track *audio.Track) audio.SplitOptions {
	return audio.SplitOptions{
		MinSilence:  b.minSilence,
		ThresholdDB: track.DBFS() - b.offsetDB,
		KeepSilence: b.keepSilence,
	}
}
