package processor

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/ingest-flow/internal/audio"
)

// extractAudio converts the media file to the 16 kHz mono WAV the subtitle
// builder reads, in the temp folder.
func (p *implProcessor) extractAudio(ctx context.Context, mediaPath string) (string, error) {
	audioPath := filepath.Join(p.cfg.Paths.Temp, "track-"+uuid.NewString()+".wav")

	p.logger.Info(ctx, "Extracting audio: %s", mediaPath)
	if err := audio.ExtractWAV(ctx, p.executor, p.cfg.FFmpeg.BinaryPath, mediaPath, audioPath); err != nil {
		return "", err
	}

	p.logger.Debug(ctx, "Audio extracted: %s", audioPath)
	return audioPath, nil
}
