package audio

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/ingest-flow/pkg/executor"
)

// ExtractWAV converts any ffmpeg-readable media file into a 16 kHz mono
// 16-bit PCM WAV at outPath.
func ExtractWAV(ctx context.Context, exec executor.Executor, ffmpeg, inPath, outPath string) error {
	args := []string{
		"-i", inPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-threads", "0",
		"-y",
		outPath,
	}

	if _, err := exec.Execute(ctx, ffmpeg, args...); err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w", err)
	}
	return nil
}
