package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/ingest-flow/internal/capability"
)

// Process extracts the audio track, builds the subtitles and writes them as
// <name>.srt in the output folder. Files taken from the input folder are moved
// to the archived folder afterwards.
func (p *implProcessor) Process(ctx context.Context, mediaPath string) (Result, error) {
	startTime := time.Now()
	name := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))

	p.logger.Info(ctx, "Starting subtitle generation: %s", mediaPath)

	for _, dir := range []string{p.cfg.Paths.Temp, p.cfg.Paths.Output} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Result{}, fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	audioPath, err := p.extractAudio(ctx, mediaPath)
	if err != nil {
		return Result{}, &PipelineError{Stage: StageAudio, Path: mediaPath, Err: err}
	}
	defer p.cleanupTempFile(ctx, audioPath)

	result := Result{SRTPath: filepath.Join(p.cfg.Paths.Output, name+".srt")}
	cues, err := p.builder.Generate(ctx, audioPath, result.SRTPath, p.cfg.Transcriber.Locale)
	if err != nil {
		return Result{}, &PipelineError{Stage: StageSubtitle, Path: mediaPath, Err: err}
	}
	result.Cues = len(cues)

	if p.cfg.Subtitle.Burn && capability.KindOf(mediaPath) == capability.KindVideo {
		videoPath, err := p.burnSubtitle(ctx, mediaPath, result.SRTPath)
		if err != nil {
			return result, &PipelineError{Stage: StageBurn, Path: mediaPath, Err: err}
		}
		result.VideoPath = videoPath
	}

	if p.fromInput(mediaPath) {
		if err := p.moveToArchived(ctx, mediaPath); err != nil {
			p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
		}
	}

	p.logger.Info(ctx, "Subtitle generated: %s (%d cues, %s)", result.SRTPath, result.Cues, time.Since(startTime).Round(time.Millisecond))
	return result, nil
}
