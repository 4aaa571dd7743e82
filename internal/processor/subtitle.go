package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// burnSubtitle renders the SRT onto a copy of the video in output/videos.
// ffmpeg runs inside a private temp dir and gets the subtitle by bare file
// name, since the subtitles filter cannot parse most absolute paths.
func (p *implProcessor) burnSubtitle(ctx context.Context, videoPath, srtPath string) (string, error) {
	videosDir := filepath.Join(p.cfg.Paths.Output, "videos")
	if err := os.MkdirAll(videosDir, 0755); err != nil {
		return "", fmt.Errorf("create videos dir: %w", err)
	}
	outputPath := filepath.Join(videosDir, filepath.Base(videoPath))

	workDir, err := os.MkdirTemp(p.cfg.Paths.Temp, "burn-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	const subName = "subtitle.srt"
	if err := copyFile(srtPath, filepath.Join(workDir, subName)); err != nil {
		return "", fmt.Errorf("copy subtitle to temp: %w", err)
	}

	absVideo, err := filepath.Abs(videoPath)
	if err != nil {
		return "", fmt.Errorf("resolve video path: %w", err)
	}
	tempOutput := filepath.Join(workDir, "output"+filepath.Ext(videoPath))
	absOutput, err := filepath.Abs(tempOutput)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}

	p.logger.Info(ctx, "Burning subtitle into video: %s", videoPath)

	ffmpeg := p.cfg.FFmpeg.BinaryPath
	args := []string{
		"-y",
		"-i", absVideo,
		"-vf", "subtitles=" + subName,
		"-c:v", p.cfg.FFmpeg.Encoder,
		"-b:v", p.cfg.FFmpeg.VideoBitrate,
		"-c:a", p.cfg.FFmpeg.AudioCodec,
		absOutput,
	}
	if _, err := p.executor.ExecuteInDir(ctx, workDir, ffmpeg, args...); err != nil {
		p.logger.Warn(ctx, "Encoder %s failed, retrying with libx264: %v", p.cfg.FFmpeg.Encoder, err)
		fallback := []string{
			"-y",
			"-i", absVideo,
			"-vf", "subtitles=" + subName,
			"-c:v", "libx264",
			"-preset", p.cfg.FFmpeg.Preset,
			"-crf", "23",
			"-c:a", "copy",
			absOutput,
		}
		if _, err := p.executor.ExecuteInDir(ctx, workDir, ffmpeg, fallback...); err != nil {
			return "", fmt.Errorf("burn subtitle: %w", err)
		}
	}

	if err := os.Rename(tempOutput, outputPath); err != nil {
		if err := copyFile(tempOutput, outputPath); err != nil {
			return "", fmt.Errorf("move output to final location: %w", err)
		}
	}

	p.logger.Info(ctx, "Subtitle burned: %s", outputPath)
	return outputPath, nil
}
