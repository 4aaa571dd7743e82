package processor

import (
	"context"
	"fmt"
)

// Processor turns one audio or video file into an SRT subtitle track in the
// output folder, optionally burning it into a copy of the video.
type Processor interface {
	Process(ctx context.Context, mediaPath string) (Result, error)
}

// Result lists what a run produced. VideoPath is empty unless subtitles were
// burned in.
type Result struct {
	SRTPath   string
	VideoPath string
	Cues      int
}

// Pipeline stages reported by PipelineError.
const (
	StageAudio    = "audio"
	StageSubtitle = "subtitle"
	StageBurn     = "burn"
)

// PipelineError tells which stage of the run failed.
type PipelineError struct {
	Stage string
	Path  string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s stage failed for %s: %v", e.Stage, e.Path, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
