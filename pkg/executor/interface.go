package executor

import (
	"context"
	"fmt"
)

// Executor runs external converters (ffmpeg, whisper-cli, pdftotext...).
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error)
}

// CommandError is returned when a command cannot start or exits non-zero.
// Stderr holds the tail of the command's error output.
type CommandError struct {
	Name     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("command '%s' failed: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("command '%s' failed: %v\nstderr: %s", e.Name, e.Err, e.Stderr)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}
