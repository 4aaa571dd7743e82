// Package extractor turns any supported file into normalized plain text. It
// never returns an error: every failure is reported as a sentinel Outcome.
package extractor

import (
	"context"
	"errors"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrExtractionFailure = errors.New("extraction failed")
	ErrNoSupportedEntry  = errors.New("no supported entry in archive")
)

const (
	unsupportedPrefix = "Unsupported file format for "
	failurePrefix     = "Failed to process "
	noSupportedText   = "No supported files found or failed to process"
)

// Outcome is the result of extracting one file. SourcePath is empty when
// extraction did not succeed. Err carries the sentinel behind a failed
// outcome for logging; Text already describes it.
type Outcome struct {
	Text       string
	SourcePath string
	Succeeded  bool
	Err        error
}

// Unsupported reports whether no capability handles the file.
func (o Outcome) Unsupported() bool {
	return errors.Is(o.Err, ErrUnsupportedFormat)
}

// Usable reports whether the outcome carries extracted content.
func (o Outcome) Usable() bool {
	return o.Succeeded && !o.Unsupported()
}

// Extractor extracts text from a file, dispatching archives to the archive
// expander.
type Extractor interface {
	Extract(ctx context.Context, path string) Outcome
}
