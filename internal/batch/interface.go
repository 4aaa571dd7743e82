// Package batch drives extraction over directory trees and writes the
// aggregated output files.
package batch

import (
	"context"

	"github.com/nguyentantai21042004/ingest-flow/internal/ledger"
)

// Operation names, as stored in the ledger.
const (
	OpExtract  = "extract"
	OpKeywords = "keywords"
	OpWatch    = "watch"
)

// Recorder persists per-file outcomes. *ledger.Store implements it.
type Recorder interface {
	Record(ctx context.Context, e ledger.Entry) error
}

// Summary counts what a run did.
type Summary struct {
	RunID       string
	Operation   string
	Files       int
	Written     int
	Unsupported int
	Failed      int
	Outputs     []string
}

// Driver walks input and writes output. A file that cannot be extracted is
// skipped; only failures to write output or a cancelled context stop a run.
type Driver interface {
	// Run appends every usable file under dir to model_<index>.txt files.
	Run(ctx context.Context, dir string) (Summary, error)
	// RunKeywords segments every usable file under dir and writes one JSON
	// file (and optionally a docx) per source file.
	RunKeywords(ctx context.Context, dir string, keywords []string) (Summary, error)
	// HandleFile processes one file the way Run does, continuing the output
	// numbering across calls. Configured keywords are applied as well.
	HandleFile(ctx context.Context, path string) error
}
