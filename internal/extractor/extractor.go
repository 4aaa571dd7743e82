package extractor

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/ingest-flow/internal/capability"
)

func (e *implExtractor) Extract(ctx context.Context, path string) Outcome {
	kind, c, ok := e.registry.Lookup(path)
	if !ok {
		e.logger.Debug(ctx, "Unsupported file format for %s", path)
		return Outcome{Text: unsupportedPrefix + path, Err: ErrUnsupportedFormat}
	}
	if kind == capability.KindArchive {
		return e.extractArchive(ctx, path)
	}

	text, err := c.Extract(ctx, path)
	if err != nil {
		e.logger.Error(ctx, "Error processing %s file: %s - %v", kind, path, err)
		return Outcome{
			Text: fmt.Sprintf("%s%s file: %s - %v", failurePrefix, kind, path, err),
			Err:  fmt.Errorf("%w: %w", ErrExtractionFailure, err),
		}
	}

	e.logger.Info(ctx, "%s file processed: %s", kind, path)
	return Outcome{Text: Normalize(text), SourcePath: path, Succeeded: true}
}

// Normalize drops the first and last line of text, assumed to be a header and
// a footer, when it has more than three lines.
func Normalize(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) > 3 {
		return strings.Join(lines[1:len(lines)-1], "\n")
	}
	return text
}
