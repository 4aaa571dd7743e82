package capability

import (
	"context"
	"fmt"

	"github.com/nguyentantai21042004/ingest-flow/pkg/executor"
)

// commandReader delegates to an external converter that prints the text of
// the file on stdout.
type commandReader struct {
	exec   executor.Executor
	binary string
	args   func(path string) []string
}

func (r commandReader) Extract(ctx context.Context, path string) (string, error) {
	out, err := r.exec.Execute(ctx, r.binary, r.args(path)...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", r.binary, err)
	}
	return out, nil
}

func pdftotextArgs(path string) []string {
	return []string{"-layout", "-enc", "UTF-8", path, "-"}
}

func pathOnlyArgs(path string) []string {
	return []string{path}
}
