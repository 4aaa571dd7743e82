package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/ingest-flow/internal/logger"
)

// DefaultSettle is how long a new file is left alone before it is handled, so
// the writer can finish.
const DefaultSettle = 500 * time.Millisecond

// New creates a Watcher on inputDir. Files accepted by filter are passed to
// handler one at a time, in event order.
func New(inputDir string, handler EventHandler, filter Filter, settle time.Duration, log logger.Logger) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if settle < 0 {
		settle = DefaultSettle
	}

	return &implWatcher{
		inputDir: inputDir,
		handler:  handler,
		filter:   filter,
		settle:   settle,
		logger:   log,
		watcher:  watcher,
	}, nil
}
