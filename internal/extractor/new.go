package extractor

import (
	"github.com/nguyentantai21042004/ingest-flow/internal/capability"
	"github.com/nguyentantai21042004/ingest-flow/internal/config"
	"github.com/nguyentantai21042004/ingest-flow/internal/logger"
)

type implExtractor struct {
	registry capability.Registry
	logger   logger.Logger
	tempDir  string
	maxDepth int
	maxBytes int64
}

// New creates an Extractor. Archives are unpacked below tempDir and bounded by
// cfg.MaxArchiveDepth nesting levels and cfg.MaxArchiveBytes of uncompressed
// data per top-level archive.
func New(cfg config.ExtractConfig, tempDir string, registry capability.Registry, log logger.Logger) Extractor {
	return &implExtractor{
		registry: registry,
		logger:   log,
		tempDir:  tempDir,
		maxDepth: cfg.MaxArchiveDepth,
		maxBytes: cfg.MaxArchiveBytes,
	}
}
