package processor

import (
	"github.com/nguyentantai21042004/ingest-flow/internal/config"
	"github.com/nguyentantai21042004/ingest-flow/internal/logger"
	"github.com/nguyentantai21042004/ingest-flow/internal/subtitle"
	"github.com/nguyentantai21042004/ingest-flow/pkg/executor"
)

type implProcessor struct {
	cfg      *config.Config
	executor executor.Executor
	builder  subtitle.Builder
	logger   logger.Logger
}

// New creates a new Processor instance
func New(cfg *config.Config, exec executor.Executor, builder subtitle.Builder, log logger.Logger) Processor {
	return &implProcessor{
		cfg:      cfg,
		executor: exec,
		builder:  builder,
		logger:   log,
	}
}
