package batch

import (
	"github.com/nguyentantai21042004/ingest-flow/internal/config"
	"github.com/nguyentantai21042004/ingest-flow/internal/extractor"
	"github.com/nguyentantai21042004/ingest-flow/internal/ledger"
	"github.com/nguyentantai21042004/ingest-flow/internal/logger"
	"github.com/nguyentantai21042004/ingest-flow/internal/selector"
)

type implDriver struct {
	cfg       config.BatchConfig
	outputDir string
	extractor extractor.Extractor
	recorder  Recorder
	logger    logger.Logger

	// watch session state for HandleFile
	sessionID string
	nextIndex int
}

// New creates a Driver. rec may be nil when no ledger is configured.
func New(cfg *config.Config, ex extractor.Extractor, rec Recorder, log logger.Logger) Driver {
	return &implDriver{
		cfg:       cfg.Batch,
		outputDir: cfg.Paths.Output,
		extractor: ex,
		recorder:  rec,
		logger:    log,
		sessionID: ledger.NewRunID(),
		nextIndex: 1,
	}
}

func (d *implDriver) policy() selector.Policy {
	return selector.Policy(d.cfg.Selection)
}
