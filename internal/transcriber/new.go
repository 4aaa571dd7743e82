package transcriber

import (
	"fmt"

	"github.com/nguyentantai21042004/ingest-flow/internal/config"
	"github.com/nguyentantai21042004/ingest-flow/internal/logger"
	"github.com/nguyentantai21042004/ingest-flow/pkg/executor"
)

// New builds the backend selected by transcriber.backend.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger) (Transcriber, error) {
	switch cfg.Transcriber.Backend {
	case config.BackendWhisper:
		return NewWhisper(cfg.Whisper, cfg.Paths.Temp, cfg.Transcriber.Timeout, exec, log), nil
	case config.BackendGemini:
		return NewGemini(cfg.Gemini, cfg.Transcriber.Timeout, log), nil
	default:
		return nil, fmt.Errorf("unknown transcriber backend %q", cfg.Transcriber.Backend)
	}
}
