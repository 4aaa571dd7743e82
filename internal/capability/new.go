package capability

import (
	"github.com/nguyentantai21042004/ingest-flow/internal/config"
	"github.com/nguyentantai21042004/ingest-flow/internal/logger"
	"github.com/nguyentantai21042004/ingest-flow/internal/transcriber"
	"github.com/nguyentantai21042004/ingest-flow/pkg/executor"
)

// Set is a per-extension capability table. Keys are lowercased extensions
// including the dot.
type Set map[string]Capability

type implRegistry struct {
	caps Set
}

// New builds the default registry: in-process readers where Go can parse the
// format, external converters through exec otherwise, and tr for speech.
// Archives are resolved to KindArchive without a capability; expanding them is
// the extractor's job.
func New(cfg *config.Config, exec executor.Executor, tr transcriber.Transcriber, log logger.Logger) Registry {
	bins := cfg.Extract.Binaries
	text := textReader{}
	media := mediaReader{
		exec:    exec,
		tr:      tr,
		log:     log,
		ffmpeg:  cfg.FFmpeg.BinaryPath,
		tempDir: cfg.Paths.Temp,
		locale:  cfg.Transcriber.Locale,
	}

	caps := Set{
		".txt":  text,
		".htm":  text,
		".html": text,
		".srt":  text,
		".pdf":  commandReader{exec: exec, binary: bins.PDFToText, args: pdftotextArgs},
		".docx": docxReader{},
		".doc":  commandReader{exec: exec, binary: bins.Antiword, args: pathOnlyArgs},
		".pptx": pptxReader{},
		".ppt":  commandReader{exec: exec, binary: bins.Catppt, args: pathOnlyArgs},
		".xlsx": xlsxReader{},
		".xls":  commandReader{exec: exec, binary: bins.XLS2CSV, args: pathOnlyArgs},
		".csv":  csvReader{},
		".xml":  xmlReader{},
		".gan":  xmlReader{},
		".xsd":  xmlReader{},
		".epub": epubReader{},
	}
	if tr != nil {
		for _, ext := range []string{".wav", ".mp3", ".m4a"} {
			caps[ext] = media
		}
		for _, ext := range []string{".mp4", ".avi", ".mov", ".mkv", ".mpeg", ".mpg", ".3gp"} {
			caps[ext] = media
		}
	}

	return &implRegistry{caps: caps}
}

// NewFromSet builds a registry over an explicit capability table, letting
// callers substitute backends.
func NewFromSet(caps Set) Registry {
	return &implRegistry{caps: caps}
}

func (r *implRegistry) Lookup(path string) (Kind, Capability, bool) {
	kind := KindOf(path)
	switch kind {
	case KindUnsupported:
		return kind, nil, false
	case KindArchive:
		return kind, nil, true
	}

	c, ok := r.caps[Ext(path)]
	if !ok {
		return KindUnsupported, nil, false
	}
	return kind, c, true
}
