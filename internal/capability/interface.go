// Package capability maps file extensions to the readers that turn a file
// into plain text.
package capability

import (
	"context"
	"path/filepath"
	"strings"
)

// Capability converts one file into text, or fails.
type Capability interface {
	Extract(ctx context.Context, path string) (string, error)
}

// Registry resolves a path to its format kind and the capability serving it.
// ok is false when the kind is unsupported or nothing is registered for it.
type Registry interface {
	Lookup(path string) (kind Kind, c Capability, ok bool)
}

// Kind is the closed set of formats the extractor understands.
type Kind int

const (
	KindUnsupported Kind = iota
	KindText
	KindPDF
	KindWord
	KindPresentation
	KindSpreadsheet
	KindCSV
	KindXML
	KindEPUB
	KindAudio
	KindVideo
	KindArchive
)

var kindNames = map[Kind]string{
	KindUnsupported:  "unsupported",
	KindText:         "text",
	KindPDF:          "PDF",
	KindWord:         "Word",
	KindPresentation: "PowerPoint",
	KindSpreadsheet:  "Excel",
	KindCSV:          "CSV",
	KindXML:          "XML",
	KindEPUB:         "EPUB",
	KindAudio:        "audio",
	KindVideo:        "video",
	KindArchive:      "ZIP",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unsupported"
}

var extensions = map[string]Kind{
	".txt":  KindText,
	".htm":  KindText,
	".html": KindText,
	".srt":  KindText,
	".pdf":  KindPDF,
	".docx": KindWord,
	".doc":  KindWord,
	".pptx": KindPresentation,
	".ppt":  KindPresentation,
	".xls":  KindSpreadsheet,
	".xlsx": KindSpreadsheet,
	".csv":  KindCSV,
	".xml":  KindXML,
	".gan":  KindXML,
	".xsd":  KindXML,
	".epub": KindEPUB,
	".wav":  KindAudio,
	".mp3":  KindAudio,
	".m4a":  KindAudio,
	".mp4":  KindVideo,
	".avi":  KindVideo,
	".mov":  KindVideo,
	".mkv":  KindVideo,
	".mpeg": KindVideo,
	".mpg":  KindVideo,
	".3gp":  KindVideo,
	".zip":  KindArchive,
}

// Ext returns the lowercased extension of path.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

// KindOf returns the format kind of path, based on its extension.
func KindOf(path string) Kind {
	if k, ok := extensions[Ext(path)]; ok {
		return k
	}
	return KindUnsupported
}

// Supported reports whether path has a known extension.
func Supported(path string) bool {
	return KindOf(path) != KindUnsupported
}
