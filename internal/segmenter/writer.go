package segmenter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// WriteJSON stores records as a 4-space indented UTF-8 JSON array.
func WriteJSON(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteDocx stores records as a Word document: one bold heading per title
// followed by its content paragraphs.
func WriteDocx(path, title string, records []Record) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create docx: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), title, true, 16)

	for _, r := range records {
		addStyledRun(doc.AddParagraph(""), r.Title, true, 14)
		for _, line := range splitParagraphs(r.Content) {
			addStyledRun(doc.AddParagraph(""), line, false, fontSize)
		}
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save docx: %w", err)
	}
	return nil
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

func splitParagraphs(content string) []string {
	var out []string
	for _, line := range strings.Split(content, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			out = append(out, t)
		}
	}
	return out
}
