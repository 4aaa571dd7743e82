package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/ingest-flow/internal/extractor"
	"github.com/nguyentantai21042004/ingest-flow/internal/ledger"
	"github.com/nguyentantai21042004/ingest-flow/internal/segmenter"
)

func (d *implDriver) Run(ctx context.Context, dir string) (Summary, error) {
	s := Summary{RunID: ledger.NewRunID(), Operation: OpExtract}
	if err := os.MkdirAll(d.outputDir, 0755); err != nil {
		return s, fmt.Errorf("create output dir: %w", err)
	}

	index := 1
	err := d.walk(ctx, dir, func(path string) error {
		out := d.extract(ctx, &s, path)
		if !out.Usable() {
			return nil
		}
		outPath, err := d.appendOutput(ctx, index, out)
		if err != nil {
			return err
		}
		index++
		s.Written++
		s.Outputs = append(s.Outputs, outPath)
		return nil
	})
	return s, err
}

func (d *implDriver) RunKeywords(ctx context.Context, dir string, keywords []string) (Summary, error) {
	s := Summary{RunID: ledger.NewRunID(), Operation: OpKeywords}
	if len(keywords) == 0 {
		return s, errors.New("keywords are required")
	}
	if err := os.MkdirAll(d.outputDir, 0755); err != nil {
		return s, fmt.Errorf("create output dir: %w", err)
	}

	err := d.walk(ctx, dir, func(path string) error {
		out := d.extract(ctx, &s, path)
		if !out.Usable() {
			return nil
		}
		if written := d.writeSegments(ctx, path, out.Text, keywords); len(written) > 0 {
			s.Written++
			s.Outputs = append(s.Outputs, written...)
		}
		return nil
	})
	return s, err
}

func (d *implDriver) HandleFile(ctx context.Context, path string) error {
	s := Summary{RunID: d.sessionID, Operation: OpWatch}
	out := d.extract(ctx, &s, path)
	if !out.Usable() {
		return nil
	}

	if err := os.MkdirAll(d.outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if _, err := d.appendOutput(ctx, d.nextIndex, out); err != nil {
		return err
	}
	d.nextIndex++

	if len(d.cfg.Keywords) > 0 {
		d.writeSegments(ctx, path, out.Text, d.cfg.Keywords)
	}
	return nil
}

// extract runs the extractor on path, counts the outcome into s and records
// it in the ledger.
func (d *implDriver) extract(ctx context.Context, s *Summary, path string) extractor.Outcome {
	out := d.extractor.Extract(ctx, path)
	s.Files++

	status, detail := ledger.StatusOK, ""
	switch {
	case out.Unsupported():
		s.Unsupported++
		status, detail = ledger.StatusUnsupported, out.Text
	case !out.Succeeded:
		s.Failed++
		status, detail = ledger.StatusFailed, out.Text
	}

	if d.recorder != nil {
		entry := ledger.Entry{RunID: s.RunID, Operation: s.Operation, Path: path, Status: status, Detail: detail}
		if err := d.recorder.Record(ctx, entry); err != nil {
			d.logger.Warn(ctx, "Ledger write failed for %s: %v", path, err)
		}
	}
	return out
}

// appendOutput appends one block to model_<index>.txt and syncs it, so every
// block written before an abort stays readable.
func (d *implDriver) appendOutput(ctx context.Context, index int, out extractor.Outcome) (string, error) {
	path := filepath.Join(d.outputDir, fmt.Sprintf("model_%d.txt", index))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("open output: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "\nOriginal file path: %s\nFile content:\n%s\n", out.SourcePath, out.Text); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}
	if err := f.Sync(); err != nil {
		return "", fmt.Errorf("sync output: %w", err)
	}

	d.logger.Info(ctx, "Output written: %s", path)
	return path, nil
}

// writeSegments writes the keyword records of one source file. Write errors
// are logged; the walk goes on.
func (d *implDriver) writeSegments(ctx context.Context, sourcePath, text string, keywords []string) []string {
	records := segmenter.Segment(text, keywords)
	base := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))

	var written []string
	jsonPath := filepath.Join(d.outputDir, base+".json")
	if err := segmenter.WriteJSON(jsonPath, records); err != nil {
		d.logger.Error(ctx, "Error writing JSON file: %s - %v", jsonPath, err)
		return nil
	}
	d.logger.Info(ctx, "JSON file written: %s", jsonPath)
	written = append(written, jsonPath)

	if d.cfg.Docx {
		docxPath := filepath.Join(d.outputDir, base+".docx")
		if err := segmenter.WriteDocx(docxPath, base, records); err != nil {
			d.logger.Error(ctx, "Error writing Word file: %s - %v", docxPath, err)
		} else {
			written = append(written, docxPath)
		}
	}
	return written
}
