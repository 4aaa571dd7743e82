package extractor

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/ingest-flow/internal/capability"
)

var errArchiveTooLarge = errors.New("archive exceeds the extraction size limit")

// archiveEntry is a regular file unpacked from an archive.
type archiveEntry struct {
	name string
	path string
}

// archiveFrame is one archive being walked. Frames form a stack: the bottom
// one is the archive the caller asked for, each frame above it an archive
// found inside the frame below.
type archiveFrame struct {
	label   string
	scratch string
	entries []archiveEntry
	next    int
	depth   int
}

// current is the entry most recently taken from the frame.
func (f *archiveFrame) current() archiveEntry {
	return f.entries[f.next-1]
}

// extractArchive returns the outcome of the first entry, in listing order and
// depth first through nested archives, that yields usable text.
func (e *implExtractor) extractArchive(ctx context.Context, path string) Outcome {
	remaining := e.maxBytes
	var scratchDirs []string
	defer func() {
		for _, dir := range scratchDirs {
			os.RemoveAll(dir)
		}
	}()

	root, err := e.unpack(ctx, path, path, 1, &remaining)
	if root != nil {
		scratchDirs = append(scratchDirs, root.scratch)
	}
	if err != nil {
		e.logger.Error(ctx, "Error processing ZIP file: %s - %v", path, err)
		return Outcome{
			Text: fmt.Sprintf("%sZIP file: %s - %v", failurePrefix, path, err),
			Err:  fmt.Errorf("%w: %w", ErrExtractionFailure, err),
		}
	}

	stack := []*archiveFrame{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return Outcome{
				Text: fmt.Sprintf("%sZIP file: %s - %v", failurePrefix, path, err),
				Err:  fmt.Errorf("%w: %w", ErrExtractionFailure, err),
			}
		}

		top := stack[len(stack)-1]
		if top.next == len(top.entries) {
			stack = stack[:len(stack)-1]
			os.RemoveAll(top.scratch)
			if len(stack) > 0 {
				os.Remove(stack[len(stack)-1].current().path)
			}
			continue
		}

		top.next++
		entry := top.current()

		if capability.KindOf(entry.path) == capability.KindArchive {
			if top.depth >= e.maxDepth {
				e.logger.Warn(ctx, "Nested archive too deep, skipped: %s in %s", entry.name, top.label)
				os.Remove(entry.path)
				continue
			}
			child, err := e.unpack(ctx, entry.path, entry.name, top.depth+1, &remaining)
			if child != nil {
				scratchDirs = append(scratchDirs, child.scratch)
			}
			if err != nil {
				e.logger.Error(ctx, "Error processing ZIP file: %s - %v", entry.name, err)
				os.Remove(entry.path)
				continue
			}
			stack = append(stack, child)
			continue
		}

		out := e.Extract(ctx, entry.path)
		if !out.Usable() {
			os.Remove(entry.path)
			continue
		}

		text := out.Text
		for i := len(stack) - 1; i >= 0; i-- {
			text = fmt.Sprintf("%s (from %s in %s)", text, stack[i].current().name, stack[i].label)
		}
		e.logger.Info(ctx, "ZIP file processed: %s", path)
		return Outcome{Text: text, SourcePath: path, Succeeded: true}
	}

	e.logger.Warn(ctx, "No supported files found in ZIP: %s", path)
	return Outcome{Text: noSupportedText, Err: ErrNoSupportedEntry}
}

// unpack extracts the regular files of the zip at path into a fresh scratch
// directory. Entries escaping the directory are skipped. Once the shared
// byte budget runs out the remaining entries are left out. The frame is
// returned whenever its scratch directory exists, so the caller can remove it.
func (e *implExtractor) unpack(ctx context.Context, path, label string, depth int, remaining *int64) (*archiveFrame, error) {
	zr, err := zip.OpenReader(path)
	if err != nil && !(errors.Is(err, zip.ErrInsecurePath) && zr != nil) {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer zr.Close()

	scratch := filepath.Join(e.tempDir, "archive-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	frame := &archiveFrame{label: label, scratch: scratch, depth: depth}

	for _, f := range zr.File {
		if !f.Mode().IsRegular() {
			continue
		}
		name := filepath.FromSlash(f.Name)
		if !filepath.IsLocal(name) {
			e.logger.Warn(ctx, "Skipping archive entry outside the extraction dir: %s", f.Name)
			continue
		}

		target := filepath.Join(scratch, name)
		err := unpackEntry(f, target, remaining)
		if errors.Is(err, errArchiveTooLarge) {
			e.logger.Warn(ctx, "Archive size limit reached, remaining entries skipped: %s", label)
			break
		}
		if err != nil {
			return frame, fmt.Errorf("extract %s: %w", f.Name, err)
		}
		frame.entries = append(frame.entries, archiveEntry{name: f.Name, path: target})
	}

	return frame, nil
}

func unpackEntry(f *zip.File, target string, remaining *int64) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}

	n, err := io.Copy(out, io.LimitReader(rc, *remaining+1))
	*remaining -= n
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && *remaining < 0 {
		err = errArchiveTooLarge
	}
	if err != nil {
		os.Remove(target)
		return err
	}
	return nil
}
