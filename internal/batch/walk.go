package batch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/ingest-flow/internal/selector"
)

// walk visits the regular files under root, directory by directory: the files
// of a directory, reduced by the selection policy, come before its
// subdirectories.
func (d *implDriver) walk(ctx context.Context, root string, visit func(path string) error) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			d.logger.Warn(ctx, "Cannot read %s: %v", path, err)
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		for _, f := range d.selectIn(ctx, path) {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := visit(f); err != nil {
				return err
			}
		}
		return nil
	})
}

// selectIn lists the files of dir in name order and applies the
// selection policy.
func (d *implDriver) selectIn(ctx context.Context, dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		d.logger.Warn(ctx, "Cannot read %s: %v", dir, err)
		return nil
	}

	var paths []string
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if isFile(path, e) {
			paths = append(paths, path)
		}
	}

	files, err := selector.Collect(paths)
	if err != nil {
		d.logger.Warn(ctx, "Selection skipped in %s: %v", dir, err)
		return paths
	}

	selected := selector.Select(files, d.policy())
	out := make([]string, 0, len(selected))
	for _, f := range selected {
		out = append(out, f.Path)
	}
	return out
}

// isFile reports whether e is a regular file or a symlink to one. Symlinked
// directories are neither listed nor descended into.
func isFile(path string, e fs.DirEntry) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
