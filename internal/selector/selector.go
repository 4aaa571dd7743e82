// Package selector reduces a set of candidate files to the ones worth
// processing, using recency-based selection policies.
package selector

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Policy names a selection rule.
type Policy string

const (
	NoLimit                  Policy = "noLimit"
	LastProducedPerType      Policy = "lastProducedPerType"
	LastProducedInFolder     Policy = "lastProducedInFolder"
	LastProducedSimilarTitle Policy = "lastProducedSimilarTitle"
)

// similarityThreshold is the minimum title similarity for a newer file to
// replace the stored one.
const similarityThreshold = 0.9

var ErrSelectionEmpty = errors.New("no candidate files to select from")

// SourceFile is a candidate file as seen by the selector.
type SourceFile struct {
	Path    string
	Ext     string
	ModTime time.Time
}

// Collect stats each path into a SourceFile, preserving order.
func Collect(paths []string) ([]SourceFile, error) {
	files := make([]SourceFile, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", p, err)
		}
		files = append(files, SourceFile{Path: p, Ext: filepath.Ext(p), ModTime: info.ModTime()})
	}
	return files, nil
}

// Select applies policy to files. Unknown policies return files unchanged.
func Select(files []SourceFile, policy Policy) []SourceFile {
	switch policy {
	case LastProducedPerType:
		return lastPerKey(files, func(f SourceFile) string { return f.Ext })
	case LastProducedInFolder:
		newest, err := newestFile(files)
		if err != nil {
			return []SourceFile{}
		}
		return []SourceFile{newest}
	case LastProducedSimilarTitle:
		return lastSimilarTitle(files)
	default:
		return files
	}
}

// lastPerKey keeps the newest file per key; groups are returned in order of
// their first appearance.
func lastPerKey(files []SourceFile, key func(SourceFile) string) []SourceFile {
	winners := make(map[string]SourceFile)
	var order []string

	for _, f := range files {
		k := key(f)
		current, ok := winners[k]
		if !ok {
			order = append(order, k)
		}
		if !ok || f.ModTime.After(current.ModTime) {
			winners[k] = f
		}
	}

	out := make([]SourceFile, 0, len(order))
	for _, k := range order {
		out = append(out, winners[k])
	}
	return out
}

// newestFile returns the first file with the latest modification time.
func newestFile(files []SourceFile) (SourceFile, error) {
	if len(files) == 0 {
		return SourceFile{}, ErrSelectionEmpty
	}
	newest := files[0]
	for _, f := range files[1:] {
		if f.ModTime.After(newest.ModTime) {
			newest = f
		}
	}
	return newest, nil
}

// lastSimilarTitle groups by exact base name. A newer file replaces the
// stored one only when its base name is similar enough to the stored
// winner's. Because the key already is the exact base name, that comparison
// is always against an identical string.
// TODO: compare against winners of other keys once near-duplicate titles
// (e.g. "report_v1" / "report_v2") are meant to collapse into one group.
func lastSimilarTitle(files []SourceFile) []SourceFile {
	winners := make(map[string]SourceFile)
	var order []string

	for _, f := range files {
		base := baseName(f.Path)
		current, ok := winners[base]
		if !ok {
			order = append(order, base)
			winners[base] = f
			continue
		}
		if f.ModTime.After(current.ModTime) && Similarity(base, baseName(current.Path)) > similarityThreshold {
			winners[base] = f
		}
	}

	out := make([]SourceFile, 0, len(order))
	for _, k := range order {
		out = append(out, winners[k])
	}
	return out
}

// baseName is the path without its extension.
func baseName(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
