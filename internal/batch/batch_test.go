package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nguyentantai21042004/ingest-flow/internal/config"
	"github.com/nguyentantai21042004/ingest-flow/internal/extractor"
	"github.com/nguyentantai21042004/ingest-flow/internal/ledger"
	"github.com/nguyentantai21042004/ingest-flow/internal/logger"
)

// fakeExtractor treats .txt as readable text, .csv as broken and everything
// else as unsupported.
type fakeExtractor struct {
	calls []string
}

func (f *fakeExtractor) Extract(ctx context.Context, path string) extractor.Outcome {
	f.calls = append(f.calls, path)
	switch filepath.Ext(path) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return extractor.Outcome{Text: "Failed to process text file", Err: extractor.ErrExtractionFailure}
		}
		return extractor.Outcome{Text: string(data), SourcePath: path, Succeeded: true}
	case ".csv":
		return extractor.Outcome{Text: "Failed to process CSV file: " + path, Err: extractor.ErrExtractionFailure}
	default:
		return extractor.Outcome{Text: "Unsupported file format for " + path, Err: extractor.ErrUnsupportedFormat}
	}
}

type fakeRecorder struct {
	entries []ledger.Entry
	err     error
}

func (f *fakeRecorder) Record(ctx context.Context, e ledger.Entry) error {
	f.entries = append(f.entries, e)
	return f.err
}

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if !mtime.IsZero() {
		if err := os.Chtimes(path, mtime, mtime); err != nil {
			t.Fatal(err)
		}
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func newTestDriver(t *testing.T, batch config.BatchConfig, rec Recorder) (*implDriver, *fakeExtractor, string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "out")
	cfg := &config.Config{Batch: batch}
	cfg.Paths.Output = out
	ex := &fakeExtractor{}
	return New(cfg, ex, rec, logger.New("error", nil)).(*implDriver), ex, out
}

func TestRun(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "a.txt"), "alpha", time.Time{})
	writeFile(t, filepath.Join(in, "b.bin"), "?", time.Time{})
	writeFile(t, filepath.Join(in, "d.csv"), "x", time.Time{})
	writeFile(t, filepath.Join(in, "sub", "c.txt"), "gamma", time.Time{})

	rec := &fakeRecorder{}
	d, ex, out := newTestDriver(t, config.BatchConfig{Selection: "noLimit"}, rec)

	s, err := d.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	wantCalls := []string{
		filepath.Join(in, "a.txt"),
		filepath.Join(in, "b.bin"),
		filepath.Join(in, "d.csv"),
		filepath.Join(in, "sub", "c.txt"),
	}
	if diff := cmp.Diff(wantCalls, ex.calls); diff != "" {
		t.Errorf("walk order mismatch (-want +got):\n%s", diff)
	}

	wantSummary := Summary{
		Operation:   OpExtract,
		Files:       4,
		Written:     2,
		Unsupported: 1,
		Failed:      1,
		Outputs:     []string{filepath.Join(out, "model_1.txt"), filepath.Join(out, "model_2.txt")},
	}
	if diff := cmp.Diff(wantSummary, s, cmpopts.IgnoreFields(Summary{}, "RunID")); diff != "" {
		t.Errorf("Summary mismatch (-want +got):\n%s", diff)
	}

	if got, want := readFile(t, filepath.Join(out, "model_1.txt")), "\nOriginal file path: "+filepath.Join(in, "a.txt")+"\nFile content:\nalpha\n"; got != want {
		t.Errorf("model_1.txt = %q, want %q", got, want)
	}
	if got, want := readFile(t, filepath.Join(out, "model_2.txt")), "\nOriginal file path: "+filepath.Join(in, "sub", "c.txt")+"\nFile content:\ngamma\n"; got != want {
		t.Errorf("model_2.txt = %q, want %q", got, want)
	}

	wantStatuses := []string{ledger.StatusOK, ledger.StatusUnsupported, ledger.StatusFailed, ledger.StatusOK}
	if len(rec.entries) != len(wantStatuses) {
		t.Fatalf("recorded %d entries, want %d", len(rec.entries), len(wantStatuses))
	}
	for i, e := range rec.entries {
		if e.Status != wantStatuses[i] || e.RunID != s.RunID || e.Operation != OpExtract || e.Path != wantCalls[i] {
			t.Errorf("entry %d = %+v", i, e)
		}
	}
	if rec.entries[1].Detail != "Unsupported file format for "+filepath.Join(in, "b.bin") {
		t.Errorf("unsupported detail = %q", rec.entries[1].Detail)
	}
}

func TestRunAppliesSelectionPerDirectory(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "old.txt"), "old", time.Unix(100, 0))
	writeFile(t, filepath.Join(in, "new.txt"), "new", time.Unix(500, 0))
	writeFile(t, filepath.Join(in, "mid.txt"), "mid", time.Unix(300, 0))
	writeFile(t, filepath.Join(in, "sub", "only.txt"), "only", time.Unix(50, 0))

	d, ex, _ := newTestDriver(t, config.BatchConfig{Selection: "lastProducedInFolder"}, nil)

	s, err := d.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{filepath.Join(in, "new.txt"), filepath.Join(in, "sub", "only.txt")}
	if diff := cmp.Diff(want, ex.calls); diff != "" {
		t.Errorf("processed files mismatch (-want +got):\n%s", diff)
	}
	if s.Written != 2 {
		t.Errorf("Written = %d, want 2", s.Written)
	}
}

func TestRunFollowsFileSymlinks(t *testing.T) {
	in := t.TempDir()
	elsewhere := t.TempDir()
	writeFile(t, filepath.Join(elsewhere, "target.txt"), "linked", time.Time{})
	writeFile(t, filepath.Join(elsewhere, "dir", "hidden.txt"), "hidden", time.Time{})
	writeFile(t, filepath.Join(in, "a.txt"), "alpha", time.Time{})

	links := map[string]string{
		"b.txt":   filepath.Join(elsewhere, "target.txt"),
		"c.txt":   filepath.Join(elsewhere, "missing.txt"),
		"linkdir": filepath.Join(elsewhere, "dir"),
	}
	for name, target := range links {
		if err := os.Symlink(target, filepath.Join(in, name)); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}
	}

	d, ex, out := newTestDriver(t, config.BatchConfig{Selection: "noLimit"}, nil)

	s, err := d.Run(context.Background(), in)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := []string{filepath.Join(in, "a.txt"), filepath.Join(in, "b.txt")}
	if diff := cmp.Diff(want, ex.calls); diff != "" {
		t.Errorf("processed files mismatch (-want +got):\n%s", diff)
	}
	if s.Written != 2 {
		t.Errorf("Written = %d, want 2", s.Written)
	}
	if got, want := readFile(t, filepath.Join(out, "model_2.txt")), "\nOriginal file path: "+filepath.Join(in, "b.txt")+"\nFile content:\nlinked\n"; got != want {
		t.Errorf("model_2.txt = %q, want %q", got, want)
	}
}

func TestRunKeepsGoingWhenLedgerFails(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "a.txt"), "alpha", time.Time{})

	d, _, out := newTestDriver(t, config.BatchConfig{}, &fakeRecorder{err: errors.New("disk full")})

	if _, err := d.Run(context.Background(), in); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "model_1.txt")); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "a.txt"), "alpha", time.Time{})

	d, ex, _ := newTestDriver(t, config.BatchConfig{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := d.Run(ctx, in); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
	if len(ex.calls) != 0 {
		t.Errorf("extractor called %d times after cancel", len(ex.calls))
	}
}

func TestRunMissingDir(t *testing.T) {
	d, _, _ := newTestDriver(t, config.BatchConfig{}, nil)
	if _, err := d.Run(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Run() on a missing directory should fail")
	}
}

func TestRunKeywords(t *testing.T) {
	in := t.TempDir()
	writeFile(t, filepath.Join(in, "doc.txt"), "AAA hello BBB world", time.Time{})
	writeFile(t, filepath.Join(in, "skip.bin"), "?", time.Time{})

	d, _, out := newTestDriver(t, config.BatchConfig{Docx: true}, nil)

	s, err := d.RunKeywords(context.Background(), in, []string{"AAA", "BBB"})
	if err != nil {
		t.Fatalf("RunKeywords() error = %v", err)
	}

	want := "[\n" +
		"    {\n        \"title\": \"AAA\",\n        \"content\": \"hello\"\n    },\n" +
		"    {\n        \"title\": \"BBB\",\n        \"content\": \"world\"\n    }\n" +
		"]\n"
	if got := readFile(t, filepath.Join(out, "doc.json")); got != want {
		t.Errorf("doc.json = %q, want %q", got, want)
	}
	if _, err := os.Stat(filepath.Join(out, "doc.docx")); err != nil {
		t.Errorf("doc.docx missing: %v", err)
	}
	if s.Files != 2 || s.Written != 1 || s.Unsupported != 1 || len(s.Outputs) != 2 {
		t.Errorf("Summary = %+v", s)
	}
}

func TestRunKeywordsRequiresKeywords(t *testing.T) {
	d, _, _ := newTestDriver(t, config.BatchConfig{}, nil)
	if _, err := d.RunKeywords(context.Background(), t.TempDir(), nil); err == nil {
		t.Error("RunKeywords() without keywords should fail")
	}
}

func TestHandleFile(t *testing.T) {
	in := t.TempDir()
	first := filepath.Join(in, "first.txt")
	second := filepath.Join(in, "second.txt")
	writeFile(t, first, "one", time.Time{})
	writeFile(t, second, "Capitolo due", time.Time{})
	writeFile(t, filepath.Join(in, "x.bin"), "?", time.Time{})

	rec := &fakeRecorder{}
	d, _, out := newTestDriver(t, config.BatchConfig{Keywords: []string{"capitolo"}}, rec)
	ctx := context.Background()

	for _, p := range []string{first, filepath.Join(in, "x.bin"), second} {
		if err := d.HandleFile(ctx, p); err != nil {
			t.Fatalf("HandleFile(%s) error = %v", p, err)
		}
	}

	if got := readFile(t, filepath.Join(out, "model_2.txt")); got != "\nOriginal file path: "+second+"\nFile content:\nCapitolo due\n" {
		t.Errorf("model_2.txt = %q", got)
	}
	if _, err := os.Stat(filepath.Join(out, "model_3.txt")); !os.IsNotExist(err) {
		t.Error("unsupported file produced an output block")
	}
	if _, err := os.Stat(filepath.Join(out, "second.json")); err != nil {
		t.Errorf("second.json missing: %v", err)
	}
	if len(rec.entries) != 3 || rec.entries[0].RunID != rec.entries[2].RunID || rec.entries[0].Operation != OpWatch {
		t.Errorf("entries = %+v, want three entries sharing one watch run", rec.entries)
	}
}
