package audio

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/go-cmp/cmp"
)

// buildTrack renders a 1 kHz-sample-rate mono track from (tone?, ms) spans.
func buildTrack(spans ...span) *Track {
	t := &Track{SampleRate: 1000, Channels: 1}
	for _, s := range spans {
		for i := 0; i < s.ms; i++ {
			var v int16
			if s.tone {
				v = 10000
				if i%2 == 1 {
					v = -10000
				}
			}
			t.Samples = append(t.Samples, v)
		}
	}
	return t
}

type span struct {
	tone bool
	ms   int
}

func TestWAVRoundTrip(t *testing.T) {
	want := &Track{SampleRate: 16000, Channels: 2, Samples: []int16{0, 1, -1, 32767, -32768, 42}}

	path := filepath.Join(t.TempDir(), "a.wav")
	if err := WriteWAV(path, want); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}
	got, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadWAVRejectsNonPCM16(t *testing.T) {
	path := filepath.Join(t.TempDir(), "8bit.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	enc := wav.NewEncoder(f, 8000, 8, 1, 1)
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: 1, SampleRate: 8000},
		Data:   []int{128, 130, 126, 128},
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := ReadWAV(path); !errors.Is(err, ErrUnsupportedWAV) {
		t.Errorf("ReadWAV() error = %v, want ErrUnsupportedWAV", err)
	}
	if _, err := DecodeWAV(bytes.NewReader([]byte("not a wav file"))); err == nil {
		t.Error("DecodeWAV() should reject garbage")
	}
}

func TestWAVEmptyTrack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	if err := WriteWAV(path, &Track{SampleRate: 16000, Channels: 1}); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}
	got, err := ReadWAV(path)
	if err != nil {
		t.Fatalf("ReadWAV() error = %v", err)
	}
	if got.SampleRate != 16000 || got.Channels != 1 || len(got.Samples) != 0 {
		t.Errorf("ReadWAV() = %+v, want empty 16 kHz mono track", got)
	}
}

func TestWriteWAVRejectsBadFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	if err := WriteWAV(path, &Track{SampleRate: 0, Channels: 1}); !errors.Is(err, ErrUnsupportedWAV) {
		t.Errorf("WriteWAV() error = %v, want ErrUnsupportedWAV", err)
	}
}

func TestDurationAndDBFS(t *testing.T) {
	tr := buildTrack(span{true, 1500})
	if d := tr.Duration(); d != 1500*time.Millisecond {
		t.Errorf("Duration() = %v, want 1.5s", d)
	}

	want := 20 * math.Log10(10000/maxAmplitude)
	if got := tr.DBFS(); math.Abs(got-want) > 1e-9 {
		t.Errorf("DBFS() = %v, want %v", got, want)
	}

	if got := buildTrack(span{false, 100}).DBFS(); !math.IsInf(got, -1) {
		t.Errorf("DBFS(silence) = %v, want -Inf", got)
	}
}

func TestSplitOnSilence(t *testing.T) {
	tr := buildTrack(
		span{true, 1000},
		span{false, 2000},
		span{true, 1000},
		span{false, 2000},
		span{true, 1000},
	)
	opts := SplitOptions{
		MinSilence:  500 * time.Millisecond,
		ThresholdDB: tr.DBFS() - 14,
		KeepSilence: 500 * time.Millisecond,
	}

	chunks := SplitOnSilence(tr, opts)
	if len(chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(chunks))
	}

	type bounds struct {
		Index    int
		Start    time.Duration
		Duration time.Duration
	}
	var got []bounds
	for _, c := range chunks {
		got = append(got, bounds{c.Index, c.Start, c.Duration})
		if c.Track.Duration() != c.Duration {
			t.Errorf("chunk %d track duration %v != %v", c.Index, c.Track.Duration(), c.Duration)
		}
	}
	want := []bounds{
		{0, 0, 1492 * time.Millisecond},
		{1, 2508 * time.Millisecond, 1984 * time.Millisecond},
		{2, 5508 * time.Millisecond, 1492 * time.Millisecond},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("chunk bounds mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitOnSilenceEdgeCases(t *testing.T) {
	opts := func(tr *Track) SplitOptions {
		return SplitOptions{MinSilence: 500 * time.Millisecond, ThresholdDB: tr.DBFS() - 14, KeepSilence: 500 * time.Millisecond}
	}

	silent := buildTrack(span{false, 3000})
	if chunks := SplitOnSilence(silent, opts(silent)); len(chunks) != 0 {
		t.Errorf("silent track chunks = %d, want 0", len(chunks))
	}

	tone := buildTrack(span{true, 3000})
	chunks := SplitOnSilence(tone, opts(tone))
	if len(chunks) != 1 || chunks[0].Duration != 3*time.Second {
		t.Errorf("continuous tone chunks = %+v, want one 3s chunk", chunks)
	}

	short := buildTrack(span{true, 200})
	chunks = SplitOnSilence(short, opts(short))
	if len(chunks) != 1 || chunks[0].Duration != 200*time.Millisecond {
		t.Errorf("short track chunks = %+v, want one 200ms chunk", chunks)
	}

	empty := &Track{SampleRate: 1000, Channels: 1}
	if chunks := SplitOnSilence(empty, opts(empty)); len(chunks) != 0 {
		t.Errorf("empty track chunks = %d, want 0", len(chunks))
	}
}

func TestSplitOnSilenceMergesNearbyPadding(t *testing.T) {
	// 600ms of silence is long enough to split but shorter than twice the padding.
	tr := buildTrack(span{true, 1000}, span{false, 600}, span{true, 1000})
	chunks := SplitOnSilence(tr, SplitOptions{
		MinSilence:  500 * time.Millisecond,
		ThresholdDB: tr.DBFS() - 14,
		KeepSilence: 500 * time.Millisecond,
	})
	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2", len(chunks))
	}
	if end := chunks[0].Start + chunks[0].Duration; end != chunks[1].Start {
		t.Errorf("first chunk ends at %v, second starts at %v; want midpoint split", end, chunks[1].Start)
	}
	if total := chunks[0].Duration + chunks[1].Duration; total != tr.Duration() {
		t.Errorf("chunks cover %v, want %v", total, tr.Duration())
	}
}
