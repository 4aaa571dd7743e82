// Package audio reads and writes 16-bit PCM WAV tracks and splits them into
// chunks around silence.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	formatPCM        = 1
	formatExtensible = 0xFFFE
	bitDepth         = 16
	maxAmplitude     = 32768.0
)

var ErrUnsupportedWAV = errors.New("unsupported wav encoding")

// Track is an interleaved 16-bit PCM signal.
type Track struct {
	SampleRate int
	Channels   int
	Samples    []int16
}

// Frames returns the number of sample frames (samples per channel).
func (t *Track) Frames() int {
	if t.Channels <= 0 {
		return 0
	}
	return len(t.Samples) / t.Channels
}

// Duration returns the playback length of the track.
func (t *Track) Duration() time.Duration {
	if t.SampleRate <= 0 {
		return 0
	}
	return time.Duration(t.Frames()) * time.Second / time.Duration(t.SampleRate)
}

// DBFS returns the track loudness relative to full scale. A silent or empty
// track yields -Inf.
func (t *Track) DBFS() float64 {
	if len(t.Samples) == 0 {
		return math.Inf(-1)
	}
	var sum float64
	for _, s := range t.Samples {
		v := float64(s)
		sum += v * v
	}
	rms := math.Sqrt(sum / float64(len(t.Samples)))
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms/maxAmplitude)
}

// ReadWAV loads a PCM WAV file.
func ReadWAV(path string) (*Track, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wav: %w", err)
	}
	return DecodeWAV(bytes.NewReader(data))
}

// DecodeWAV parses a RIFF/WAVE stream holding 16-bit PCM samples.
func DecodeWAV(r io.ReadSeeker) (*Track, error) {
	dec := wav.NewDecoder(r)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}

	format := dec.WavAudioFormat
	if (format != formatPCM && format != formatExtensible) || dec.BitDepth != bitDepth {
		return nil, fmt.Errorf("%w: format=%d bits=%d", ErrUnsupportedWAV, format, dec.BitDepth)
	}
	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, fmt.Errorf("%w: channels=%d rate=%d", ErrUnsupportedWAV, dec.NumChans, dec.SampleRate)
	}

	track := &Track{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		Samples:    make([]int16, len(buf.Data)),
	}
	for i, v := range buf.Data {
		track.Samples[i] = int16(v)
	}
	return track, nil
}

// WriteWAV stores the track as a PCM WAV file.
func WriteWAV(path string, t *Track) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := EncodeWAV(f, t); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	return nil
}

// EncodeWAV writes the track to w. The header sizes are patched on close,
// hence the Seeker.
func EncodeWAV(w io.WriteSeeker, t *Track) error {
	if t.Channels <= 0 || t.SampleRate <= 0 {
		return fmt.Errorf("%w: channels=%d rate=%d", ErrUnsupportedWAV, t.Channels, t.SampleRate)
	}

	data := make([]int, len(t.Samples))
	for i, s := range t.Samples {
		data[i] = int(s)
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: t.Channels, SampleRate: t.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	enc := wav.NewEncoder(w, t.SampleRate, bitDepth, t.Channels, formatPCM)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finish wav: %w", err)
	}
	return nil
}
