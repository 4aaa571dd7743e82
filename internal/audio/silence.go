package audio

import (
	"math"
	"time"
)

// SplitOptions mirrors the classic split-on-silence knobs. ThresholdDB is an
// absolute dBFS level; windows at or below it count as silence.
type SplitOptions struct {
	MinSilence  time.Duration
	ThresholdDB float64
	KeepSilence time.Duration
}

// Chunk is one non-silent stretch of a track. Start is its position in the
// source track.
type Chunk struct {
	Index    int
	Start    time.Duration
	Duration time.Duration
	Track    *Track
}

// SplitOnSilence cuts the track into non-silent chunks in track order. Each
// chunk keeps up to KeepSilence of the surrounding silence; when two padded
// chunks would overlap they are split at the midpoint.
func SplitOnSilence(t *Track, opts SplitOptions) []Chunk {
	minMs := int(opts.MinSilence / time.Millisecond)
	keepMs := int(opts.KeepSilence / time.Millisecond)
	totalMs := int(t.Duration() / time.Millisecond)

	ranges := nonSilentRanges(newEnergyIndex(t), totalMs, minMs, opts.ThresholdDB)

	padded := make([][2]int, len(ranges))
	for i, r := range ranges {
		padded[i] = [2]int{r[0] - keepMs, r[1] + keepMs}
	}
	for i := 0; i+1 < len(padded); i++ {
		if next := padded[i+1][0]; next < padded[i][1] {
			mid := (padded[i][1] + next) / 2
			padded[i][1] = mid
			padded[i+1][0] = mid
		}
	}

	chunks := make([]Chunk, 0, len(padded))
	for _, r := range padded {
		start := max(r[0], 0)
		end := min(r[1], totalMs)
		if end <= start {
			continue
		}
		sub := t.slice(start, end)
		chunks = append(chunks, Chunk{
			Index:    len(chunks),
			Start:    time.Duration(start) * time.Millisecond,
			Duration: sub.Duration(),
			Track:    sub,
		})
	}
	return chunks
}

// slice returns the millisecond range [startMs, endMs) as a new track.
func (t *Track) slice(startMs, endMs int) *Track {
	from := t.frameAt(startMs) * t.Channels
	to := t.frameAt(endMs) * t.Channels
	samples := make([]int16, to-from)
	copy(samples, t.Samples[from:to])
	return &Track{SampleRate: t.SampleRate, Channels: t.Channels, Samples: samples}
}

func (t *Track) frameAt(ms int) int {
	f := int(int64(ms) * int64(t.SampleRate) / 1000)
	return min(f, t.Frames())
}

// energyIndex answers RMS queries over millisecond windows in O(1) using a
// prefix sum of squared samples.
type energyIndex struct {
	track  *Track
	prefix []float64
}

func newEnergyIndex(t *Track) *energyIndex {
	frames := t.Frames()
	prefix := make([]float64, frames+1)
	for f := 0; f < frames; f++ {
		var sum float64
		for c := 0; c < t.Channels; c++ {
			v := float64(t.Samples[f*t.Channels+c])
			sum += v * v
		}
		prefix[f+1] = prefix[f] + sum
	}
	return &energyIndex{track: t, prefix: prefix}
}

func (e *energyIndex) rms(startMs, endMs int) float64 {
	from, to := e.track.frameAt(startMs), e.track.frameAt(endMs)
	n := (to - from) * e.track.Channels
	if n <= 0 {
		return 0
	}
	return math.Sqrt((e.prefix[to] - e.prefix[from]) / float64(n))
}

// silentRanges returns [start, end) millisecond ranges whose every
// minMs-long window is at or below the threshold, scanning in 1 ms steps.
func silentRanges(e *energyIndex, totalMs, minMs int, thresholdDB float64) [][2]int {
	if minMs <= 0 || totalMs < minMs {
		return nil
	}
	threshold := math.Pow(10, thresholdDB/20) * maxAmplitude

	var starts []int
	for i := 0; i <= totalMs-minMs; i++ {
		if e.rms(i, i+minMs) <= threshold {
			starts = append(starts, i)
		}
	}
	if len(starts) == 0 {
		return nil
	}

	var ranges [][2]int
	prev := starts[0]
	rangeStart := prev
	for _, s := range starts[1:] {
		continuous := s == prev+1
		hasGap := s > prev+minMs
		if !continuous && hasGap {
			ranges = append(ranges, [2]int{rangeStart, prev + minMs})
			rangeStart = s
		}
		prev = s
	}
	return append(ranges, [2]int{rangeStart, prev + minMs})
}

// nonSilentRanges is the complement of silentRanges over [0, totalMs).
func nonSilentRanges(e *energyIndex, totalMs, minMs int, thresholdDB float64) [][2]int {
	silent := silentRanges(e, totalMs, minMs, thresholdDB)
	if len(silent) == 0 {
		if totalMs == 0 {
			return nil
		}
		return [][2]int{{0, totalMs}}
	}
	if silent[0][0] == 0 && silent[0][1] == totalMs {
		return nil
	}

	var ranges [][2]int
	prevEnd := 0
	for _, s := range silent {
		ranges = append(ranges, [2]int{prevEnd, s[0]})
		prevEnd = s[1]
	}
	if last := silent[len(silent)-1]; last[1] != totalMs {
		ranges = append(ranges, [2]int{prevEnd, totalMs})
	}
	if len(ranges) > 0 && ranges[0] == [2]int{0, 0} {
		ranges = ranges[1:]
	}
	return ranges
}
