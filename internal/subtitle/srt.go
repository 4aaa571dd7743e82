package subtitle

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// FormatSRT renders cues as SubRip blocks separated by blank lines.
func FormatSRT(cues []Cue) string {
	var sb strings.Builder
	for _, c := range cues {
		fmt.Fprintf(&sb, "%d\n%s --> %s\n%s\n\n", c.Index, formatTimestamp(c.Start), formatTimestamp(c.End), strings.TrimSpace(c.Text))
	}
	return sb.String()
}

// WriteSRT writes cues to path, replacing any existing file.
func WriteSRT(path string, cues []Cue) error {
	if err := os.WriteFile(path, []byte(FormatSRT(cues)), 0644); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// formatTimestamp renders d as HH:MM:SS,mmm.
func formatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Round(time.Millisecond).Milliseconds()
	h := ms / 3_600_000
	m := ms % 3_600_000 / 60_000
	s := ms % 60_000 / 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}
