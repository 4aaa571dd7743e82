// Package segmenter splits text into title/content records around keyword
// occurrences.
package segmenter

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// Record is one keyword occurrence and the text that follows it up to the
// next occurrence.
type Record struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type position struct {
	start int
	end   int
	match string
}

// Segment finds every case-insensitive occurrence of every keyword in text
// and returns one record per occurrence, in text order. Matches of different
// keywords that overlap are all kept; a record whose successor starts before
// its own match ends gets empty content. Empty keywords are ignored, and
// invalid UTF-8 in a keyword matches the same invalid bytes in text.
func Segment(text string, keywords []string) []Record {
	positions := findPositions(text, keywords)

	records := make([]Record, 0, len(positions))
	for i, p := range positions {
		next := len(text)
		if i+1 < len(positions) {
			next = positions[i+1].start
		}

		var content string
		if next > p.end {
			content = strings.TrimSpace(text[p.end:next])
		}
		records = append(records, Record{Title: p.match, Content: content})
	}

	return records
}

// findPositions pools the matches of all keywords, ordered by start offset;
// equal starts are ordered by end offset, then by matched text.
func findPositions(text string, keywords []string) []position {
	var positions []position
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		// invalid bytes become U+FFFD, which the matcher also reads
		// invalid text bytes as
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(strings.ToValidUTF8(kw, string(utf8.RuneError))))
		if err != nil {
			continue
		}
		for _, loc := range re.FindAllStringIndex(text, -1) {
			positions = append(positions, position{start: loc[0], end: loc[1], match: text[loc[0]:loc[1]]})
		}
	}

	sort.Slice(positions, func(i, j int) bool {
		a, b := positions[i], positions[j]
		if a.start != b.start {
			return a.start < b.start
		}
		if a.end != b.end {
			return a.end < b.end
		}
		return a.match < b.match
	})

	return positions
}
