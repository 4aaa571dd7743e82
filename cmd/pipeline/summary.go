package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nguyentantai21042004/ingest-flow/internal/batch"
	"github.com/nguyentantai21042004/ingest-flow/internal/ledger"
	"github.com/nguyentantai21042004/ingest-flow/internal/processor"
)

var (
	colorCyan   = lipgloss.Color("#00FFFF")
	colorGreen  = lipgloss.Color("#00FF00")
	colorYellow = lipgloss.Color("#FFFF00")
	colorRed    = lipgloss.Color("#FF0000")
	colorGray   = lipgloss.Color("#666666")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Width(13)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 1)
)

func row(label string, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

// renderSummary formats the counters of a batch run.
func renderSummary(s batch.Summary) string {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Run %s", s.Operation)),
		row("Run ID", s.RunID),
		row("Files", fmt.Sprint(s.Files)),
		row("Written", okStyle.Render(fmt.Sprint(s.Written))),
		row("Unsupported", warnStyle.Render(fmt.Sprint(s.Unsupported))),
		row("Failed", errorStyle.Render(fmt.Sprint(s.Failed))),
	}
	if len(s.Outputs) > 0 {
		lines = append(lines, row("Outputs", strings.Join(s.Outputs, "\n")))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// renderResult formats the artifacts of a subtitle run.
func renderResult(r processor.Result) string {
	lines := []string{
		titleStyle.Render("Subtitles"),
		row("SRT", okStyle.Render(r.SRTPath)),
		row("Cues", fmt.Sprint(r.Cues)),
	}
	if r.VideoPath != "" {
		lines = append(lines, row("Video", r.VideoPath))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// renderRun formats the ledger tallies of a recorded run.
func renderRun(r ledger.Run) string {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Last run: %s", r.Operation)),
		row("Run ID", r.ID),
		row("Started", r.StartedAt.Format("2006-01-02 15:04:05")),
		row("Files", fmt.Sprint(r.Total)),
		row("OK", okStyle.Render(fmt.Sprint(r.OK))),
		row("Unsupported", warnStyle.Render(fmt.Sprint(r.Unsupported))),
		row("Failed", errorStyle.Render(fmt.Sprint(r.Failed))),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}
