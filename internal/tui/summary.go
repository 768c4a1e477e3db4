package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"manifestify/internal/generator"
)

type SummaryRow struct {
	Label string
	Value string
}

// SummaryRows turns a pipeline summary into the rows printed after a run.
func SummaryRows(s generator.Summary) []SummaryRow {
	rows := []SummaryRow{
		{Label: "Assets written", Value: fmt.Sprintf("%d/%d", s.Written, s.Total)},
		{Label: "Failed", Value: fmt.Sprintf("%d", s.Failed)},
		{Label: "Optimized", Value: fmt.Sprintf("%d", s.Optimized)},
		{Label: "Bytes written", Value: humanize.Bytes(uint64(s.BytesWritten))},
	}
	if s.BytesSaved > 0 {
		rows = append(rows, SummaryRow{Label: "Saved by optimizer", Value: humanize.Bytes(uint64(s.BytesSaved))})
	}
	return rows
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		valueWidth = max(valueWidth, lipgloss.Width(row.Value))
	}

	hline := dimStyle.Render(strings.Repeat("-", labelWidth+valueWidth+3))
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// RenderWarnings formats pipeline warnings one per line.
func RenderWarnings(warnings []string) string {
	lines := make([]string, 0, len(warnings))
	for _, w := range warnings {
		lines = append(lines, warnStyle.Render("! "+w))
	}
	return strings.Join(lines, "\n")
}

func padRight(s string, width int) string {
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

var (
	valueStyle = lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(ColorWarn)
)
