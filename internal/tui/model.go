package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"manifestify/internal/generator"
)

type Model struct {
	updates   <-chan generator.ProgressUpdate
	started   time.Time
	width     int
	total     int
	written   int
	failed    int
	optimized int
	bytes     int64
	quitting  bool
}

type doneMsg struct{}

type updateMsg generator.ProgressUpdate

func NewModel(updates <-chan generator.ProgressUpdate) Model {
	return Model{updates: updates, started: time.Now()}
}

func (m Model) Init() tea.Cmd {
	return listenForUpdates(m.updates)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.apply(generator.ProgressUpdate(msg))
		return m, listenForUpdates(m.updates)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) apply(u generator.ProgressUpdate) {
	m.total += u.TotalDelta
	m.written += u.WrittenDelta
	m.failed += u.FailedDelta
	m.optimized += u.OptimizedDelta
	m.bytes += u.BytesDelta
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	barWidth := 40
	if m.width > 0 {
		barWidth = int(math.Min(60, float64(m.width-10)))
		if barWidth < 20 {
			barWidth = 20
		}
	}

	done := m.written + m.failed
	ratio := 0.0
	if m.total > 0 {
		ratio = float64(done) / float64(m.total)
		if ratio > 1 {
			ratio = 1
		}
	}

	bar := renderBar(barWidth, ratio)
	elapsed := time.Since(m.started).Round(time.Millisecond)

	lines := []string{
		titleStyle.Render("manifestify 🖼"),
		labelStyle.Render(fmt.Sprintf("Assets: %d/%d", done, m.total)) + dimStyle.Render(fmt.Sprintf("  failed:%d", m.failed)),
		labelStyle.Render(fmt.Sprintf("Optimized: %d", m.optimized)),
		labelStyle.Render(fmt.Sprintf("Written: %s", humanize.Bytes(uint64(m.bytes)))),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		barStyle.Render(bar),
	}

	return strings.Join(lines, "\n")
}

func listenForUpdates(updates <-chan generator.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return updateMsg(update)
	}
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	barStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	dimStyle   = lipgloss.NewStyle().Foreground(ColorDim)
)
