package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A40000"))

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	fileStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A40000"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#888888")).
			Padding(0, 1).
			Width(60)
)

// renderConversionView renders the header, the active phase and the footer
func renderConversionView(m Model) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("asciireel"))
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Text-art frame player"))
	b.WriteString("\n\n")

	spinner := spinnerStyle.Render(spinnerFrames[m.spinnerIndex])
	elapsed := time.Since(m.StartTime)

	switch m.Phase {
	case PhaseWaiting:
		b.WriteString(spinner)
		b.WriteString(" Locating frames in ")
		b.WriteString(fileStyle.Render(filepath.Base(m.FramesDir)))

	case PhaseExtracting:
		b.WriteString(spinner)
		b.WriteString(" Extracting frames from ")
		b.WriteString(fileStyle.Render(m.VideoPath))
		b.WriteString(fmt.Sprintf(" [%s]", formatElapsed(elapsed)))

	case PhaseConverting, PhaseComplete:
		b.WriteString("Converting: ")
		b.WriteString(fileStyle.Render(filepath.Base(m.FramesDir)))
		b.WriteString("\n\n")
		if m.Phase == PhaseConverting {
			b.WriteString(spinner)
			b.WriteString(" ")
		}
		b.WriteString(m.bar.ViewAs(m.Progress))
		b.WriteString(fmt.Sprintf(" %3d%% [%s]", int(m.Progress*100), formatElapsed(elapsed)))
		b.WriteString("\n\n")
		b.WriteString(boxStyle.Render(fmt.Sprintf("%d of %d frames converted by %d workers", m.Count, m.Total, m.Workers)))

	case PhaseCancelled:
		b.WriteString(fmt.Sprintf("Cancelled at %d of %d frames", m.Count, m.Total))

	case PhaseError:
		b.WriteString(fmt.Sprintf("Error: %v", m.Error))
	}

	b.WriteString("\n")
	return b.String()
}

// ProgressTitle renders a plain-text progress line for a terminal window title,
// e.g. "Playing Frames (42%) ████████░░░░░░░░░░░░"
func ProgressTitle(label string, progress float64, width int) string {
	if progress < 0 {
		progress = 0
	} else if progress > 1 {
		progress = 1
	}
	return fmt.Sprintf("%s (%d%%) %s", label, int(progress*100), renderProgressBar(progress, width))
}

// renderProgressBar renders a progress bar without percentage
func renderProgressBar(progress float64, width int) string {
	filled := int(progress * float64(width))
	empty := width - filled
	return strings.Repeat("█", filled) + strings.Repeat("░", empty)
}

// formatElapsed formats elapsed time as MM:SS or HH:MM:SS
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Summary is what RenderSummary reports after conversion
type Summary struct {
	Frames  int
	Failed  int
	Workers int
	Elapsed time.Duration
}

// RenderSummary renders the post-conversion summary printed above the playback prompt
func RenderSummary(s Summary) string {
	var b strings.Builder

	icon := lipgloss.NewStyle().Foreground(lipgloss.Color("#00AA00")).Render("✓")
	b.WriteString(fmt.Sprintf(" %s Converted %d frames with %d workers in %s\n",
		icon, s.Frames-s.Failed, s.Workers, formatElapsed(s.Elapsed)))

	if s.Failed > 0 {
		warn := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Render("!")
		b.WriteString(fmt.Sprintf(" %s %d frames could not be read and will show as blank\n", warn, s.Failed))
	}
	return b.String()
}
