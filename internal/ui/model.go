// Package ui provides the Bubbletea progress view shown while frames convert
package ui

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// pollInterval is how often the model re-reads the completion counter
const pollInterval = 100 * time.Millisecond

// Spinner frames for indeterminate progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Counter is the read side of the conversion completion tracker
type Counter interface {
	Count() int
	Total() int
	Progress() float64
	Done() bool
}

// Phase is the stage the conversion UI is showing
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseExtracting
	PhaseConverting
	PhaseComplete
	PhaseCancelled
	PhaseError
)

// Model is the Bubbletea model for the conversion progress view.
// It never waits on the workers: every tick it polls the counter and quits
// once the counter reports done.
type Model struct {
	// Source being converted
	FramesDir string
	VideoPath string

	// Conversion state
	Phase    Phase
	Workers  int
	Count    int
	Total    int
	Progress float64 // 0.0 to 1.0
	Error    error

	StartTime time.Time

	// Terminal dimensions
	Width  int
	Height int

	// Log receives debug lines (optional)
	Log func(format string, args ...interface{})

	counter      Counter
	cancel       func()
	bar          progress.Model
	spinnerIndex int
}

// NewModel creates a conversion UI for the frames in framesDir
func NewModel(framesDir string) Model {
	return Model{
		FramesDir: framesDir,
		StartTime: time.Now(),
		bar: progress.New(
			progress.WithGradient("#5A0000", "#A40000"),
			progress.WithWidth(40),
			progress.WithoutPercentage(),
		),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick message every pollInterval
func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.log("[UI] Cancel requested at %d/%d", m.Count, m.Total)
			if m.cancel != nil {
				m.cancel()
			}
			m.Phase = PhaseCancelled
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case ExtractStartMsg:
		m.log("[UI] Extracting frames from %s", msg.VideoPath)
		m.Phase = PhaseExtracting
		m.VideoPath = filepath.Base(msg.VideoPath)
		return m, nil

	case ConvertStartMsg:
		m.log("[UI] Conversion started: %d frames, %d workers", msg.Counter.Total(), msg.Workers)
		m.Phase = PhaseConverting
		m.counter = msg.Counter
		m.cancel = msg.Cancel
		m.Workers = msg.Workers
		m.Total = msg.Counter.Total()
		m.StartTime = time.Now()
		return m.poll()

	case ErrorMsg:
		m.log("[UI] Error: %v", msg.Err)
		m.Phase = PhaseError
		m.Error = msg.Err
		return m, tea.Quit

	case tickMsg:
		m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
		if m.Phase == PhaseConverting {
			return m.poll()
		}
		if m.Phase == PhaseWaiting || m.Phase == PhaseExtracting {
			return m, tickCmd()
		}
		return m, nil
	}

	return m, nil
}

// poll reads the counter once and decides whether to keep ticking
func (m Model) poll() (tea.Model, tea.Cmd) {
	m.Count = m.counter.Count()
	m.Progress = m.counter.Progress()

	// count >= total is complete even if the counter ever overshoots
	if m.counter.Done() {
		m.log("[UI] Conversion complete: %d/%d", m.Count, m.Total)
		m.Phase = PhaseComplete
		m.Progress = 1.0
		return m, tea.Quit
	}
	return m, tickCmd()
}

// View renders the UI
func (m Model) View() string {
	return renderConversionView(m)
}

func (m Model) log(format string, args ...interface{}) {
	if m.Log != nil {
		m.Log(format, args...)
	}
}
