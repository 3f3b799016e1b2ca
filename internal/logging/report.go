// Package logging handles generation of session reports for converted frame sequences

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/linuxmatters/asciireel/internal/config"
	"github.com/linuxmatters/asciireel/internal/convert"
	"github.com/linuxmatters/asciireel/internal/playback"
)

// maxFailedListed caps how many failed frames are itemised in a report
const maxFailedListed = 20

// writeSection writes a section header with title and dashed underline.
// The underline length matches the title length.
func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

// ReportData contains everything needed to write a session report
type ReportData struct {
	SessionID string // Generated when empty
	FramesDir string
	VideoPath string // Empty unless frames were extracted first
	AudioPath string
	Config    config.Config

	StartTime  time.Time
	ConvertEnd time.Time
	EndTime    time.Time

	Frames   int
	Workers  []convert.WorkerStats
	Failed   []convert.Frame
	Playback *playback.Stats // nil when playback did not run
}

// ReportPath returns where the report for framesDir is written: <dir>-asciireel.log
func ReportPath(framesDir string) string {
	return filepath.Clean(framesDir) + "-asciireel.log"
}

// GenerateReport creates a session report next to the frames directory.
//
// Report structure:
// 1. Header - session id, source and timestamp
// 2. Configuration
// 3. Conversion Summary - timings and throughput
// 4. Worker table - one row per worker range
// 5. Failed frames (if any)
// 6. Playback - rendered, dropped and underrun counts
func GenerateReport(data ReportData) error {
	f, err := os.Create(ReportPath(data.FramesDir))
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	writeReport(f, data)
	return nil
}

func writeReport(w io.Writer, data ReportData) {
	if data.SessionID == "" {
		data.SessionID = uuid.NewString()
	}

	writeReportHeader(w, data)
	writeConfiguration(w, data.Config)
	writeConversionSummary(w, data)
	writeWorkerTable(w, data.Workers)
	writeFailedFrames(w, data.Failed)
	writePlayback(w, data)
}

// writeReportHeader outputs the report header with source info and timestamp
func writeReportHeader(w io.Writer, data ReportData) {
	fmt.Fprintln(w, "asciireel Session Report")
	fmt.Fprintln(w, "========================")
	fmt.Fprintf(w, "Session: %s\n", data.SessionID)
	fmt.Fprintf(w, "Frames: %s\n", filepath.Base(data.FramesDir))
	if data.VideoPath != "" {
		fmt.Fprintf(w, "Video: %s\n", filepath.Base(data.VideoPath))
	}
	if data.AudioPath != "" {
		fmt.Fprintf(w, "Audio: %s\n", filepath.Base(data.AudioPath))
	}
	fmt.Fprintf(w, "Finished: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintln(w, "")
}

func writeConfiguration(w io.Writer, cfg config.Config) {
	writeSection(w, "Configuration")
	fmt.Fprintf(w, "Workers:     %d\n", cfg.Workers)
	fmt.Fprintf(w, "Frame rate:  %d fps (%s per frame)\n", cfg.FrameRate, cfg.FrameInterval())
	fmt.Fprintf(w, "Grid:        %dx%d\n", cfg.Width, cfg.Height)
	fmt.Fprintf(w, "Ramp:        %q\n", cfg.Ramp)
	if cfg.MaxFrames > 0 {
		fmt.Fprintf(w, "Max frames:  %d\n", cfg.MaxFrames)
	}
	fmt.Fprintln(w, "")
}

// writeConversionSummary outputs timing and throughput for the conversion pass
func writeConversionSummary(w io.Writer, data ReportData) {
	writeSection(w, "Conversion Summary")

	failed := len(data.Failed)
	convertTime := data.ConvertEnd.Sub(data.StartTime)
	fmt.Fprintf(w, "Frames:      %d (%d failed, %s)\n", data.Frames, failed, formatPercent(failed, data.Frames))
	fmt.Fprintf(w, "Converting:  %s", formatDuration(convertTime))
	if rate := formatRate(data.Frames, convertTime.Seconds()); rate != MissingValue {
		fmt.Fprintf(w, " (%s frames/s)", rate)
	}
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Total:       %s\n", formatDuration(data.EndTime.Sub(data.StartTime)))
	fmt.Fprintln(w, "")
}

func writeWorkerTable(w io.Writer, workers []convert.WorkerStats) {
	if len(workers) == 0 {
		return
	}
	writeSection(w, "Workers")

	table := NewMetricTable("Range", "Frames", "Failed", "Time", "Rate")
	for _, ws := range workers {
		note := ""
		switch {
		case ws.Range.Empty():
			note = "idle"
		case ws.Failed > 0:
			note = fmt.Sprintf("%d unreadable", ws.Failed)
		}
		table.AddRow(
			fmt.Sprintf("Worker %d", ws.Worker),
			[]string{
				ws.Range.String(),
				fmt.Sprintf("%d", ws.Converted),
				fmt.Sprintf("%d", ws.Failed),
				formatDuration(ws.Elapsed),
				formatRate(ws.Converted+ws.Failed, ws.Elapsed.Seconds()),
			},
			"",
			note,
		)
	}
	fmt.Fprint(w, table.String())
	fmt.Fprintln(w, "")
}

func writeFailedFrames(w io.Writer, failed []convert.Frame) {
	if len(failed) == 0 {
		return
	}
	writeSection(w, "Failed Frames")
	for i, fr := range failed {
		if i == maxFailedListed {
			fmt.Fprintf(w, "... and %d more\n", len(failed)-maxFailedListed)
			break
		}
		fmt.Fprintf(w, "%6d  %s: %v\n", fr.Index, filepath.Base(fr.Source), fr.Err)
	}
	fmt.Fprintln(w, "")
}

// writePlayback outputs the clock statistics, or notes that playback did not run
func writePlayback(w io.Writer, data ReportData) {
	writeSection(w, "Playback")
	if data.Playback == nil {
		fmt.Fprintln(w, "not played")
		return
	}

	stats := data.Playback
	table := NewMetricTable("Count", "Share")
	table.AddRow("Rendered", []string{fmt.Sprintf("%d", stats.Rendered), formatPercent(stats.Rendered, data.Frames)}, "", "")
	table.AddRow("Dropped", []string{fmt.Sprintf("%d", stats.Dropped), formatPercent(stats.Dropped, data.Frames)}, "", "")
	table.AddRow("Underruns", []string{fmt.Sprintf("%d", stats.Underruns), formatPercent(stats.Underruns, data.Frames)}, "", "")
	fmt.Fprint(w, table.String())

	fmt.Fprintf(w, "Last frame:  %d of %d\n", stats.LastIndex, data.Frames)
	fmt.Fprintf(w, "Played for:  %s", formatDuration(stats.Elapsed))
	if rate := formatRate(stats.Rendered, stats.Elapsed.Seconds()); rate != MissingValue {
		fmt.Fprintf(w, " (%s fps effective)", rate)
	}
	fmt.Fprintln(w, "")
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
