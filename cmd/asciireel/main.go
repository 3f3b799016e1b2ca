package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/linuxmatters/asciireel/internal/audio"
	"github.com/linuxmatters/asciireel/internal/cli"
	"github.com/linuxmatters/asciireel/internal/config"
	"github.com/linuxmatters/asciireel/internal/convert"
	"github.com/linuxmatters/asciireel/internal/frames"
	"github.com/linuxmatters/asciireel/internal/logging"
	"github.com/linuxmatters/asciireel/internal/playback"
	"github.com/linuxmatters/asciireel/internal/ui"
)

var (
	version = "0.0.1"
)

// CLI defines the command-line interface
type CLI struct {
	Version   bool            `short:"v" help:"Show version information"`
	Config    kong.ConfigFlag `short:"c" placeholder:"FILE" help:"Load flag values from a JSON config file"`
	Video     string          `type:"path" placeholder:"FILE" help:"Extract frames (and a soundtrack) from this video into <frames> first"`
	Audio     string          `type:"existingfile" placeholder:"FILE" help:"Soundtrack to play alongside the frames (WAV or MP3)"`
	Mute      bool            `help:"Do not play a soundtrack"`
	Workers   int             `short:"w" default:"6" help:"Number of conversion workers"`
	FPS       int             `short:"r" name:"fps" default:"30" help:"Playback frame rate"`
	Width     int             `default:"100" help:"Output width in characters"`
	Height    int             `default:"50" help:"Output height in characters"`
	Fit       bool            `help:"Size the output to the current terminal"`
	Ramp      string          `default:"${ramp}" help:"Glyphs from darkest to lightest"`
	MaxFrames int             `name:"max-frames" default:"0" help:"Play at most this many frames (0 = all)"`
	NoWait    bool            `name:"no-wait" help:"Start playback as soon as conversion finishes"`
	Logs      bool            `help:"Save a session report next to the frames directory"`
	Frames    string          `arg:"" name:"frames" help:"Directory of numbered frame images" type:"path" optional:""`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("asciireel"),
		kong.Description("Play image sequences as text art in the terminal"),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "~/.config/asciireel.json", ".asciireel.json"),
		kong.Vars{
			"version": version,
			"ramp":    config.DefaultRamp,
		},
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true})),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	// Validate input
	if cliArgs.Frames == "" {
		cli.PrintError("No frames directory specified")
		ctx.PrintUsage(false)
		os.Exit(1)
	}

	cfg := buildConfig(cliArgs)
	if err := cfg.Validate(); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}

	// Open debug log file
	debugLog, _ := os.Create("asciireel-debug.log")
	defer debugLog.Close()
	log := func(format string, args ...interface{}) {
		if debugLog != nil {
			fmt.Fprintf(debugLog, format+"\n", args...)
		}
	}
	log("[MAIN] asciireel %s: %+v", version, cfg)

	startTime := time.Now()
	batch, audioPath, err := convertFrames(cliArgs, cfg, log)
	if err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
	if batch == nil {
		// Cancelled from the progress view
		os.Exit(130)
	}
	convertEnd := time.Now()

	total := len(batch.Frames())
	failed := batch.Failed()
	stats := batch.Stats()
	for _, ws := range stats {
		log("[MAIN] Worker %d %s: %d converted, %d failed in %s", ws.Worker, ws.Range, ws.Converted, ws.Failed, ws.Elapsed)
	}

	fmt.Print(ui.RenderSummary(ui.Summary{
		Frames:  total,
		Failed:  len(failed),
		Workers: cfg.Workers,
		Elapsed: batch.Elapsed(),
	}))

	if !cliArgs.NoWait {
		if err := cli.WaitForEnter(os.Stdout, os.Stdin, "Press Enter to play"); err != nil {
			cli.PrintError(err.Error())
			os.Exit(1)
		}
	}

	playStats, playErr := play(cfg, batch.Frames(), audioPath, log)
	if playErr != nil && !errors.Is(playErr, context.Canceled) {
		cli.PrintError(playErr.Error())
	}

	// Generate session report if --logs flag is set
	if cliArgs.Logs {
		reportData := logging.ReportData{
			FramesDir:  cliArgs.Frames,
			VideoPath:  cliArgs.Video,
			AudioPath:  audioPath,
			Config:     cfg,
			StartTime:  startTime,
			ConvertEnd: convertEnd,
			EndTime:    time.Now(),
			Frames:     total,
			Workers:    stats,
			Failed:     failed,
			Playback:   playStats,
		}
		if err := logging.GenerateReport(reportData); err != nil {
			log("[MAIN] Failed to generate log file: %v", err)
			cli.PrintWarning(fmt.Sprintf("could not write report: %v", err))
		} else {
			cli.PrintKeyValue(os.Stdout, "Report", logging.ReportPath(cliArgs.Frames))
		}
	}

	if playErr != nil && !errors.Is(playErr, context.Canceled) {
		os.Exit(1)
	}
}

// buildConfig turns parsed flags into the immutable configuration
func buildConfig(c *CLI) config.Config {
	cfg := config.Config{
		Workers:   c.Workers,
		FrameRate: c.FPS,
		Width:     c.Width,
		Height:    c.Height,
		Ramp:      c.Ramp,
		MaxFrames: c.MaxFrames,
	}

	if c.Fit {
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 1 {
			// One row is left free so the last line never scrolls the screen
			cfg.Width, cfg.Height = w, h-1
		}
	}
	return cfg
}

// convertFrames runs extraction (if requested) and the worker pool behind the
// progress view. It returns a nil batch when the user cancelled.
func convertFrames(c *CLI, cfg config.Config, log func(string, ...interface{})) (*convert.Batch, string, error) {
	pool, err := convert.NewPool(cfg, frames.NewImageSampler())
	if err != nil {
		return nil, "", err
	}

	model := ui.NewModel(c.Frames)
	model.Log = log
	p := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		batch     *convert.Batch
		audioPath string
	)
	if !c.Mute {
		audioPath = c.Audio
	}
	started := make(chan struct{})

	// Extract and convert in the background; the model only polls the tracker
	go func() {
		defer close(started)

		if c.Video != "" {
			log("[MAIN] Sending ExtractStartMsg for %s", c.Video)
			p.Send(ui.ExtractStartMsg{VideoPath: c.Video})

			n, err := frames.Extract(ctx, c.Video, c.Frames)
			if err != nil {
				p.Send(ui.ErrorMsg{Err: err})
				return
			}
			log("[MAIN] %d frames available in %s", n, c.Frames)

			if audioPath == "" && !c.Mute {
				wav := filepath.Clean(c.Frames) + ".wav"
				if err := frames.ExtractAudio(ctx, c.Video, wav); err != nil {
					// Videos without an audio stream still play
					log("[MAIN] No soundtrack extracted: %v", err)
				} else {
					audioPath = wav
				}
			}
		}

		sources, err := frames.List(c.Frames, cfg.MaxFrames)
		if err != nil {
			p.Send(ui.ErrorMsg{Err: err})
			return
		}
		log("[MAIN] Found %d frames, %d workers", len(sources), cfg.Workers)

		b, err := pool.Start(ctx, sources)
		if err != nil {
			p.Send(ui.ErrorMsg{Err: err})
			return
		}
		batch = b
		for _, r := range b.Ranges() {
			log("[MAIN] Range %s (%d frames)", r, r.Len())
		}

		log("[MAIN] Sending ConvertStartMsg")
		p.Send(ui.ConvertStartMsg{
			Counter: b.Tracker(),
			Cancel:  b.Cancel,
			Workers: cfg.Workers,
		})
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		return nil, "", fmt.Errorf("UI error: %w", err)
	}

	m := final.(ui.Model)
	switch m.Phase {
	case ui.PhaseError:
		<-started
		return nil, "", m.Error
	case ui.PhaseComplete:
		<-started
		return batch, audioPath, nil
	default:
		// Quit before or during conversion
		cancel()
		<-started
		if batch != nil {
			<-batch.Done()
		}
		return nil, "", nil
	}
}

// play replays the converted frames on the terminal until the last index or ctrl+c
func play(cfg config.Config, buffer []convert.Frame, audioPath string, log func(string, ...interface{})) (*playback.Stats, error) {
	sink := playback.NewTerminal(os.Stdout)
	clock, err := playback.NewClock(buffer, cfg.FrameCount(len(buffer)), cfg.FrameInterval(), sink)
	if err != nil {
		return nil, err
	}
	clock.Blank = blankFrame(cfg.Width, cfg.Height)
	clock.OnRender = func(index, total int) {
		// Title updates are best effort
		_ = sink.Title(ui.ProgressTitle("Playing Frames", float64(index+1)/float64(total), 20))
	}

	if audioPath != "" {
		player, meta, err := audio.Open(audioPath)
		if err != nil {
			log("[MAIN] Soundtrack disabled: %v", err)
			cli.PrintWarning(fmt.Sprintf("playing without sound: %v", err))
		} else {
			defer player.Close()
			log("[MAIN] Soundtrack %s: %.1fs %s, %d Hz, %d ch", audioPath, meta.Duration, meta.Container, meta.SampleRate, meta.Channels)
			clock.Audio = player
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sink.Prepare(); err != nil {
		return nil, fmt.Errorf("failed to prepare terminal: %w", err)
	}
	runErr := clock.Run(ctx)
	if err := sink.Close(); err != nil {
		log("[MAIN] Failed to restore terminal: %v", err)
	}

	stats := clock.Stats()
	log("[MAIN] Playback finished: %d rendered, %d dropped, %d underruns in %s", stats.Rendered, stats.Dropped, stats.Underruns, stats.Elapsed)
	return &stats, runErr
}

// blankFrame is shown when the first target frame is unavailable
func blankFrame(width, height int) string {
	row := strings.Repeat(" ", width)
	rows := make([]string, height)
	for i := range rows {
		rows[i] = row
	}
	return strings.Join(rows, "\n")
}
