// Package audio plays an optional soundtrack alongside the text-art frames
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// speakerBuffer trades latency for resilience against a busy render loop
const speakerBuffer = time.Second / 10

// Player wraps a decoded soundtrack and the system speaker
type Player struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	playing  bool
}

// Metadata describes a decoded soundtrack
type Metadata struct {
	Duration   float64 // seconds
	SampleRate int
	Channels   int
	Container  string // "wav" or "mp3"
}

// Open decodes a WAV or MP3 file, chosen by extension
func Open(path string) (*Player, *Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open audio file: %w", err)
	}

	var (
		streamer  beep.StreamSeekCloser
		format    beep.Format
		container string
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		container = "wav"
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		container = "mp3"
		streamer, format, err = mp3.Decode(f)
	default:
		f.Close()
		return nil, nil, fmt.Errorf("unsupported audio format: %s", filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to decode %s audio: %w", container, err)
	}

	metadata := &Metadata{
		Duration:   format.SampleRate.D(streamer.Len()).Seconds(),
		SampleRate: int(format.SampleRate),
		Channels:   format.NumChannels,
		Container:  container,
	}

	return &Player{streamer: streamer, format: format}, metadata, nil
}

// Start initialises the speaker and begins playback from the start of the file
func (p *Player) Start() error {
	if p.playing {
		return nil
	}
	if err := p.streamer.Seek(0); err != nil {
		return fmt.Errorf("failed to rewind audio: %w", err)
	}
	if err := speaker.Init(p.format.SampleRate, p.format.SampleRate.N(speakerBuffer)); err != nil {
		return fmt.Errorf("failed to initialise speaker: %w", err)
	}
	speaker.Play(p.streamer)
	p.playing = true
	return nil
}

// Stop silences the speaker and releases the audio device
func (p *Player) Stop() {
	if !p.playing {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.playing = false
}

// Close stops playback and releases the decoded file
func (p *Player) Close() error {
	p.Stop()
	return p.streamer.Close()
}
