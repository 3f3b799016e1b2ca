package ui

import "time"

// tickMsg drives the progress poll and the spinner
type tickMsg time.Time

// ExtractStartMsg signals that frames are being extracted from a video first
type ExtractStartMsg struct {
	VideoPath string
}

// ConvertStartMsg signals that the worker pool has started
type ConvertStartMsg struct {
	Counter Counter
	Cancel  func()
	Workers int
}

// ErrorMsg reports a fatal error from the background goroutine
type ErrorMsg struct {
	Err error
}
