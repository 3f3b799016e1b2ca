package playback

import (
	"bufio"
	"io"

	"github.com/muesli/termenv"
)

// sinkBufferSize holds a full 100×50 frame plus escape sequences with room to spare
const sinkBufferSize = 0x15000

// Terminal is a buffered Sink that redraws frames in place.
// Each Render produces a single flush, so a frame reaches the terminal in one write.
type Terminal struct {
	buf *bufio.Writer
	out *termenv.Output
}

// NewTerminal wraps w (normally os.Stdout)
func NewTerminal(w io.Writer) *Terminal {
	buf := bufio.NewWriterSize(w, sinkBufferSize)
	return &Terminal{
		buf: buf,
		out: termenv.NewOutput(buf),
	}
}

// Prepare switches to the alternate screen, hides the cursor and clears it
func (t *Terminal) Prepare() error {
	t.out.AltScreen()
	t.out.HideCursor()
	t.out.ClearScreen()
	return t.buf.Flush()
}

// Render moves the cursor home and writes the frame over the previous one
func (t *Terminal) Render(text string) error {
	t.out.MoveCursor(1, 1)
	if _, err := t.buf.WriteString(text); err != nil {
		return err
	}
	return t.buf.Flush()
}

// Title sets the terminal window title
func (t *Terminal) Title(title string) error {
	t.out.SetWindowTitle(title)
	return t.buf.Flush()
}

// Close restores the cursor and the main screen
func (t *Terminal) Close() error {
	t.out.ShowCursor()
	t.out.ExitAltScreen()
	return t.buf.Flush()
}
