// Package scanner drives the per-frame decode pipeline at camera rate.
//
// One goroutine owns the loop, the frame source and the presenter. Each
// iteration reads a frame, converts it to luminance, binarizes it, tries to
// decode one symbol, overlays and prints the result, shows the frame and
// polls for the quit key. Failures inside an iteration are logged and never
// end the loop; only a failed open, end of stream, the quit key, a closed
// window or a cancelled context do.
package scanner

import (
	"context"
	"image"
	"time"

	"github.com/MeKo-Tech/barscan/internal/barcode"
	"github.com/MeKo-Tech/barscan/internal/binarizer"
	"github.com/MeKo-Tech/barscan/internal/frame"
	"github.com/MeKo-Tech/barscan/internal/overlay"
)

// State is the scan loop lifecycle state.
type State int

const (
	StateInitializing State = iota
	StateRunning
	StateTerminating
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateTerminating:
		return "terminating"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Iteration outcomes reported to the Recorder.
const (
	OutcomeDecoded     = "decoded"
	OutcomeNotFound    = "not_found"
	OutcomeEmpty       = "empty"
	OutcomeUnsupported = "unsupported"
	OutcomeDecodeError = "decode_error"
	OutcomeUnexpected  = "unexpected"
)

// FrameSource yields frames from an opened device. Read may return an empty
// frame on a transient hiccup and frame.ErrEndOfStream once the device is gone.
type FrameSource interface {
	Read() (*frame.Frame, error)
	Close() error
}

// OpenFunc acquires a frame source. Failures should wrap frame.ErrDeviceUnavailable.
type OpenFunc func(ctx context.Context) (FrameSource, error)

// Decoder finds at most one symbol in a bitmap; (nil, nil) means none.
type Decoder interface {
	Decode(bm *binarizer.Bitmap, hints barcode.Hints) (*barcode.Result, error)
}

// Presenter draws overlays, shows frames in a named window and reports keys.
type Presenter interface {
	Open(title string) error
	DrawOverlay(f *frame.Frame, text string, origin image.Point, style overlay.Style)
	Show(title string, f *frame.Frame) error
	// WaitKey blocks up to timeoutMs and returns a key code, display.KeyNone
	// on timeout or display.KeyClosed when the window is gone.
	WaitKey(timeoutMs int) int
	Close() error
}

// Recorder receives per-iteration measurements.
type Recorder interface {
	ObserveFrame(outcome string)
	ObserveDecode(format string)
	ObserveStage(stage string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveFrame(string)                {}
func (nopRecorder) ObserveDecode(string)               {}
func (nopRecorder) ObserveStage(string, time.Duration) {}

// Options configures the loop.
type Options struct {
	WindowTitle string
	QuitKey     rune

	// Wait is the per-frame key wait; with AdaptivePacing the time already
	// spent in the iteration is subtracted from it.
	Wait           time.Duration
	AdaptivePacing bool

	Hints barcode.Hints

	Origin image.Point
	Style  overlay.Style
	// AnchorOverlay also draws the text at the first symbol point.
	AnchorOverlay bool
}

// DefaultOptions reproduces the classic scanner: window "Barcode Scanner",
// quit on 'q', 30 ms wait, QR and EAN-13 with try-harder, red text at (10, 50).
func DefaultOptions() Options {
	return Options{
		WindowTitle: "Barcode Scanner",
		QuitKey:     'q',
		Wait:        30 * time.Millisecond,
		Hints:       barcode.DefaultHints(),
		Origin:      overlay.DefaultOrigin,
		Style:       overlay.DefaultStyle(),
	}
}

// Stats is a snapshot of the loop state.
type Stats struct {
	State      State
	FrameCount int
	Decodes    int
	Errors     int
	LastResult *barcode.Result
}
