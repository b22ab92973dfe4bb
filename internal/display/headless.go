package display

import (
	"image"
	"log/slog"
	"time"

	"github.com/MeKo-Tech/barscan/internal/frame"
	"github.com/MeKo-Tech/barscan/internal/overlay"
)

// Headless is a presenter without a window. Overlays are still rendered into
// the frame, and WaitKey sleeps for the requested time so the loop keeps its
// pacing. It never reports a key press.
type Headless struct {
	logger *slog.Logger
	sleep  func(time.Duration)

	title  string
	shown  int
	closed bool
}

// NewHeadless returns a headless presenter.
func NewHeadless(logger *slog.Logger) *Headless {
	if logger == nil {
		logger = slog.Default()
	}
	return &Headless{logger: logger, sleep: time.Sleep}
}

func (h *Headless) Open(title string) error {
	h.title = title
	h.logger.Info("headless display", "window", title)
	return nil
}

func (h *Headless) DrawOverlay(f *frame.Frame, text string, origin image.Point, style overlay.Style) {
	overlay.Draw(f, text, origin, style)
}

func (h *Headless) Show(_ string, f *frame.Frame) error {
	if f.Empty() {
		return nil
	}
	h.shown++
	return nil
}

func (h *Headless) WaitKey(timeoutMs int) int {
	if timeoutMs > 0 {
		h.sleep(time.Duration(timeoutMs) * time.Millisecond)
	}
	return KeyNone
}

func (h *Headless) Close() error {
	if !h.closed {
		h.closed = true
		h.logger.Debug("headless display closed", "window", h.title, "frames", h.shown)
	}
	return nil
}

// Shown returns how many non-empty frames were presented.
func (h *Headless) Shown() int { return h.shown }
