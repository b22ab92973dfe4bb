// Package fyneui presents frames in a Fyne window.
//
// Fyne owns the main goroutine: build the presenter with New, start the scan
// loop in a goroutine and then call Run. Close, called by the loop on exit,
// quits the application and makes Run return.
package fyneui

import (
	"image"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"

	"github.com/MeKo-Tech/barscan/internal/display"
	"github.com/MeKo-Tech/barscan/internal/frame"
	"github.com/MeKo-Tech/barscan/internal/overlay"
)

// Presenter shows frames in a canvas image and forwards typed runes as keys.
type Presenter struct {
	logger *slog.Logger
	app    fyne.App
	win    fyne.Window
	img    *canvas.Image

	keys      chan rune
	closed    chan struct{}
	closeOnce sync.Once
	quitOnce  sync.Once
}

// New creates the application and its window. It must run on the main goroutine.
func New(title string, size image.Point, logger *slog.Logger) *Presenter {
	if logger == nil {
		logger = slog.Default()
	}
	if size.X <= 0 || size.Y <= 0 {
		size = image.Point{X: 640, Y: 480}
	}
	p := &Presenter{
		logger: logger,
		app:    app.New(),
		keys:   make(chan rune, 8),
		closed: make(chan struct{}),
	}
	p.win = p.app.NewWindow(title)
	p.img = canvas.NewImageFromImage(nil)
	p.img.FillMode = canvas.ImageFillContain
	p.img.SetMinSize(fyne.NewSize(float32(size.X), float32(size.Y)))
	p.win.SetContent(p.img)
	p.win.Canvas().SetOnTypedRune(func(r rune) {
		select {
		case p.keys <- r:
		default:
		}
	})
	p.win.SetOnClosed(p.markClosed)
	return p
}

// Run shows the window and blocks until the application quits.
func (p *Presenter) Run() {
	p.win.ShowAndRun()
	p.markClosed()
}

func (p *Presenter) markClosed() {
	p.closeOnce.Do(func() { close(p.closed) })
}

func (p *Presenter) isClosed() bool {
	select {
	case <-p.closed:
		return true
	default:
		return false
	}
}

func (p *Presenter) Open(title string) error {
	fyne.Do(func() { p.win.SetTitle(title) })
	return nil
}

func (p *Presenter) DrawOverlay(f *frame.Frame, text string, origin image.Point, style overlay.Style) {
	overlay.Draw(f, text, origin, style)
}

func (p *Presenter) Show(_ string, f *frame.Frame) error {
	if f.Empty() || p.isClosed() {
		return nil
	}
	rgba := f.ToRGBA()
	fyne.Do(func() {
		p.img.Image = rgba
		p.img.Refresh()
	})
	return nil
}

func (p *Presenter) WaitKey(timeoutMs int) int {
	if timeoutMs < 1 {
		timeoutMs = 1
	}
	timer := time.NewTimer(time.Duration(timeoutMs) * time.Millisecond)
	defer timer.Stop()
	select {
	case r := <-p.keys:
		return int(r)
	case <-p.closed:
		return display.KeyClosed
	case <-timer.C:
		return display.KeyNone
	}
}

func (p *Presenter) Close() error {
	p.quitOnce.Do(func() {
		if p.isClosed() {
			return
		}
		p.logger.Debug("closing fyne window")
		fyne.Do(func() { p.app.Quit() })
	})
	return nil
}
