// Package highgui presents frames in an OpenCV HighGUI window.
package highgui

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"

	"gocv.io/x/gocv"

	"github.com/MeKo-Tech/barscan/internal/display"
	"github.com/MeKo-Tech/barscan/internal/frame"
	"github.com/MeKo-Tech/barscan/internal/overlay"
)

// Presenter draws with cv::putText and shows frames with cv::imshow. All
// methods must be called from the thread that owns the window.
type Presenter struct {
	logger *slog.Logger
	window *gocv.Window
	shown  bool
}

// New returns a presenter; the window is created by Open.
func New(logger *slog.Logger) *Presenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Presenter{logger: logger}
}

func (p *Presenter) Open(title string) error {
	p.window = gocv.NewWindow(title)
	if p.window == nil {
		return fmt.Errorf("highgui: cannot create window %q", title)
	}
	return nil
}

func matType(channels int) (gocv.MatType, bool) {
	switch channels {
	case 1:
		return gocv.MatTypeCV8UC1, true
	case 3:
		return gocv.MatTypeCV8UC3, true
	case 4:
		return gocv.MatTypeCV8UC4, true
	default:
		return 0, false
	}
}

// wrap views the frame buffer as a Mat.
func wrap(f *frame.Frame) (gocv.Mat, error) {
	mt, ok := matType(f.Channels)
	if !ok {
		return gocv.Mat{}, fmt.Errorf("highgui: %d channel frame", f.Channels)
	}
	return gocv.NewMatFromBytes(f.Height, f.Width, mt, f.Pix)
}

// textColor converts an RGB style colour into the Scalar order OpenCV writes,
// which is BGR. Frames stored as RGB get the channels swapped back.
func textColor(c color.RGBA, order frame.ChannelOrder) color.RGBA {
	if order == frame.OrderRGB || order == frame.OrderRGBA {
		c.R, c.B = c.B, c.R
	}
	return c
}

func (p *Presenter) DrawOverlay(f *frame.Frame, text string, origin image.Point, style overlay.Style) {
	if f.Empty() || text == "" {
		return
	}
	mat, err := wrap(f)
	if err != nil {
		p.logger.Debug("overlay skipped", "error", err)
		return
	}
	defer mat.Close()

	thickness := style.Thickness
	if thickness < 1 {
		thickness = 1
	}
	gocv.PutText(&mat, overlay.Fold(text), origin, gocv.FontHersheySimplex, style.Scale,
		textColor(style.Color, f.Order), thickness)
	copy(f.Pix, mat.ToBytes())
}

func (p *Presenter) Show(_ string, f *frame.Frame) error {
	if p.window == nil {
		return fmt.Errorf("highgui: window not open")
	}
	if f.Empty() {
		return nil
	}
	mat, err := wrap(f)
	if err != nil {
		return err
	}
	defer mat.Close()
	p.window.IMShow(mat)
	p.shown = true
	return nil
}

// WaitKey polls the keyboard. A window the user closed through its title bar
// reports KeyClosed; gocv's IsOpen only tracks our own Close.
func (p *Presenter) WaitKey(timeoutMs int) int {
	if p.window == nil {
		return display.KeyClosed
	}
	key := p.window.WaitKey(timeoutMs)
	if closedByUser(p.shown, p.window.GetWindowProperty(gocv.WindowPropertyVisible)) {
		return display.KeyClosed
	}
	return key
}

// closedByUser interprets WND_PROP_VISIBLE. Before the first imshow the
// property is not meaningful on every backend.
func closedByUser(shown bool, visible float64) bool {
	return shown && visible < 1
}

func (p *Presenter) Close() error {
	if p.window == nil {
		return nil
	}
	p.window.Close()
	p.window = nil
	p.shown = false
	return nil
}
