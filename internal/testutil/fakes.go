package testutil

import (
	"errors"
	"image"

	"github.com/MeKo-Tech/barscan/internal/frame"
	"github.com/MeKo-Tech/barscan/internal/overlay"
)

// FakeSource replays a fixed list of frames and then reports end of stream.
// A nil entry is returned as an empty frame.
type FakeSource struct {
	Frames []*frame.Frame
	// Errs, when set for an index, is returned instead of that frame.
	Errs map[int]error
	// Endless repeats the last frame instead of ending the stream.
	Endless bool

	pos    int
	Reads  int
	Closes int
}

// Read returns the next scripted frame.
func (s *FakeSource) Read() (*frame.Frame, error) {
	s.Reads++
	if s.pos >= len(s.Frames) {
		if s.Endless && len(s.Frames) > 0 {
			return s.Frames[len(s.Frames)-1], nil
		}
		return nil, frame.ErrEndOfStream
	}
	i := s.pos
	s.pos++
	if err, ok := s.Errs[i]; ok {
		return nil, err
	}
	if s.Frames[i] == nil {
		return &frame.Frame{}, nil
	}
	return s.Frames[i], nil
}

// Close counts releases.
func (s *FakeSource) Close() error {
	s.Closes++
	return nil
}

// OverlayCall records one DrawOverlay invocation.
type OverlayCall struct {
	Text   string
	Origin image.Point
	Style  overlay.Style
}

// RecordingPresenter captures everything the scan loop asks it to do.
// Keys are returned from WaitKey in order, then -1.
type RecordingPresenter struct {
	OpenErr error
	// Render draws overlays into the frame like a real backend.
	Render bool
	// QuitAfter returns QuitKey from WaitKey once that many frames were shown.
	QuitAfter int
	QuitKey   int
	Keys      []int

	Title    string
	Opened   int
	Closed   int
	Shown    []*frame.Frame
	Overlays []OverlayCall
	Waits    []int
}

// ErrNoDisplay is a convenience error for presenters that fail to open.
var ErrNoDisplay = errors.New("no display")

func (p *RecordingPresenter) Open(title string) error {
	if p.OpenErr != nil {
		return p.OpenErr
	}
	p.Title = title
	p.Opened++
	return nil
}

func (p *RecordingPresenter) DrawOverlay(f *frame.Frame, text string, origin image.Point, style overlay.Style) {
	p.Overlays = append(p.Overlays, OverlayCall{Text: text, Origin: origin, Style: style})
	if p.Render {
		overlay.Draw(f, text, origin, style)
	}
}

func (p *RecordingPresenter) Show(_ string, f *frame.Frame) error {
	p.Shown = append(p.Shown, f.Clone())
	return nil
}

func (p *RecordingPresenter) WaitKey(timeoutMs int) int {
	p.Waits = append(p.Waits, timeoutMs)
	if p.QuitAfter > 0 && len(p.Shown) >= p.QuitAfter {
		if p.QuitKey != 0 {
			return p.QuitKey
		}
		return 'q'
	}
	if len(p.Keys) > 0 {
		k := p.Keys[0]
		p.Keys = p.Keys[1:]
		return k
	}
	return -1
}

func (p *RecordingPresenter) Close() error {
	p.Closed++
	return nil
}
