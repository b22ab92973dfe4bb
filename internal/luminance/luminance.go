// Package luminance converts camera frames into single-channel intensity images.
package luminance

import (
	"errors"
	"fmt"
	"image"

	"github.com/MeKo-Tech/barscan/internal/frame"
	"github.com/MeKo-Tech/barscan/internal/mempool"
)

// ErrUnsupportedFormat is returned for frames whose channel layout cannot be converted.
var ErrUnsupportedFormat = errors.New("unsupported frame format")

// BT.601 weights scaled by 1000.
const (
	weightR = 299
	weightG = 587
	weightB = 114
)

// Image is a Width×Height plane of 8-bit intensities with stride Width.
type Image struct {
	Width  int
	Height int
	Pix    []byte
}

// Gray returns a zero-copy standard library view of the plane.
func (m *Image) Gray() *image.Gray {
	return &image.Gray{Pix: m.Pix, Stride: m.Width, Rect: image.Rect(0, 0, m.Width, m.Height)}
}

// At returns the intensity at (x, y).
func (m *Image) At(x, y int) byte { return m.Pix[y*m.Width+x] }

// FromFrame converts a frame into a freshly allocated luminance image.
func FromFrame(f *frame.Frame) (*Image, error) {
	var a Adapter
	img, err := a.Convert(f)
	if err != nil {
		return nil, err
	}
	// detach from the adapter before its buffer goes back to the pool
	out := *img
	out.Pix = append([]byte(nil), img.Pix...)
	a.Release()
	return &out, nil
}

// Adapter converts frames into luminance images, reusing one pooled buffer
// across calls. The returned image is valid until the next Convert or Release.
type Adapter struct {
	buf []byte
	img Image
}

// Convert produces the luminance plane of f. Single-channel frames are
// returned as a view over the frame's own buffer.
func (a *Adapter) Convert(f *frame.Frame) (*Image, error) {
	if f == nil || f.Empty() {
		return nil, fmt.Errorf("%w: empty frame", ErrUnsupportedFormat)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	if f.Order != frame.OrderUnknown && f.Order.Channels() != f.Channels {
		return nil, fmt.Errorf("%w: %s order with %d channels", ErrUnsupportedFormat, f.Order, f.Channels)
	}
	n := f.Width * f.Height

	switch f.Channels {
	case 1:
		a.img = Image{Width: f.Width, Height: f.Height, Pix: f.Pix[:n]}
		return &a.img, nil
	case 3, 4:
	default:
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, f.Channels)
	}

	ri, gi, bi, err := channelIndexes(f)
	if err != nil {
		return nil, err
	}

	a.ensure(n)
	c := f.Channels
	src := f.Pix
	dst := a.buf
	for i, o := 0, 0; i < n; i, o = i+1, o+c {
		r := int(src[o+ri])
		g := int(src[o+gi])
		b := int(src[o+bi])
		dst[i] = uint8((weightR*r + weightG*g + weightB*b + 500) / 1000)
	}
	a.img = Image{Width: f.Width, Height: f.Height, Pix: dst}
	return &a.img, nil
}

// Release hands the adapter's buffer back to the pool.
func (a *Adapter) Release() {
	mempool.PutBytes(a.buf)
	a.buf = nil
	a.img = Image{}
}

func (a *Adapter) ensure(n int) {
	if cap(a.buf) < n {
		mempool.PutBytes(a.buf)
		a.buf = mempool.GetBytes(n)
	}
	a.buf = a.buf[:n]
}

// channelIndexes returns the byte offsets of R, G and B within one pixel.
func channelIndexes(f *frame.Frame) (int, int, int, error) {
	switch f.Order {
	case frame.OrderBGR, frame.OrderBGRA:
		return 2, 1, 0, nil
	case frame.OrderRGB, frame.OrderRGBA:
		return 0, 1, 2, nil
	case frame.OrderUnknown:
		// device did not report an order; OpenCV delivers BGR(A)
		return 2, 1, 0, nil
	default:
		return 0, 0, 0, fmt.Errorf("%w: %d channel frame with %s order", ErrUnsupportedFormat, f.Channels, f.Order)
	}
}
