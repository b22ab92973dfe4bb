// Package frame defines the camera frame data model shared by the capture,
// conversion and presentation stages.
package frame

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

var (
	// ErrDeviceUnavailable is returned when a capture device cannot be opened.
	ErrDeviceUnavailable = errors.New("device unavailable")

	// ErrEndOfStream is returned by a source once its device has closed.
	ErrEndOfStream = errors.New("end of stream")
)

// ChannelOrder describes the interleaved channel layout reported by a device.
type ChannelOrder int

const (
	OrderUnknown ChannelOrder = iota
	OrderGray
	OrderBGR
	OrderRGB
	OrderBGRA
	OrderRGBA
)

// String returns the conventional name of the layout.
func (o ChannelOrder) String() string {
	switch o {
	case OrderGray:
		return "GRAY"
	case OrderBGR:
		return "BGR"
	case OrderRGB:
		return "RGB"
	case OrderBGRA:
		return "BGRA"
	case OrderRGBA:
		return "RGBA"
	default:
		return "UNKNOWN"
	}
}

// Channels returns the channel count implied by the layout, or 0 if unknown.
func (o ChannelOrder) Channels() int {
	switch o {
	case OrderGray:
		return 1
	case OrderBGR, OrderRGB:
		return 3
	case OrderBGRA, OrderRGBA:
		return 4
	default:
		return 0
	}
}

// OrderForChannels returns the device-native layout OpenCV uses for a channel count.
func OrderForChannels(c int) ChannelOrder {
	switch c {
	case 1:
		return OrderGray
	case 3:
		return OrderBGR
	case 4:
		return OrderBGRA
	default:
		return OrderUnknown
	}
}

// Frame is a rectangular grid of 8-bit pixels with Channels interleaved samples each.
// Pix holds Width*Height*Channels bytes, row-major with no padding.
type Frame struct {
	Width    int
	Height   int
	Channels int
	Order    ChannelOrder
	Pix      []byte
}

// New allocates a zeroed frame for the given layout.
func New(width, height int, order ChannelOrder) *Frame {
	c := order.Channels()
	return &Frame{
		Width:    width,
		Height:   height,
		Channels: c,
		Order:    order,
		Pix:      make([]byte, width*height*c),
	}
}

// Empty reports whether the frame carries no pixels.
func (f *Frame) Empty() bool {
	return f == nil || f.Width <= 0 || f.Height <= 0 || len(f.Pix) == 0
}

// Stride is the number of bytes per row.
func (f *Frame) Stride() int { return f.Width * f.Channels }

// Bounds returns the pixel rectangle of the frame.
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

// Validate checks that the buffer size matches the declared dimensions.
func (f *Frame) Validate() error {
	if f.Width < 0 || f.Height < 0 {
		return fmt.Errorf("negative frame dimensions %dx%d", f.Width, f.Height)
	}
	if want := f.Width * f.Height * f.Channels; len(f.Pix) != want {
		return fmt.Errorf("frame buffer holds %d bytes, want %d for %dx%dx%d",
			len(f.Pix), want, f.Width, f.Height, f.Channels)
	}
	return nil
}

// Reset resizes the frame in place, reusing the pixel buffer when it is large enough.
func (f *Frame) Reset(width, height, channels int, order ChannelOrder) {
	n := width * height * channels
	if cap(f.Pix) < n {
		f.Pix = make([]byte, n)
	}
	f.Pix = f.Pix[:n]
	f.Width, f.Height, f.Channels, f.Order = width, height, channels, order
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}
	c := *f
	c.Pix = append([]byte(nil), f.Pix...)
	return &c
}

// SetRGB writes a colour at (x, y) in the frame's native order.
// Out of bounds writes are ignored; gray frames receive the BT.601 luma.
func (f *Frame) SetRGB(x, y int, r, g, b uint8) {
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return
	}
	i := y*f.Stride() + x*f.Channels
	switch f.Order {
	case OrderGray:
		f.Pix[i] = uint8((299*int(r) + 587*int(g) + 114*int(b) + 500) / 1000)
	case OrderBGR, OrderBGRA:
		f.Pix[i], f.Pix[i+1], f.Pix[i+2] = b, g, r
	case OrderRGB, OrderRGBA:
		f.Pix[i], f.Pix[i+1], f.Pix[i+2] = r, g, b
	}
}

// RGB reads the colour at (x, y) regardless of the native order.
func (f *Frame) RGB(x, y int) (r, g, b uint8) {
	i := y*f.Stride() + x*f.Channels
	switch f.Order {
	case OrderGray:
		v := f.Pix[i]
		return v, v, v
	case OrderBGR, OrderBGRA:
		return f.Pix[i+2], f.Pix[i+1], f.Pix[i]
	case OrderRGB, OrderRGBA:
		return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
	default:
		return 0, 0, 0
	}
}

// ToRGBA copies the frame into a standard library image for GUI toolkits.
func (f *Frame) ToRGBA() *image.RGBA {
	dst := image.NewRGBA(f.Bounds())
	if f.Empty() {
		return dst
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			r, g, b := f.RGB(x, y)
			dst.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xff})
		}
	}
	return dst
}

// FromImage builds a frame in the given layout from any image.
func FromImage(img image.Image, order ChannelOrder) *Frame {
	b := img.Bounds()
	f := New(b.Dx(), b.Dy(), order)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := color.RGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA)
			f.SetRGB(x, y, c.R, c.G, c.B)
		}
	}
	return f
}
