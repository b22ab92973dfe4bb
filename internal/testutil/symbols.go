package testutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/MeKo-Tech/barscan/internal/frame"
)

// CanvasSize is the frame size used by the symbol fixtures.
var CanvasSize = image.Point{X: 400, Y: 300}

// Payloads used by the seed scenarios.
const (
	QRPayload      = "https://example.com"
	EAN13Payload   = "4006381333931"
	Code128Payload = "BARSCAN-128"
)

// UniformFrame returns a frame of one grey level.
func UniformFrame(w, h int, level byte, order frame.ChannelOrder) *frame.Frame {
	f := frame.New(w, h, order)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			f.SetRGB(x, y, level, level, level)
		}
	}
	return f
}

// WhiteFrame returns a blank BGR frame of the canvas size.
func WhiteFrame() *frame.Frame {
	return UniformFrame(CanvasSize.X, CanvasSize.Y, 0xff, frame.OrderBGR)
}

// RenderMatrix draws a bit matrix as black modules on white.
func RenderMatrix(m *gozxing.BitMatrix) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.GetWidth(), m.GetHeight()))
	for y := 0; y < m.GetHeight(); y++ {
		for x := 0; x < m.GetWidth(); x++ {
			if m.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 0xff})
			}
		}
	}
	return img
}

// Place centres img on a white canvas of CanvasSize.
func Place(img image.Image) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, CanvasSize.X, CanvasSize.Y))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	b := img.Bounds()
	off := image.Point{X: (CanvasSize.X - b.Dx()) / 2, Y: (CanvasSize.Y - b.Dy()) / 2}
	draw.Draw(canvas, b.Sub(b.Min).Add(off), img, b.Min, draw.Src)
	return canvas
}

// QRImage encodes text as a QR symbol size×size pixels including quiet zone.
func QRImage(text string, size int) (*image.Gray, error) {
	m, err := qrcode.NewQRCodeWriter().Encode(text, gozxing.BarcodeFormat_QR_CODE, size, size, nil)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return RenderMatrix(m), nil
}

// EAN13Image encodes a 13 digit code as an EAN-13 symbol.
func EAN13Image(code string, width, height int) (*image.Gray, error) {
	m, err := oned.NewEAN13Writer().Encode(code, gozxing.BarcodeFormat_EAN_13, width, height, nil)
	if err != nil {
		return nil, fmt.Errorf("encode ean13: %w", err)
	}
	return RenderMatrix(m), nil
}

// Code128Image encodes text as a Code-128 symbol.
func Code128Image(text string, width, height int) (*image.Gray, error) {
	m, err := oned.NewCode128Writer().Encode(text, gozxing.BarcodeFormat_CODE_128, width, height, nil)
	if err != nil {
		return nil, fmt.Errorf("encode code128: %w", err)
	}
	return RenderMatrix(m), nil
}

// QRFrame returns a BGR canvas frame holding a QR symbol for text.
func QRFrame(text string) (*frame.Frame, error) {
	img, err := QRImage(text, 200)
	if err != nil {
		return nil, err
	}
	return frame.FromImage(Place(img), frame.OrderBGR), nil
}

// RotatedQRFrame is QRFrame turned by 180 degrees.
func RotatedQRFrame(text string) (*frame.Frame, error) {
	img, err := QRImage(text, 200)
	if err != nil {
		return nil, err
	}
	return frame.FromImage(imaging.Rotate180(Place(img)), frame.OrderBGR), nil
}

// EAN13Frame returns a BGR canvas frame holding an EAN-13 symbol.
func EAN13Frame(code string) (*frame.Frame, error) {
	img, err := EAN13Image(code, 340, 120)
	if err != nil {
		return nil, err
	}
	return frame.FromImage(Place(img), frame.OrderBGR), nil
}

// Code128Frame returns a BGR canvas frame holding a Code-128 symbol.
func Code128Frame(text string) (*frame.Frame, error) {
	img, err := Code128Image(text, 340, 120)
	if err != nil {
		return nil, err
	}
	return frame.FromImage(Place(img), frame.OrderBGR), nil
}

// MixedFrame holds a QR symbol in the upper left and an EAN-13 symbol below it.
func MixedFrame(qrText, eanCode string) (*frame.Frame, error) {
	qr, err := QRImage(qrText, 150)
	if err != nil {
		return nil, err
	}
	ean, err := EAN13Image(eanCode, 340, 100)
	if err != nil {
		return nil, err
	}
	canvas := image.NewRGBA(image.Rect(0, 0, CanvasSize.X, CanvasSize.Y))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, qr.Bounds().Add(image.Point{X: 10, Y: 10}), qr, image.Point{}, draw.Src)
	draw.Draw(canvas, ean.Bounds().Add(image.Point{X: 30, Y: 185}), ean, image.Point{}, draw.Src)
	return frame.FromImage(canvas, frame.OrderBGR), nil
}

func must(tb testing.TB, f *frame.Frame, err error) *frame.Frame {
	tb.Helper()
	if err != nil {
		tb.Fatalf("build fixture: %v", err)
	}
	return f
}

// MustQRFrame is QRFrame for tests.
func MustQRFrame(tb testing.TB, text string) *frame.Frame {
	tb.Helper()
	f, err := QRFrame(text)
	return must(tb, f, err)
}

// MustRotatedQRFrame is RotatedQRFrame for tests.
func MustRotatedQRFrame(tb testing.TB, text string) *frame.Frame {
	tb.Helper()
	f, err := RotatedQRFrame(text)
	return must(tb, f, err)
}

// MustEAN13Frame is EAN13Frame for tests.
func MustEAN13Frame(tb testing.TB, code string) *frame.Frame {
	tb.Helper()
	f, err := EAN13Frame(code)
	return must(tb, f, err)
}

// MustCode128Frame is Code128Frame for tests.
func MustCode128Frame(tb testing.TB, text string) *frame.Frame {
	tb.Helper()
	f, err := Code128Frame(text)
	return must(tb, f, err)
}

// MustMixedFrame is MixedFrame for tests.
func MustMixedFrame(tb testing.TB, qrText, eanCode string) *frame.Frame {
	tb.Helper()
	f, err := MixedFrame(qrText, eanCode)
	return must(tb, f, err)
}
