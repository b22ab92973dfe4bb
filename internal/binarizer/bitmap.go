package binarizer

import (
	"fmt"

	"github.com/makiuchi-d/gozxing"

	"github.com/MeKo-Tech/barscan/internal/luminance"
)

// Bitmap is the binarized form of one luminance image. It keeps the source
// plane so a decoder can re-threshold or rotate it when searching harder.
type Bitmap struct {
	lum    *luminance.Image
	hybrid *Hybrid
	binary *gozxing.BinaryBitmap
	matrix *gozxing.BitMatrix
}

// Binarize thresholds lum with the default (zero) bias.
func Binarize(lum *luminance.Image) (*Bitmap, error) {
	return BinarizeWithBias(lum, 0)
}

// BinarizeWithBias thresholds lum, shifting every local threshold by bias.
// Positive values classify more pixels as foreground.
func BinarizeWithBias(lum *luminance.Image, bias int) (*Bitmap, error) {
	h, err := NewHybrid(lum, bias)
	if err != nil {
		return nil, err
	}
	bb, err := gozxing.NewBinaryBitmap(h)
	if err != nil {
		return nil, fmt.Errorf("binarizer: %w", err)
	}
	m, err := bb.GetBlackMatrix()
	if err != nil {
		return nil, fmt.Errorf("binarizer: %w", err)
	}
	return &Bitmap{lum: lum, hybrid: h, binary: bb, matrix: m}, nil
}

// Width returns the bitmap width in pixels.
func (b *Bitmap) Width() int { return b.matrix.GetWidth() }

// Height returns the bitmap height in pixels.
func (b *Bitmap) Height() int { return b.matrix.GetHeight() }

// Foreground reports whether (x, y) was classified as a dark pixel.
func (b *Bitmap) Foreground(x, y int) bool { return b.matrix.Get(x, y) }

// Bias returns the threshold shift the bitmap was produced with.
func (b *Bitmap) Bias() int { return b.hybrid.bias }

// Matrix exposes the underlying bit matrix.
func (b *Bitmap) Matrix() *gozxing.BitMatrix { return b.matrix }

// Binary returns the decoder library view of the bitmap.
func (b *Bitmap) Binary() *gozxing.BinaryBitmap { return b.binary }

// Luminance returns the plane the bitmap was computed from.
func (b *Bitmap) Luminance() *luminance.Image { return b.lum }

// Equal reports whether two bitmaps have the same dimensions and bits.
func (b *Bitmap) Equal(o *Bitmap) bool {
	if b.Width() != o.Width() || b.Height() != o.Height() {
		return false
	}
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if b.Foreground(x, y) != o.Foreground(x, y) {
				return false
			}
		}
	}
	return true
}
