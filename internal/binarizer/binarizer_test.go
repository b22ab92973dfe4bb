package binarizer

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barscan/internal/frame"
	"github.com/MeKo-Tech/barscan/internal/luminance"
)

func plane(w, h int, fn func(x, y int) byte) *luminance.Image {
	img := &luminance.Image{Width: w, Height: h, Pix: make([]byte, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[y*w+x] = fn(x, y)
		}
	}
	return img
}

func TestBinarizeRejectsEmpty(t *testing.T) {
	_, err := Binarize(&luminance.Image{})
	assert.Error(t, err)

	_, err = Binarize(&luminance.Image{Width: 4, Height: 4, Pix: make([]byte, 3)})
	assert.Error(t, err)
}

func TestUniformWhiteIsBackground(t *testing.T) {
	bm, err := Binarize(plane(64, 48, func(int, int) byte { return 255 }))
	require.NoError(t, err)
	for y := 0; y < bm.Height(); y++ {
		for x := 0; x < bm.Width(); x++ {
			require.False(t, bm.Foreground(x, y), "(%d,%d)", x, y)
		}
	}
}

// Vertical stripes where the left half sits in shadow. No single threshold
// separates shadowed paper (90) from lit ink (120); local thresholds do.
func TestUnevenLighting(t *testing.T) {
	const w, h = 192, 64
	isInk := func(x int) bool { return (x/4)%2 == 0 }
	lum := plane(w, h, func(x, _ int) byte {
		switch {
		case x < w/2 && isInk(x):
			return 20
		case x < w/2:
			return 90
		case isInk(x):
			return 120
		default:
			return 230
		}
	})

	bm, err := Binarize(lum)
	require.NoError(t, err)

	// the 5x5 block neighbourhood blends both halves near the seam
	const seam = 24
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x >= w/2-seam && x < w/2+seam {
				continue
			}
			assert.Equal(t, isInk(x), bm.Foreground(x, y), "(%d,%d)", x, y)
		}
	}
}

func TestSmallImageUsesGlobalThreshold(t *testing.T) {
	lum := plane(20, 20, func(x, _ int) byte {
		if x < 10 {
			return 30
		}
		return 220
	})
	bm, err := Binarize(lum)
	require.NoError(t, err)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			assert.Equal(t, x < 10, bm.Foreground(x, y), "(%d,%d)", x, y)
		}
	}
}

func TestSmallUniformImageIsBlank(t *testing.T) {
	bm, err := Binarize(plane(12, 7, func(int, int) byte { return 128 }))
	require.NoError(t, err)
	assert.Equal(t, 12, bm.Width())
	assert.Equal(t, 7, bm.Height())
	for y := 0; y < 7; y++ {
		for x := 0; x < 12; x++ {
			assert.False(t, bm.Foreground(x, y))
		}
	}
}

func TestBiasShiftsThreshold(t *testing.T) {
	// every block averages to 144; rows 3 and 5 of each block hold pixels
	// just above and just below that threshold
	lum := plane(64, 64, func(x, y int) byte {
		ink := (x/4)%2 == 0
		switch {
		case ink && y%8 == 5:
			return 125
		case ink:
			return 90
		case y%8 == 3:
			return 150
		default:
			return 200
		}
	})

	base, err := Binarize(lum)
	require.NoError(t, err)
	darker, err := BinarizeWithBias(lum, 40)
	require.NoError(t, err)
	lighter, err := BinarizeWithBias(lum, -40)
	require.NoError(t, err)

	count := func(b *Bitmap) int {
		n := 0
		for y := 0; y < b.Height(); y++ {
			for x := 0; x < b.Width(); x++ {
				if b.Foreground(x, y) {
					n++
				}
			}
		}
		return n
	}
	assert.Greater(t, count(darker), count(base))
	assert.Less(t, count(lighter), count(base))
	assert.Equal(t, 40, darker.Bias())
}

func TestBlackRow(t *testing.T) {
	lum := plane(60, 3, func(x, y int) byte {
		if (x/5)%2 == 0 {
			return 10
		}
		return 240
	})
	h, err := NewHybrid(lum, 0)
	require.NoError(t, err)

	row, err := h.GetBlackRow(0, nil)
	require.NoError(t, err)
	assert.True(t, row.Get(2))
	assert.False(t, row.Get(7))

	_, err = h.GetBlackRow(5, row)
	assert.Error(t, err)
}

func TestCreateBinarizerKeepsBias(t *testing.T) {
	h, err := NewHybrid(plane(8, 8, func(int, int) byte { return 0 }), 7)
	require.NoError(t, err)
	child := h.CreateBinarizer(h.GetLuminanceSource())
	hc, ok := child.(*Hybrid)
	require.True(t, ok)
	assert.Equal(t, 7, hc.bias)
	assert.Equal(t, 8, hc.GetWidth())
}

func TestDimensionPreservationProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("binarized frames keep their dimensions", prop.ForAll(
		func(w, h int, seed byte) bool {
			f := frame.New(w, h, frame.OrderBGR)
			for i := range f.Pix {
				f.Pix[i] = byte(i*31) + seed
			}
			lum, err := luminance.FromFrame(f)
			if err != nil {
				return false
			}
			bm, err := Binarize(lum)
			return err == nil && bm.Width() == w && bm.Height() == h
		},
		gen.IntRange(1, 120),
		gen.IntRange(1, 120),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}

func TestDeterminismProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("binarize(to_luminance(f)) is bit-identical across calls", prop.ForAll(
		func(w, h int, seed byte) bool {
			f := frame.New(w, h, frame.OrderRGB)
			for i := range f.Pix {
				f.Pix[i] = byte((i*i)>>3) ^ seed
			}
			lumA, err := luminance.FromFrame(f)
			if err != nil {
				return false
			}
			lumB, err := luminance.FromFrame(f)
			if err != nil {
				return false
			}
			a, errA := Binarize(lumA)
			b, errB := Binarize(lumB)
			return errA == nil && errB == nil && a.Equal(b)
		},
		gen.IntRange(1, 100),
		gen.IntRange(1, 100),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}
