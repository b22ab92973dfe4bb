package luminance

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barscan/internal/frame"
)

func TestFromFrameWeights(t *testing.T) {
	tests := []struct {
		name    string
		order   frame.ChannelOrder
		r, g, b uint8
		want    byte
	}{
		{"white bgr", frame.OrderBGR, 255, 255, 255, 255},
		{"black bgr", frame.OrderBGR, 0, 0, 0, 0},
		{"pure red bgr", frame.OrderBGR, 255, 0, 0, 76},
		{"pure green rgb", frame.OrderRGB, 0, 255, 0, 150},
		{"pure blue rgba", frame.OrderRGBA, 0, 0, 255, 29},
		{"mixed bgra", frame.OrderBGRA, 100, 150, 200, 141},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := frame.New(2, 2, tt.order)
			for y := 0; y < 2; y++ {
				for x := 0; x < 2; x++ {
					f.SetRGB(x, y, tt.r, tt.g, tt.b)
				}
			}
			img, err := FromFrame(f)
			require.NoError(t, err)
			assert.Equal(t, 2, img.Width)
			assert.Equal(t, 2, img.Height)
			for _, v := range img.Pix {
				assert.Equal(t, tt.want, v)
			}
		})
	}
}

func TestFromFrameIgnoresAlpha(t *testing.T) {
	f := frame.New(1, 1, frame.OrderBGRA)
	f.Pix = []byte{10, 20, 30, 0}
	a, err := FromFrame(f)
	require.NoError(t, err)

	f.Pix[3] = 255
	b, err := FromFrame(f)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestFromFrameUnsupported(t *testing.T) {
	tests := []struct {
		name string
		f    *frame.Frame
	}{
		{"two channels", &frame.Frame{Width: 4, Height: 4, Channels: 2, Pix: make([]byte, 32)}},
		{"five channels", &frame.Frame{Width: 1, Height: 1, Channels: 5, Pix: make([]byte, 5)}},
		{"short buffer", &frame.Frame{Width: 4, Height: 4, Channels: 3, Order: frame.OrderBGR, Pix: make([]byte, 10)}},
		{"order mismatch", &frame.Frame{Width: 1, Height: 1, Channels: 3, Order: frame.OrderGray, Pix: make([]byte, 3)}},
		{"empty", &frame.Frame{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromFrame(tt.f)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnsupportedFormat))
		})
	}
}

func TestAdapterReusesBuffer(t *testing.T) {
	var a Adapter
	defer a.Release()

	f := frame.New(32, 16, frame.OrderBGR)
	first, err := a.Convert(f)
	require.NoError(t, err)
	p := &first.Pix[0]

	second, err := a.Convert(f)
	require.NoError(t, err)
	assert.Same(t, p, &second.Pix[0])

	// smaller frames keep the same buffer, dimensions follow the frame
	small := frame.New(4, 4, frame.OrderBGR)
	third, err := a.Convert(small)
	require.NoError(t, err)
	assert.Len(t, third.Pix, 16)
	assert.Equal(t, 4, third.Width)
}

func TestGrayViewSharesPixels(t *testing.T) {
	img := &Image{Width: 3, Height: 2, Pix: []byte{1, 2, 3, 4, 5, 6}}
	g := img.Gray()
	assert.Equal(t, byte(6), g.GrayAt(2, 1).Y)
	img.Pix[0] = 99
	assert.Equal(t, byte(99), g.GrayAt(0, 0).Y)
}

func TestGrayscaleIdentityProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("single channel frames convert to their own bytes", prop.ForAll(
		func(w, h int, seed byte) bool {
			f := frame.New(w, h, frame.OrderGray)
			for i := range f.Pix {
				f.Pix[i] = byte(i*7) ^ seed
			}
			img, err := FromFrame(f)
			if err != nil {
				return false
			}
			if len(img.Pix) != len(f.Pix) {
				return false
			}
			for i := range img.Pix {
				if img.Pix[i] != f.Pix[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 64),
		gen.IntRange(1, 64),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}

func TestDimensionPreservationProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("luminance keeps frame dimensions", prop.ForAll(
		func(w, h int, order frame.ChannelOrder) bool {
			img, err := FromFrame(frame.New(w, h, order))
			return err == nil && img.Width == w && img.Height == h && len(img.Pix) == w*h
		},
		gen.IntRange(1, 80),
		gen.IntRange(1, 80),
		gen.OneConstOf(frame.OrderGray, frame.OrderBGR, frame.OrderRGB, frame.OrderBGRA, frame.OrderRGBA),
	))

	properties.TestingRun(t)
}

func TestFromFrameKeepsColourDimensions(t *testing.T) {
	for _, order := range []frame.ChannelOrder{frame.OrderBGR, frame.OrderRGB, frame.OrderBGRA, frame.OrderRGBA} {
		img, err := FromFrame(frame.New(4, 3, order))
		require.NoError(t, err, order.String())
		assert.Equal(t, 4, img.Width, order.String())
		assert.Equal(t, 3, img.Height, order.String())
		assert.Len(t, img.Pix, 12, order.String())
	}
}

func TestFromFrameDetachesGrayBuffer(t *testing.T) {
	f := frame.New(2, 2, frame.OrderGray)
	img, err := FromFrame(f)
	require.NoError(t, err)
	f.Pix[0] = 200
	assert.Equal(t, byte(0), img.Pix[0])
}
