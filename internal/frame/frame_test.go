package frame

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmpty(t *testing.T) {
	var nilFrame *Frame
	assert.True(t, nilFrame.Empty())
	assert.True(t, (&Frame{}).Empty())
	assert.True(t, (&Frame{Width: 4, Height: 0, Channels: 3}).Empty())
	assert.False(t, New(2, 2, OrderBGR).Empty())
}

func TestOrderForChannels(t *testing.T) {
	tests := []struct {
		channels int
		want     ChannelOrder
	}{
		{1, OrderGray},
		{3, OrderBGR},
		{4, OrderBGRA},
		{2, OrderUnknown},
		{0, OrderUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OrderForChannels(tt.channels), "channels=%d", tt.channels)
	}
}

func TestValidate(t *testing.T) {
	f := New(3, 2, OrderRGB)
	require.NoError(t, f.Validate())

	f.Pix = f.Pix[:5]
	assert.Error(t, f.Validate())
}

func TestSetRGBNativeOrder(t *testing.T) {
	bgr := New(2, 1, OrderBGR)
	bgr.SetRGB(1, 0, 255, 10, 20)
	assert.Equal(t, []byte{0, 0, 0, 20, 10, 255}, bgr.Pix)

	rgba := New(1, 1, OrderRGBA)
	rgba.SetRGB(0, 0, 255, 10, 20)
	assert.Equal(t, []byte{255, 10, 20, 0}, rgba.Pix)

	gray := New(1, 1, OrderGray)
	gray.SetRGB(0, 0, 255, 0, 0)
	assert.Equal(t, byte(76), gray.Pix[0])

	// out of bounds writes are ignored
	bgr.SetRGB(5, 5, 1, 2, 3)
	bgr.SetRGB(-1, 0, 1, 2, 3)
	assert.Equal(t, []byte{0, 0, 0, 20, 10, 255}, bgr.Pix)
}

func TestResetReusesBuffer(t *testing.T) {
	f := New(10, 10, OrderBGR)
	before := &f.Pix[0]
	f.Reset(5, 5, 3, OrderBGR)
	assert.Len(t, f.Pix, 75)
	assert.Same(t, before, &f.Pix[0])

	f.Reset(20, 20, 4, OrderBGRA)
	assert.Len(t, f.Pix, 1600)
	assert.Equal(t, OrderBGRA, f.Order)
}

func TestImageRoundTrip(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(1, 1, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	f := FromImage(src, OrderBGR)
	require.Equal(t, 3, f.Width)
	require.Equal(t, 2, f.Height)
	r, g, b := f.RGB(1, 1)
	assert.Equal(t, [3]uint8{200, 100, 50}, [3]uint8{r, g, b})

	back := f.ToRGBA()
	assert.Equal(t, color.RGBA{R: 200, G: 100, B: 50, A: 255}, back.RGBAAt(1, 1))
}

func TestCloneIsDeep(t *testing.T) {
	f := New(1, 1, OrderGray)
	c := f.Clone()
	c.Pix[0] = 9
	assert.Equal(t, byte(0), f.Pix[0])
}
