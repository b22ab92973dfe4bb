package highgui

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MeKo-Tech/barscan/internal/display"
	"github.com/MeKo-Tech/barscan/internal/frame"
)

func TestTextColorFollowsFrameOrder(t *testing.T) {
	red := color.RGBA{R: 0xff, A: 0xff}
	assert.Equal(t, red, textColor(red, frame.OrderBGR))
	assert.Equal(t, red, textColor(red, frame.OrderBGRA))
	assert.Equal(t, color.RGBA{B: 0xff, A: 0xff}, textColor(red, frame.OrderRGB))
}

func TestMatType(t *testing.T) {
	for _, c := range []int{1, 3, 4} {
		_, ok := matType(c)
		assert.True(t, ok, c)
	}
	_, ok := matType(2)
	assert.False(t, ok)
}

func TestClosedWithoutWindow(t *testing.T) {
	p := New(nil)
	assert.Equal(t, display.KeyClosed, p.WaitKey(1))
	assert.Error(t, p.Show("x", frame.New(2, 2, frame.OrderBGR)))
	assert.NoError(t, p.Close())
}

func TestClosedByUser(t *testing.T) {
	assert.False(t, closedByUser(false, 0), "nothing shown yet")
	assert.False(t, closedByUser(true, 1))
	assert.True(t, closedByUser(true, 0))
	assert.True(t, closedByUser(true, -1))
}
