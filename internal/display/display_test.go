package display

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/barscan/internal/frame"
	"github.com/MeKo-Tech/barscan/internal/overlay"
)

func TestParseBackend(t *testing.T) {
	for _, in := range []string{"highgui", " FYNE ", "Headless"} {
		_, err := ParseBackend(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseBackend("wayland")
	assert.Error(t, err)
}

func TestHeadless(t *testing.T) {
	h := NewHeadless(nil)
	var slept []time.Duration
	h.sleep = func(d time.Duration) { slept = append(slept, d) }

	require.NoError(t, h.Open("Barcode Scanner"))

	f := frame.New(200, 80, frame.OrderBGR)
	h.DrawOverlay(f, "hello", overlay.DefaultOrigin, overlay.DefaultStyle())
	assert.NotEqual(t, make([]byte, len(f.Pix)), f.Pix, "overlay is rendered into the frame")

	require.NoError(t, h.Show("Barcode Scanner", f))
	require.NoError(t, h.Show("Barcode Scanner", &frame.Frame{}))
	assert.Equal(t, 1, h.Shown())

	assert.Equal(t, KeyNone, h.WaitKey(30))
	assert.Equal(t, KeyNone, h.WaitKey(0))
	assert.Equal(t, []time.Duration{30 * time.Millisecond}, slept)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
}
