package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MeKo-Tech/barscan/internal/frame"
)

func TestFold(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://example.com", "https://example.com"},
		{"Crème brûlée", "Creme brulee"},
		{"4006381333931", "4006381333931"},
		{"tab\there", "tab?here"},
		{"日本", "??"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Fold(tt.in), tt.in)
	}
}

func countColour(f *frame.Frame, r image.Rectangle, c color.RGBA) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
				continue
			}
			pr, pg, pb := f.RGB(x, y)
			if pr == c.R && pg == c.G && pb == c.B {
				n++
			}
		}
	}
	return n
}

func TestDrawAtDefaultOrigin(t *testing.T) {
	style := DefaultStyle()
	for _, order := range []frame.ChannelOrder{frame.OrderBGR, frame.OrderRGBA, frame.OrderBGRA} {
		f := frame.New(320, 120, order)
		Draw(f, "hello", DefaultOrigin, style)

		area := Bounds("hello", DefaultOrigin, style)
		assert.Greater(t, countColour(f, area, style.Color), 20, order.String())
		// nothing outside the text box
		assert.Equal(t, countColour(f, f.Bounds(), style.Color), countColour(f, area, style.Color), order.String())
		// text sits above the baseline
		assert.LessOrEqual(t, area.Min.Y, DefaultOrigin.Y-10)
		assert.Equal(t, DefaultOrigin.X, area.Min.X)
	}
}

func TestDrawNativeOrder(t *testing.T) {
	f := frame.New(100, 60, frame.OrderBGR)
	Draw(f, "I", DefaultOrigin, DefaultStyle())
	found := false
	for i := 0; i+2 < len(f.Pix); i += 3 {
		if f.Pix[i] == 0 && f.Pix[i+1] == 0 && f.Pix[i+2] == 0xff {
			found = true
			break
		}
	}
	assert.True(t, found, "red must be stored as B=0 G=0 R=255")
}

func TestDrawThicknessAndScale(t *testing.T) {
	thin := DefaultStyle()
	thin.Thickness = 1
	thick := DefaultStyle()
	thick.Thickness = 3
	big := DefaultStyle()
	big.Scale = 2

	count := func(s Style) int {
		f := frame.New(400, 120, frame.OrderBGR)
		Draw(f, "scan", DefaultOrigin, s)
		return countColour(f, f.Bounds(), s.Color)
	}
	assert.Greater(t, count(thick), count(thin))
	assert.Greater(t, count(big), count(thin))
}

func TestDrawClipsAndIgnoresEmpty(t *testing.T) {
	f := frame.New(8, 8, frame.OrderGray)
	assert.NotPanics(t, func() {
		Draw(f, "clipped text", image.Point{X: 4, Y: 4}, DefaultStyle())
		Draw(f, "", DefaultOrigin, DefaultStyle())
		Draw(&frame.Frame{}, "x", DefaultOrigin, DefaultStyle())
	})
}

func TestFractionalScaleGrowsText(t *testing.T) {
	width := func(scale float64) int {
		s := DefaultStyle()
		s.Scale = scale
		return Bounds("scan", DefaultOrigin, s).Dx()
	}
	assert.Less(t, width(1), width(1.4))
	assert.Less(t, width(1.4), width(2))

	s := DefaultStyle()
	s.Scale = 1.4
	f := frame.New(400, 120, frame.OrderBGR)
	Draw(f, "scan", DefaultOrigin, s)
	assert.Positive(t, countColour(f, f.Bounds(), s.Color))
	assert.Zero(t, countColour(f, image.Rect(DefaultOrigin.X+width(1.4), 0, 400, 120), s.Color))
}
