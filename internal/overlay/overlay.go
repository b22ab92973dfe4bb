// Package overlay renders decoded payload text into frames.
package overlay

import (
	"image"
	"image/color"
	"math"
	"unicode"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/MeKo-Tech/barscan/internal/frame"
)

// DefaultOrigin is the baseline start of the overlay text.
var DefaultOrigin = image.Point{X: 10, Y: 50}

// Style describes how overlay text is drawn.
type Style struct {
	Font      string
	Scale     float64
	Thickness int
	Color     color.RGBA
}

// DefaultStyle is red sans-serif text at scale 1 with a 2 pixel stroke.
func DefaultStyle() Style {
	return Style{
		Font:      "sans-serif",
		Scale:     1.0,
		Thickness: 2,
		Color:     color.RGBA{R: 0xff, A: 0xff},
	}
}

// Fold reduces text to printable ASCII. Accents are stripped and anything
// else outside the range becomes '?'. Both the bitmap font and the OpenCV
// Hershey fonts only cover ASCII.
func Fold(s string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			if r < 0x20 || r > 0x7e {
				return '?'
			}
			return r
		}),
		norm.NFC,
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Draw renders text into f in place with its baseline starting at origin,
// writing the style colour in the frame's native channel order. Pixels that
// fall outside the frame are clipped.
func Draw(f *frame.Frame, text string, origin image.Point, style Style) {
	if f.Empty() || text == "" {
		return
	}
	mask, ascent := scaledMask(text, style.Scale)
	stroke := strokeWidth(style)

	c := style.Color
	b := mask.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.NRGBAAt(x, y).A == 0 {
				continue
			}
			px := origin.X + x
			py := origin.Y + y - ascent
			for dy := 0; dy < stroke; dy++ {
				for dx := 0; dx < stroke; dx++ {
					f.SetRGB(px+dx, py+dy, c.R, c.G, c.B)
				}
			}
		}
	}
}

// Bounds returns the rectangle Draw would cover for text at origin.
func Bounds(text string, origin image.Point, style Style) image.Rectangle {
	mask, ascent := scaledMask(text, style.Scale)
	stroke := strokeWidth(style)
	b := mask.Bounds()
	return image.Rect(
		origin.X,
		origin.Y-ascent,
		origin.X+b.Dx()+stroke-1,
		origin.Y+b.Dy()-ascent+stroke-1,
	)
}

func strokeWidth(style Style) int {
	if style.Thickness < 1 {
		return 1
	}
	return style.Thickness
}

// scaledMask rasterizes text and resizes the glyph mask by scale with
// nearest-neighbour sampling, so fractional scales keep hard edges.
// Non-positive scales draw at 1.
func scaledMask(text string, scale float64) (*image.NRGBA, int) {
	mask, ascent := rasterize(Fold(text))
	if scale <= 0 {
		scale = 1
	}
	b := mask.Bounds()
	w := max(1, int(math.Round(float64(b.Dx())*scale)))
	h := max(1, int(math.Round(float64(b.Dy())*scale)))
	return imaging.Resize(mask, w, h, imaging.NearestNeighbor), int(math.Round(float64(ascent) * scale))
}

// rasterize draws text with the 7x13 bitmap face into an alpha mask and
// returns the mask together with the baseline offset inside it.
func rasterize(text string) (*image.Alpha, int) {
	face := basicfont.Face7x13
	d := &font.Drawer{Face: face}
	width := d.MeasureString(text).Ceil()
	m := face.Metrics()
	ascent := m.Ascent.Ceil()
	height := ascent + m.Descent.Ceil()

	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	d.Dst = mask
	d.Src = image.Opaque
	d.Dot = fixed.P(0, ascent)
	d.DrawString(text)
	return mask, ascent
}
