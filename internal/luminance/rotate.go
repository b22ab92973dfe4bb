package luminance

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Rotate returns a copy of m turned counter-clockwise by degrees (0, 90, 180 or 270).
func Rotate(m *Image, degrees int) (*Image, error) {
	var rotated *image.NRGBA
	switch degrees {
	case 0:
		return &Image{Width: m.Width, Height: m.Height, Pix: append([]byte(nil), m.Pix...)}, nil
	case 90:
		rotated = imaging.Rotate90(m.Gray())
	case 180:
		rotated = imaging.Rotate180(m.Gray())
	case 270:
		rotated = imaging.Rotate270(m.Gray())
	default:
		return nil, fmt.Errorf("unsupported rotation %d", degrees)
	}

	b := rotated.Bounds()
	out := &Image{Width: b.Dx(), Height: b.Dy(), Pix: make([]byte, b.Dx()*b.Dy())}
	for y := 0; y < out.Height; y++ {
		row := rotated.Pix[y*rotated.Stride:]
		for x := 0; x < out.Width; x++ {
			// gray input, so R == G == B
			out.Pix[y*out.Width+x] = row[x*4]
		}
	}
	return out, nil
}

// Unrotate maps a point in an image produced by Rotate(m, degrees) back into
// the coordinates of m, which is width×height.
func Unrotate(x, y float64, degrees, width, height int) (float64, float64) {
	switch degrees {
	case 90:
		return float64(width-1) - y, x
	case 180:
		return float64(width-1) - x, float64(height-1) - y
	case 270:
		return y, float64(height-1) - x
	default:
		return x, y
	}
}
