// Package binarizer turns luminance planes into black/white bit matrices using
// locally adaptive thresholds.
//
// Bit convention follows the decoder library: a set bit marks a dark
// (foreground) pixel at or below its local threshold; a clear bit is background.
package binarizer

import (
	"fmt"

	"github.com/makiuchi-d/gozxing"

	"github.com/MeKo-Tech/barscan/internal/luminance"
)

const (
	blockSizePower   = 3
	blockSize        = 1 << blockSizePower // 8x8 pixel blocks
	blockSizeMask    = blockSize - 1
	minimumDimension = blockSize * 5
	minDynamicRange  = 24
)

// Hybrid is a local thresholding binarizer. Each 8x8 block gets a black point
// from its min/max/average luminance; the threshold applied to a block is the
// mean black point of the surrounding 5x5 blocks plus Bias. Images smaller than
// 40 pixels on a side fall back to a single global histogram threshold.
//
// Hybrid implements gozxing.Binarizer. Row requests for 1D readers use the
// global histogram row method with sharpening.
type Hybrid struct {
	source gozxing.LuminanceSource
	pix    []byte
	width  int
	height int
	bias   int

	matrix *gozxing.BitMatrix
}

// NewHybrid wraps a luminance plane without copying it.
func NewHybrid(lum *luminance.Image, bias int) (*Hybrid, error) {
	if lum == nil || lum.Width <= 0 || lum.Height <= 0 {
		return nil, fmt.Errorf("binarizer: empty luminance image")
	}
	if len(lum.Pix) != lum.Width*lum.Height {
		return nil, fmt.Errorf("binarizer: luminance buffer holds %d bytes, want %d", len(lum.Pix), lum.Width*lum.Height)
	}
	src, err := gozxing.NewPlanarYUVLuminanceSource(lum.Pix, lum.Width, lum.Height, 0, 0, lum.Width, lum.Height, false)
	if err != nil {
		return nil, fmt.Errorf("binarizer: %w", err)
	}
	return &Hybrid{source: src, pix: lum.Pix, width: lum.Width, height: lum.Height, bias: bias}, nil
}

// GetLuminanceSource returns the decoder-facing view of the plane.
func (h *Hybrid) GetLuminanceSource() gozxing.LuminanceSource { return h.source }

// GetWidth returns the plane width.
func (h *Hybrid) GetWidth() int { return h.width }

// GetHeight returns the plane height.
func (h *Hybrid) GetHeight() int { return h.height }

// CreateBinarizer returns a Hybrid with the same bias over another source,
// used by the decoder library when it crops or rotates the bitmap.
func (h *Hybrid) CreateBinarizer(source gozxing.LuminanceSource) gozxing.Binarizer {
	return &Hybrid{
		source: source,
		pix:    source.GetMatrix(),
		width:  source.GetWidth(),
		height: source.GetHeight(),
		bias:   h.bias,
	}
}

// GetBlackMatrix computes (once) and returns the full binarized matrix.
func (h *Hybrid) GetBlackMatrix() (*gozxing.BitMatrix, error) {
	if h.matrix != nil {
		return h.matrix, nil
	}
	matrix, err := gozxing.NewBitMatrix(h.width, h.height)
	if err != nil {
		return nil, err
	}

	if h.width >= minimumDimension && h.height >= minimumDimension {
		subWidth := h.width >> blockSizePower
		if (h.width & blockSizeMask) != 0 {
			subWidth++
		}
		subHeight := h.height >> blockSizePower
		if (h.height & blockSizeMask) != 0 {
			subHeight++
		}
		blackPoints := calculateBlackPoints(h.pix, subWidth, subHeight, h.width, h.height)
		calculateThresholdForBlock(h.pix, subWidth, subHeight, h.width, h.height, h.bias, blackPoints, matrix)
	} else {
		// a histogram without two peaks leaves the matrix blank
		if blackPoint, err := globalBlackPoint(h.pix, h.width, h.height); err == nil {
			thresholdGlobal(h.pix, h.width, h.height, blackPoint+h.bias, matrix)
		}
	}
	h.matrix = matrix
	return matrix, nil
}

func thresholdGlobal(pix []byte, width, height, threshold int, matrix *gozxing.BitMatrix) {
	for y := 0; y < height; y++ {
		offset := y * width
		for x := 0; x < width; x++ {
			if int(pix[offset+x]) < threshold {
				matrix.Set(x, y)
			}
		}
	}
}

// GetBlackRow binarizes one row against a histogram of that row, sharpening
// with a [-1 4 -1] kernel so thin bars survive blur.
func (h *Hybrid) GetBlackRow(y int, row *gozxing.BitArray) (*gozxing.BitArray, error) {
	width := h.width
	if row == nil || row.GetSize() < width {
		row = gozxing.NewBitArray(width)
	} else {
		row.Clear()
	}
	if y < 0 || y >= h.height {
		return nil, gozxing.NewNotFoundException()
	}

	line := h.pix[y*width : (y+1)*width]
	var buckets [luminanceBuckets]int
	for _, v := range line {
		buckets[int(v)>>luminanceShift]++
	}
	blackPoint, err := estimateBlackPoint(buckets[:])
	if err != nil {
		return nil, err
	}
	blackPoint += h.bias

	if width < 3 {
		for x := 0; x < width; x++ {
			if int(line[x]) < blackPoint {
				row.Set(x)
			}
		}
		return row, nil
	}
	left := int(line[0])
	center := int(line[1])
	for x := 1; x < width-1; x++ {
		right := int(line[x+1])
		if ((center*4)-left-right)/2 < blackPoint {
			row.Set(x)
		}
		left = center
		center = right
	}
	return row, nil
}

func calculateThresholdForBlock(luminances []byte, subWidth, subHeight, width, height, bias int,
	blackPoints [][]int, matrix *gozxing.BitMatrix) {
	maxYOffset := height - blockSize
	maxXOffset := width - blockSize
	for y := 0; y < subHeight; y++ {
		yoffset := y << blockSizePower
		if yoffset > maxYOffset {
			yoffset = maxYOffset
		}
		top := clampNeighbourhood(y, subHeight-3)
		for x := 0; x < subWidth; x++ {
			xoffset := x << blockSizePower
			if xoffset > maxXOffset {
				xoffset = maxXOffset
			}
			left := clampNeighbourhood(x, subWidth-3)
			sum := 0
			for z := -2; z <= 2; z++ {
				blackRow := blackPoints[top+z]
				sum += blackRow[left-2] + blackRow[left-1] + blackRow[left] + blackRow[left+1] + blackRow[left+2]
			}
			average := sum / 25
			thresholdBlock(luminances, xoffset, yoffset, average+bias, width, matrix)
		}
	}
}

// clampNeighbourhood keeps the 5x5 window inside the block grid.
func clampNeighbourhood(value, upper int) int {
	if value < 2 {
		return 2
	}
	if value > upper {
		return upper
	}
	return value
}

func thresholdBlock(luminances []byte, xoffset, yoffset, threshold, stride int, matrix *gozxing.BitMatrix) {
	for y, offset := 0, yoffset*stride+xoffset; y < blockSize; y, offset = y+1, offset+stride {
		for x := 0; x < blockSize; x++ {
			if int(luminances[offset+x]) <= threshold {
				matrix.Set(xoffset+x, yoffset+y)
			}
		}
	}
}

// calculateBlackPoints computes one black point per block. Low contrast blocks
// inherit from their already computed neighbours so that flat areas inside a
// symbol do not flip to foreground.
func calculateBlackPoints(luminances []byte, subWidth, subHeight, width, height int) [][]int {
	maxYOffset := height - blockSize
	maxXOffset := width - blockSize
	blackPoints := make([][]int, subHeight)
	for i := range blackPoints {
		blackPoints[i] = make([]int, subWidth)
	}

	for y := 0; y < subHeight; y++ {
		yoffset := y << blockSizePower
		if yoffset > maxYOffset {
			yoffset = maxYOffset
		}
		for x := 0; x < subWidth; x++ {
			xoffset := x << blockSizePower
			if xoffset > maxXOffset {
				xoffset = maxXOffset
			}
			sum := 0
			mn := 0xFF
			mx := 0
			for yy, offset := 0, yoffset*width+xoffset; yy < blockSize; yy, offset = yy+1, offset+width {
				for xx := 0; xx < blockSize; xx++ {
					pixel := int(luminances[offset+xx])
					sum += pixel
					if pixel < mn {
						mn = pixel
					}
					if pixel > mx {
						mx = pixel
					}
				}
				// once contrast is established, only the sum matters
				if mx-mn > minDynamicRange {
					for yy, offset = yy+1, offset+width; yy < blockSize; yy, offset = yy+1, offset+width {
						for xx := 0; xx < blockSize; xx++ {
							sum += int(luminances[offset+xx])
						}
					}
				}
			}

			average := sum >> (blockSizePower * 2)
			if mx-mn <= minDynamicRange {
				average = mn / 2
				if y > 0 && x > 0 {
					neighbours := (blackPoints[y-1][x] + 2*blackPoints[y][x-1] + blackPoints[y-1][x-1]) / 4
					if mn < neighbours {
						average = neighbours
					}
				}
			}
			blackPoints[y][x] = average
		}
	}
	return blackPoints
}
