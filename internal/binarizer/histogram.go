package binarizer

import (
	"github.com/makiuchi-d/gozxing"
)

const (
	luminanceBits    = 5
	luminanceShift   = 8 - luminanceBits
	luminanceBuckets = 1 << luminanceBits
)

// globalBlackPoint samples four rows across the middle three fifths of the
// plane and returns a single threshold for the whole image.
func globalBlackPoint(pix []byte, width, height int) (int, error) {
	var buckets [luminanceBuckets]int
	for y := 1; y < 5; y++ {
		row := height * y / 5
		line := pix[row*width : (row+1)*width]
		right := (width * 4) / 5
		for x := width / 5; x < right; x++ {
			buckets[int(line[x])>>luminanceShift]++
		}
	}
	return estimateBlackPoint(buckets[:])
}

// estimateBlackPoint finds the two tallest well separated histogram peaks and
// returns the deepest valley between them, favouring the dark side. A
// histogram without two distinct peaks (e.g. a blank frame) has no black point.
func estimateBlackPoint(buckets []int) (int, error) {
	numBuckets := len(buckets)
	maxBucketCount := 0
	firstPeak := 0
	firstPeakSize := 0
	for x := 0; x < numBuckets; x++ {
		if buckets[x] > firstPeakSize {
			firstPeak = x
			firstPeakSize = buckets[x]
		}
		if buckets[x] > maxBucketCount {
			maxBucketCount = buckets[x]
		}
	}

	secondPeak := 0
	secondPeakScore := 0
	for x := 0; x < numBuckets; x++ {
		dist := x - firstPeak
		score := buckets[x] * dist * dist
		if score > secondPeakScore {
			secondPeak = x
			secondPeakScore = score
		}
	}

	if firstPeak > secondPeak {
		firstPeak, secondPeak = secondPeak, firstPeak
	}

	if secondPeak-firstPeak <= numBuckets/16 {
		return 0, gozxing.NewNotFoundException()
	}

	bestValley := secondPeak - 1
	bestValleyScore := -1
	for x := secondPeak - 1; x > firstPeak; x-- {
		fromFirst := x - firstPeak
		score := fromFirst * fromFirst * (secondPeak - x) * (maxBucketCount - buckets[x])
		if score > bestValleyScore {
			bestValley = x
			bestValleyScore = score
		}
	}

	return bestValley << luminanceShift, nil
}
