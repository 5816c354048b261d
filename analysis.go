package clahe

import (
	"math"
)

// GrayLevel names the third of the intensity range holding most pixels.
type GrayLevel uint8

const (
	GrayLevelLow GrayLevel = iota
	GrayLevelMiddle
	GrayLevelHigh
)

func (l GrayLevel) String() string {
	switch l {
	case GrayLevelLow:
		return "low"
	case GrayLevelMiddle:
		return "middle"
	case GrayLevelHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ClassifyGrayLevel reports whether the dark, middle or bright third of
// the range [0,85], [85,170], [170,255] holds the most pixels. The
// boundary bins 85 and 170 count toward both neighbouring bands, and ties
// go to the darker band.
func ClassifyGrayLevel(h Histogram) (GrayLevel, error) {
	if err := h.validate(); err != nil {
		return GrayLevelLow, err
	}
	const third = (HistogramBins - 1) / 3
	var sums [3]uint64
	for i := 0; i <= third; i++ {
		sums[0] += uint64(h[i])
	}
	for i := third; i <= 2*third; i++ {
		sums[1] += uint64(h[i])
	}
	for i := 2 * third; i < HistogramBins; i++ {
		sums[2] += uint64(h[i])
	}

	level := GrayLevelLow
	if sums[1] > sums[level] {
		level = GrayLevelMiddle
	}
	if sums[2] > sums[level] {
		level = GrayLevelHigh
	}
	return level, nil
}

// Entropy returns the Shannon entropy of h in bits. Empty bins contribute
// nothing, and an empty histogram has zero entropy.
func Entropy(h Histogram) float64 {
	total := float64(h.Sum())
	if total == 0 {
		return 0
	}
	var e float64
	for _, c := range h {
		if c == 0 {
			continue
		}
		p := float64(c) / total
		e -= p * math.Log2(p)
	}
	return e
}

// ImageEntropy returns the Shannon entropy of the intensity distribution
// of src.
func ImageEntropy(src GrayReader) float64 {
	h := NewHistogram()
	if err := BuildHistogram(src, h); err != nil {
		return 0
	}
	return Entropy(h)
}

// RelativeClipLimit converts a clip limit expressed relative to the mean
// bin height into an absolute count for a tile of tileArea pixels:
//
//	max(int(relative * tileArea / 256), 1)
//
// This is how OpenCV interprets its clipLimit parameter. A relative limit
// <= 0 returns 0, which disables clipping.
func RelativeClipLimit(relative float64, tileArea int) float64 {
	if !(relative > 0) {
		return 0
	}
	limit := int(relative * float64(tileArea) / HistogramBins)
	return float64(max(limit, 1))
}
