package clahe

import (
	"fmt"
	"image"
	"math"
)

// HistogramBins is the number of intensity levels in an 8-bit plane.
const HistogramBins = 256

// Histogram holds one count per intensity level. A valid histogram has
// exactly HistogramBins entries.
type Histogram []uint32

// NewHistogram returns a zeroed 256-bin histogram.
func NewHistogram() Histogram {
	return make(Histogram, HistogramBins)
}

func (h Histogram) validate() error {
	if len(h) != HistogramBins {
		return fmt.Errorf("%w: got %d bins", ErrInvalidHistogramSize, len(h))
	}
	return nil
}

// BuildHistogram adds every pixel of src to h.
func BuildHistogram(src GrayReader, h Histogram) error {
	if src == nil {
		return ErrNilImage
	}
	return BuildHistogramForRegion(src, image.Rect(0, 0, src.Width(), src.Height()), h)
}

// BuildHistogramForRegion adds the pixels of src inside region to h. The
// region is clipped to the image bounds. h is left untouched if it is not
// 256 bins long.
func BuildHistogramForRegion(src GrayReader, region image.Rectangle, h Histogram) error {
	if err := h.validate(); err != nil {
		return err
	}
	if src == nil {
		return ErrNilImage
	}
	region = region.Intersect(image.Rect(0, 0, src.Width(), src.Height()))
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			h[src.GetGray(x, y)]++
		}
	}
	return nil
}

// Sum returns the total number of pixels counted in h.
func (h Histogram) Sum() uint64 {
	var total uint64
	for _, c := range h {
		total += uint64(c)
	}
	return total
}

// Max returns the largest bin count.
func (h Histogram) Max() uint32 {
	var m uint32
	for _, c := range h {
		if c > m {
			m = c
		}
	}
	return m
}

// Clone returns a copy of h.
func (h Histogram) Clone() Histogram {
	out := make(Histogram, len(h))
	copy(out, h)
	return out
}

// Clip bounds every bin at limit and redistributes the excess over all
// bins in a single pass. The even share excess/256 goes to every bin and
// the remaining excess%256 counts are added one per bin starting at bin 0,
// so Sum is unchanged.
//
// A limit <= 0 disables clipping. Positive limits are truncated to an
// integer count of at least 1.
func (h Histogram) Clip(limit float64) error {
	if err := h.validate(); err != nil {
		return err
	}
	if !(limit > 0) {
		return nil
	}
	lf := math.Max(math.Floor(limit), 1)
	if lf >= math.MaxUint32 {
		return nil
	}
	lim := uint32(lf)

	var excess uint64
	for i, c := range h {
		if c > lim {
			excess += uint64(c - lim)
			h[i] = lim
		}
	}
	if excess == 0 {
		return nil
	}

	batch := uint32(excess / HistogramBins)
	residual := int(excess % HistogramBins)
	for i := range h {
		h[i] += batch
	}
	for i := 0; i < residual; i++ {
		h[i]++
	}
	return nil
}
