package clahe

import "math"

// LookupTable maps an input intensity to an output intensity.
type LookupTable [HistogramBins]uint8

// IsMonotonic reports whether the table never decreases.
func (t *LookupTable) IsMonotonic() bool {
	for i := 1; i < len(t); i++ {
		if t[i] < t[i-1] {
			return false
		}
	}
	return true
}

// identityTable returns a table mapping every intensity to itself.
func identityTable() LookupTable {
	var t LookupTable
	for i := range t {
		t[i] = uint8(i)
	}
	return t
}

// Mapper turns a tile's clipped histogram into its lookup table.
//
// Implementations must be safe to call from several goroutines at once;
// tiles are mapped concurrently.
type Mapper interface {
	Map(h Histogram) LookupTable
}

// MapperFunc adapts an ordinary function to the Mapper interface.
type MapperFunc func(h Histogram) LookupTable

// Map calls f(h).
func (f MapperFunc) Map(h Histogram) LookupTable {
	return f(h)
}

// AreaMapping is the default area-based gray-level mapping. Each entry is
// the scaled cumulative distribution of the histogram:
//
//	table[i] = round(cumulative(i) / N * 255)
//
// An empty histogram maps to the identity table.
var AreaMapping Mapper = MapperFunc(areaMapping)

// IdentityMapping ignores the histogram and returns the identity table.
// Useful for isolating the interpolation stage.
var IdentityMapping Mapper = MapperFunc(func(Histogram) LookupTable {
	return identityTable()
})

func areaMapping(h Histogram) LookupTable {
	total := h.Sum()
	if total == 0 {
		return identityTable()
	}

	var t LookupTable
	scale := 255.0 / float64(total)
	var cumulative uint64
	for i := 0; i < HistogramBins && i < len(h); i++ {
		cumulative += uint64(h[i])
		v := math.Round(float64(cumulative) * scale)
		if v > 255 {
			v = 255
		}
		t[i] = uint8(v)
	}
	// A short histogram leaves the tail saturated rather than zero.
	for i := len(h); i < HistogramBins; i++ {
		t[i] = 255
	}
	return t
}
