package clahe

import (
	"cmp"
	"math"
	"slices"

	"github.com/wbrown/clahe/internal/parallel"
)

// Region classifies a pixel by its position relative to the tile centers.
type Region int

const (
	// RegionCorner pixels lie in the half-tile margin of an image corner
	// and take the corner tile's mapping unblended.
	RegionCorner Region = iota
	// RegionBorder pixels lie in the half-tile margin of exactly one image
	// edge and blend the two tiles flanking them along that edge.
	RegionBorder
	// RegionInterior pixels are surrounded by four tile centers and blend
	// all four.
	RegionInterior
)

func (r Region) String() string {
	switch r {
	case RegionCorner:
		return "corner"
	case RegionBorder:
		return "border"
	case RegionInterior:
		return "interior"
	default:
		return "unknown"
	}
}

// Sample is a control point for interpolation: a tile center and the
// intensity that tile's mapping produces.
type Sample struct {
	X, Y      float64
	Intensity float64
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Linear interpolates between two samples at (x, y) along the axis on
// which they differ:
//
//	I0 + (I1 - I0) * (p - p0) / (p1 - p0)
//
// Samples that differ on both axes are interpolated along x. Coincident
// samples return s0's intensity.
//
// Linear is a standalone helper over the blend the equalizer applies to
// border pixels. The pixel sweep works on grid indices and does not build
// Samples.
func Linear(s0, s1 Sample, x, y float64) float64 {
	switch {
	case s0.X != s1.X:
		return lerp(s0.Intensity, s1.Intensity, (x-s0.X)/(s1.X-s0.X))
	case s0.Y != s1.Y:
		return lerp(s0.Intensity, s1.Intensity, (y-s0.Y)/(s1.Y-s0.Y))
	default:
		return s0.Intensity
	}
}

// Bilinear blends four samples at (x, y), using the same blend the
// equalizer applies to interior pixels. Like Linear it is a standalone
// helper and is not called by the pixel sweep. The samples may be given
// in any order; they are sorted into top-left, bottom-left, top-right and
// bottom-right by x then y, and combined as
//
//	(1-ty)*((1-tx)*TL + tx*TR) + ty*((1-tx)*BL + tx*BR)
//
// where tx and ty are the fractional position of (x, y) between the left
// and right and between the top and bottom samples, clamped to [0, 1]. A
// zero-width or zero-height rectangle contributes a weight of 0 on that
// axis.
func Bilinear(samples [4]Sample, x, y float64) float64 {
	s := samples
	slices.SortFunc(s[:], func(a, b Sample) int {
		if c := cmp.Compare(a.X, b.X); c != 0 {
			return c
		}
		return cmp.Compare(a.Y, b.Y)
	})
	tl, bl, tr, br := s[0], s[1], s[2], s[3]

	var tx, ty float64
	if tr.X != tl.X {
		tx = clampUnit((x - tl.X) / (tr.X - tl.X))
	}
	if bl.Y != tl.Y {
		ty = clampUnit((y - tl.Y) / (bl.Y - tl.Y))
	}
	return bilerp(tl.Intensity, tr.Intensity, bl.Intensity, br.Intensity, tx, ty)
}

func bilerp(tl, tr, bl, br, tx, ty float64) float64 {
	return lerp(lerp(tl, tr, tx), lerp(bl, br, tx), ty)
}

func clampUnit(t float64) float64 {
	return math.Min(math.Max(t, 0), 1)
}

// toIntensity rounds an interpolated value to the nearest 8-bit level.
func toIntensity(v float64) uint8 {
	v = math.Round(v)
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// axisPos locates a coordinate between the tile centers of one axis.
// In the margin lo == hi and t is 0; otherwise the coordinate sits a
// fraction t of the way from center lo to center hi = lo+1.
type axisPos struct {
	lo, hi int
	t      float64
	margin bool
}

// locate places coordinate p on an axis of tiles tiles of nominal size
// size. Margins are inclusive: a pixel exactly on the first or last
// center belongs to the margin.
func locate(p float64, tiles, size int) axisPos {
	first := 0.5 * float64(size)
	last := (float64(tiles) - 0.5) * float64(size)
	switch {
	case p <= first:
		return axisPos{lo: 0, hi: 0, margin: true}
	case p >= last:
		return axisPos{lo: tiles - 1, hi: tiles - 1, margin: true}
	}
	i := int(math.Floor((p - first) / float64(size)))
	i = max(0, min(i, tiles-2))
	c0 := first + float64(i)*float64(size)
	return axisPos{lo: i, hi: i + 1, t: clampUnit((p - c0) / float64(size))}
}

func (g *TileGrid) locateX(x int) axisPos { return locate(float64(x), g.tilesX, g.tileWidth) }
func (g *TileGrid) locateY(y int) axisPos { return locate(float64(y), g.tilesY, g.tileHeight) }

// Classify reports which interpolation region pixel (x, y) falls in.
func (g *TileGrid) Classify(x, y int) Region {
	return classify(g.locateX(x), g.locateY(y))
}

func classify(ax, ay axisPos) Region {
	switch {
	case ax.margin && ay.margin:
		return RegionCorner
	case ax.margin || ay.margin:
		return RegionBorder
	default:
		return RegionInterior
	}
}

// MapPixel returns the equalized value of input intensity v at (x, y).
// It panics if BuildMappings has not succeeded on g.
func (g *TileGrid) MapPixel(x, y int, v uint8) uint8 {
	if g.tables == nil {
		panic("clahe: MapPixel called before BuildMappings")
	}
	return g.mapAt(g.locateX(x), g.locateY(y), v)
}

func (g *TileGrid) level(col, row int, v uint8) float64 {
	return float64(g.tables[row*g.tilesX+col][v])
}

func (g *TileGrid) mapAt(ax, ay axisPos, v uint8) uint8 {
	switch classify(ax, ay) {
	case RegionCorner:
		return g.tables[ay.lo*g.tilesX+ax.lo][v]
	case RegionBorder:
		if ax.margin {
			// Left or right strip: blend the tiles above and below.
			return toIntensity(lerp(g.level(ax.lo, ay.lo, v), g.level(ax.lo, ay.hi, v), ay.t))
		}
		return toIntensity(lerp(g.level(ax.lo, ay.lo, v), g.level(ax.hi, ay.lo, v), ax.t))
	default:
		return toIntensity(bilerp(
			g.level(ax.lo, ay.lo, v), g.level(ax.hi, ay.lo, v),
			g.level(ax.lo, ay.hi, v), g.level(ax.hi, ay.hi, v),
			ax.t, ay.t))
	}
}

// interpolate writes every output pixel of dst from src using the built
// tile mappings. Rows are split into bands handled on up to workers
// goroutines; each output pixel is written exactly once.
func (g *TileGrid) interpolate(src GrayReader, dst GrayWriter, workers int) {
	xs := make([]axisPos, g.width)
	for x := range xs {
		xs[x] = g.locateX(x)
	}

	workers = parallel.Workers(workers, g.height)
	bands := parallel.Bands(g.height, workers*4)
	parallel.For(workers, len(bands)-1, func(b int) {
		for y := bands[b]; y < bands[b+1]; y++ {
			ay := g.locateY(y)
			for x := 0; x < g.width; x++ {
				dst.SetGrayValue(x, y, g.mapAt(xs[x], ay, src.GetGray(x, y)))
			}
		}
	})
}
