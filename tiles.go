package clahe

import (
	"fmt"
	"image"

	"github.com/wbrown/clahe/internal/parallel"
)

// TileCoordinate identifies a tile by its column and row in the grid.
type TileCoordinate struct {
	Col, Row int
}

// Tile is one cell of the grid together with the pixels it covers.
type Tile struct {
	Coord  TileCoordinate
	Bounds image.Rectangle
}

// TileGrid partitions an image into TilesX x TilesY tiles and owns one
// lookup table per tile. Every tile is TileWidth x TileHeight pixels except
// the last column and row, which absorb the remainder of the division so
// the tiles cover the image exactly.
type TileGrid struct {
	width, height int
	tilesX        int
	tilesY        int
	tileWidth     int
	tileHeight    int

	// tables is indexed row-major. Each entry is written once by
	// BuildMappings and is read-only afterwards.
	tables []LookupTable
}

// NewTileGrid lays out a grid over a width x height image.
func NewTileGrid(width, height, tilesX, tilesY int) (*TileGrid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrEmptyInput, width, height)
	}
	if tilesX < 1 || tilesY < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidTileGrid, tilesX, tilesY)
	}
	if tilesX > width || tilesY > height {
		return nil, fmt.Errorf("%w: %dx%d tiles for a %dx%d image",
			ErrTileGridTooFine, tilesX, tilesY, width, height)
	}
	return &TileGrid{
		width:      width,
		height:     height,
		tilesX:     tilesX,
		tilesY:     tilesY,
		tileWidth:  width / tilesX,
		tileHeight: height / tilesY,
	}, nil
}

// TilesX returns the number of tile columns.
func (g *TileGrid) TilesX() int { return g.tilesX }

// TilesY returns the number of tile rows.
func (g *TileGrid) TilesY() int { return g.tilesY }

// TileWidth returns the nominal tile width in pixels.
func (g *TileGrid) TileWidth() int { return g.tileWidth }

// TileHeight returns the nominal tile height in pixels.
func (g *TileGrid) TileHeight() int { return g.tileHeight }

// Tile returns the tile at c. The last column and row are widened by the
// remainder of the image size.
func (g *TileGrid) Tile(c TileCoordinate) Tile {
	x0 := c.Col * g.tileWidth
	y0 := c.Row * g.tileHeight
	w, h := g.tileWidth, g.tileHeight
	if c.Col == g.tilesX-1 {
		w += g.width % g.tilesX
	}
	if c.Row == g.tilesY-1 {
		h += g.height % g.tilesY
	}
	return Tile{Coord: c, Bounds: image.Rect(x0, y0, x0+w, y0+h)}
}

// Tiles returns every tile in row-major order.
func (g *TileGrid) Tiles() []Tile {
	tiles := make([]Tile, 0, g.tilesX*g.tilesY)
	for row := 0; row < g.tilesY; row++ {
		for col := 0; col < g.tilesX; col++ {
			tiles = append(tiles, g.Tile(TileCoordinate{Col: col, Row: row}))
		}
	}
	return tiles
}

// Center returns the control point of tile c: the middle of a nominal
// tile at that grid position.
func (g *TileGrid) Center(c TileCoordinate) (x, y float64) {
	x = (float64(c.Col) + 0.5) * float64(g.tileWidth)
	y = (float64(c.Row) + 0.5) * float64(g.tileHeight)
	return x, y
}

// Table returns the lookup table of tile c, or nil if the mappings have
// not been built yet.
func (g *TileGrid) Table(c TileCoordinate) *LookupTable {
	if g.tables == nil {
		return nil
	}
	return &g.tables[c.Row*g.tilesX+c.Col]
}

// BuildMappings computes every tile's lookup table from src: histogram,
// clip at clipLimit, then m. Tiles are processed on up to workers
// goroutines (<= 0 means GOMAXPROCS). A nil m selects AreaMapping.
func (g *TileGrid) BuildMappings(src GrayReader, clipLimit float64, m Mapper, workers int) error {
	if src == nil {
		return ErrNilImage
	}
	if src.Width() != g.width || src.Height() != g.height {
		return fmt.Errorf("%w: grid laid out for %dx%d, image is %dx%d",
			ErrSizeMismatch, g.width, g.height, src.Width(), src.Height())
	}
	if m == nil {
		m = AreaMapping
	}

	n := g.tilesX * g.tilesY
	tables := make([]LookupTable, n)
	errs := make([]error, n)
	parallel.For(workers, n, func(i int) {
		tile := g.Tile(TileCoordinate{Col: i % g.tilesX, Row: i / g.tilesX})
		hist := NewHistogram()
		if err := BuildHistogramForRegion(src, tile.Bounds, hist); err != nil {
			errs[i] = err
			return
		}
		if err := hist.Clip(clipLimit); err != nil {
			errs[i] = err
			return
		}
		tables[i] = m.Map(hist)
	})
	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("tile (%d,%d): %w", i%g.tilesX, i/g.tilesX, err)
		}
	}
	g.tables = tables
	return nil
}

// BuildTileMappings lays out a tilesX x tilesY grid over src and computes
// each tile's lookup table sequentially. It fails only when the grid does
// not fit the image.
func BuildTileMappings(src GrayReader, tilesX, tilesY int, clipLimit float64, m Mapper) (*TileGrid, error) {
	if src == nil {
		return nil, ErrNilImage
	}
	g, err := NewTileGrid(src.Width(), src.Height(), tilesX, tilesY)
	if err != nil {
		return nil, err
	}
	if err := g.BuildMappings(src, clipLimit, m, 1); err != nil {
		return nil, err
	}
	return g, nil
}
