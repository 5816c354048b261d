// Package clahe implements Contrast-Limited Adaptive Histogram Equalization
// for 8-bit single-channel images.
//
// The image is split into a grid of tiles. Each tile gets its own histogram,
// clipped at the clip limit with the excess spread back over all bins, and
// a lookup table derived from that histogram. Output pixels are then mapped
// through the tables of the nearest tiles and blended according to their
// position between the tile centers: corner pixels use one table, pixels
// along an image edge blend two, and all other pixels blend four.
//
//	out, err := clahe.Equalize(gray, clahe.WithClipLimit(40), clahe.WithTileGrid(8, 8))
package clahe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wbrown/clahe/imageutil"
	"github.com/wbrown/clahe/internal/parallel"
)

// Defaults used by NewEqualizer.
const (
	DefaultClipLimit = 40.0
	DefaultTilesX    = 8
	DefaultTilesY    = 8
)

// GrayReader is a read-only 8-bit single-channel image.
// imageutil.GrayImage satisfies it.
type GrayReader interface {
	Width() int
	Height() int
	GetGray(x, y int) uint8
}

// GrayWriter is a writable 8-bit single-channel image. Apply writes
// distinct pixels from several goroutines, so implementations must allow
// concurrent writes to different coordinates.
type GrayWriter interface {
	GrayReader
	SetGrayValue(x, y int, v uint8)
}

// Equalizer holds a CLAHE configuration. It carries no per-image state,
// so one Equalizer can be shared by concurrent callers.
type Equalizer struct {
	// ClipLimit is the maximum count per histogram bin. Values <= 0
	// disable clipping. Ignored when RelativeClip is set.
	ClipLimit float64

	// RelativeClip, when > 0, expresses the clip limit as a multiple of
	// the average bin height of a nominal tile, as OpenCV does.
	RelativeClip float64

	TilesX int
	TilesY int

	// Mapper converts a clipped histogram into a lookup table.
	Mapper Mapper

	// Workers bounds the goroutines used per stage. <= 0 means GOMAXPROCS.
	Workers int
}

// Option is a functional option for configuring an Equalizer.
type Option func(*Equalizer)

// NewEqualizer creates an Equalizer with the given options.
// Defaults: ClipLimit=40, 8x8 tiles, AreaMapping, GOMAXPROCS workers.
func NewEqualizer(opts ...Option) *Equalizer {
	e := &Equalizer{
		ClipLimit: DefaultClipLimit,
		TilesX:    DefaultTilesX,
		TilesY:    DefaultTilesY,
		Mapper:    AreaMapping,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithClipLimit sets the absolute per-bin clip limit.
func WithClipLimit(limit float64) Option {
	return func(e *Equalizer) {
		e.ClipLimit = limit
		e.RelativeClip = 0
	}
}

// WithRelativeClipLimit sets the clip limit relative to the tile area.
// See RelativeClipLimit.
func WithRelativeClipLimit(relative float64) Option {
	return func(e *Equalizer) {
		e.RelativeClip = relative
	}
}

// WithTileGrid sets the number of tile columns and rows.
func WithTileGrid(tilesX, tilesY int) Option {
	return func(e *Equalizer) {
		e.TilesX = tilesX
		e.TilesY = tilesY
	}
}

// WithMapper sets the histogram-to-lookup-table mapping.
func WithMapper(m Mapper) Option {
	return func(e *Equalizer) {
		e.Mapper = m
	}
}

// WithWorkers sets the number of goroutines used per stage.
func WithWorkers(n int) Option {
	return func(e *Equalizer) {
		e.Workers = n
	}
}

// clipLimitFor resolves the clip limit for a grid.
func (e *Equalizer) clipLimitFor(g *TileGrid) float64 {
	if e.RelativeClip > 0 {
		return RelativeClipLimit(e.RelativeClip, g.TileWidth()*g.TileHeight())
	}
	return e.ClipLimit
}

// Apply equalizes src into dst, which must have the same dimensions. All
// validation and every tile mapping complete before dst is written, so on
// error dst is left untouched.
func (e *Equalizer) Apply(src GrayReader, dst GrayWriter) error {
	if src == nil || dst == nil {
		return ErrNilImage
	}
	w, h := src.Width(), src.Height()
	if w == 0 || h == 0 {
		return fmt.Errorf("%w: %dx%d", ErrEmptyInput, w, h)
	}
	if dst.Width() != w || dst.Height() != h {
		return fmt.Errorf("%w: input %dx%d, output %dx%d",
			ErrSizeMismatch, w, h, dst.Width(), dst.Height())
	}

	grid, err := NewTileGrid(w, h, e.TilesX, e.TilesY)
	if err != nil {
		return err
	}
	clip := e.clipLimitFor(grid)

	log := Logger()
	debug := log.Enabled(context.Background(), slog.LevelDebug)
	if debug {
		log.Debug("clahe: equalizing",
			"width", w, "height", h,
			"tilesX", grid.TilesX(), "tilesY", grid.TilesY(),
			"tileWidth", grid.TileWidth(), "tileHeight", grid.TileHeight(),
			"clipLimit", clip,
			"workers", parallel.Workers(e.Workers, grid.TilesX()*grid.TilesY()))
	}

	if err := grid.BuildMappings(src, clip, e.Mapper, e.Workers); err != nil {
		return err
	}
	grid.interpolate(src, dst, e.Workers)

	if debug {
		log.Debug("clahe: done",
			"entropyIn", ImageEntropy(src),
			"entropyOut", ImageEntropy(dst))
	}
	return nil
}

// Equalize runs CLAHE on src with the given options and returns a new
// image. src is not modified.
func Equalize(src *imageutil.GrayImage, opts ...Option) (*imageutil.GrayImage, error) {
	if src == nil || src.Gray == nil {
		return nil, ErrNilImage
	}
	dst := imageutil.NewGrayImage(src.Width(), src.Height())
	if err := NewEqualizer(opts...).Apply(src, dst); err != nil {
		return nil, err
	}
	return dst, nil
}
