package clahe

import "errors"

// Errors returned by the equalization pipeline. They are wrapped with
// additional context, so callers should match them with errors.Is.
var (
	// ErrInvalidHistogramSize is returned when a histogram buffer does not
	// have exactly HistogramBins entries.
	ErrInvalidHistogramSize = errors.New("clahe: histogram must have 256 bins")

	// ErrTileGridTooFine is returned when the tile grid has more tiles than
	// the image has pixels along either axis.
	ErrTileGridTooFine = errors.New("clahe: tile grid exceeds image dimensions")

	// ErrInvalidTileGrid is returned for a tile grid with fewer than one
	// tile along an axis.
	ErrInvalidTileGrid = errors.New("clahe: tile grid must be at least 1x1")

	// ErrEmptyInput is returned for a zero-size image.
	ErrEmptyInput = errors.New("clahe: empty input image")

	// ErrSizeMismatch is returned when the output image dimensions differ
	// from the input.
	ErrSizeMismatch = errors.New("clahe: output size does not match input")

	// ErrNilImage is returned when the input or output image is nil.
	ErrNilImage = errors.New("clahe: nil image")
)
