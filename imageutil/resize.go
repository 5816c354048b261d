package imageutil

import (
	"fmt"
	"strings"

	"golang.org/x/image/draw"
)

// Interpolation selects the kernel used when rescaling an image.
type Interpolation int

const (
	// InterpolationCatmullRom is the sharpest kernel and suits both up and
	// down scaling.
	InterpolationCatmullRom Interpolation = iota
	InterpolationLinear
	InterpolationNearest
)

// ParseInterpolation maps a kernel name ("catmullrom", "linear",
// "nearest") to an Interpolation.
func ParseInterpolation(name string) (Interpolation, error) {
	switch strings.ToLower(name) {
	case "catmullrom", "cubic", "":
		return InterpolationCatmullRom, nil
	case "linear", "bilinear":
		return InterpolationLinear, nil
	case "nearest":
		return InterpolationNearest, nil
	default:
		return 0, fmt.Errorf("unknown interpolation %q", name)
	}
}

func (i Interpolation) scaler() draw.Scaler {
	switch i {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// ResizeGray rescales img to width x height.
func ResizeGray(img *GrayImage, width, height int, interp Interpolation) *GrayImage {
	dst := NewGrayImage(width, height)
	interp.scaler().Scale(dst.Gray, dst.Bounds(), img.Gray, img.Bounds(), draw.Src, nil)
	return dst
}

// ResizeGrayToWidth rescales img to the given width, keeping the aspect
// ratio. The height is at least one pixel.
func ResizeGrayToWidth(img *GrayImage, width int, interp Interpolation) *GrayImage {
	height := int(float64(width) * float64(img.Height()) / float64(img.Width()))
	return ResizeGray(img, width, max(height, 1), interp)
}

// FitGray shrinks img so neither side exceeds maxSide. Images already
// within the bound are returned unchanged.
func FitGray(img *GrayImage, maxSide int, interp Interpolation) *GrayImage {
	w, h := img.Width(), img.Height()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return img
	}
	if w >= h {
		return ResizeGrayToWidth(img, maxSide, interp)
	}
	width := int(float64(maxSide) * float64(w) / float64(h))
	return ResizeGray(img, max(width, 1), maxSide, interp)
}
