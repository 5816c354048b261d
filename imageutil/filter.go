package imageutil

import (
	"fmt"
	"math"
)

// Kernel is a convolution kernel with odd width and height.
type Kernel struct {
	Values [][]float64
	Width  int
	Height int
}

// NewKernel creates a kernel from a 2D slice of equal-length rows.
func NewKernel(values [][]float64) (*Kernel, error) {
	height := len(values)
	if height == 0 || height%2 == 0 {
		return nil, fmt.Errorf("kernel height must be odd, got %d", height)
	}
	width := len(values[0])
	if width%2 == 0 {
		return nil, fmt.Errorf("kernel width must be odd, got %d", width)
	}
	for i, row := range values {
		if len(row) != width {
			return nil, fmt.Errorf("kernel row %d has %d values, want %d", i, len(row), width)
		}
	}
	return &Kernel{Values: values, Width: width, Height: height}, nil
}

func mustKernel(values [][]float64) *Kernel {
	k, err := NewKernel(values)
	if err != nil {
		panic(err)
	}
	return k
}

// GaussianKernel3x3 returns a 3x3 binomial approximation of a Gaussian.
func GaussianKernel3x3() *Kernel {
	return mustKernel([][]float64{
		{1.0 / 16, 2.0 / 16, 1.0 / 16},
		{2.0 / 16, 4.0 / 16, 2.0 / 16},
		{1.0 / 16, 2.0 / 16, 1.0 / 16},
	})
}

// GaussianKernel5x5 returns a 5x5 Gaussian kernel with sigma ~1.4.
func GaussianKernel5x5() *Kernel {
	return mustKernel([][]float64{
		{2.0 / 159, 4.0 / 159, 5.0 / 159, 4.0 / 159, 2.0 / 159},
		{4.0 / 159, 9.0 / 159, 12.0 / 159, 9.0 / 159, 4.0 / 159},
		{5.0 / 159, 12.0 / 159, 15.0 / 159, 12.0 / 159, 5.0 / 159},
		{4.0 / 159, 9.0 / 159, 12.0 / 159, 9.0 / 159, 4.0 / 159},
		{2.0 / 159, 4.0 / 159, 5.0 / 159, 4.0 / 159, 2.0 / 159},
	})
}

// ConvolveGray applies kernel to img. Pixels outside the image replicate
// the nearest edge pixel.
func ConvolveGray(img *GrayImage, kernel *Kernel) *GrayImage {
	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)

	halfKW := kernel.Width / 2
	halfKH := kernel.Height / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var sum float64
			for ky := 0; ky < kernel.Height; ky++ {
				sy := clampInt(y+ky-halfKH, 0, height-1)
				for kx := 0; kx < kernel.Width; kx++ {
					sx := clampInt(x+kx-halfKW, 0, width-1)
					sum += float64(img.GetGray(sx, sy)) * kernel.Values[ky][kx]
				}
			}
			dst.SetGrayValue(x, y, clampUint8(sum))
		}
	}
	return dst
}

// Denoise smooths img with a Gaussian of the given size (3 or 5). Size 0
// returns img unchanged.
func Denoise(img *GrayImage, size int) (*GrayImage, error) {
	switch size {
	case 0:
		return img, nil
	case 3:
		return ConvolveGray(img, GaussianKernel3x3()), nil
	case 5:
		return ConvolveGray(img, GaussianKernel5x5()), nil
	default:
		return nil, fmt.Errorf("denoise size must be 0, 3 or 5, got %d", size)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampUint8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(math.Round(v))
}
