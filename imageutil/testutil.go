package imageutil

import (
	"math"
	"math/rand"
)

// CreateUniformImage creates an image where every pixel is v.
func CreateUniformImage(width, height int, v uint8) *GrayImage {
	img := NewGrayImage(width, height)
	img.Fill(v)
	return img
}

// CreateGradientImage creates a horizontal gradient from 0 to 255.
func CreateGradientImage(width, height int) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(0)
			if width > 1 {
				v = uint8(255 * x / (width - 1))
			}
			img.SetGrayValue(x, y, v)
		}
	}
	return img
}

// CreateVerticalGradientImage creates a vertical gradient from 0 to 255.
func CreateVerticalGradientImage(width, height int) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		v := uint8(0)
		if height > 1 {
			v = uint8(255 * y / (height - 1))
		}
		for x := 0; x < width; x++ {
			img.SetGrayValue(x, y, v)
		}
	}
	return img
}

// CreateCheckerboardImage creates a checkerboard of lo and hi squares.
func CreateCheckerboardImage(width, height, squareSize int, lo, hi uint8) *GrayImage {
	img := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if ((x/squareSize)+(y/squareSize))%2 == 0 {
				img.SetGrayValue(x, y, hi)
			} else {
				img.SetGrayValue(x, y, lo)
			}
		}
	}
	return img
}

// CreateLowContrastImage creates a scene squeezed into [lo, hi]: a soft
// radial blob over a diagonal ramp, the kind of input CLAHE is meant for.
func CreateLowContrastImage(width, height int, lo, hi uint8) *GrayImage {
	img := NewGrayImage(width, height)
	cx, cy := float64(width)/2, float64(height)/2
	radius := math.Hypot(cx, cy)
	span := float64(hi) - float64(lo)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			ramp := float64(x+y) / float64(width+height)
			blob := 1 - math.Hypot(float64(x)-cx, float64(y)-cy)/radius
			v := float64(lo) + span*(0.5*ramp+0.5*blob)
			img.SetGrayValue(x, y, uint8(math.Round(math.Min(math.Max(v, float64(lo)), float64(hi)))))
		}
	}
	return img
}

// CreateNoiseImage creates uniformly random pixels from a fixed seed.
func CreateNoiseImage(width, height int, seed int64) *GrayImage {
	rng := rand.New(rand.NewSource(seed))
	img := NewGrayImage(width, height)
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	return img
}

// CreateColorBarsImage creates a color bars test pattern.
func CreateColorBarsImage(width, height int) *RGBAImage {
	img := NewRGBAImage(width, height)
	colors := []RGB{
		{255, 255, 255}, // White
		{255, 255, 0},   // Yellow
		{0, 255, 255},   // Cyan
		{0, 255, 0},     // Green
		{255, 0, 255},   // Magenta
		{255, 0, 0},     // Red
		{0, 0, 255},     // Blue
		{0, 0, 0},       // Black
	}

	barWidth := max(width/len(colors), 1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			colorIdx := min(x/barWidth, len(colors)-1)
			img.SetRGB(x, y, colors[colorIdx])
		}
	}
	return img
}

// CalculateMSEGray calculates the Mean Squared Error between two grayscale images.
func CalculateMSEGray(img1, img2 *GrayImage) float64 {
	if img1.Width() != img2.Width() || img1.Height() != img2.Height() {
		return math.MaxFloat64
	}

	width, height := img1.Width(), img1.Height()
	var sumSq float64
	count := float64(width * height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := float64(img1.GetGray(x, y)) - float64(img2.GetGray(x, y))
			sumSq += d * d
		}
	}

	return sumSq / count
}

// CalculateMaxDiffGray calculates the maximum pixel difference between two
// grayscale images.
func CalculateMaxDiffGray(img1, img2 *GrayImage) int {
	if img1.Width() != img2.Width() || img1.Height() != img2.Height() {
		return 256
	}

	maxDiff := 0
	for y := 0; y < img1.Height(); y++ {
		for x := 0; x < img1.Width(); x++ {
			d := abs(int(img1.GetGray(x, y)) - int(img2.GetGray(x, y)))
			if d > maxDiff {
				maxDiff = d
			}
		}
	}
	return maxDiff
}

// ContrastRange returns the darkest and brightest intensity in img.
func ContrastRange(img *GrayImage) (lo, hi uint8) {
	lo = 255
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			v := img.GetGray(x, y)
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	return lo, hi
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
