package imageutil

import "image"

// ToGrayscale converts an RGBA image to grayscale using the standard
// luminance formula: Y = 0.299*R + 0.587*G + 0.114*B
// This matches the BT.601 weights used by OpenCV's COLOR_BGR2GRAY and
// IMREAD_GRAYSCALE.
func ToGrayscale(img *RGBAImage) *GrayImage {
	width, height := img.Width(), img.Height()
	gray := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := img.GetRGB(x, y)
			// Integer math, scaled by 1000
			lum := (299*int(c.R) + 587*int(c.G) + 114*int(c.B) + 500) / 1000
			if lum > 255 {
				lum = 255
			}
			gray.SetGrayValue(x, y, uint8(lum))
		}
	}

	return gray
}

// ToGrayImage reduces any decoded image to one intensity plane. Gray
// sources are copied as-is; everything else goes through ToGrayscale.
func ToGrayImage(img image.Image) *GrayImage {
	if src, ok := img.(*image.Gray); ok {
		return GrayImageFromImage(src)
	}
	return ToGrayscale(RGBAImageFromImage(img))
}
