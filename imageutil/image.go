// Package imageutil provides the 8-bit image buffers the equalizer reads
// and writes, plus decoding, encoding and test helpers around them.
package imageutil

import (
	"image"
	"image/color"
)

// GrayImage wraps image.Gray for single-channel 8-bit images. Coordinates
// passed to its methods are relative to the image origin.
type GrayImage struct {
	*image.Gray
}

// NewGrayImage creates a new GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{
		Gray: image.NewGray(image.Rect(0, 0, width, height)),
	}
}

// GrayImageFromImage converts any image.Image to a GrayImage anchored at
// (0, 0). Gray sources are copied row by row; other models go through
// color.GrayModel.
func GrayImageFromImage(img image.Image) *GrayImage {
	bounds := img.Bounds()
	gray := NewGrayImage(bounds.Dx(), bounds.Dy())

	if src, ok := img.(*image.Gray); ok {
		for y := 0; y < bounds.Dy(); y++ {
			i := src.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(gray.Pix[y*gray.Stride:y*gray.Stride+bounds.Dx()], src.Pix[i:i+bounds.Dx()])
		}
		return gray
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}
	return gray
}

// Width returns the image width.
func (img *GrayImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *GrayImage) Height() int {
	return img.Bounds().Dy()
}

// GetGray returns the intensity at (x, y).
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.Pix[img.offset(x, y)]
}

// SetGrayValue sets the intensity at (x, y).
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.Pix[img.offset(x, y)] = v
}

func (img *GrayImage) offset(x, y int) int {
	return y*img.Stride + x
}

// Fill sets every pixel to v.
func (img *GrayImage) Fill(v uint8) {
	for y := 0; y < img.Height(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+img.Width()]
		for x := range row {
			row[x] = v
		}
	}
}

// Clone creates a deep copy of the image with a tight stride.
func (img *GrayImage) Clone() *GrayImage {
	return img.CopyRegion(image.Rect(0, 0, img.Width(), img.Height()))
}

// CopyRegion copies the pixels inside r, clipped to the image, into a new
// image anchored at (0, 0).
func (img *GrayImage) CopyRegion(r image.Rectangle) *GrayImage {
	r = r.Intersect(image.Rect(0, 0, img.Width(), img.Height()))
	sub := NewGrayImage(r.Dx(), r.Dy())
	for y := 0; y < r.Dy(); y++ {
		src := img.offset(r.Min.X, r.Min.Y+y)
		copy(sub.Pix[y*sub.Stride:y*sub.Stride+r.Dx()], img.Pix[src:src+r.Dx()])
	}
	return sub
}

// Equal reports whether both images have the same size and pixels.
func (img *GrayImage) Equal(other *GrayImage) bool {
	if img.Width() != other.Width() || img.Height() != other.Height() {
		return false
	}
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			if img.GetGray(x, y) != other.GetGray(x, y) {
				return false
			}
		}
	}
	return true
}

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// RGBAImage wraps image.RGBA. It is the decoding target for color
// sources before they are reduced to a single intensity plane.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
func NewRGBAImage(width, height int) *RGBAImage {
	return &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
}

// RGBAImageFromImage converts any image.Image to RGBAImage.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.Set(x-bounds.Min.X, y-bounds.Min.Y, img.At(x, y))
		}
	}
	return rgba
}

// Width returns the image width.
func (img *RGBAImage) Width() int {
	return img.Bounds().Dx()
}

// Height returns the image height.
func (img *RGBAImage) Height() int {
	return img.Bounds().Dy()
}

// GetRGB returns the RGB value at (x, y).
func (img *RGBAImage) GetRGB(x, y int) RGB {
	c := img.RGBAAt(x, y)
	return RGB{R: c.R, G: c.G, B: c.B}
}

// SetRGB sets the RGB value at (x, y).
func (img *RGBAImage) SetRGB(x, y int, c RGB) {
	img.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 255})
}
