// Package imageutil provides the pure Go pixel-transform engine behind
// imgproc: grayscale conversion, median filtering, edge detection,
// pixelization, distance fields, integral images, adaptive box averaging
// and kernel convolution.
//
// Every transform is a pure function. Inputs are never mutated and each
// call returns a newly allocated image.
package imageutil

import (
	"image"
	"image/color"
)

// RGB represents a color in the RGB color space with 8-bit channels.
type RGB struct {
	R, G, B uint8
}

// ToColor converts RGB to color.RGBA for use with standard library.
func (rgb RGB) ToColor() color.RGBA {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}
}

// RGBFromColor converts a color.Color to RGB.
func RGBFromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{
		R: uint8(r >> 8),
		G: uint8(g >> 8),
		B: uint8(b >> 8),
	}
}

// RGBAImage wraps image.RGBA for 3-channel color frames. The alpha
// channel is carried along at 255 and never filtered.
type RGBAImage struct {
	*image.RGBA
}

// NewRGBAImage creates a new RGBAImage with the specified dimensions.
// All pixels start out opaque black.
func NewRGBAImage(width, height int) *RGBAImage {
	img := &RGBAImage{
		RGBA: image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

// RGBAImageFromImage converts any image.Image to an origin-anchored RGBAImage.
func RGBAImageFromImage(img image.Image) *RGBAImage {
	bounds := img.Bounds()
	rgba := NewRGBAImage(bounds.Dx(), bounds.Dy())

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			rgba.SetRGB(x-bounds.Min.X, y-bounds.Min.Y, RGBFromColor(img.At(x, y)))
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

// Clone creates a deep copy of the image.
func (img *RGBAImage) Clone() *RGBAImage {
	clone := NewRGBAImage(img.Width(), img.Height())
	n := 4 * img.Width()
	for y := 0; y < img.Height(); y++ {
		src := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		copy(clone.Pix[y*clone.Stride:y*clone.Stride+n], img.Pix[src:src+n])
	}
	return clone
}

// GrayImage wraps image.Gray for single-channel images (e.g., edge maps).
type GrayImage struct {
	*image.Gray
}

// NewGrayImage creates a new GrayImage with the specified dimensions.
func NewGrayImage(width, height int) *GrayImage {
	return &GrayImage{
		Gray: image.NewGray(image.Rect(0, 0, width, height)),
	}
}

// GrayImageFromImage converts any image.Image to GrayImage.
func GrayImageFromImage(img image.Image) *GrayImage {
	bounds := img.Bounds()
	gray := NewGrayImage(bounds.Dx(), bounds.Dy())

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

// GetGray returns the grayscale value at (x, y).
func (img *GrayImage) GetGray(x, y int) uint8 {
	return img.GrayAt(x, y).Y
}

// SetGrayValue sets the grayscale value at (x, y).
func (img *GrayImage) SetGrayValue(x, y int, v uint8) {
	img.Gray.SetGray(x, y, color.Gray{Y: v})
}

// Clone creates a deep copy of the image.
func (img *GrayImage) Clone() *GrayImage {
	return img.Crop(img.Bounds())
}

// Crop copies the pixels under r into a new origin-anchored image.
// r must lie within the image bounds.
func (img *GrayImage) Crop(r image.Rectangle) *GrayImage {
	dst := NewGrayImage(r.Dx(), r.Dy())
	for y := 0; y < r.Dy(); y++ {
		src := img.PixOffset(r.Min.X, r.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+r.Dx()], img.Pix[src:src+r.Dx()])
	}
	return dst
}

// FloatImage is a single-channel float32 grid, used for distance fields.
type FloatImage struct {
	Pix    []float32
	Width  int
	Height int
}

// NewFloatImage allocates a zeroed width x height grid.
func NewFloatImage(width, height int) *FloatImage {
	return &FloatImage{
		Pix:    make([]float32, width*height),
		Width:  width,
		Height: height,
	}
}

// At returns the value at (x, y).
func (f *FloatImage) At(x, y int) float32 {
	return f.Pix[y*f.Width+x]
}

// Set stores v at (x, y).
func (f *FloatImage) Set(x, y int, v float32) {
	f.Pix[y*f.Width+x] = v
}

// Rect builds the rectangle with top-left corner (x, y) and the given
// width and height.
func Rect(x, y, width, height int) image.Rectangle {
	return image.Rectangle{
		Min: image.Point{X: x, Y: y},
		Max: image.Point{X: x + width, Y: y + height},
	}
}

// ClipROI normalizes r and intersects it with bounds. Harnesses use it to
// turn a user selection into a valid ROI.
func ClipROI(r, bounds image.Rectangle) image.Rectangle {
	return r.Canon().Intersect(bounds)
}
