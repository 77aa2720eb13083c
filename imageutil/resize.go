package imageutil

import (
	"image"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// Interpolation specifies the interpolation method for resizing.
type Interpolation int

const (
	// InterpolationArea uses Catmull-Rom, the closest x/image kernel to
	// OpenCV's INTER_AREA for downscaling.
	InterpolationArea Interpolation = iota

	// InterpolationLinear uses bilinear interpolation (INTER_LINEAR).
	InterpolationLinear

	// InterpolationNearest uses nearest-neighbor interpolation.
	InterpolationNearest

	// InterpolationLanczos uses a Lanczos-3 kernel (INTER_LANCZOS4 is the
	// OpenCV analogue).
	InterpolationLanczos
)

func scalerFor(interp Interpolation) draw.Scaler {
	switch interp {
	case InterpolationLinear:
		return draw.BiLinear
	case InterpolationNearest:
		return draw.NearestNeighbor
	default:
		return draw.CatmullRom
	}
}

// Resize resizes an RGBA image to the specified dimensions using the
// given interpolation method.
func Resize(img *RGBAImage, width, height int, interp Interpolation) *RGBAImage {
	if interp == InterpolationLanczos {
		return RGBAImageFromImage(resize.Resize(uint(width), uint(height), img.RGBA, resize.Lanczos3))
	}
	dst := NewRGBAImage(width, height)
	scalerFor(interp).Scale(dst.RGBA, dst.Bounds(), img.RGBA, img.Bounds(), draw.Src, nil)
	return dst
}

// ResizeGray resizes a grayscale image to the specified dimensions.
func ResizeGray(img *GrayImage, width, height int, interp Interpolation) *GrayImage {
	if interp == InterpolationLanczos {
		return GrayImageFromImage(resize.Resize(uint(width), uint(height), img.Gray, resize.Lanczos3))
	}
	dst := NewGrayImage(width, height)
	scalerFor(interp).Scale(dst.Gray, dst.Bounds(), img.Gray, img.Bounds(), draw.Src, nil)
	return dst
}

// Scale resizes img by factor, keeping at least one pixel per side.
func Scale(img *RGBAImage, factor float64, interp Interpolation) *RGBAImage {
	width := max(1, int(float64(img.Width())*factor+0.5))
	height := max(1, int(float64(img.Height())*factor+0.5))
	return Resize(img, width, height, interp)
}

// ScaleRect maps r by factor, rounding each corner to the nearest pixel.
// Harnesses use it to carry an ROI from display to frame coordinates.
func ScaleRect(r image.Rectangle, factor float64) image.Rectangle {
	round := func(v int) int { return int(float64(v)*factor + 0.5) }
	return image.Rect(round(r.Min.X), round(r.Min.Y), round(r.Max.X), round(r.Max.Y))
}
