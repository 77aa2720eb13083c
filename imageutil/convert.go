package imageutil

import (
	"image"
)

// luma returns the BT.601 luminance Y = 0.299*R + 0.587*G + 0.114*B,
// rounded to nearest. This matches OpenCV's COLOR_BGR2GRAY.
func luma(r, g, b uint8) uint8 {
	lum := (299*int(r) + 587*int(g) + 114*int(b) + 500) / 1000
	if lum > 255 {
		lum = 255
	}
	return uint8(lum)
}

// ToGrayscale converts an RGBA image to a single-channel grayscale image
// using the BT.601 luminance formula.
func ToGrayscale(img *RGBAImage) *GrayImage {
	width, height := img.Width(), img.Height()
	gray := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		src := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		dst := y * gray.Stride
		for x := 0; x < width; x++ {
			p := img.Pix[src+4*x : src+4*x+3 : src+4*x+3]
			gray.Pix[dst+x] = luma(p[0], p[1], p[2])
		}
	}

	return gray
}

// GrayscaleToRGBA converts a grayscale image back to RGBA.
func GrayscaleToRGBA(gray *GrayImage) *RGBAImage {
	width, height := gray.Width(), gray.Height()
	rgba := NewRGBAImage(width, height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := gray.GrayAt(gray.Rect.Min.X+x, gray.Rect.Min.Y+y).Y
			rgba.SetRGB(x, y, RGB{R: v, G: v, B: v})
		}
	}

	return rgba
}

// ToGrayscaleROI returns a copy of src in which every pixel inside roi is
// replaced by its luma, replicated across R, G and B so the result stays
// displayable as color. Pixels outside roi are copied unchanged.
func ToGrayscaleROI(src *RGBAImage, roi image.Rectangle) (*RGBAImage, error) {
	if err := checkImage(src.Bounds()); err != nil {
		return nil, err
	}
	if err := checkROI(roi, src.Bounds()); err != nil {
		return nil, err
	}

	dst := src.Clone()
	for y := roi.Min.Y; y < roi.Max.Y; y++ {
		for x := roi.Min.X; x < roi.Max.X; x++ {
			i := dst.PixOffset(x, y)
			v := luma(dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2])
			dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = v, v, v
		}
	}
	return dst, nil
}
