package imageutil

// plane addresses one channel of an interleaved 8-bit pixel buffer, so a
// single filter loop serves both RGBAImage and GrayImage.
type plane struct {
	pix    []uint8
	stride int
	step   int // bytes per pixel
	off    int // channel offset within a pixel
	w, h   int
}

func (p plane) at(x, y int) uint8 {
	return p.pix[y*p.stride+x*p.step+p.off]
}

func (p plane) set(x, y int, v uint8) {
	p.pix[y*p.stride+x*p.step+p.off] = v
}

// rgbPlanes returns the R, G and B planes of an origin-anchored image.
func rgbPlanes(img *RGBAImage) []plane {
	w, h := img.Width(), img.Height()
	planes := make([]plane, 3)
	for c := range planes {
		planes[c] = plane{pix: img.Pix, stride: img.Stride, step: 4, off: c, w: w, h: h}
	}
	return planes
}

// grayPlanes returns the single plane of an origin-anchored gray image.
func grayPlanes(img *GrayImage) []plane {
	return []plane{{pix: img.Pix, stride: img.Stride, step: 1, w: img.Width(), h: img.Height()}}
}

// reflect101 maps i into [0, n) by mirroring around the edge pixels
// without repeating them (gfedcb|abcdefgh|gfedcba). This is OpenCV's
// default border.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		} else {
			i = 2*n - 2 - i
		}
	}
	return i
}
