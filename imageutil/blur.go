package imageutil

import (
	"image"

	"github.com/pkg/errors"
)

// BoxBlur applies a normalized kw x kh box filter to every pixel. The
// window is anchored at (kw/2, kh/2), so even sizes reach one pixel
// further up and left, and borders are mirrored with reflect-101.
func BoxBlur(src *RGBAImage, kw, kh int) (*RGBAImage, error) {
	if err := checkImage(src.Bounds()); err != nil {
		return nil, err
	}
	if err := checkBoxSize(kw, kh); err != nil {
		return nil, err
	}

	dst := src.Clone()
	in, out := rgbPlanes(src), rgbPlanes(dst)
	for c := range in {
		boxBlurRegion(out[c], in[c], src.Bounds(), kw, kh)
	}
	return dst, nil
}

// BoxBlurGray is BoxBlur for single-channel images.
func BoxBlurGray(src *GrayImage, kw, kh int) (*GrayImage, error) {
	if err := checkImage(src.Bounds()); err != nil {
		return nil, err
	}
	if err := checkBoxSize(kw, kh); err != nil {
		return nil, err
	}

	dst := src.Clone()
	boxBlurRegion(grayPlanes(dst)[0], grayPlanes(src)[0], src.Bounds(), kw, kh)
	return dst, nil
}

func checkBoxSize(kw, kh int) error {
	if kw < 1 || kh < 1 {
		return errors.Wrapf(ErrInvalidParameter, "box size must be positive, got %dx%d", kw, kh)
	}
	return nil
}

// boxBlurRegion writes the box average of src into dst for the pixels of
// r only. Windows may extend past r; samples outside the image reflect.
//
// The filter is separable: a sliding horizontal sum is computed for every
// source row the vertical window touches, then a sliding vertical sum over
// those rows produces each output pixel. Cost is O(area of r) regardless
// of the kernel size.
func boxBlurRegion(dst, src plane, r image.Rectangle, kw, kh int) {
	dx, dy := r.Dx(), r.Dy()
	if dx <= 0 || dy <= 0 {
		return
	}
	ax, ay := kw/2, kh/2
	area := uint32(kw * kh)

	rows := dy + kh - 1
	x0 := r.Min.X - ax
	y0 := r.Min.Y - ay
	hsum := make([]uint32, rows*dx)

	for ry := 0; ry < rows; ry++ {
		sy := reflect101(y0+ry, src.h)
		var sum uint32
		for k := 0; k < kw; k++ {
			sum += uint32(src.at(reflect101(x0+k, src.w), sy))
		}
		row := hsum[ry*dx : (ry+1)*dx]
		for x := 0; x < dx; x++ {
			row[x] = sum
			if x+1 < dx {
				sum += uint32(src.at(reflect101(x0+x+kw, src.w), sy))
				sum -= uint32(src.at(reflect101(x0+x, src.w), sy))
			}
		}
	}

	for x := 0; x < dx; x++ {
		var sum uint32
		for k := 0; k < kh; k++ {
			sum += hsum[k*dx+x]
		}
		for y := 0; y < dy; y++ {
			dst.set(r.Min.X+x, r.Min.Y+y, uint8((sum+area/2)/area))
			if y+1 < dy {
				sum += hsum[(y+kh)*dx+x]
				sum -= hsum[y*dx+x]
			}
		}
	}
}
