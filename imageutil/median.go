package imageutil

import (
	"image"
	"slices"
)

// MedianFilter replaces every pixel inside roi with the per-channel median
// of its k x k neighbourhood. k must be odd. Pixels outside roi are copied
// unchanged.
//
// Neighbourhoods are always sampled from the unmodified source, so the
// result does not depend on scan order. Near the ROI border they include
// source pixels just outside roi; near the image border the edge pixel is
// replicated.
func MedianFilter(src *RGBAImage, roi image.Rectangle, k int) (*RGBAImage, error) {
	if err := checkImage(src.Bounds()); err != nil {
		return nil, err
	}
	if err := checkROI(roi, src.Bounds()); err != nil {
		return nil, err
	}
	if err := checkOddSize("median kernel size", k); err != nil {
		return nil, err
	}

	dst := src.Clone()
	in, out := rgbPlanes(src), rgbPlanes(dst)
	for c := range in {
		medianRegion(out[c], in[c], roi, k)
	}
	return dst, nil
}

// MedianFilterGray is MedianFilter for single-channel images.
func MedianFilterGray(src *GrayImage, roi image.Rectangle, k int) (*GrayImage, error) {
	if err := checkImage(src.Bounds()); err != nil {
		return nil, err
	}
	if err := checkROI(roi, src.Bounds()); err != nil {
		return nil, err
	}
	if err := checkOddSize("median kernel size", k); err != nil {
		return nil, err
	}

	dst := src.Clone()
	medianRegion(grayPlanes(dst)[0], grayPlanes(src)[0], roi, k)
	return dst, nil
}

func medianRegion(dst, src plane, r image.Rectangle, k int) {
	half := k / 2
	window := make([]uint8, k*k)
	var hist [256]int

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			n := 0
			for dy := -half; dy <= half; dy++ {
				sy := clampInt(y+dy, 0, src.h-1)
				for dx := -half; dx <= half; dx++ {
					window[n] = src.at(clampInt(x+dx, 0, src.w-1), sy)
					n++
				}
			}
			dst.set(x, y, median(window, &hist))
		}
	}
}

// median returns the middle element of an odd-length sample. Small windows
// are sorted; large ones go through a 256-bin histogram.
func median(window []uint8, hist *[256]int) uint8 {
	mid := len(window) / 2
	if len(window) <= 49 {
		slices.Sort(window)
		return window[mid]
	}

	clear(hist[:])
	for _, v := range window {
		hist[v]++
	}
	seen := 0
	for v, count := range hist {
		seen += count
		if seen > mid {
			return uint8(v)
		}
	}
	return 255
}
