package imageutil

import (
	"image"
)

// Integral is a summed-area table. It has one more row and column than the
// source image and entry (x, y) of channel c holds the sum of channel c
// over every source pixel strictly above and to the left of (x, y). Row 0
// and column 0 are zero.
type Integral struct {
	Width    int // Source width; the table is Width+1 wide.
	Height   int // Source height; the table is Height+1 tall.
	Channels int
	Sums     []int64
}

// NewIntegral builds the three-channel (R, G, B) integral of img.
func NewIntegral(img *RGBAImage) *Integral {
	return newIntegral(rgbPlanes(img), img.Width(), img.Height())
}

// NewIntegralGray builds the single-channel integral of img.
func NewIntegralGray(img *GrayImage) *Integral {
	return newIntegral(grayPlanes(img), img.Width(), img.Height())
}

func newIntegral(planes []plane, width, height int) *Integral {
	ch := len(planes)
	ii := &Integral{
		Width:    width,
		Height:   height,
		Channels: ch,
		Sums:     make([]int64, (width+1)*(height+1)*ch),
	}
	stride := (width + 1) * ch
	for c, p := range planes {
		for y := 1; y <= height; y++ {
			var row int64
			for x := 1; x <= width; x++ {
				row += int64(p.at(x-1, y-1))
				i := y*stride + x*ch + c
				ii.Sums[i] = ii.Sums[i-stride] + row
			}
		}
	}
	return ii
}

// At returns the table entry (x, y) of channel c, 0 <= x <= Width,
// 0 <= y <= Height.
func (ii *Integral) At(c, x, y int) int64 {
	return ii.Sums[(y*(ii.Width+1)+x)*ii.Channels+c]
}

// Sum returns the sum of channel c over r, which must lie within the
// source bounds.
func (ii *Integral) Sum(c int, r image.Rectangle) int64 {
	return ii.At(c, r.Max.X, r.Max.Y) -
		ii.At(c, r.Max.X, r.Min.Y) -
		ii.At(c, r.Min.X, r.Max.Y) +
		ii.At(c, r.Min.X, r.Min.Y)
}

// SumRGB returns the per-channel sums over r of a three-channel table.
func (ii *Integral) SumRGB(r image.Rectangle) [3]int64 {
	var sums [3]int64
	for c := 0; c < 3 && c < ii.Channels; c++ {
		sums[c] = ii.Sum(c, r)
	}
	return sums
}
