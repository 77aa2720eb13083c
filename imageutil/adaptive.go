package imageutil

import (
	"github.com/pkg/errors"
)

// AverageFilter blurs src with a box whose size follows the distance to the
// nearest edge: pixels far from edges are averaged over large windows and
// pixels on edges keep their value. It uses AverageDistanceParams.
func AverageFilter(src *RGBAImage) (*RGBAImage, error) {
	return AverageFilterWithParams(src, AverageDistanceParams())
}

// AverageFilterWithParams is AverageFilter with an explicit distance stage.
//
// For each pixel the distance d is made odd by incrementing it when even,
// giving a window of side d centred on the pixel, h = d/2 pixels to each
// side. Pixels whose window would leave the image are copied unchanged, so
// a pixel within h pixels of any border keeps its value. Every other pixel
// gets the rounded
// per-channel mean of its window, read from an integral of the unmodified
// source.
func AverageFilterWithParams(src *RGBAImage, p DistanceParams) (*RGBAImage, error) {
	if err := checkImage(src.Bounds()); err != nil {
		return nil, err
	}
	dist, err := DistanceTransform(src, p)
	if err != nil {
		return nil, errors.Wrap(err, "distance stage")
	}

	ii := NewIntegral(src)
	dst := src.Clone()
	width, height := src.Width(), src.Height()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			d := int(dist.Pix[y*dist.Stride+x])
			if d%2 == 0 {
				d++
			}
			h := d / 2
			if h == 0 || x-h < 0 || x+h > width-1 || y-h < 0 || y+h > height-1 {
				continue
			}

			side := 2*h + 1
			n := int64(side * side)
			sums := ii.SumRGB(Rect(x-h, y-h, side, side))
			i := dst.PixOffset(x, y)
			for c := 0; c < 3; c++ {
				dst.Pix[i+c] = uint8((sums[c] + n/2) / n)
			}
		}
	}
	return dst, nil
}
