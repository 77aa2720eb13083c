package imageutil

import (
	"image"

	"github.com/pkg/errors"
)

// Pixelize splits roi into an n x n grid of blocks and replaces each block
// by its box-blurred self, using a blur window the size of the block.
//
// Block dimensions are roi.Dx()/n by roi.Dy()/n with integer division, so
// the remainder columns and rows along the right and bottom edges of roi
// are left untouched. If either block dimension is zero the call returns
// an unmodified copy.
//
// The blur window is centred on each pixel, so pixels near a block edge
// average in pixels of the neighbouring block (or mirrored image border)
// rather than producing a flat color. All windows read the unmodified
// source.
func Pixelize(src *RGBAImage, roi image.Rectangle, n int) (*RGBAImage, error) {
	if err := checkImage(src.Bounds()); err != nil {
		return nil, err
	}
	if err := checkROI(roi, src.Bounds()); err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, errors.Wrapf(ErrInvalidParameter, "division count must be >= 1, got %d", n)
	}

	dst := src.Clone()
	in, out := rgbPlanes(src), rgbPlanes(dst)
	for _, block := range PixelBlocks(roi, n) {
		for c := range in {
			boxBlurRegion(out[c], in[c], block, block.Dx(), block.Dy())
		}
	}
	return dst, nil
}

// PixelBlocks returns the block partition Pixelize uses for roi, in
// column-major order. It is empty when a block dimension would be zero.
func PixelBlocks(roi image.Rectangle, n int) []image.Rectangle {
	if n < 1 {
		return nil
	}
	bw, bh := roi.Dx()/n, roi.Dy()/n
	if bw == 0 || bh == 0 {
		return nil
	}

	blocks := make([]image.Rectangle, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			blocks = append(blocks, Rect(roi.Min.X+i*bw, roi.Min.Y+j*bh, bw, bh))
		}
	}
	return blocks
}
