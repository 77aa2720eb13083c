package imageutil

import (
	"github.com/pkg/errors"
)

// Kernel represents a convolution kernel of signed integer weights with
// odd width and height. Values is indexed [row][column].
type Kernel struct {
	Values [][]int
	Width  int
	Height int
}

// NewKernel creates a kernel from a 2D slice. The matrix must be
// rectangular with odd, non-zero dimensions.
func NewKernel(values [][]int) (*Kernel, error) {
	height := len(values)
	if height == 0 {
		return nil, errors.Wrap(ErrInvalidParameter, "kernel has no rows")
	}
	width := len(values[0])
	for i, row := range values {
		if len(row) != width {
			return nil, errors.Wrapf(ErrInvalidParameter,
				"kernel row %d has %d values, want %d", i, len(row), width)
		}
	}
	if width%2 == 0 || height%2 == 0 {
		return nil, errors.Wrapf(ErrInvalidParameter,
			"kernel must be odd-sized, got %dx%d", width, height)
	}

	rows := make([][]int, height)
	for i, row := range values {
		rows[i] = append([]int(nil), row...)
	}
	return &Kernel{
		Values: rows,
		Width:  width,
		Height: height,
	}, nil
}

func mustKernel(values [][]int) *Kernel {
	k, err := NewKernel(values)
	if err != nil {
		panic(err)
	}
	return k
}

// SharpenKernel returns the 3x3 sharpening kernel: centre 5, the four
// edge neighbours -1, diagonals 0. Its weights sum to 1, so flat regions
// pass through unchanged.
func SharpenKernel() *Kernel {
	return mustKernel([][]int{
		{0, -1, 0},
		{-1, 5, -1},
		{0, -1, 0},
	})
}

// IdentityKernel returns a size x size kernel with a single 1 at the
// centre. size must be odd.
func IdentityKernel(size int) (*Kernel, error) {
	if err := checkOddSize("kernel size", size); err != nil {
		return nil, err
	}
	values := make([][]int, size)
	for i := range values {
		values[i] = make([]int, size)
	}
	values[size/2][size/2] = 1
	return NewKernel(values)
}

// Convolve converts src to grayscale and convolves it with kernel.
// See ConvolveGray.
func Convolve(src *RGBAImage, kernel *Kernel) (*GrayImage, error) {
	if err := checkImage(src.Bounds()); err != nil {
		return nil, err
	}
	return ConvolveGray(ToGrayscale(src), kernel)
}

// ConvolveGray applies kernel to every pixel of a grayscale image.
// Neighbours outside the image are clamped to the nearest row or column.
// The weighted sum is rectified: negative results become 0 and results
// above 255 saturate.
func ConvolveGray(img *GrayImage, kernel *Kernel) (*GrayImage, error) {
	if err := checkImage(img.Bounds()); err != nil {
		return nil, err
	}
	if kernel == nil {
		return nil, errors.Wrap(ErrInvalidParameter, "nil kernel")
	}

	width, height := img.Width(), img.Height()
	dst := NewGrayImage(width, height)

	halfKW := kernel.Width / 2
	halfKH := kernel.Height / 2

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sum := 0

			for ky := 0; ky < kernel.Height; ky++ {
				sy := clampInt(y+ky-halfKH, 0, height-1)
				row := img.Pix[sy*img.Stride:]
				for kx := 0; kx < kernel.Width; kx++ {
					// Source pixel coordinates with border replication
					sx := clampInt(x+kx-halfKW, 0, width-1)
					sum += kernel.Values[ky][kx] * int(row[sx])
				}
			}

			dst.Pix[y*dst.Stride+x] = relu8(sum)
		}
	}

	return dst, nil
}

// relu8 truncates negatives to 0 and saturates at 255.
func relu8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// clampInt clamps an integer to the given range.
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
