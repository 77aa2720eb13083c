package imageutil

import (
	"github.com/pkg/errors"
)

// sobelTaps holds the separable smoothing and derivative taps for each
// supported Sobel aperture.
var sobelTaps = map[int]struct{ smooth, deriv []int }{
	3: {[]int{1, 2, 1}, []int{-1, 0, 1}},
	5: {[]int{1, 4, 6, 4, 1}, []int{-1, -2, 0, 2, 1}},
	7: {[]int{1, 6, 15, 20, 15, 6, 1}, []int{-1, -4, -5, 0, 5, 4, 1}},
}

// SobelGradients computes the horizontal and vertical Sobel derivatives of
// a grayscale image with the given aperture (3, 5 or 7). The results are
// row-major slices of Width*Height values. Borders replicate the edge
// pixel.
func SobelGradients(gray *GrayImage, aperture int) (gx, gy []int, err error) {
	if err := checkImage(gray.Bounds()); err != nil {
		return nil, nil, err
	}
	taps, ok := sobelTaps[aperture]
	if !ok {
		return nil, nil, errors.Wrapf(ErrInvalidParameter, "sobel aperture must be 3, 5 or 7, got %d", aperture)
	}

	gx = separable(gray, taps.deriv, taps.smooth)
	gy = separable(gray, taps.smooth, taps.deriv)
	return gx, gy, nil
}

// separable convolves gray with the outer product of a horizontal and a
// vertical tap vector, clamping coordinates at the borders.
func separable(gray *GrayImage, horiz, vert []int) []int {
	width, height := gray.Width(), gray.Height()
	half := len(horiz) / 2

	tmp := make([]int, width*height)
	for y := 0; y < height; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < width; x++ {
			sum := 0
			for k, w := range horiz {
				sum += w * int(row[clampInt(x+k-half, 0, width-1)])
			}
			tmp[y*width+x] = sum
		}
	}

	out := make([]int, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sum := 0
			for k, w := range vert {
				sum += w * tmp[clampInt(y+k-half, 0, height-1)*width+x]
			}
			out[y*width+x] = sum
		}
	}
	return out
}

// Canny performs Canny edge detection on a grayscale image and returns a
// binary mask (0 or 255).
//
// Gradients come from a Sobel operator of the given aperture and their
// magnitude is the L1 norm |gx| + |gy|. A pixel survives non-maximum
// suppression when its magnitude exceeds lowThreshold and is a local
// maximum along the quantized gradient direction. Survivors above
// highThreshold seed edges; the rest join an edge only through an
// 8-connected chain of survivors reaching a seed.
func Canny(gray *GrayImage, lowThreshold, highThreshold float64, aperture int) (*GrayImage, error) {
	if lowThreshold < 0 || highThreshold < 0 {
		return nil, errors.Wrapf(ErrInvalidParameter,
			"canny thresholds must be non-negative, got %v/%v", lowThreshold, highThreshold)
	}
	gx, gy, err := SobelGradients(gray, aperture)
	if err != nil {
		return nil, err
	}
	if lowThreshold > highThreshold {
		lowThreshold, highThreshold = highThreshold, lowThreshold
	}
	low, high := int(lowThreshold), int(highThreshold)

	width, height := gray.Width(), gray.Height()

	// Magnitudes with a one pixel zero border so neighbour reads never
	// leave the slice.
	stride := width + 2
	mag := make([]int, stride*(height+2))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			mag[(y+1)*stride+x+1] = abs(gx[i]) + abs(gy[i])
		}
	}

	const (
		notEdge = iota
		weak
		strong
	)
	state := make([]uint8, width*height)
	var stack []int

	// tan(22.5 degrees) in Q15 fixed point.
	const tg22 = 13573

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			j := (y+1)*stride + x + 1
			m := mag[j]
			if m <= low {
				continue
			}

			i := y*width + x
			ax, ay := abs(gx[i]), abs(gy[i])
			tg22x := ax * tg22
			y16 := ay << 15

			var isMax bool
			switch {
			case y16 < tg22x:
				// Horizontal gradient: compare left and right.
				isMax = m > mag[j-1] && m >= mag[j+1]
			case y16 > tg22x+(ax<<16):
				// Vertical gradient: compare up and down.
				isMax = m > mag[j-stride] && m >= mag[j+stride]
			default:
				s := 1
				if (gx[i] < 0) != (gy[i] < 0) {
					s = -1
				}
				isMax = m > mag[j-stride-s] && m > mag[j+stride+s]
			}
			if !isMax {
				continue
			}

			if m > high {
				state[i] = strong
				stack = append(stack, i)
			} else {
				state[i] = weak
			}
		}
	}

	// Edge tracking by hysteresis.
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%width, i/width
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := x+dx, y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				n := ny*width + nx
				if state[n] == weak {
					state[n] = strong
					stack = append(stack, n)
				}
			}
		}
	}

	edges := NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if state[y*width+x] == strong {
				edges.Pix[y*edges.Stride+x] = 255
			}
		}
	}
	return edges, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
