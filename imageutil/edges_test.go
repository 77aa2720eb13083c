package imageutil

import (
	"image"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createSplitImage returns an image whose left half is left and right half
// is right.
func createSplitImage(width, height int, left, right RGB) *RGBAImage {
	img := NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < width/2 {
				img.SetRGB(x, y, left)
			} else {
				img.SetRGB(x, y, right)
			}
		}
	}
	return img
}

func countNonZero(img *GrayImage) int {
	n := 0
	for _, v := range img.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

func TestCannyBinary(t *testing.T) {
	gray := ToGrayscale(CreateCheckerboardImage(64, 64, 16))
	edges, err := Canny(gray, 50, 150, 3)
	require.NoError(t, err)

	for _, v := range edges.Pix {
		require.True(t, v == 0 || v == 255, "canny output must be binary, got %d", v)
	}
	assert.NotZero(t, countNonZero(edges))
}

func TestCannyFlat(t *testing.T) {
	gray := ToGrayscale(CreateSolidImage(32, 32, RGB{R: 90, G: 90, B: 90}))
	for _, aperture := range []int{3, 5, 7} {
		edges, err := Canny(gray, 10, 30, aperture)
		require.NoError(t, err)
		assert.Zero(t, countNonZero(edges), "aperture %d", aperture)
	}
}

func TestCannyThresholdOrder(t *testing.T) {
	gray := ToGrayscale(CreateEdgeImage(64, 64))
	a, err := Canny(gray, 50, 150, 3)
	require.NoError(t, err)
	b, err := Canny(gray, 150, 50, 3)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestCannyInvalid(t *testing.T) {
	gray := NewGrayImage(8, 8)
	_, err := Canny(gray, -1, 10, 3)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
	_, err = Canny(gray, 1, 10, 4)
	assert.True(t, errors.Is(err, ErrInvalidParameter))
}

func TestSobelGradients(t *testing.T) {
	// Vertical step from 0 to 10 between columns 3 and 4.
	gray := NewGrayImage(8, 8)
	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			gray.SetGrayValue(x, y, 10)
		}
	}
	gx, gy, err := SobelGradients(gray, 3)
	require.NoError(t, err)

	// Row taps 1,2,1 sum to 4 and the derivative spans the step once.
	assert.Equal(t, 40, gx[4*8+3])
	assert.Equal(t, 40, gx[4*8+4])
	assert.Equal(t, 0, gx[4*8+1])
	for _, v := range gy {
		require.Equal(t, 0, v)
	}
}

func TestDetectEdges(t *testing.T) {
	left, right := RGB{R: 200, G: 30, B: 60}, RGB{R: 10, G: 220, B: 40}
	src := createSplitImage(64, 48, left, right)
	roi := image.Rect(16, 8, 48, 40)
	p := EdgeParams{BlurSize: 3, LowThreshold: 20, Ratio: 3, Aperture: 3}

	out, err := DetectEdges(src, roi, p)
	require.NoError(t, err)
	require.Equal(t, src.Bounds(), out.Bounds())

	found := 0
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			c := out.GetRGB(x, y)
			require.Equal(t, uint8(255), out.RGBAAt(x, y).A)
			if c == (RGB{}) {
				continue
			}
			found++
			require.True(t, image.Pt(x, y).In(roi), "edge pixel (%d,%d) outside roi", x, y)
			require.Equal(t, src.GetRGB(x, y), c, "edge pixel must carry source color")
			require.InDelta(t, 32, x, 2, "edges should hug the color step")
		}
	}
	assert.NotZero(t, found)
}

func TestDetectEdgesEmptyROI(t *testing.T) {
	src := CreateEdgeImage(32, 32)
	out, err := DetectEdges(src, image.Rectangle{}, DefaultEdgeParams())
	require.NoError(t, err)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			require.Equal(t, RGB{}, out.GetRGB(x, y))
		}
	}
}

func TestDetectEdgesGrayMatchesColor(t *testing.T) {
	src := CreateEdgeImage(48, 48)
	roi := image.Rect(4, 4, 44, 44)
	p := EdgeParams{BlurSize: 3, LowThreshold: 40, Ratio: 3, Aperture: 3}

	color, err := DetectEdges(src, roi, p)
	require.NoError(t, err)
	gray, err := DetectEdgesGray(ToGrayscale(src), roi, p)
	require.NoError(t, err)

	for y := 0; y < 48; y++ {
		for x := 0; x < 48; x++ {
			require.Equal(t, gray.GetGray(x, y) != 0, color.GetRGB(x, y) != RGB{}, "(%d,%d)", x, y)
		}
	}
}

func TestEdgeParamsValidate(t *testing.T) {
	require.NoError(t, DefaultEdgeParams().Validate())

	bad := []EdgeParams{
		{BlurSize: 0, LowThreshold: 1, Ratio: 3, Aperture: 3},
		{BlurSize: 3, LowThreshold: -1, Ratio: 3, Aperture: 3},
		{BlurSize: 3, LowThreshold: 1, Ratio: 0, Aperture: 3},
		{BlurSize: 3, LowThreshold: 1, Ratio: 3, Aperture: 9},
	}
	for _, p := range bad {
		assert.True(t, errors.Is(p.Validate(), ErrInvalidParameter), "%+v", p)
	}
}
