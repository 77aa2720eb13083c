package imageutil

import (
	"image"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegralBorders(t *testing.T) {
	img := CreateNoiseImage(7, 5, 4)
	ii := NewIntegral(img)
	require.Equal(t, 3, ii.Channels)
	require.Len(t, ii.Sums, 8*6*3)

	for c := 0; c < 3; c++ {
		for x := 0; x <= 7; x++ {
			assert.Zero(t, ii.At(c, x, 0))
		}
		for y := 0; y <= 5; y++ {
			assert.Zero(t, ii.At(c, 0, y))
		}
	}
}

func TestIntegralSums(t *testing.T) {
	img := CreateNoiseImage(33, 21, 12)
	ii := NewIntegral(img)
	rng := rand.New(rand.NewSource(5))

	for n := 0; n < 200; n++ {
		x0, x1 := rng.Intn(34), rng.Intn(34)
		y0, y1 := rng.Intn(22), rng.Intn(22)
		r := image.Rect(x0, y0, x1, y1)

		var want [3]int64
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				c := img.GetRGB(x, y)
				want[0] += int64(c.R)
				want[1] += int64(c.G)
				want[2] += int64(c.B)
			}
		}
		require.Equal(t, want, ii.SumRGB(r), "rect %v", r)
	}
}

func TestIntegralGray(t *testing.T) {
	gray := GrayFromRows([][]uint8{
		{1, 2, 3},
		{4, 5, 6},
	})
	ii := NewIntegralGray(gray)
	require.Equal(t, 1, ii.Channels)
	assert.Equal(t, int64(21), ii.At(0, 3, 2))
	assert.Equal(t, int64(5+6), ii.Sum(0, image.Rect(1, 1, 3, 2)))
	assert.Equal(t, int64(2+5), ii.Sum(0, Rect(1, 0, 1, 2)))
	assert.Zero(t, ii.Sum(0, image.Rectangle{}))
}

func TestIntegralSaturatedFrame(t *testing.T) {
	img := CreateSolidImage(640, 480, RGB{R: 255, G: 255, B: 255})
	ii := NewIntegral(img)
	assert.Equal(t, int64(640*480*255), ii.Sum(1, img.Bounds()))
}
