package imgproc

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/imgproc/imageutil"
)

func TestAnnotateOutline(t *testing.T) {
	frame := imageutil.CreateSolidImage(40, 30, imageutil.RGB{R: 100, G: 100, B: 100})
	roi := imageutil.Rect(5, 6, 10, 8)

	out, err := Annotate(frame, roi, "")
	require.NoError(t, err)
	assert.Equal(t, ROIColor, out.RGBAAt(5, 6))
	assert.Equal(t, ROIColor, out.RGBAAt(14, 13))
	assert.Equal(t, ROIColor, out.RGBAAt(9, 13))
	assert.Equal(t, color.RGBA{R: 100, G: 100, B: 100, A: 255}, out.RGBAAt(9, 9), "interior untouched")
	assert.Equal(t, color.RGBA{R: 100, G: 100, B: 100, A: 255}, out.RGBAAt(15, 6), "outside untouched")

	// The input frame is not drawn on.
	assert.Equal(t, imageutil.RGB{R: 100, G: 100, B: 100}, frame.GetRGB(5, 6))
}

func TestAnnotateGrayAndCaption(t *testing.T) {
	gray := imageutil.NewGrayImage(120, 40)
	out, err := Annotate(gray, image.Rectangle{}, "dist")
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 120, 40), out.Bounds())

	lit := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 120; x++ {
			if out.RGBAAt(x, y).R > 128 {
				lit++
			}
		}
	}
	assert.NotZero(t, lit, "caption should be drawn")
}

func TestAnnotateClipsROI(t *testing.T) {
	frame := imageutil.NewRGBAImage(20, 20)
	out, err := Annotate(frame, imageutil.Rect(10, 10, 50, 50), "")
	require.NoError(t, err)
	assert.Equal(t, ROIColor, out.RGBAAt(19, 15))
}
