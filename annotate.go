package imgproc

import (
	"image"
	"image/color"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// ROIColor is the outline drawn around the selected region.
var ROIColor = color.RGBA{R: 0, G: 0, B: 254, A: 255}

const captionSize = 14

var captionFont = sync.OnceValues(func() (*truetype.Font, error) {
	f, err := freetype.ParseFont(goregular.TTF)
	return f, errors.Wrap(err, "failed to parse caption font")
})

// Annotate returns an RGBA copy of frame with a one pixel ROIColor outline
// around roi and, when caption is non-empty, the caption in the top-left
// corner. Gray frames are expanded to color. An empty roi draws no
// outline.
func Annotate(frame image.Image, roi image.Rectangle, caption string) (*image.RGBA, error) {
	b := frame.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), frame, b.Min, draw.Src)

	if r := roi.Sub(b.Min).Intersect(dst.Bounds()); !r.Empty() {
		outline(dst, r, ROIColor)
	}
	if caption == "" {
		return dst, nil
	}

	f, err := captionFont()
	if err != nil {
		return nil, err
	}
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(f)
	ctx.SetFontSize(captionSize)
	ctx.SetClip(dst.Bounds())
	ctx.SetDst(dst)
	ctx.SetHinting(font.HintingFull)

	// Shadow, offset one pixel.
	ctx.SetSrc(image.Black)
	if _, err := ctx.DrawString(caption, freetype.Pt(7, captionSize+5)); err != nil {
		return nil, errors.Wrap(err, "failed to draw caption")
	}
	ctx.SetSrc(image.White)
	if _, err := ctx.DrawString(caption, freetype.Pt(6, captionSize+4)); err != nil {
		return nil, errors.Wrap(err, "failed to draw caption")
	}
	return dst, nil
}

func outline(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.SetRGBA(x, r.Min.Y, c)
		dst.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.SetRGBA(r.Min.X, y, c)
		dst.SetRGBA(r.Max.X-1, y, c)
	}
}
