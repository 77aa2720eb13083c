package imgproc

import (
	"image"

	"github.com/pkg/errors"
	"github.com/wbrown/imgproc/imageutil"
	"gocv.io/x/gocv"
)

// FrameFromMat copies an 8-bit BGR, BGRA or gray Mat into an RGBAImage.
func FrameFromMat(mat gocv.Mat) (*imageutil.RGBAImage, error) {
	if mat.Empty() {
		return nil, errors.Wrap(imageutil.ErrEmptyInput, "empty mat")
	}
	if !mat.IsContinuous() {
		c := mat.Clone()
		defer c.Close()
		mat = c
	}

	var channels int
	switch mat.Type() {
	case gocv.MatTypeCV8UC1:
		channels = 1
	case gocv.MatTypeCV8UC3:
		channels = 3
	case gocv.MatTypeCV8UC4:
		channels = 4
	default:
		return nil, errors.Wrapf(imageutil.ErrInvalidParameter, "unsupported mat type %v", mat.Type())
	}

	height, width := mat.Rows(), mat.Cols()
	data := mat.ToBytes()
	img := imageutil.NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		row := data[y*width*channels:]
		for x := 0; x < width; x++ {
			i := img.PixOffset(x, y)
			p := row[x*channels:]
			if channels == 1 {
				img.Pix[i], img.Pix[i+1], img.Pix[i+2] = p[0], p[0], p[0]
				continue
			}
			// gocv uses BGR order
			img.Pix[i], img.Pix[i+1], img.Pix[i+2] = p[2], p[1], p[0]
		}
	}
	return img, nil
}

// MatFromImage converts img to a BGR Mat (or a single-channel Mat for
// gray images). The caller must Close it.
func MatFromImage(img image.Image) (gocv.Mat, error) {
	b := img.Bounds()
	if b.Empty() {
		return gocv.NewMat(), errors.Wrap(imageutil.ErrEmptyInput, "empty image")
	}
	width, height := b.Dx(), b.Dy()

	switch g := img.(type) {
	case *imageutil.GrayImage:
		return grayMat(g.Gray)
	case *image.Gray:
		return grayMat(g)
	}

	src, ok := img.(*imageutil.RGBAImage)
	if !ok || b.Min != (image.Point{}) {
		src = imageutil.RGBAImageFromImage(img)
	}
	data := make([]byte, 0, width*height*3)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := src.PixOffset(x, y)
			data = append(data, src.Pix[i+2], src.Pix[i+1], src.Pix[i])
		}
	}
	mat, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC3, data)
	return mat, errors.Wrap(err, "failed to build mat")
}

func grayMat(g *image.Gray) (gocv.Mat, error) {
	b := g.Bounds()
	data := make([]byte, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := g.PixOffset(b.Min.X, y)
		data = append(data, g.Pix[i:i+b.Dx()]...)
	}
	mat, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8U, data)
	return mat, errors.Wrap(err, "failed to build mat")
}
