package imageutil

import (
	"image"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidGeometry reports an ROI or block partition outside the
	// image bounds, or a rectangle with negative extent.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrInvalidParameter reports a kernel size, threshold, division
	// count, metric or mask size the operation does not accept.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEmptyInput reports a source image with zero pixels.
	ErrEmptyInput = errors.New("empty input")
)

// checkImage validates that an image is non-nil, non-empty and anchored
// at the origin.
func checkImage(bounds image.Rectangle) error {
	if bounds.Min != (image.Point{}) {
		return errors.Wrapf(ErrInvalidGeometry,
			"image must be anchored at the origin, got min %v", bounds.Min)
	}
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return errors.Wrapf(ErrEmptyInput, "image is %dx%d", bounds.Dx(), bounds.Dy())
	}
	return nil
}

// checkROI validates roi against bounds. Zero-area rectangles are valid
// and select nothing.
func checkROI(roi, bounds image.Rectangle) error {
	if roi.Min.X > roi.Max.X || roi.Min.Y > roi.Max.Y {
		return errors.Wrapf(ErrInvalidGeometry, "roi %v has negative extent", roi)
	}
	if roi.Empty() {
		return nil
	}
	if !roi.In(bounds) {
		return errors.Wrapf(ErrInvalidGeometry, "roi %v exceeds image bounds %v", roi, bounds)
	}
	return nil
}

func checkOddSize(name string, k int) error {
	if k < 1 || k%2 == 0 {
		return errors.Wrapf(ErrInvalidParameter, "%s must be odd and >= 1, got %d", name, k)
	}
	return nil
}
