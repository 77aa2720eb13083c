package imageutil

import (
	"image"

	"github.com/pkg/errors"
)

// EdgeParams configures the edge map builder.
type EdgeParams struct {
	// BlurSize is the side of the box blur applied before detection.
	BlurSize int `toml:"blur_size" yaml:"blur_size"`
	// LowThreshold is the Canny hysteresis low threshold.
	LowThreshold float64 `toml:"low_threshold" yaml:"low_threshold"`
	// Ratio gives the high threshold as LowThreshold * Ratio.
	Ratio float64 `toml:"ratio" yaml:"ratio"`
	// Aperture is the Sobel aperture, 3, 5 or 7.
	Aperture int `toml:"aperture" yaml:"aperture"`
}

// DefaultEdgeParams returns blur 5, low threshold 200, ratio 3 and
// aperture 5.
func DefaultEdgeParams() EdgeParams {
	return EdgeParams{
		BlurSize:     5,
		LowThreshold: 200,
		Ratio:        3,
		Aperture:     5,
	}
}

// Validate reports whether p can drive DetectEdges.
func (p EdgeParams) Validate() error {
	if p.BlurSize < 1 {
		return errors.Wrapf(ErrInvalidParameter, "edge blur size must be >= 1, got %d", p.BlurSize)
	}
	if p.LowThreshold < 0 {
		return errors.Wrapf(ErrInvalidParameter, "edge low threshold must be >= 0, got %v", p.LowThreshold)
	}
	if p.Ratio <= 0 {
		return errors.Wrapf(ErrInvalidParameter, "edge ratio must be > 0, got %v", p.Ratio)
	}
	if _, ok := sobelTaps[p.Aperture]; !ok {
		return errors.Wrapf(ErrInvalidParameter, "edge aperture must be 3, 5 or 7, got %d", p.Aperture)
	}
	return nil
}

// DetectEdges builds an edge map of roi. The ROI is converted to
// grayscale, box blurred and run through Canny. The result has the size of
// the full image: every pixel is zero except those inside roi where an
// edge was found, which carry the exact source color.
func DetectEdges(src *RGBAImage, roi image.Rectangle, p EdgeParams) (*RGBAImage, error) {
	if err := checkImage(src.Bounds()); err != nil {
		return nil, err
	}
	if err := checkROI(roi, src.Bounds()); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	dst := NewRGBAImage(src.Width(), src.Height())
	if roi.Empty() {
		return dst, nil
	}

	mask, err := edgeMask(ToGrayscale(src).Crop(roi), p)
	if err != nil {
		return nil, err
	}
	for y := 0; y < roi.Dy(); y++ {
		for x := 0; x < roi.Dx(); x++ {
			if mask.Pix[y*mask.Stride+x] == 0 {
				continue
			}
			si := src.PixOffset(roi.Min.X+x, roi.Min.Y+y)
			di := dst.PixOffset(roi.Min.X+x, roi.Min.Y+y)
			copy(dst.Pix[di:di+3], src.Pix[si:si+3])
		}
	}
	return dst, nil
}

// DetectEdgesGray is DetectEdges for single-channel input; the grayscale
// step is skipped.
func DetectEdgesGray(src *GrayImage, roi image.Rectangle, p EdgeParams) (*GrayImage, error) {
	if err := checkImage(src.Bounds()); err != nil {
		return nil, err
	}
	if err := checkROI(roi, src.Bounds()); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	dst := NewGrayImage(src.Width(), src.Height())
	if roi.Empty() {
		return dst, nil
	}

	mask, err := edgeMask(src.Crop(roi), p)
	if err != nil {
		return nil, err
	}
	for y := 0; y < roi.Dy(); y++ {
		for x := 0; x < roi.Dx(); x++ {
			if mask.Pix[y*mask.Stride+x] != 0 {
				dst.SetGrayValue(roi.Min.X+x, roi.Min.Y+y, src.GetGray(roi.Min.X+x, roi.Min.Y+y))
			}
		}
	}
	return dst, nil
}

// edgeMask blurs a grayscale crop and returns its binary Canny mask.
func edgeMask(gray *GrayImage, p EdgeParams) (*GrayImage, error) {
	blurred, err := BoxBlurGray(gray, p.BlurSize, p.BlurSize)
	if err != nil {
		return nil, err
	}
	return Canny(blurred, p.LowThreshold, p.LowThreshold*p.Ratio, p.Aperture)
}
