// Package imgproc dispatches frames to the imageutil transforms and carries
// the harness plumbing around them: operation parsing, parameter presets,
// frame sources, gocv interop and on-screen annotation.
package imgproc

import (
	"image"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/wbrown/imgproc/imageutil"
)

// Processor applies operations with a fixed parameter set. It holds no
// mutable state and may be shared between goroutines.
type Processor struct {
	params Params
	kernel *imageutil.Kernel
	log    logrus.FieldLogger
}

// NewProcessor validates params and returns a Processor that logs through
// log. A nil log discards output.
func NewProcessor(params Params, log logrus.FieldLogger) (*Processor, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	kernel, err := imageutil.NewKernel(params.Kernel)
	if err != nil {
		return nil, err
	}
	if log == nil {
		discard := logrus.New()
		discard.SetLevel(logrus.PanicLevel)
		log = discard
	}
	return &Processor{params: params, kernel: kernel, log: log}, nil
}

// Params returns the parameter set the processor was built with.
func (p *Processor) Params() Params {
	return p.params
}

// Process applies op to frame. roi is ignored by operations that work on
// the full frame (see Operation.UsesROI). Callers wanting the whole frame
// pass frame.Bounds(); an empty roi selects nothing, which leaves the frame
// unchanged for gray, median and pix and yields an all black edge map. The
// result is an
// *imageutil.RGBAImage or, for OpDistance and OpConvolve, an
// *imageutil.GrayImage.
func (p *Processor) Process(frame image.Image, roi image.Rectangle, op Operation) (image.Image, error) {
	if frame == nil {
		return nil, errors.Wrapf(imageutil.ErrEmptyInput, "operation %s: nil frame", op)
	}
	src := asRGBA(frame)
	start := time.Now()

	out, err := p.apply(src, roi, op)
	fields := logrus.Fields{
		"operation": op,
		"size":      src.Bounds().Size(),
		"elapsed":   time.Since(start),
	}
	if op.UsesROI() {
		fields["roi"] = roi
	}
	if err != nil {
		p.log.WithFields(fields).WithError(err).Warn("operation failed")
		return nil, errors.Wrapf(err, "operation %s", op)
	}
	p.log.WithFields(fields).Debug("frame processed")
	return out, nil
}

func (p *Processor) apply(src *imageutil.RGBAImage, roi image.Rectangle, op Operation) (image.Image, error) {
	switch op {
	case OpGray:
		return imageutil.ToGrayscaleROI(src, roi)
	case OpMedian:
		return imageutil.MedianFilter(src, roi, p.params.MedianSize)
	case OpEdges:
		return imageutil.DetectEdges(src, roi, p.params.Edges)
	case OpPixelize:
		return imageutil.Pixelize(src, roi, p.params.PixelDivisions)
	case OpDistance:
		return imageutil.DistanceTransform(src, p.params.Distance)
	case OpAverage:
		return imageutil.AverageFilterWithParams(src, p.params.Average)
	case OpConvolve:
		return imageutil.Convolve(src, p.kernel)
	}
	return nil, errors.Wrapf(imageutil.ErrInvalidParameter, "unknown operation %q", string(op))
}

// asRGBA returns frame as an origin-anchored RGBAImage, copying only when
// it has to.
func asRGBA(frame image.Image) *imageutil.RGBAImage {
	switch f := frame.(type) {
	case *imageutil.RGBAImage:
		if f.Bounds().Min == (image.Point{}) {
			return f
		}
	case *image.RGBA:
		if f.Bounds().Min == (image.Point{}) {
			return &imageutil.RGBAImage{RGBA: f}
		}
	}
	return imageutil.RGBAImageFromImage(frame)
}
