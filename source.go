package imgproc

import (
	"context"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/wbrown/imgproc/imageutil"
	"gocv.io/x/gocv"
)

// ErrStop may be returned by a Run callback to end the loop without error.
var ErrStop = errors.New("stop")

// FrameSource yields frames until it returns io.EOF.
type FrameSource interface {
	Next() (*imageutil.RGBAImage, error)
	Close() error
}

// ImageSource yields a single still frame.
type ImageSource struct {
	frame *imageutil.RGBAImage
}

// NewImageSource wraps an already decoded frame.
func NewImageSource(frame *imageutil.RGBAImage) *ImageSource {
	return &ImageSource{frame: frame}
}

// OpenImage decodes the still image at path. Formats the Go decoders do not
// know are handed to OpenCV.
func OpenImage(path string) (*ImageSource, error) {
	frame, err := imageutil.LoadImage(path)
	if err == nil {
		return NewImageSource(frame), nil
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()
	if mat.Empty() {
		return nil, errors.Wrapf(err, "failed to open image %s", path)
	}
	frame, err = FrameFromMat(mat)
	if err != nil {
		return nil, err
	}
	return NewImageSource(frame), nil
}

// Next returns the frame once, then io.EOF.
func (s *ImageSource) Next() (*imageutil.RGBAImage, error) {
	if s.frame == nil {
		return nil, io.EOF
	}
	frame := s.frame
	s.frame = nil
	return frame, nil
}

// Close releases nothing; it exists to satisfy FrameSource.
func (s *ImageSource) Close() error {
	s.frame = nil
	return nil
}

// VideoSource reads frames from a video file or capture device.
type VideoSource struct {
	capture *gocv.VideoCapture
	mat     gocv.Mat
}

// OpenVideo opens name as a capture device when it is an integer index and
// as a video file otherwise.
func OpenVideo(name string) (*VideoSource, error) {
	var (
		capture *gocv.VideoCapture
		err     error
	)
	if id, convErr := strconv.Atoi(name); convErr == nil {
		capture, err = gocv.VideoCaptureDevice(id)
	} else {
		capture, err = gocv.VideoCaptureFile(name)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open video %s", name)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, errors.Errorf("video %s is not readable", name)
	}
	return &VideoSource{capture: capture, mat: gocv.NewMat()}, nil
}

// Next grabs and converts the next frame. It returns io.EOF once the
// stream is exhausted.
func (s *VideoSource) Next() (*imageutil.RGBAImage, error) {
	if ok := s.capture.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, io.EOF
	}
	return FrameFromMat(s.mat)
}

// Close releases the capture handle and frame buffer.
func (s *VideoSource) Close() error {
	err := s.mat.Close()
	if cerr := s.capture.Close(); err == nil {
		err = cerr
	}
	return err
}

// Run feeds every frame of src to fn until the source is exhausted, fn
// returns ErrStop, or ctx is done. Cancellation is checked between frames.
func Run(ctx context.Context, src FrameSource, fn func(frame *imageutil.RGBAImage) error) error {
	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "frame %d", n)
		}
		if err := fn(frame); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return errors.Wrapf(err, "frame %d", n)
		}
	}
}
