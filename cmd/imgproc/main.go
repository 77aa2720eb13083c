package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/wbrown/imgproc"
	"github.com/wbrown/imgproc/imageutil"
	"gocv.io/x/gocv"
)

const (
	srcWindowName = "Source image"
	dstWindowName = "Destination image"
	waitKeyDelay  = 30
)

func operationsHelp() string {
	var b strings.Builder
	for _, op := range imgproc.Operations() {
		fmt.Fprintf(&b, "\n  %-7s %s", op, op.Description())
	}
	return b.String()
}

// parseROI parses "x,y,w,h".
func parseROI(s string) (image.Rectangle, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, errors.Errorf("roi %q: want x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, errors.Wrapf(err, "roi %q", s)
		}
		v[i] = n
	}
	if v[2] < 0 || v[3] < 0 {
		return image.Rectangle{}, errors.Wrapf(imageutil.ErrInvalidGeometry, "roi %q has negative size", s)
	}
	return imageutil.Rect(v[0], v[1], v[2], v[3]), nil
}

func openSource(input, video string) (imgproc.FrameSource, error) {
	switch {
	case input != "" && video != "":
		return nil, errors.New("use either -input or -video, not both")
	case input != "":
		return imgproc.OpenImage(input)
	case video != "":
		return imgproc.OpenVideo(video)
	}
	return nil, errors.New("please provide an image with -input or a video with -video")
}

func main() {
	inputFile := flag.String("input", "",
		"Path to the input image file")
	videoFile := flag.String("video", "",
		"Path to a video file, or a capture device index")
	opName := flag.String("op", "gray",
		"Operation to apply:"+operationsHelp())
	roiSpec := flag.String("roi", "",
		"Region of interest as x,y,w,h (default: whole frame)")
	selectROI := flag.Bool("select", false,
		"Select the region of interest interactively on the first frame")
	configFile := flag.String("config", "",
		"Parameter preset (.toml, .yaml or .yml)")
	outputFile := flag.String("output", "",
		"Save the first processed frame to this file instead of displaying")
	scaleFactor := flag.Float64("scale", 1.0,
		"Display scale factor")
	debug := flag.Bool("debug", false,
		"Enable debug logging")
	flag.Parse()

	log := imgproc.NewLogger(*debug)

	if err := run(log, options{
		input:     *inputFile,
		video:     *videoFile,
		op:        *opName,
		roi:       *roiSpec,
		selectROI: *selectROI,
		config:    *configFile,
		output:    *outputFile,
		scale:     *scaleFactor,
	}); err != nil {
		log.WithError(err).Error("imgproc failed")
		flag.PrintDefaults()
		os.Exit(1)
	}
}

type options struct {
	input, video string
	op           string
	roi          string
	selectROI    bool
	config       string
	output       string
	scale        float64
}

func run(log *logrus.Logger, opts options) error {
	op, err := imgproc.ParseOperation(opts.op)
	if err != nil {
		return err
	}
	if opts.scale <= 0 {
		return errors.Errorf("scale must be positive, got %v", opts.scale)
	}

	params := imgproc.DefaultParams()
	if opts.config != "" {
		if params, err = imgproc.LoadParams(opts.config); err != nil {
			return err
		}
		log.WithField("config", opts.config).Info("Loaded parameter preset")
	}
	proc, err := imgproc.NewProcessor(params, log)
	if err != nil {
		return err
	}

	src, err := openSource(opts.input, opts.video)
	if err != nil {
		return err
	}
	defer src.Close()

	first, err := src.Next()
	if err != nil {
		return errors.Wrap(err, "failed to read first frame")
	}

	roi := first.Bounds()
	userROI := false
	if opts.roi != "" {
		if roi, err = parseROI(opts.roi); err != nil {
			return err
		}
		userROI = true
	}

	if opts.output != "" {
		out, err := proc.Process(first, roi, op)
		if err != nil {
			return err
		}
		if err := imageutil.SaveImage(out, opts.output); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"operation": op, "output": opts.output}).Info("Output written")
		return nil
	}

	srcWindow := gocv.NewWindow(srcWindowName)
	defer srcWindow.Close()
	dstWindow := gocv.NewWindow(dstWindowName)
	defer dstWindow.Close()

	if opts.selectROI {
		if roi, err = pickROI(srcWindow, first, opts.scale); err != nil {
			return err
		}
		userROI = true
	}
	roi = imageutil.ClipROI(roi, first.Bounds())
	log.WithFields(logrus.Fields{"operation": op, "roi": roi}).Info("Processing")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	handle := func(frame *imageutil.RGBAImage) error {
		if err := show(srcWindow, frame, image.Rectangle{}, "", opts.scale); err != nil {
			return err
		}
		out, err := proc.Process(frame, roi, op)
		if err != nil {
			// Keep going; the next frame may be fine.
			log.WithError(err).Warn("Frame skipped")
			return nil
		}
		outline := image.Rectangle{}
		if userROI && op.UsesROI() {
			outline = roi
		}
		if err := show(dstWindow, out, outline, op.Description(), opts.scale); err != nil {
			return err
		}
		if dstWindow.WaitKey(waitKeyDelay) >= 0 {
			return imgproc.ErrStop
		}
		return nil
	}

	if err := handle(first); err != nil {
		if errors.Is(err, imgproc.ErrStop) {
			return nil
		}
		return err
	}
	if err := imgproc.Run(ctx, src, handle); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if opts.input != "" {
		// Still image: keep it up until a key press.
		dstWindow.WaitKey(0)
	}
	return nil
}

// show annotates img and displays it in window at the given scale.
func show(window *gocv.Window, img image.Image, roi image.Rectangle, caption string, scale float64) error {
	annotated, err := imgproc.Annotate(img, roi, caption)
	if err != nil {
		return err
	}
	frame := &imageutil.RGBAImage{RGBA: annotated}
	if scale != 1 {
		frame = imageutil.Scale(frame, scale, imageutil.InterpolationLanczos)
	}
	mat, err := imgproc.MatFromImage(frame)
	if err != nil {
		return err
	}
	defer mat.Close()
	window.IMShow(mat)
	return nil
}

// pickROI lets the user drag a rectangle over the first frame and maps it
// back to frame coordinates.
func pickROI(window *gocv.Window, frame *imageutil.RGBAImage, scale float64) (image.Rectangle, error) {
	display := frame
	if scale != 1 {
		display = imageutil.Scale(frame, scale, imageutil.InterpolationLanczos)
	}
	mat, err := imgproc.MatFromImage(display)
	if err != nil {
		return image.Rectangle{}, err
	}
	defer mat.Close()

	r := window.SelectROI(mat)
	if r.Empty() {
		return frame.Bounds(), nil
	}
	return imageutil.ClipROI(imageutil.ScaleRect(r, 1/scale), frame.Bounds()), nil
}
