package imgproc

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/wbrown/imgproc/imageutil"
)

// Operation names one transform of the sandbox.
type Operation string

const (
	OpGray     Operation = "gray"   // grayscale inside the ROI
	OpMedian   Operation = "median" // median filter inside the ROI
	OpEdges    Operation = "edges"  // edge map of the ROI
	OpPixelize Operation = "pix"    // pixelize the ROI
	OpDistance Operation = "dist"   // distance-to-edge display, full frame
	OpAverage  Operation = "aver"   // distance-driven box average, full frame
	OpConvolve Operation = "conv"   // kernel convolution, full frame
)

var operations = []Operation{
	OpGray, OpMedian, OpEdges, OpPixelize, OpDistance, OpAverage, OpConvolve,
}

var descriptions = map[Operation]string{
	OpGray:     "convert image to gray scale",
	OpMedian:   "apply median filter",
	OpEdges:    "detect edges",
	OpPixelize: "pixelize",
	OpDistance: "distance transform",
	OpAverage:  "average filter",
	OpConvolve: "convolution",
}

// Operations returns every operation in display order.
func Operations() []Operation {
	return append([]Operation(nil), operations...)
}

// ParseOperation resolves a name such as "median" or "PIX".
func ParseOperation(s string) (Operation, error) {
	op := Operation(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := descriptions[op]; !ok {
		return "", errors.Wrapf(imageutil.ErrInvalidParameter, "unknown operation %q", s)
	}
	return op, nil
}

func (op Operation) String() string {
	return string(op)
}

// Description is the one-line help text for op.
func (op Operation) Description() string {
	return descriptions[op]
}

// UsesROI reports whether op honours a region of interest. The distance,
// average and convolution operations always work on the full frame.
func (op Operation) UsesROI() bool {
	switch op {
	case OpDistance, OpAverage, OpConvolve:
		return false
	}
	return true
}
