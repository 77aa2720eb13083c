package imageutil

import (
	"math"
	"strings"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// DistanceMetric selects the distance used by DistanceField. The values
// match OpenCV's DIST_L1, DIST_L2 and DIST_C.
type DistanceMetric int

const (
	// DistL1 is the city-block distance |dx| + |dy|.
	DistL1 DistanceMetric = 1
	// DistL2 is the Euclidean distance.
	DistL2 DistanceMetric = 2
	// DistC is the chessboard distance max(|dx|, |dy|).
	DistC DistanceMetric = 3
)

// MaskPrecise requests an exact Euclidean transform instead of a chamfer
// approximation. It is only meaningful with DistL2.
const MaskPrecise = 0

func (m DistanceMetric) String() string {
	switch m {
	case DistL1:
		return "l1"
	case DistL2:
		return "l2"
	case DistC:
		return "c"
	default:
		return "unknown"
	}
}

// ParseDistanceMetric parses "l1", "l2" or "c" (case-insensitive).
func ParseDistanceMetric(s string) (DistanceMetric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "l1":
		return DistL1, nil
	case "l2":
		return DistL2, nil
	case "c":
		return DistC, nil
	}
	return 0, errors.Wrapf(ErrInvalidParameter, "unsupported distance metric %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m DistanceMetric) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *DistanceMetric) UnmarshalText(text []byte) error {
	parsed, err := ParseDistanceMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// DistanceParams configures the distance field engine.
type DistanceParams struct {
	// LowThreshold is the binarization threshold applied to the edge map.
	// Edge pixels brighter than it become zero-distance seeds.
	LowThreshold int `toml:"low_threshold" yaml:"low_threshold"`
	// HighThreshold is the value given to non-seed pixels of the mask.
	HighThreshold int            `toml:"high_threshold" yaml:"high_threshold"`
	Metric        DistanceMetric `toml:"metric" yaml:"metric"`
	// MaskSize is 3, 5 or MaskPrecise.
	MaskSize int `toml:"mask_size" yaml:"mask_size"`
	// Edges drives the internal edge detection pass.
	Edges EdgeParams `toml:"edges" yaml:"edges"`
}

// DefaultDistanceParams returns thresholds 100/255, the city-block metric
// with a 3x3 mask and the default edge parameters.
func DefaultDistanceParams() DistanceParams {
	return DistanceParams{
		LowThreshold:  100,
		HighThreshold: 255,
		Metric:        DistL1,
		MaskSize:      3,
		Edges:         DefaultEdgeParams(),
	}
}

// AverageDistanceParams returns the distance stage of AverageFilter:
// thresholds 0/255, Euclidean metric, 3x3 mask.
func AverageDistanceParams() DistanceParams {
	return DistanceParams{
		LowThreshold:  0,
		HighThreshold: 255,
		Metric:        DistL2,
		MaskSize:      3,
		Edges:         DefaultEdgeParams(),
	}
}

// Validate reports whether p can drive DistanceTransform.
func (p DistanceParams) Validate() error {
	if p.LowThreshold < 0 || p.LowThreshold > 255 || p.HighThreshold < 0 || p.HighThreshold > 255 {
		return errors.Wrapf(ErrInvalidParameter,
			"distance thresholds must be within [0, 255], got %d/%d", p.LowThreshold, p.HighThreshold)
	}
	if _, err := chamferSteps(p.Metric, p.MaskSize); err != nil {
		return err
	}
	return p.Edges.Validate()
}

// Threshold binarizes gray: pixels above thresh become maxval and the rest
// 0. With inverted set the polarity flips.
func Threshold(gray *GrayImage, thresh, maxval uint8, inverted bool) *GrayImage {
	width, height := gray.Width(), gray.Height()
	dst := NewGrayImage(width, height)
	hi, lo := maxval, uint8(0)
	if inverted {
		hi, lo = lo, hi
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if gray.GrayAt(gray.Rect.Min.X+x, gray.Rect.Min.Y+y).Y > thresh {
				dst.Pix[y*dst.Stride+x] = hi
			} else {
				dst.Pix[y*dst.Stride+x] = lo
			}
		}
	}
	return dst
}

// DistanceTransform computes the distance-to-nearest-edge field of src.
//
// The image is converted to grayscale and run through the edge map builder
// over its full extent, whatever ROI the caller works with. The edge map is
// binarized with inverted polarity, so edge pixels brighter than
// p.LowThreshold become zero-distance seeds and everything else becomes
// p.HighThreshold. The distance of every pixel to the nearest seed is
// rounded and saturated to 8 bits.
func DistanceTransform(src *RGBAImage, p DistanceParams) (*GrayImage, error) {
	if err := checkImage(src.Bounds()); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	gray := ToGrayscale(src)
	edges, err := DetectEdgesGray(gray, gray.Bounds(), p.Edges)
	if err != nil {
		return nil, errors.Wrap(err, "edge pass")
	}
	mask := Threshold(edges, uint8(p.LowThreshold), uint8(p.HighThreshold), true)
	field, err := DistanceField(mask, p.Metric, p.MaskSize)
	if err != nil {
		return nil, err
	}
	return field.ToGray(), nil
}

// DistanceField computes, for every nonzero pixel of mask, the distance to
// the nearest zero pixel. Zero pixels get 0. If mask has no zero pixel
// every cell is +Inf.
//
// maskSize must be 3, 5 or MaskPrecise. DistL1 and DistC always run with
// the 3x3 mask. DistL2 uses 3 and 5 for the chamfer approximations and
// MaskPrecise for the exact transform.
func DistanceField(mask *GrayImage, metric DistanceMetric, maskSize int) (*FloatImage, error) {
	if err := checkImage(mask.Bounds()); err != nil {
		return nil, err
	}
	if metric == DistL2 && maskSize == MaskPrecise {
		return euclideanField(mask), nil
	}
	steps, err := chamferSteps(metric, maskSize)
	if err != nil {
		return nil, err
	}
	return chamferField(mask, steps), nil
}

// ToGray rounds every distance to the nearest integer and saturates it to
// [0, 255].
func (f *FloatImage) ToGray() *GrayImage {
	gray := NewGrayImage(f.Width, f.Height)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			v := f.Pix[y*f.Width+x]
			var out uint8
			switch {
			case math32.IsInf(v, 1) || v >= 255:
				out = 255
			case v > 0:
				out = uint8(math32.Floor(v + 0.5))
			}
			gray.Pix[y*gray.Stride+x] = out
		}
	}
	return gray
}

type chamferStep struct {
	dx, dy int
	w      float32
}

// chamferSteps returns the forward half of the chamfer mask; the backward
// pass mirrors it.
func chamferSteps(metric DistanceMetric, maskSize int) ([]chamferStep, error) {
	if maskSize != 3 && maskSize != 5 && maskSize != MaskPrecise {
		return nil, errors.Wrapf(ErrInvalidParameter, "distance mask size must be 3, 5 or 0, got %d", maskSize)
	}
	var a, b, c float32
	switch metric {
	case DistL1:
		// L1 and C are exact with the 3x3 mask.
		a, b = 1, 2
		maskSize = 3
	case DistC:
		a, b = 1, 1
		maskSize = 3
	case DistL2:
		switch maskSize {
		case 3:
			a, b = 0.955, 1.3693
		case 5:
			a, b, c = 1, 1.4, 2.1969
		default:
			return nil, nil
		}
	default:
		return nil, errors.Wrapf(ErrInvalidParameter, "unsupported distance metric %d", int(metric))
	}

	steps := []chamferStep{
		{-1, 0, a},
		{-1, -1, b},
		{0, -1, a},
		{1, -1, b},
	}
	if maskSize == 5 {
		steps = append(steps,
			chamferStep{-2, -1, c},
			chamferStep{-1, -2, c},
			chamferStep{1, -2, c},
			chamferStep{2, -1, c},
		)
	}
	return steps, nil
}

// chamferField runs the classic two-pass chamfer propagation.
func chamferField(mask *GrayImage, steps []chamferStep) *FloatImage {
	width, height := mask.Width(), mask.Height()
	field := NewFloatImage(width, height)
	inf := math32.Inf(1)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask.Pix[y*mask.Stride+x] != 0 {
				field.Set(x, y, inf)
			}
		}
	}

	relax := func(x, y, sign int) {
		best := field.At(x, y)
		if best == 0 {
			return
		}
		for _, s := range steps {
			nx, ny := x+sign*s.dx, y+sign*s.dy
			if nx < 0 || ny < 0 || nx >= width || ny >= height {
				continue
			}
			if v := field.At(nx, ny) + s.w; v < best {
				best = v
			}
		}
		field.Set(x, y, best)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			relax(x, y, 1)
		}
	}
	for y := height - 1; y >= 0; y-- {
		for x := width - 1; x >= 0; x-- {
			relax(x, y, -1)
		}
	}
	return field
}

// euclideanField computes the exact Euclidean distance transform with the
// separable lower-envelope algorithm of Felzenszwalb and Huttenlocher.
func euclideanField(mask *GrayImage) *FloatImage {
	width, height := mask.Width(), mask.Height()

	// A finite stand-in for infinity keeps the parabola intersections
	// well defined. It exceeds any squared distance inside the image.
	far := float64(4*(width+height)*(width+height) + 1)

	n := max(width, height)
	f := make([]float64, n)
	d := make([]float64, n)
	v := make([]int, n)
	z := make([]float64, n+1)

	sq := make([]float64, width*height)
	for i := range sq {
		sq[i] = far
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask.Pix[y*mask.Stride+x] == 0 {
				sq[y*width+x] = 0
			}
		}
	}

	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			f[y] = sq[y*width+x]
		}
		transform1D(f[:height], d[:height], v, z)
		for y := 0; y < height; y++ {
			sq[y*width+x] = d[y]
		}
	}
	for y := 0; y < height; y++ {
		copy(f[:width], sq[y*width:(y+1)*width])
		transform1D(f[:width], d[:width], v, z)
		copy(sq[y*width:(y+1)*width], d[:width])
	}

	field := NewFloatImage(width, height)
	for i, s := range sq {
		if s >= far {
			field.Pix[i] = math32.Inf(1)
		} else {
			field.Pix[i] = float32(math.Sqrt(s))
		}
	}
	return field
}

// transform1D computes the squared distance transform of f into d.
func transform1D(f, d []float64, v []int, z []float64) {
	n := len(f)
	if n == 0 {
		return
	}
	k := 0
	v[0] = 0
	z[0] = math.Inf(-1)
	z[1] = math.Inf(1)
	intersect := func(q, p int) float64 {
		return ((f[q] + float64(q*q)) - (f[p] + float64(p*p))) / float64(2*q-2*p)
	}
	for q := 1; q < n; q++ {
		s := intersect(q, v[k])
		// z[0] is -Inf, so the scan always stops at k == 0.
		for s <= z[k] {
			k--
			s = intersect(q, v[k])
		}
		k++
		v[k] = q
		z[k] = s
		z[k+1] = math.Inf(1)
	}

	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		p := v[k]
		d[q] = float64((q-p)*(q-p)) + f[p]
	}
}
