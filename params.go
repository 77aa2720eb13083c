package imgproc

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/wbrown/imgproc/imageutil"
	"gopkg.in/yaml.v3"
)

// Params holds the tunables of every operation. The zero value is not
// useful; start from DefaultParams.
type Params struct {
	// MedianSize is the odd median window side.
	MedianSize int `toml:"median_size" yaml:"median_size"`
	// Edges drives OpEdges.
	Edges imageutil.EdgeParams `toml:"edges" yaml:"edges"`
	// PixelDivisions is the grid count per ROI side for OpPixelize.
	PixelDivisions int `toml:"pixel_divisions" yaml:"pixel_divisions"`
	// Distance drives OpDistance.
	Distance imageutil.DistanceParams `toml:"distance" yaml:"distance"`
	// Average is the distance stage of OpAverage.
	Average imageutil.DistanceParams `toml:"average" yaml:"average"`
	// Kernel is the OpConvolve matrix, rows of odd length.
	Kernel [][]int `toml:"kernel" yaml:"kernel"`
}

// DefaultParams returns the demo settings: median 5, edges 5/200/3/5,
// 10 pixel divisions, distance 100/255 city-block with a 3x3 mask and the
// sharpen kernel.
func DefaultParams() Params {
	return Params{
		MedianSize:     5,
		Edges:          imageutil.DefaultEdgeParams(),
		PixelDivisions: 10,
		Distance:       imageutil.DefaultDistanceParams(),
		Average:        imageutil.AverageDistanceParams(),
		Kernel:         imageutil.SharpenKernel().Values,
	}
}

// Validate checks every field, so a bad preset fails at load time rather
// than on the first frame.
func (p Params) Validate() error {
	if p.MedianSize < 1 || p.MedianSize%2 == 0 {
		return errors.Wrapf(imageutil.ErrInvalidParameter, "median_size must be odd and >= 1, got %d", p.MedianSize)
	}
	if err := p.Edges.Validate(); err != nil {
		return errors.Wrap(err, "edges")
	}
	if p.PixelDivisions < 1 {
		return errors.Wrapf(imageutil.ErrInvalidParameter, "pixel_divisions must be >= 1, got %d", p.PixelDivisions)
	}
	if err := p.Distance.Validate(); err != nil {
		return errors.Wrap(err, "distance")
	}
	if err := p.Average.Validate(); err != nil {
		return errors.Wrap(err, "average")
	}
	if _, err := imageutil.NewKernel(p.Kernel); err != nil {
		return errors.Wrap(err, "kernel")
	}
	return nil
}

// LoadParams reads a preset file on top of DefaultParams. The format
// follows the extension: .toml, or .yaml/.yml. Fields absent from the file
// keep their defaults; unknown fields are an error.
func LoadParams(path string) (Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return Params{}, errors.Wrap(err, "failed to open preset")
	}
	defer f.Close()

	p, err := DecodeParams(f, strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."))
	if err != nil {
		return Params{}, errors.Wrapf(err, "preset %s", path)
	}
	return p, nil
}

// DecodeParams reads a preset in the named format ("toml", "yaml" or
// "yml") on top of DefaultParams and validates the result.
func DecodeParams(r io.Reader, format string) (Params, error) {
	p := DefaultParams()
	switch format {
	case "toml":
		md, err := toml.NewDecoder(r).Decode(&p)
		if err != nil {
			return Params{}, errors.Wrap(err, "failed to decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Params{}, errors.Wrapf(imageutil.ErrInvalidParameter, "unknown keys %v", undecoded)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
			return Params{}, errors.Wrap(err, "failed to decode yaml")
		}
	default:
		return Params{}, errors.Wrapf(imageutil.ErrInvalidParameter, "unsupported preset format %q", format)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}
