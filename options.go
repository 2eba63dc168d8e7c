package ugolnik

import (
	"io"
	"os"

	"github.com/adfgl/3Ugolnik-sub000/internal/mesh"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultEpsilon is the merge tolerance relative to the input's largest
	// extent.
	DefaultEpsilon = 1e-9

	DefaultCurveSegments = 16
)

// Options controls cleanup and refinement. The zero value of any quality
// field leaves that bound unenforced; with all of them zero the result is a
// plain constrained Delaunay triangulation.
type Options struct {
	MaxArea  float64 `yaml:"max_area"`
	MaxEdge  float64 `yaml:"max_edge"`
	MinAngle float64 `yaml:"min_angle"` // degrees
	// MaxRatio bounds circumradius² / shortest edge² directly and takes
	// precedence over MinAngle.
	MaxRatio   float64 `yaml:"max_ratio"`
	MaxSteiner int     `yaml:"max_steiner"`

	Epsilon          float64 `yaml:"epsilon"`
	QuadtreeCapacity int     `yaml:"quadtree_capacity"`
	QuadtreeDepth    int     `yaml:"quadtree_depth"`
	CurveSegments    int     `yaml:"curve_segments"`

	// DumpOnFailure names a PNG file the mesh is drawn to when a topology
	// invariant breaks.
	DumpOnFailure string `yaml:"dump_on_failure"`

	Logger *zap.Logger `yaml:"-"`
}

func DefaultOptions() Options {
	return Options{
		Epsilon:       DefaultEpsilon,
		CurveSegments: DefaultCurveSegments,
	}
}

// LoadOptions decodes YAML on top of DefaultOptions. Unknown keys are an
// error.
func LoadOptions(r io.Reader) (Options, error) {
	opts := DefaultOptions()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && err != io.EOF {
		return Options{}, errors.Wrap(err, "decoding options")
	}
	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func LoadOptionsFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, errors.Wrap(err, "opening options")
	}
	defer f.Close()
	opts, err := LoadOptions(f)
	return opts, errors.Wrapf(err, "loading %s", path)
}

func (o Options) Validate() error {
	switch {
	case o.MaxArea < 0:
		return errors.Errorf("max_area must not be negative, got %v", o.MaxArea)
	case o.MaxEdge < 0:
		return errors.Errorf("max_edge must not be negative, got %v", o.MaxEdge)
	case o.MinAngle < 0 || o.MinAngle >= 60:
		return errors.Errorf("min_angle must be in [0, 60), got %v", o.MinAngle)
	case o.MaxRatio < 0:
		return errors.Errorf("max_ratio must not be negative, got %v", o.MaxRatio)
	case o.MaxSteiner < 0:
		return errors.Errorf("max_steiner must not be negative, got %v", o.MaxSteiner)
	case o.Epsilon < 0:
		return errors.Errorf("epsilon must not be negative, got %v", o.Epsilon)
	}
	return nil
}

func (o Options) quality() mesh.Quality {
	q := mesh.Quality{
		MaxArea:    o.MaxArea,
		MaxEdge:    o.MaxEdge,
		MaxRatio:   o.MaxRatio,
		MaxSteiner: o.MaxSteiner,
	}
	if q.MaxRatio == 0 && o.MinAngle > 0 {
		q.MaxRatio = mesh.RatioForAngle(o.MinAngle)
	}
	return q
}
