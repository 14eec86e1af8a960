package filtergen

import (
	"regexp"

	"github.com/hupe1980/filtergen/kv"
	"github.com/hupe1980/filtergen/model"
	"github.com/hupe1980/filtergen/sampler"
	"github.com/hupe1980/filtergen/selectivity"
)

// Distribution names accepted by ScalarSpec.
const (
	DistUniform   = "uniform"
	DistNormal    = "normal"
	DistLogNormal = "lognormal"
)

// Defaults for VectorCorpus fields left unset.
const (
	DefaultRecords    = 10000
	DefaultDim        = 4
	DefaultQueries    = 10
	DefaultO          = 1000
	DefaultProportion = 0.01
	DefaultWidth      = 0.1
	DefaultDataFile   = "_data.csv"
	DefaultQueryFile  = "_queries.csv"
)

var (
	// DefaultVectorRange bounds vector coordinates.
	DefaultVectorRange = model.Range{Lo: 0, Hi: 10}
	// DefaultScalarRange bounds uniform scalars.
	DefaultScalarRange = model.Range{Lo: 0, Hi: 100}
	// DefaultK bounds the k column of queries.
	DefaultK = model.IntRange{Lo: 1, Hi: 10}
)

var corpusNameRE = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ScalarSpec describes the generating distribution of the scalar field.
//
// For lognormal, Mean and Variance parameterize the underlying normal.
type ScalarSpec struct {
	Distribution string       `yaml:"distribution" json:"distribution"`
	Range        *model.Range `yaml:"range,omitempty" json:"range,omitempty"`
	Mean         float64      `yaml:"mean,omitempty" json:"mean,omitempty"`
	Variance     float64      `yaml:"variance,omitempty" json:"variance,omitempty"`
}

// Build returns the sampler distribution.
func (s ScalarSpec) Build() (sampler.Distribution, error) {
	var d sampler.Distribution
	switch s.Distribution {
	case DistUniform:
		if s.Range == nil {
			return nil, model.NewParameterError("scalar.range", nil, "is required for uniform scalars")
		}
		d = sampler.Uniform{Lo: s.Range.Lo, Hi: s.Range.Hi}
	case DistNormal:
		d = sampler.NewNormal(s.Mean, s.Variance)
	case DistLogNormal:
		d = sampler.LogNormal{Mu: s.Mean, Sigma2: s.Variance}
	default:
		return nil, model.NewParameterError("scalar.distribution", s.Distribution, "unknown distribution")
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

// WindowSpec describes how query windows [Smin, Smax] are chosen.
type WindowSpec struct {
	Policy string `yaml:"policy" json:"policy"`
	// Range bounds fixed-width and half-split windows. Defaults to the
	// scalar range of a uniform scalar.
	Range *model.Range `yaml:"range,omitempty" json:"range,omitempty"`
	// Width is the fixed-width window width.
	Width *float64 `yaml:"width,omitempty" json:"width,omitempty"`
	// Jitter is the fixed-width jitter as a fraction of Width.
	Jitter *float64 `yaml:"jitter,omitempty" json:"jitter,omitempty"`
	// Proportion is the target selectivity p of the analytic policy.
	Proportion *float64 `yaml:"p,omitempty" json:"p,omitempty"`
}

// Build returns the window policy for a scalar distribution.
func (w WindowSpec) Build(scalar sampler.Distribution) (selectivity.Policy, error) {
	switch w.Policy {
	case selectivity.PolicyAnalytic:
		solver, err := selectivity.For(scalar)
		if err != nil {
			return nil, err
		}
		if w.Proportion == nil {
			return nil, model.NewParameterError("window.p", nil, "is required for analytic windows")
		}
		return selectivity.NewAnalytic(solver, *w.Proportion)
	case selectivity.PolicyFixedWidth:
		if w.Range == nil {
			return nil, model.NewParameterError("window.range", nil, "is required for non-uniform scalars")
		}
		if w.Width == nil {
			return nil, model.NewParameterError("window.width", nil, "is required for fixed-width windows")
		}
		return selectivity.NewFixedWidth(*w.Range, *w.Width, model.Deref(w.Jitter, selectivity.DefaultJitter))
	case selectivity.PolicyHalfSplit:
		if w.Range == nil {
			return nil, model.NewParameterError("window.range", nil, "is required for non-uniform scalars")
		}
		return selectivity.NewHalfSplit(*w.Range)
	default:
		return nil, model.NewParameterError("window.policy", w.Policy, "unknown policy")
	}
}

// VectorCorpus describes one data file plus its query file.
type VectorCorpus struct {
	Name        string          `yaml:"name" json:"name"`
	Seed        int64           `yaml:"seed" json:"seed"`
	Records     *int            `yaml:"records,omitempty" json:"records,omitempty"`
	Dim         *int            `yaml:"dim,omitempty" json:"dim,omitempty"`
	Queries     *int            `yaml:"queries,omitempty" json:"queries,omitempty"`
	VectorRange *model.Range    `yaml:"vector_range,omitempty" json:"vector_range,omitempty"`
	Scalar      ScalarSpec      `yaml:"scalar" json:"scalar"`
	Window      WindowSpec      `yaml:"window" json:"window"`
	K           *model.IntRange `yaml:"k,omitempty" json:"k,omitempty"`
	O           *int64          `yaml:"o,omitempty" json:"o,omitempty"`
	DataFile    string          `yaml:"data_file,omitempty" json:"data_file,omitempty"`
	QueryFile   string          `yaml:"query_file,omitempty" json:"query_file,omitempty"`
}

// WithDefaults fills nil fields. Values that are set, zero included, are
// kept so Validate can reject them.
func (c VectorCorpus) WithDefaults() VectorCorpus {
	if c.Records == nil {
		c.Records = model.Ptr(DefaultRecords)
	}
	if c.Dim == nil {
		c.Dim = model.Ptr(DefaultDim)
	}
	if c.Queries == nil {
		c.Queries = model.Ptr(DefaultQueries)
	}
	if c.VectorRange == nil {
		r := DefaultVectorRange
		c.VectorRange = &r
	}
	if c.Scalar.Distribution == "" {
		c.Scalar.Distribution = DistUniform
	}
	if c.Scalar.Distribution == DistUniform && c.Scalar.Range == nil {
		r := DefaultScalarRange
		c.Scalar.Range = &r
	}
	if c.Window.Policy == "" {
		if c.Scalar.Distribution == DistUniform {
			c.Window.Policy = selectivity.PolicyHalfSplit
		} else {
			c.Window.Policy = selectivity.PolicyAnalytic
		}
	}
	switch c.Window.Policy {
	case selectivity.PolicyAnalytic:
		if c.Window.Proportion == nil {
			c.Window.Proportion = model.Ptr(DefaultProportion)
		}
	case selectivity.PolicyFixedWidth:
		if c.Window.Width == nil {
			c.Window.Width = model.Ptr(DefaultWidth)
		}
		fallthrough
	case selectivity.PolicyHalfSplit:
		if c.Window.Range == nil && c.Scalar.Distribution == DistUniform && c.Scalar.Range != nil {
			r := *c.Scalar.Range
			c.Window.Range = &r
		}
	}
	if c.K == nil {
		k := DefaultK
		c.K = &k
	}
	if c.O == nil {
		o := int64(DefaultO)
		c.O = &o
	}
	if c.DataFile == "" {
		c.DataFile = c.Name + DefaultDataFile
	}
	if c.QueryFile == "" {
		c.QueryFile = c.Name + DefaultQueryFile
	}
	return c
}

// Validate checks a corpus after WithDefaults without touching any file.
func (c VectorCorpus) Validate() error {
	_, _, err := c.build()
	return err
}

func (c VectorCorpus) build() (*sampler.Sampler, selectivity.Policy, error) {
	if err := validateName(c.Name); err != nil {
		return nil, nil, err
	}
	if err := positive("records", c.Records); err != nil {
		return nil, nil, err
	}
	if err := positive("dim", c.Dim); err != nil {
		return nil, nil, err
	}
	if err := positive("queries", c.Queries); err != nil {
		return nil, nil, err
	}
	if c.VectorRange == nil {
		return nil, nil, model.NewParameterError("vector_range", nil, "is required")
	}
	if c.K == nil {
		return nil, nil, model.NewParameterError("k", nil, "is required")
	}
	if c.O == nil {
		return nil, nil, model.NewParameterError("o", nil, "is required")
	}
	if err := c.K.Validate("k"); err != nil {
		return nil, nil, err
	}
	if c.K.Lo < 1 {
		return nil, nil, model.NewParameterError("k", *c.K, "must be at least 1")
	}
	if err := validateFileNames(c.DataFile, c.QueryFile); err != nil {
		return nil, nil, err
	}

	scalar, err := c.Scalar.Build()
	if err != nil {
		return nil, nil, err
	}
	s, err := sampler.New(sampler.Config{Dim: *c.Dim, VectorRange: *c.VectorRange, Scalar: scalar})
	if err != nil {
		return nil, nil, err
	}
	policy, err := c.Window.Build(scalar)
	if err != nil {
		return nil, nil, err
	}
	return s, policy, nil
}

// KVCorpus describes one key-value dump.
type KVCorpus struct {
	Name      string `yaml:"name" json:"name"`
	Seed      int64  `yaml:"seed" json:"seed"`
	File      string `yaml:"file,omitempty" json:"file,omitempty"`
	kv.Config `yaml:",inline" json:",inline"`
}

// WithDefaults fills unset fields.
func (c KVCorpus) WithDefaults() KVCorpus {
	c.Config = c.Config.WithDefaults()
	if c.File == "" {
		c.File = c.Name + ".txt"
	}
	return c
}

// Validate checks a corpus after WithDefaults.
func (c KVCorpus) Validate() error {
	if err := validateName(c.Name); err != nil {
		return err
	}
	if err := validateFileNames(c.File); err != nil {
		return err
	}
	return c.Config.Validate()
}

func positive(field string, n *int) error {
	if n == nil {
		return model.NewParameterError(field, nil, "is required")
	}
	if *n <= 0 {
		return model.NewParameterError(field, *n, "must be positive")
	}
	return nil
}

func validateName(name string) error {
	if !corpusNameRE.MatchString(name) {
		return model.NewParameterError("name", name, "must be a non-empty file-name-safe identifier")
	}
	return nil
}

func validateFileNames(names ...string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return model.NewParameterError("file", n, "must not be empty")
		}
		if seen[n] {
			return model.NewParameterError("file", n, "is used twice")
		}
		seen[n] = true
	}
	return nil
}
