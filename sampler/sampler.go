package sampler

import (
	"github.com/hupe1980/filtergen/model"
)

// Config describes the shape of the records a Sampler draws.
type Config struct {
	// Dim is the vector dimensionality D.
	Dim int
	// VectorRange bounds every vector coordinate.
	VectorRange model.Range
	// Scalar is the generating distribution of the scalar field.
	Scalar Distribution
}

// Validate checks the configuration without drawing any values.
func (c Config) Validate() error {
	if c.Dim <= 0 {
		return model.NewParameterError("dim", c.Dim, "must be positive")
	}
	if err := c.VectorRange.Validate("vector_range"); err != nil {
		return err
	}
	if c.Scalar == nil {
		return model.NewParameterError("scalar", nil, "distribution is required")
	}
	return c.Scalar.Validate()
}

// Sampler draws independent records. It holds no random state of its own;
// every call takes the RNG to draw from.
type Sampler struct {
	cfg Config
}

// New creates a Sampler after validating cfg.
func New(cfg Config) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sampler{cfg: cfg}, nil
}

// Dim returns the configured dimensionality.
func (s *Sampler) Dim() int { return s.cfg.Dim }

// Scalar returns the scalar distribution.
func (s *Sampler) Scalar() Distribution { return s.cfg.Scalar }

// VectorRange returns the coordinate range.
func (s *Sampler) VectorRange() model.Range { return s.cfg.VectorRange }

// Vector draws a vector of Dim uniform coordinates.
func (s *Sampler) Vector(r *RNG) []float64 {
	v := make([]float64, s.cfg.Dim)
	r.FillUniform(v, s.cfg.VectorRange.Lo, s.cfg.VectorRange.Hi)
	return v
}

// Records draws n records, each a vector followed by its scalar. Uses a
// single backing array for the vectors. Splitting a draw into several
// batches yields the same stream.
func (s *Sampler) Records(r *RNG, n int) []model.Record {
	dim := s.cfg.Dim
	data := make([]float64, n*dim)
	out := make([]model.Record, n)

	for i := range n {
		vec := data[i*dim : (i+1)*dim]
		r.FillUniform(vec, s.cfg.VectorRange.Lo, s.cfg.VectorRange.Hi)
		out[i] = model.Record{Vector: vec, Scalar: s.cfg.Scalar.Sample(r)}
	}

	return out
}
