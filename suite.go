package filtergen

import (
	"context"
	"errors"

	"github.com/hupe1980/filtergen/manifest"
	"github.com/hupe1980/filtergen/model"
	"golang.org/x/sync/errgroup"
)

// Suite is a set of independent corpora generated together.
type Suite struct {
	Vectors   []VectorCorpus `yaml:"vectors,omitempty" json:"vectors,omitempty"`
	KeyValues []KVCorpus     `yaml:"kv,omitempty" json:"kv,omitempty"`
}

// Len returns the number of corpora.
func (s Suite) Len() int { return len(s.Vectors) + len(s.KeyValues) }

// WithDefaults fills unset fields of every corpus.
func (s Suite) WithDefaults() Suite {
	out := Suite{
		Vectors:   make([]VectorCorpus, len(s.Vectors)),
		KeyValues: make([]KVCorpus, len(s.KeyValues)),
	}
	for i, c := range s.Vectors {
		out.Vectors[i] = c.WithDefaults()
	}
	for i, c := range s.KeyValues {
		out.KeyValues[i] = c.WithDefaults()
	}
	return out
}

// Validate checks every corpus after WithDefaults, plus that no two corpora
// share a name or an output file.
func (s Suite) Validate() error {
	names := make(map[string]bool, s.Len())
	files := make(map[string]bool, 2*s.Len())

	claim := func(name string, fileNames ...string) error {
		if names[name] {
			return model.NewParameterError("name", name, "is used by more than one corpus")
		}
		names[name] = true
		for _, f := range fileNames {
			if files[f] {
				return model.NewParameterError("file", f, "is written by more than one corpus")
			}
			files[f] = true
		}
		return nil
	}

	for _, c := range s.Vectors {
		if err := c.Validate(); err != nil {
			return &CorpusError{Corpus: c.Name, Err: err}
		}
		if err := claim(c.Name, c.DataFile, c.QueryFile); err != nil {
			return err
		}
	}
	for _, c := range s.KeyValues {
		if err := c.Validate(); err != nil {
			return &CorpusError{Corpus: c.Name, Err: err}
		}
		if err := claim(c.Name, c.File); err != nil {
			return err
		}
	}
	return nil
}

// Run generates every corpus of s, up to the configured parallelism at a
// time. All corpora are validated before the first file is created.
//
// A failing corpus does not stop the others. The returned slice holds one
// manifest per corpus, vectors first, in suite order; entries of failed
// corpora are nil and their errors are joined into the returned error.
func (g *Generator) Run(ctx context.Context, s Suite) ([]*manifest.Manifest, error) {
	s = s.WithDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	runID := g.newRunID()
	log := g.opts.logger.WithRunID(runID)
	start := g.opts.clock()

	results := make([]*manifest.Manifest, s.Len())
	errs := make([]error, s.Len())

	var eg errgroup.Group
	eg.SetLimit(g.opts.parallelism)

	job := func(i int, name string, fn func() (*manifest.Manifest, error)) {
		eg.Go(func() error {
			if err := g.controller.AcquireJob(ctx); err != nil {
				errs[i] = &CorpusError{Corpus: name, Err: err}
				return nil
			}
			defer g.controller.ReleaseJob()

			m, err := fn()
			if err != nil {
				errs[i] = &CorpusError{Corpus: name, Err: err}
				return nil
			}
			results[i] = m
			return nil
		})
	}

	for i, c := range s.Vectors {
		job(i, c.Name, func() (*manifest.Manifest, error) {
			return g.generateVectors(ctx, c, runID)
		})
	}
	offset := len(s.Vectors)
	for i, c := range s.KeyValues {
		job(offset+i, c.Name, func() (*manifest.Manifest, error) {
			return g.generateKeyValues(ctx, c, runID)
		})
	}

	_ = eg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	log.LogSuite(ctx, s.Len(), failed, g.opts.clock().Sub(start))

	return results, errors.Join(errs...)
}
