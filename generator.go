package filtergen

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/hupe1980/filtergen/blobstore"
	"github.com/hupe1980/filtergen/dataset"
	"github.com/hupe1980/filtergen/internal/compress"
	"github.com/hupe1980/filtergen/internal/hash"
	"github.com/hupe1980/filtergen/internal/resource"
	"github.com/hupe1980/filtergen/kv"
	"github.com/hupe1980/filtergen/manifest"
	"github.com/hupe1980/filtergen/model"
	"github.com/hupe1980/filtergen/sampler"
	"github.com/hupe1980/filtergen/selectivity"
)

// checkEvery is the number of rows between context checks.
const checkEvery = 1024

// Generator writes corpora to a blob store.
// It is safe for concurrent use; every corpus uses its own RNG.
type Generator struct {
	store      blobstore.Store
	opts       options
	committer  manifest.Committer
	controller *resource.Controller
}

// New creates a Generator writing to store.
func New(store blobstore.Store, optFns ...Option) *Generator {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var committer manifest.Committer
	switch {
	case opts.noManifests:
	case opts.committer != nil:
		committer = opts.committer
	default:
		committer = manifest.NewBlobCommitter(store, opts.codec)
	}

	return &Generator{
		store:     store,
		opts:      opts,
		committer: committer,
		controller: resource.NewController(resource.Config{
			MaxJobs:            int64(opts.parallelism),
			IOLimitBytesPerSec: opts.ioLimit,
		}),
	}
}

// Store returns the output store.
func (g *Generator) Store() blobstore.Store { return g.store }

// FileName returns the stored name of a file, including the compression
// extension.
func (g *Generator) FileName(name string) string {
	return name + g.opts.compression.Ext()
}

func (g *Generator) newRunID() string {
	if g.opts.runID != "" {
		return g.opts.runID
	}
	return manifest.NewRunID()
}

// GenerateVectors writes the data and query files of c and commits its
// manifest. Unset fields take their defaults.
//
// All records are drawn before any query; each query draws its vector,
// then k, then its window. Equal corpora produce byte-identical files.
func (g *Generator) GenerateVectors(ctx context.Context, c VectorCorpus) (*manifest.Manifest, error) {
	return g.generateVectors(ctx, c.WithDefaults(), g.newRunID())
}

func (g *Generator) generateVectors(ctx context.Context, c VectorCorpus, runID string) (m *manifest.Manifest, err error) {
	s, policy, err := c.build()
	if err != nil {
		return nil, err
	}

	log := g.opts.logger.WithCorpus(c.Name).WithRunID(runID)
	start := g.opts.clock()

	var rows, bytes int64
	defer func() {
		d := g.opts.clock().Sub(start)
		g.opts.metricsCollector.RecordCorpus(string(manifest.KindVectors), rows, bytes, d, err)
		log.LogCorpus(ctx, string(manifest.KindVectors), rows, d, err)
	}()

	rng := sampler.NewRNG(c.Seed)

	dataFile, err := g.writeFile(ctx, log, c.DataFile, manifest.RoleData, func(w io.Writer) (int64, error) {
		return writeRecords(ctx, w, s, rng, *c.Records, g.opts.format)
	})
	if err != nil {
		return nil, err
	}

	k := *c.K
	o := *c.O
	queryFile, err := g.writeFile(ctx, log, c.QueryFile, manifest.RoleQueries, func(w io.Writer) (int64, error) {
		return writeQueries(ctx, w, s, policy, rng, *c.Queries, k, o, g.opts.format)
	})
	if err != nil {
		return nil, err
	}

	rows = dataFile.Rows + queryFile.Rows
	bytes = dataFile.Bytes + queryFile.Bytes

	m = &manifest.Manifest{
		RunID:     runID,
		Corpus:    c.Name,
		Kind:      manifest.KindVectors,
		Seed:      c.Seed,
		CreatedAt: start.UTC(),
		Files:     []manifest.File{dataFile, queryFile},
		Window:    windowOf(policy),
	}
	if err := g.commit(ctx, log, m, c); err != nil {
		return nil, err
	}
	return m, nil
}

// GenerateKeyValues writes the key-value dump of c and commits its manifest.
func (g *Generator) GenerateKeyValues(ctx context.Context, c KVCorpus) (*manifest.Manifest, error) {
	return g.generateKeyValues(ctx, c.WithDefaults(), g.newRunID())
}

func (g *Generator) generateKeyValues(ctx context.Context, c KVCorpus, runID string) (m *manifest.Manifest, err error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	log := g.opts.logger.WithCorpus(c.Name).WithRunID(runID)
	start := g.opts.clock()

	var rows, bytes int64
	defer func() {
		d := g.opts.clock().Sub(start)
		g.opts.metricsCollector.RecordCorpus(string(manifest.KindKeyValues), rows, bytes, d, err)
		log.LogCorpus(ctx, string(manifest.KindKeyValues), rows, d, err)
	}()

	rng := sampler.NewRNG(c.Seed)

	file, err := g.writeFile(ctx, log, c.File, manifest.RoleKeyValues, func(w io.Writer) (int64, error) {
		kw := dataset.NewKVWriter(w)
		var n int64
		err := kv.Generate(rng, c.Config, func(pair model.KeyValue) error {
			if n%checkEvery == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			n++
			return kw.Write(pair)
		})
		if err != nil {
			return n, err
		}
		return n, kw.Flush()
	})
	if err != nil {
		return nil, err
	}

	rows, bytes = file.Rows, file.Bytes

	m = &manifest.Manifest{
		RunID:     runID,
		Corpus:    c.Name,
		Kind:      manifest.KindKeyValues,
		Seed:      c.Seed,
		CreatedAt: start.UTC(),
		Files:     []manifest.File{file},
	}
	if err := g.commit(ctx, log, m, c); err != nil {
		return nil, err
	}
	return m, nil
}

// writeFile streams one file through compression, checksumming and the IO
// limit. On failure the blob is aborted and whatever reached the store stays
// there as a truncated file.
func (g *Generator) writeFile(ctx context.Context, log *Logger, name string, role manifest.Role, fill func(io.Writer) (int64, error)) (f manifest.File, err error) {
	name = g.FileName(name)
	location := blobstore.Location(g.store, name)

	var rows int64
	defer func() {
		log.WithFile(name).LogFile(ctx, location, rows, f.Bytes, err)
	}()

	blob, err := g.store.Create(ctx, name)
	if err != nil {
		return manifest.File{}, ioError("create", name, err)
	}

	counter := hash.NewWriter(g.controller.Writer(ctx, blob))
	zw, err := compress.NewWriter(counter, g.opts.compression)
	if err != nil {
		_ = blob.Abort()
		return manifest.File{}, ioError("create", name, err)
	}

	rows, err = fill(zw)
	if err != nil {
		_ = blob.Abort()
		return manifest.File{}, ioError("write", name, err)
	}
	if err := zw.Close(); err != nil {
		_ = blob.Abort()
		return manifest.File{}, ioError("write", name, err)
	}
	if err := blob.Close(); err != nil {
		return manifest.File{}, ioError("close", name, err)
	}

	f = manifest.File{
		Name:   name,
		Role:   role,
		Rows:   rows,
		Bytes:  counter.Count(),
		CRC32C: counter.Sum32(),
	}
	if g.opts.compression != compress.None {
		f.Compression = string(g.opts.compression)
	}
	g.opts.metricsCollector.RecordFile(name, f.Rows, f.Bytes)
	return f, nil
}

func (g *Generator) commit(ctx context.Context, log *Logger, m *manifest.Manifest, params any) error {
	if g.committer == nil {
		return nil
	}

	raw, err := g.opts.codec.Marshal(params)
	if err != nil {
		return fmt.Errorf("encode corpus parameters: %w", err)
	}
	m.Params = json.RawMessage(raw)

	version, err := g.committer.Commit(ctx, m)
	log.LogCommit(ctx, version, err)
	if err != nil {
		return ioError("commit", m.Corpus, err)
	}
	return nil
}

func writeRecords(ctx context.Context, w io.Writer, s *sampler.Sampler, rng *sampler.RNG, n int, format dataset.Format) (int64, error) {
	dw, err := dataset.NewDataWriter(w, s.Dim(), format)
	if err != nil {
		return 0, err
	}
	for left := n; left > 0; left -= checkEvery {
		if err := ctx.Err(); err != nil {
			return int64(dw.Rows()), err
		}
		for _, rec := range s.Records(rng, min(left, checkEvery)) {
			if err := dw.Write(rec); err != nil {
				return int64(dw.Rows()), err
			}
		}
	}
	return int64(dw.Rows()), dw.Flush()
}

func writeQueries(ctx context.Context, w io.Writer, s *sampler.Sampler, policy selectivity.Policy, rng *sampler.RNG, n int, k model.IntRange, o int64, format dataset.Format) (int64, error) {
	qw, err := dataset.NewQueryWriter(w, s.Dim(), format)
	if err != nil {
		return 0, err
	}
	for i := 0; i < n; i++ {
		if i%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return int64(qw.Rows()), err
			}
		}
		vec := s.Vector(rng)
		kq := rng.IntRange(k.Lo, k.Hi)
		win := policy.Window(rng)

		q := model.Query{Vector: vec, K: int(kq), SMin: win.Min, SMax: win.Max, O: o}
		if err := qw.Write(q); err != nil {
			return int64(qw.Rows()), err
		}
	}
	return int64(qw.Rows()), qw.Flush()
}

func windowOf(p selectivity.Policy) *manifest.Window {
	w := &manifest.Window{Policy: p.Name()}
	if prop, ok := p.Expected(); ok {
		w.Proportion = prop
	}
	if a, ok := p.(*selectivity.Analytic); ok {
		iv := a.Interval()
		w.SMin, w.SMax = &iv.Min, &iv.Max
	}
	return w
}
