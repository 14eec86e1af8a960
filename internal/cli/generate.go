package cli

import (
	"errors"
	"fmt"

	"github.com/hupe1980/filtergen"
	"github.com/hupe1980/filtergen/blobstore"
	"github.com/hupe1980/filtergen/config"
	"github.com/hupe1980/filtergen/kv"
	"github.com/hupe1980/filtergen/manifest"
	"github.com/hupe1980/filtergen/model"
	"github.com/hupe1980/filtergen/selectivity"
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a single corpus",
	}
	cmd.AddCommand(newGenerateVectorsCmd(a), newGenerateKVCmd(a))
	return cmd
}

type vectorFlags struct {
	preset    string
	name      string
	seed      int64
	records   int
	dim       int
	queries   int
	vmin      float64
	vmax      float64
	dist      string
	smin      float64
	smax      float64
	mean      float64
	variance  float64
	policy    string
	p         float64
	wmin      float64
	wmax      float64
	width     float64
	jitter    float64
	kmin      int64
	kmax      int64
	o         int64
	dataFile  string
	queryFile string
}

func newGenerateVectorsCmd(a *app) *cobra.Command {
	var vf vectorFlags

	cmd := &cobra.Command{
		Use:   "vectors",
		Short: "Generate a data file and a query file",
		Long: `Generate a data file and a query file.

Only flags given on the command line are applied; the rest take the defaults,
or the values of --preset.

Examples:
  filtergen generate vectors --name u                          # uniform, half-split windows
  filtergen generate vectors --name n --dist normal --mean 50 --variance 25 --p 0.01
  filtergen generate vectors --preset normal_selective --records 1000000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := vf.corpus(cmd)
			if err != nil {
				return err
			}
			return a.generate(cmd, func(g *filtergen.Generator) (*manifest.Manifest, error) {
				return g.GenerateVectors(cmd.Context(), c)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&vf.preset, "preset", "", "start from this preset")
	f.StringVar(&vf.name, "name", "", "corpus name")
	f.Int64Var(&vf.seed, "seed", 0, "RNG seed")
	f.IntVar(&vf.records, "records", filtergen.DefaultRecords, "number of records")
	f.IntVar(&vf.dim, "dim", filtergen.DefaultDim, "vector dimension")
	f.IntVar(&vf.queries, "queries", filtergen.DefaultQueries, "number of queries")
	f.Float64Var(&vf.vmin, "vmin", filtergen.DefaultVectorRange.Lo, "lower bound of vector coordinates")
	f.Float64Var(&vf.vmax, "vmax", filtergen.DefaultVectorRange.Hi, "upper bound of vector coordinates")
	f.StringVar(&vf.dist, "dist", filtergen.DistUniform, "scalar distribution: uniform, normal, lognormal")
	f.Float64Var(&vf.smin, "smin", filtergen.DefaultScalarRange.Lo, "lower bound of uniform scalars")
	f.Float64Var(&vf.smax, "smax", filtergen.DefaultScalarRange.Hi, "upper bound of uniform scalars")
	f.Float64Var(&vf.mean, "mean", 0, "mean of normal scalars (of the log for lognormal)")
	f.Float64Var(&vf.variance, "variance", 0, "variance of normal scalars (of the log for lognormal)")
	f.StringVar(&vf.policy, "policy", "", "window policy: analytic, fixed-width, half-split")
	f.Float64Var(&vf.p, "p", filtergen.DefaultProportion, "target selectivity of analytic windows")
	f.Float64Var(&vf.wmin, "wmin", 0, "lower bound of fixed-width and half-split windows")
	f.Float64Var(&vf.wmax, "wmax", 0, "upper bound of fixed-width and half-split windows")
	f.Float64Var(&vf.width, "width", filtergen.DefaultWidth, "width of fixed-width windows")
	f.Float64Var(&vf.jitter, "jitter", selectivity.DefaultJitter, "jitter of fixed-width windows as a fraction of the width")
	f.Int64Var(&vf.kmin, "kmin", filtergen.DefaultK.Lo, "smallest k")
	f.Int64Var(&vf.kmax, "kmax", filtergen.DefaultK.Hi, "largest k")
	f.Int64Var(&vf.o, "o", filtergen.DefaultO, "operational parameter O")
	f.StringVar(&vf.dataFile, "data-file", "", "data file name (default <name>_data.csv)")
	f.StringVar(&vf.queryFile, "query-file", "", "query file name (default <name>_queries.csv)")

	return cmd
}

func (vf *vectorFlags) corpus(cmd *cobra.Command) (filtergen.VectorCorpus, error) {
	var c filtergen.VectorCorpus
	if vf.preset != "" {
		p, ok := filtergen.LookupPreset(vf.preset)
		if !ok || p.Vectors == nil {
			return c, fmt.Errorf("unknown vector preset %q", vf.preset)
		}
		c = *p.Vectors
	}

	f := cmd.Flags()
	set := f.Changed

	if set("name") {
		c.Name = vf.name
	}
	if c.Name == "" {
		return c, errors.New("--name or --preset is required")
	}
	if set("seed") {
		c.Seed = vf.seed
	}
	if set("records") {
		c.Records = model.Ptr(vf.records)
	}
	if set("dim") {
		c.Dim = model.Ptr(vf.dim)
	}
	if set("queries") {
		c.Queries = model.Ptr(vf.queries)
	}
	if set("vmin") || set("vmax") {
		r := filtergen.DefaultVectorRange
		if c.VectorRange != nil {
			r = *c.VectorRange
		}
		if set("vmin") {
			r.Lo = vf.vmin
		}
		if set("vmax") {
			r.Hi = vf.vmax
		}
		c.VectorRange = &r
	}
	if set("dist") {
		c.Scalar.Distribution = vf.dist
	}
	if set("smin") || set("smax") {
		c.Scalar.Range = &model.Range{Lo: vf.smin, Hi: vf.smax}
	}
	if set("mean") {
		c.Scalar.Mean = vf.mean
	}
	if set("variance") {
		c.Scalar.Variance = vf.variance
	}
	if set("policy") {
		c.Window.Policy = vf.policy
	}
	if set("p") {
		c.Window.Proportion = model.Ptr(vf.p)
		if !set("policy") && c.Window.Policy == "" {
			c.Window.Policy = selectivity.PolicyAnalytic
		}
	}
	if set("wmin") || set("wmax") {
		c.Window.Range = &model.Range{Lo: vf.wmin, Hi: vf.wmax}
	}
	if set("width") {
		c.Window.Width = model.Ptr(vf.width)
	}
	if set("jitter") {
		c.Window.Jitter = model.Ptr(vf.jitter)
	}
	if set("kmin") || set("kmax") {
		c.K = &model.IntRange{Lo: vf.kmin, Hi: vf.kmax}
	}
	if set("o") {
		c.O = model.Ptr(vf.o)
	}
	if set("data-file") {
		c.DataFile = vf.dataFile
	}
	if set("query-file") {
		c.QueryFile = vf.queryFile
	}
	return c, nil
}

func newGenerateKVCmd(a *app) *cobra.Command {
	var (
		preset string
		c      filtergen.KVCorpus
		mode   string
		count  int
		length int
		kmin   int64
		kmax   int64
		vmin   int64
		vmax   int64
	)

	cmd := &cobra.Command{
		Use:   "kv",
		Short: "Generate a key-value dump",
		Long: `Generate a key-value dump of "key value" lines.

Modes:
  string-keys  unique alphanumeric keys, integer values
  int-keys     integer keys, alphanumeric values
  int-int      integer keys and values`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set := cmd.Flags().Changed

			corpus := filtergen.KVCorpus{}
			if preset != "" {
				p, ok := filtergen.LookupPreset(preset)
				if !ok || p.KeyValues == nil {
					return fmt.Errorf("unknown kv preset %q", preset)
				}
				corpus = *p.KeyValues
			}
			if set("name") {
				corpus.Name = c.Name
			}
			if corpus.Name == "" {
				return errors.New("--name or --preset is required")
			}
			if set("seed") {
				corpus.Seed = c.Seed
			}
			if set("file") {
				corpus.File = c.File
			}
			if set("mode") {
				corpus.Mode = kv.Mode(mode)
			}
			if set("count") {
				corpus.Count = model.Ptr(count)
			}
			if set("length") {
				corpus.Length = model.Ptr(length)
			}
			if set("kmin") || set("kmax") {
				corpus.KeyRange = &model.IntRange{Lo: kmin, Hi: kmax}
			}
			if set("vmin") || set("vmax") {
				corpus.ValueRange = &model.IntRange{Lo: vmin, Hi: vmax}
			}

			return a.generate(cmd, func(g *filtergen.Generator) (*manifest.Manifest, error) {
				return g.GenerateKeyValues(cmd.Context(), corpus)
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&preset, "preset", "", "start from this preset")
	f.StringVar(&c.Name, "name", "", "corpus name")
	f.Int64Var(&c.Seed, "seed", 0, "RNG seed")
	f.StringVar(&c.File, "file", "", "output file name (default <name>.txt)")
	f.StringVar(&mode, "mode", string(kv.ModeStringKeys), "string-keys, int-keys or int-int")
	f.IntVar(&count, "count", kv.DefaultCount, "number of pairs")
	f.IntVar(&length, "length", kv.DefaultLength, "length of alphanumeric strings")
	f.Int64Var(&kmin, "kmin", 0, "smallest integer key")
	f.Int64Var(&kmax, "kmax", 0, "largest integer key")
	f.Int64Var(&vmin, "vmin", 0, "smallest integer value")
	f.Int64Var(&vmax, "vmax", 0, "largest integer value")

	return cmd
}

// generate runs fn against a generator on the configured sink and prints
// the manifest.
func (a *app) generate(cmd *cobra.Command, fn func(*filtergen.Generator) (*manifest.Manifest, error)) error {
	ctx := cmd.Context()
	s, err := a.openSink(ctx, a.flags.out)
	if err != nil {
		return err
	}
	opts, err := a.generatorOptions(cmd.Flags(), config.Settings{}, s)
	if err != nil {
		return err
	}

	m, err := fn(filtergen.New(s.store, opts...))
	if err != nil {
		return err
	}
	return printSummary(cmd, s, []*manifest.Manifest{m})
}

func printSummary(cmd *cobra.Command, s *sink, ms []*manifest.Manifest) error {
	w := cmd.OutOrStdout()
	for _, m := range ms {
		if m == nil {
			continue
		}
		for _, f := range m.Files {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%d rows\t%d bytes\n", m.Corpus, blobstore.Location(s.store, f.Name), f.Rows, f.Bytes); err != nil {
				return err
			}
		}
	}
	return nil
}
