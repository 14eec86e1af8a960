package cli

import (
	"errors"
	"fmt"

	"github.com/hupe1980/filtergen/manifest"
	"github.com/hupe1980/filtergen/model"
	"github.com/hupe1980/filtergen/verify"
	"github.com/spf13/cobra"
)

func newVerifyCmd(a *app) *cobra.Command {
	var (
		dataName  string
		queryName string
		corpus    string
		expectP   float64
		tolerance float64
		vmin      float64
		vmax      float64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Measure the selectivity of generated queries",
		Long: `Evaluate every query window against its data file and report how many
records each one selects. With --corpus the file names come from the latest
manifest of the corpus, whose checksums are checked first.

Examples:
  filtergen verify --corpus normal_selective
  filtergen verify --data _data3.csv --queries _queries3.csv --expect-p 0.01 --tolerance 0.005`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			s, err := a.openSink(ctx, a.flags.out)
			if err != nil {
				return err
			}

			if corpus != "" {
				var committer manifest.Committer = manifest.NewBlobCommitter(s.store, nil)
				if s.committer != nil {
					committer = s.committer
				}
				m, err := committer.Latest(ctx, corpus)
				if err != nil {
					return fmt.Errorf("corpus %s: %w", corpus, err)
				}
				if err := verify.Manifest(ctx, s.store, m); err != nil {
					return err
				}
				data, okData := m.File(manifest.RoleData)
				queries, okQueries := m.File(manifest.RoleQueries)
				if !okData || !okQueries {
					return fmt.Errorf("corpus %s is not a vector corpus", corpus)
				}
				dataName, queryName = data.Name, queries.Name
				if !cmd.Flags().Changed("expect-p") && m.Window != nil && m.Window.Proportion > 0 {
					expectP = m.Window.Proportion
				}
			}
			if dataName == "" || queryName == "" {
				return errors.New("--corpus or both --data and --queries are required")
			}

			var opts []verify.Option
			if cmd.Flags().Changed("vmin") || cmd.Flags().Changed("vmax") {
				opts = append(opts, verify.WithVectorRange(model.Range{Lo: vmin, Hi: vmax}))
			}

			r, err := verify.Verify(ctx, s.store, dataName, queryName, opts...)
			if err != nil {
				return err
			}

			if asJSON {
				if err := printJSON(cmd.OutOrStdout(), r); err != nil {
					return err
				}
			} else if err := printReport(cmd, r); err != nil {
				return err
			}

			if expectP > 0 {
				return r.CheckSelectivity(expectP, tolerance)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&dataName, "data", "", "data file name in the store")
	f.StringVar(&queryName, "queries", "", "query file name in the store")
	f.StringVar(&corpus, "corpus", "", "verify the latest manifest of this corpus")
	f.Float64Var(&expectP, "expect-p", 0, "fail unless every query selects this proportion")
	f.Float64Var(&tolerance, "tolerance", 0.005, "allowed deviation from --expect-p")
	f.Float64Var(&vmin, "vmin", 0, "lower bound of expected vector coordinates")
	f.Float64Var(&vmax, "vmax", 0, "upper bound of expected vector coordinates")
	f.BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func printReport(cmd *cobra.Command, r *verify.Report) error {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "records=%d dim=%d mean=%.5f variance=%.5f min=%.5f max=%.5f\n",
		r.Records, r.Dim, r.Scalar.Mean, r.Scalar.Variance, r.Scalar.Min, r.Scalar.Max)
	for _, q := range r.Queries {
		flag := ""
		if q.Underfilled {
			flag = " underfilled"
		}
		fmt.Fprintf(w, "query %d: [%.5f, %.5f] k=%d matches=%d selectivity=%.5f%s\n",
			q.Row, q.SMin, q.SMax, q.K, q.Matches, q.Selectivity, flag)
	}
	_, err := fmt.Fprintf(w, "mean_selectivity=%.5f coverage=%.5f underfilled=%d out_of_range=%d\n",
		r.MeanSelectivity, r.Coverage, r.Underfilled, r.OutOfRange)
	return err
}
