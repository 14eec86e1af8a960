package cli

import (
	"fmt"

	"github.com/hupe1980/filtergen"
	"github.com/hupe1980/filtergen/dataset"
	"github.com/hupe1980/filtergen/selectivity"
	"github.com/spf13/cobra"
)

type solveResult struct {
	Distribution string  `json:"distribution"`
	P            float64 `json:"p"`
	Z            float64 `json:"z"`
	SMin         float64 `json:"smin"`
	SMax         float64 `json:"smax"`
	Width        float64 `json:"width"`
	Mass         float64 `json:"mass"`
}

func newSolveCmd() *cobra.Command {
	var (
		scalar filtergen.ScalarSpec
		p      float64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Print the analytic window for a target selectivity",
		Long: `Print the scalar window [Smin, Smax] holding proportion p of a normal or
lognormal distribution, without generating any file.

Example:
  filtergen solve --p 0.01 --mean 50 --variance 25
  # z=0.01253 smin=49.93733 smax=50.06267`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dist, err := scalar.Build()
			if err != nil {
				return err
			}
			solver, err := selectivity.For(dist)
			if err != nil {
				return err
			}
			iv, err := solver.Interval(p)
			if err != nil {
				return err
			}
			z, err := selectivity.TwoTailedZ(p)
			if err != nil {
				return err
			}

			res := solveResult{
				Distribution: scalar.Distribution,
				P:            p,
				Z:            z,
				SMin:         iv.Min,
				SMax:         iv.Max,
				Width:        iv.Width(),
				Mass:         solver.Mass(iv),
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), res)
			}

			f := dataset.DefaultFormat()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "z=%s smin=%s smax=%s width=%s mass=%s\n",
				f.Float(res.Z), f.Float(res.SMin), f.Float(res.SMax), f.Float(res.Width), f.Float(res.Mass))
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&scalar.Distribution, "dist", filtergen.DistNormal, "scalar distribution: normal, lognormal")
	f.Float64Var(&scalar.Mean, "mean", 0, "mean (of the log for lognormal)")
	f.Float64Var(&scalar.Variance, "variance", 1, "variance (of the log for lognormal)")
	f.Float64Var(&p, "p", filtergen.DefaultProportion, "target selectivity in (0, 1)")
	f.BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}
