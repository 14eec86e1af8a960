package cli

import (
	"errors"

	"github.com/hupe1980/filtergen"
	"github.com/hupe1980/filtergen/config"
	"github.com/spf13/cobra"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		suitePath  string
		presets    []string
		allPresets bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate a suite of corpora",
		Long: `Generate every corpus of a suite file, a list of presets, or all presets.
Every corpus is validated before the first file is written. A failing
corpus does not stop the others; the command fails if any corpus failed.

Examples:
  filtergen run --all-presets
  filtergen run --preset uniform_halfsplit --preset kv_int_int
  filtergen run --suite suite.yaml --parallelism 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var cfg config.Config
			switch {
			case suitePath != "":
				loaded, err := config.Load(suitePath)
				if err != nil {
					return err
				}
				cfg = *loaded
			case allPresets:
				s, err := filtergen.PresetSuite()
				if err != nil {
					return err
				}
				cfg.Suite = s
			case len(presets) > 0:
				s, err := filtergen.PresetSuite(presets...)
				if err != nil {
					return err
				}
				cfg.Suite = s
			default:
				return errors.New("one of --suite, --preset or --all-presets is required")
			}

			s, err := a.openSink(ctx, a.outDir(cmd.Flags(), cfg.Settings))
			if err != nil {
				return err
			}
			opts, err := a.generatorOptions(cmd.Flags(), cfg.Settings, s)
			if err != nil {
				return err
			}

			ms, runErr := filtergen.New(s.store, opts...).Run(ctx, cfg.Suite)
			if err := printSummary(cmd, s, ms); err != nil {
				return err
			}
			return runErr
		},
	}

	f := cmd.Flags()
	f.StringVar(&suitePath, "suite", "", "YAML suite file")
	f.StringSliceVar(&presets, "preset", nil, "preset to generate (repeatable)")
	f.BoolVar(&allPresets, "all-presets", false, "generate every preset")
	cmd.MarkFlagsMutuallyExclusive("suite", "preset", "all-presets")

	return cmd
}
