package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/hupe1980/filtergen"
	"github.com/spf13/cobra"
)

func newPresetsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			presets := filtergen.Presets()
			if asJSON {
				return printJSON(cmd.OutOrStdout(), presets)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tFILES\tDESCRIPTION")
			for _, p := range presets {
				var files string
				if p.Vectors != nil {
					c := p.Vectors.WithDefaults()
					files = c.DataFile + " " + c.QueryFile
				} else {
					files = p.KeyValues.WithDefaults().File
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, files, p.Description)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
