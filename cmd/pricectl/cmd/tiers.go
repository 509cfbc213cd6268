package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"modulos/pricing/internal/pricing"
)

func newTiersCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "List the pricing tiers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tiers := opts.quotes.Tiers()
			return opts.render(cmd.OutOrStdout(), tiers, func(w io.Writer) {
				tw := newTabWriter(w)
				fmt.Fprintln(tw, "NAME\tRANGE\tBASE\tPER ADDITIONAL\tINFLECTION POINT")
				for _, t := range tiers {
					inflection := "-"
					if t.InflectionPoint != nil {
						inflection = t.InflectionPoint.String() + " apps"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
						t.Name,
						t.RangeLabel(),
						pricing.FormatAmount(t.BasePrice),
						pricing.FormatAmount(t.PricePerApp),
						inflection,
					)
				}
				tw.Flush()
			})
		},
	}
}
