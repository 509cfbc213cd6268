package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"modulos/pricing/internal/pricing"
	"modulos/pricing/internal/services"
)

func newChartCmd(opts *options) *cobra.Command {
	var req services.QuoteRequest

	c := &cobra.Command{
		Use:   "chart",
		Short: "Show the price curve data behind the calculator chart",
		Long: fmt.Sprintf(`Samples every tier's price from its min_apps up to %d AI systems in steps
of %d and marks the selected configuration and each tier's optimization point.
Use -o json or -o yaml for the full series.`, pricing.ChartMaxApps, pricing.ChartStep),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chart, err := opts.quotes.Chart(cmd.Context(), req)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), chart, func(w io.Writer) {
				writeChart(w, chart)
			})
		},
	}
	addQuoteFlags(c, &req)
	return c
}

func writeChart(w io.Writer, chart *pricing.Chart) {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "TIER\tPOINTS\tFROM\tTO")
	for _, s := range chart.Series {
		if len(s.Points) == 0 {
			fmt.Fprintf(tw, "%s\t0\t-\t-\n", s.Tier)
			continue
		}
		first, last := s.Points[0], s.Points[len(s.Points)-1]
		fmt.Fprintf(tw, "%s\t%d\t%d @ %s\t%d @ %s\n",
			s.Tier, len(s.Points),
			first.Apps, pricing.FormatAmount(first.Price),
			last.Apps, pricing.FormatAmount(last.Price),
		)
	}
	tw.Flush()

	section(w, "Your Configuration")
	fmt.Fprintf(w, "%s AI systems on %s at %s\n",
		pricing.FormatCount(chart.Selection.Apps), chart.Selection.Tier, pricing.FormatAmount(chart.Selection.Price))

	if len(chart.Markers) > 0 {
		section(w, "Optimization Points")
		tw = newTabWriter(w)
		for _, m := range chart.Markers {
			fmt.Fprintf(tw, "%s\t%s apps\t%s\n", m.Label, m.Apps.String(), pricing.FormatAmount(m.Price))
		}
		tw.Flush()
	}
}
