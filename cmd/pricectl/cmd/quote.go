package cmd

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"modulos/pricing/internal/pricing"
	"modulos/pricing/internal/services"
)

func addQuoteFlags(c *cobra.Command, req *services.QuoteRequest) {
	c.Flags().IntVarP(&req.Apps, "apps", "n", 0, "number of AI systems")
	c.Flags().BoolVar(&req.RiskQuantification, "risk", false, "include risk quantification")
	_ = c.MarkFlagRequired("apps")
}

func newQuoteCmd(opts *options) *cobra.Command {
	var req services.QuoteRequest

	c := &cobra.Command{
		Use:   "quote",
		Short: "Price a number of AI systems",
		Example: `  pricectl quote --apps 199
  pricectl quote --apps 1000 --risk -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			quote, err := opts.quotes.Quote(cmd.Context(), req)
			if err != nil {
				return err
			}
			return opts.render(cmd.OutOrStdout(), quote, func(w io.Writer) {
				writeQuote(w, quote)
			})
		},
	}
	addQuoteFlags(c, &req)
	return c
}

func writeQuote(w io.Writer, q *services.Quote) {
	headline := titleStyle.Render(fmt.Sprintf("%s · %s AI systems", q.Tier.Name, pricing.FormatCount(q.Apps))) + "\n" +
		"Total Investment  " + amountStyle.Render(pricing.FormatAmount(q.Price.TotalPrice)) + "\n" +
		dimStyle.Render(fmt.Sprintf("Tier range %s · %s per additional system",
			q.Stats.TierRange, pricing.FormatAmount(q.Tier.PricePerApp)))
	if q.RiskQuantification {
		headline += "\n" + dimStyle.Render(fmt.Sprintf("Includes risk quantification (+%s)", pricing.FormatPercent(q.SurchargeRate)))
	}
	fmt.Fprintln(w, cardStyle.Render(headline))

	tw := newTabWriter(w)
	if q.RiskQuantification {
		fmt.Fprintf(tw, "Total Cost per AI System\t%s\n", pricing.FormatAmount(q.Stats.TotalPerApp))
		fmt.Fprintf(tw, "Base Cost per AI System\t%s\n", pricing.FormatAmount(q.Stats.BasePerApp))
		fmt.Fprintf(tw, "Risk Premium Total\t%s\n", pricing.FormatAmount(q.Stats.RiskPremium))
	} else {
		fmt.Fprintf(tw, "Cost per AI System\t%s\n", pricing.FormatAmount(q.Stats.TotalPerApp))
	}
	tw.Flush()

	section(w, "Cost Breakdown")
	tw = newTabWriter(w)
	for _, line := range q.Breakdown {
		fmt.Fprintf(tw, "%s\t%s\n", line.Label, pricing.FormatAmount(line.Amount))
	}
	tw.Flush()

	if rec := q.Recommendation; rec != nil {
		section(w, "Upgrade Recommended")
		fmt.Fprintln(w, warnStyle.Render(rec.Reason))
		tw = newTabWriter(w)
		fmt.Fprintf(tw, "Current (%s)\t%s\n", rec.CurrentTier.Name, pricing.FormatAmount(rec.CurrentPrice))
		fmt.Fprintf(tw, "Recommended (%s)\t%s\n", rec.RecommendedTier.Name, pricing.FormatAmount(rec.RecommendedPrice))
		fmt.Fprintf(tw, "Savings\t%s\n", formatSigned(rec.Savings))
		tw.Flush()
	} else {
		section(w, "Optimal Configuration")
		fmt.Fprintln(w, successStyle.Render(q.Message))
	}

	section(w, "Tier Comparison")
	writeComparison(w, q.Comparison, q.RiskQuantification, q.SurchargeRate)
}

// formatSigned keeps the sign of negative savings visible
func formatSigned(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + pricing.FormatAmount(d.Neg())
	}
	return pricing.FormatAmount(d)
}
