package cmd

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"modulos/pricing/internal/pricing"
	"modulos/pricing/internal/services"
)

type comparisonResult struct {
	Apps               int                  `json:"apps" yaml:"apps"`
	RiskQuantification bool                 `json:"risk_quantification" yaml:"risk_quantification"`
	Rows               []pricing.Comparison `json:"rows" yaml:"rows"`
}

func newCompareCmd(opts *options) *cobra.Command {
	var req services.QuoteRequest

	c := &cobra.Command{
		Use:   "compare",
		Short: "Price a number of AI systems on every tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := opts.quotes.Compare(cmd.Context(), req)
			if err != nil {
				return err
			}
			result := comparisonResult{Apps: req.Apps, RiskQuantification: req.RiskQuantification, Rows: rows}
			return opts.render(cmd.OutOrStdout(), result, func(w io.Writer) {
				writeComparison(w, rows, req.RiskQuantification, opts.quotes.Engine().SurchargeRate())
			})
		},
	}
	addQuoteFlags(c, &req)
	return c
}

func writeComparison(w io.Writer, rows []pricing.Comparison, risk bool, rate decimal.Decimal) {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, "TIER\tRANGE\tBASE\tPER ADDITIONAL\tYOUR PRICE\t")
	for _, row := range rows {
		price := pricing.FormatAmount(row.Price.TotalPrice)
		if risk {
			price += fmt.Sprintf(" (+%s Risk)", pricing.FormatPercent(rate))
		}
		marker := ""
		if row.Selected {
			marker = "◀ selected"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Tier.Name,
			row.Tier.RangeLabel(),
			pricing.FormatAmount(row.Tier.BasePrice),
			pricing.FormatAmount(row.Tier.PricePerApp),
			price,
			marker,
		)
	}
	tw.Flush()
}
