package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"modulos/pricing/internal/pricing"
	"modulos/pricing/internal/services"
)

// options holds the global flags and the state built from them in PersistentPreRunE
type options struct {
	outputFormat string
	strict       bool
	tiersFile    string
	surcharge    string
	maxApps      int
	verbose      bool

	logger    *zap.Logger
	quotes    *services.QuoteService
	formatter Formatter
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pricectl",
		Short: "Modulos AI GRC pricing calculator",
		Long: `pricectl prices Modulos AI GRC subscriptions from the terminal.
It shows the tier for a number of AI systems, the itemised cost, whether an
upgrade to the next tier would be cheaper, and how every tier compares.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
	}

	root.PersistentFlags().StringVarP(&opts.outputFormat, "output", "o", "table", "output format: table, json, yaml")
	root.PersistentFlags().BoolVar(&opts.strict, "strict", false, "reject app counts no tier covers instead of using the top tier")
	root.PersistentFlags().StringVar(&opts.tiersFile, "tiers-file", "", "YAML tier table to use instead of the built-in one")
	root.PersistentFlags().StringVar(&opts.surcharge, "surcharge-rate", "0.30", "risk quantification surcharge rate")
	root.PersistentFlags().IntVar(&opts.maxApps, "max-apps", 2000, "largest number of AI systems accepted")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(
		newQuoteCmd(opts),
		newCompareCmd(opts),
		newTiersCmd(opts),
		newChartCmd(opts),
		newHashPasswordCmd(),
		newVersionCmd(),
	)
	return root
}

func (o *options) setup() error {
	switch strings.ToLower(o.outputFormat) {
	case "table", "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", o.outputFormat)
	}
	o.formatter = NewFormatter(o.outputFormat)

	o.logger = zap.NewNop()
	if o.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		o.logger = logger
	}

	rate, err := decimal.NewFromString(o.surcharge)
	if err != nil || rate.IsNegative() {
		return fmt.Errorf("invalid --surcharge-rate %q", o.surcharge)
	}
	if o.maxApps < 1 || o.maxApps > pricing.MaxAppsLimit {
		return fmt.Errorf("--max-apps must be between 1 and %d", pricing.MaxAppsLimit)
	}

	table, err := pricing.DefaultTable()
	if o.tiersFile != "" {
		table, err = pricing.LoadTableFile(o.tiersFile)
	}
	if err != nil {
		return fmt.Errorf("failed to load tier table: %w", err)
	}

	engine := pricing.NewEngine(table, pricing.WithSurchargeRate(rate), pricing.WithStrict(o.strict))
	o.quotes = services.NewQuoteService(engine, o.maxApps, o.logger)
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// RootCmd returns a freshly built command tree.
func RootCmd() *cobra.Command {
	return newRootCmd()
}
