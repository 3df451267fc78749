package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/refresh"
	"github.com/heisenbergtrx/portfolio-dashboard/pkg/formatting"
)

type valueCmd struct {
	commonFlags
	rebalance bool
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "value the portfolio and print holdings" }
func (*valueCmd) Usage() string {
	return `portfolioctl value [-market <file>] [-rebalance]

  Refreshes the portfolio from the market data file and prints every holding
  with its value in the base currency, weight, weekly return and recommendation.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.market, "market", "", "market data file (defaults to MARKET_DATA_FILE)")
	f.BoolVar(&c.rebalance, "rebalance", false, "also print rebalancing suggestions")
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a, err := newApp(ctx, c.verbose)
	if err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}
	defer a.Close()

	result, err := a.refresh(ctx, c.market)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	renderValuation(os.Stdout, result)
	if c.rebalance {
		fmt.Println()
		renderRebalancing(os.Stdout, result)
	}
	return subcommands.ExitSuccess
}

func renderValuation(out io.Writer, result *refresh.Result) {
	recommendations := make(map[string]string, len(result.Recommendations))
	for _, r := range result.Recommendations {
		recommendations[r.Code] = r.String()
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "CODE\tCLASS\tQUANTITY\tPRICE\tVALUE\tWEIGHT\tTARGET\tWEEK\t")
	for _, h := range result.Holdings {
		if !h.Valid() {
			fmt.Fprintf(w, "%s\t%s\t%g\t-\t-\t-\t%.1f%%\t-\t\n", h.Code, h.Class, h.Quantity, h.TargetWeightPct)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%g\t%s\t%s\t%.1f%%\t%.1f%%\t%s\t\n",
			h.Code,
			h.Class,
			h.Quantity,
			formatting.Currency(h.CurrentPrice, priceCurrency(h, result.BaseCurrency)),
			formatting.Currency(h.ValueInBase, result.BaseCurrency),
			h.WeightPct,
			h.TargetWeightPct,
			formatting.Percentage(h.WeeklyReturnPct, 2),
		)
	}
	w.Flush()

	m := result.Metrics
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Total:        %s\n", formatting.Currency(m.TotalValueBase, result.BaseCurrency))
	fmt.Fprintf(out, "Weekly:       %s\n", formatting.Percentage(m.WeeklyReturnPct, 2))
	fmt.Fprintf(out, "Cash reserve: %s (%.1f%%)\n", formatting.Currency(m.CashReserveBase, result.BaseCurrency), m.CashReservePct)
	fmt.Fprintf(out, "FX rate:      %.4f\n", result.FXRate)

	if len(recommendations) > 0 {
		fmt.Fprintln(out)
		for _, h := range result.Holdings {
			if rec, ok := recommendations[h.Code]; ok {
				fmt.Fprintf(out, "%-10s %s\n", h.Code, rec)
			}
		}
	}

	renderList(out, "Warnings", m.Warnings)
	renderList(out, "Notes", m.Notes)
	if result.Snapshot != nil {
		fmt.Fprintf(out, "\nSnapshot recorded: %s\n", result.Snapshot.ID)
	}
}

// priceCurrency resolves the currency a holding is quoted in
func priceCurrency(h domain.ValuedHolding, baseCurrency string) string {
	if h.Currency == domain.CurrencyBase || h.Currency == "" {
		return baseCurrency
	}
	return string(h.Currency)
}

func renderRebalancing(out io.Writer, result *refresh.Result) {
	if len(result.Rebalancing) == 0 {
		fmt.Fprintln(out, "No rebalancing needed")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "CODE\tSIDE\tUNITS\tVALUE\tWEIGHT\tTARGET\tDEVIATION\t")
	for _, s := range result.Rebalancing {
		fmt.Fprintf(w, "%s\t%s\t%.4f\t%s\t%.1f%%\t%.1f%%\t%s\t\n",
			s.Code,
			s.Side,
			s.Units,
			formatting.Currency(s.ValueBase, result.BaseCurrency),
			s.CurrentWeightPct,
			s.TargetWeightPct,
			formatting.Percentage(s.DeviationPct, 1),
		)
	}
	w.Flush()
}

func renderList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "  - %s\n", item)
	}
}
