package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/modules/refresh"
	"github.com/heisenbergtrx/portfolio-dashboard/pkg/formatting"
)

type riskCmd struct {
	commonFlags
}

func (*riskCmd) Name() string     { return "risk" }
func (*riskCmd) Synopsis() string { return "print portfolio risk metrics" }
func (*riskCmd) Usage() string {
	return `portfolioctl risk [-market <file>]

  Refreshes the portfolio and prints volatility, risk-adjusted ratios,
  drawdown and diversification. Metrics without enough history print as N/A.
`
}

func (c *riskCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.market, "market", "", "market data file (defaults to MARKET_DATA_FILE)")
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *riskCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
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

	renderRisk(os.Stdout, result)
	return subcommands.ExitSuccess
}

func renderRisk(out io.Writer, result *refresh.Result) {
	m := result.Metrics

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Monthly volatility\t%s\n", formatting.OptionalPercentage(m.VolatilityMonthlyPct, 2))
	fmt.Fprintf(w, "Sharpe ratio\t%s\n", formatting.OptionalNumber(m.SharpeRatio, 2))
	fmt.Fprintf(w, "Sortino ratio\t%s\n", formatting.OptionalNumber(m.SortinoRatio, 2))
	fmt.Fprintf(w, "Beta vs reference\t%s\n", formatting.OptionalNumber(m.BetaVsReference, 2))
	fmt.Fprintf(w, "Diversification\t%s\n", formatting.OptionalNumber(m.DiversificationScore, 1))
	fmt.Fprintf(w, "Current drawdown\t%s\n", formatting.OptionalPercentage(m.CurrentDrawdownPct, 2))
	fmt.Fprintf(w, "Max drawdown\t%s\n", formatting.OptionalPercentage(m.MaxDrawdownPct, 2))
	if m.ATHValue != nil {
		fmt.Fprintf(w, "All-time high\t%s\n", formatting.Currency(*m.ATHValue, result.BaseCurrency))
	} else {
		fmt.Fprintf(w, "All-time high\tN/A\n")
	}
	fmt.Fprintf(w, "Snapshots\t%d\n", result.PortfolioRisk.Snapshots)
	fmt.Fprintf(w, "Periods in drawdown\t%d\n", result.PortfolioRisk.PeriodsInDrawdown)
	w.Flush()

	renderList(out, "Warnings", result.HoldingRisk.Warnings())
}
