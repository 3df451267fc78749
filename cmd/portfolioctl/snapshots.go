package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"github.com/heisenbergtrx/portfolio-dashboard/internal/domain"
	"github.com/heisenbergtrx/portfolio-dashboard/pkg/formatting"
)

type snapshotsCmd struct {
	commonFlags
	limit int
	take  bool
}

func (*snapshotsCmd) Name() string     { return "snapshots" }
func (*snapshotsCmd) Synopsis() string { return "list or take portfolio snapshots" }
func (*snapshotsCmd) Usage() string {
	return `portfolioctl snapshots [-n <limit>] [-take [-market <file>]]

  Lists the most recent snapshots, newest first. With -take, refreshes the
  portfolio and records a snapshot for the current week when none exists.
`
}

func (c *snapshotsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 12, "number of snapshots to list")
	f.BoolVar(&c.take, "take", false, "refresh and record a snapshot")
	f.StringVar(&c.market, "market", "", "market data file used with -take")
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *snapshotsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.limit <= 0 {
		fmt.Fprintln(os.Stderr, "-n must be positive")
		return subcommands.ExitUsageError
	}

	a, err := newApp(ctx, c.verbose)
	if err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}
	defer a.Close()

	baseCurrency := a.baseCurrency()
	if c.take {
		if _, err := a.refresh(ctx, c.market); err != nil {
			fail(err)
			return subcommands.ExitFailure
		}
		snap, err := a.container.RefreshService.TakeSnapshot(ctx)
		if err != nil {
			fail(err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Recorded snapshot %s (%s)\n\n", snap.ID, formatting.Currency(snap.TotalValueBase, baseCurrency))
	}

	list, err := a.container.SnapshotRepo.ListRecent(ctx, c.limit)
	if err != nil {
		fail(err)
		return subcommands.ExitFailure
	}

	renderSnapshots(os.Stdout, list, baseCurrency)
	return subcommands.ExitSuccess
}

func renderSnapshots(out io.Writer, list []domain.PortfolioSnapshot, baseCurrency string) {
	if len(list) == 0 {
		fmt.Fprintln(out, "No snapshots recorded")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WEEK\tTIMESTAMP\tTOTAL\tHOLDINGS")
	for _, s := range list {
		year, week := s.Period()
		fmt.Fprintf(w, "%d-W%02d\t%s\t%s\t%d\n",
			year, week,
			s.Timestamp.UTC().Format(time.RFC3339),
			formatting.Currency(s.TotalValueBase, baseCurrency),
			len(s.Breakdown),
		)
	}
	w.Flush()
}
