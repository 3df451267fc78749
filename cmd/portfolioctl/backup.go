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
	"github.com/heisenbergtrx/portfolio-dashboard/internal/reliability"
)

type backupCmd struct {
	list    bool
	rotate  int
	verbose bool
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "back up the snapshot database to S3" }
func (*backupCmd) Usage() string {
	return `portfolioctl backup [-list] [-rotate <days>]

  Uploads a consistent copy of the snapshot database to the configured bucket.
  -list prints existing backups instead; -rotate deletes backups older than
  the given number of days, always keeping the newest three.
`
}

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "list backups instead of creating one")
	f.IntVar(&c.rotate, "rotate", 0, "delete backups older than this many days")
	f.BoolVar(&c.verbose, "v", false, "verbose logging")
}

func (c *backupCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if c.rotate < 0 {
		fmt.Fprintln(os.Stderr, "-rotate must not be negative")
		return subcommands.ExitUsageError
	}

	a, err := newApp(ctx, c.verbose)
	if err != nil {
		fail(err)
		return subcommands.ExitUsageError
	}
	defer a.Close()

	svc := a.container.BackupService
	if svc == nil {
		fail(reliability.ErrBackupDisabled)
		return subcommands.ExitFailure
	}

	switch {
	case c.list:
		backups, err := svc.ListBackups(ctx)
		if err != nil {
			fail(err)
			return subcommands.ExitFailure
		}
		renderBackups(os.Stdout, backups)
	case c.rotate > 0:
		deleted, err := svc.RotateOldBackups(ctx, c.rotate)
		if err != nil {
			fail(err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Deleted %d backups older than %d days\n", deleted, c.rotate)
	default:
		result, err := svc.Backup(ctx)
		if err != nil {
			fail(err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Uploaded s3://%s/%s (%d bytes, sha256 %s) in %s\n",
			result.Bucket, result.Key, result.SizeBytes, result.Checksum, result.Duration.Round(time.Millisecond))
	}
	return subcommands.ExitSuccess
}

func renderBackups(out io.Writer, backups []reliability.BackupInfo) {
	if len(backups) == 0 {
		fmt.Fprintln(out, "No backups found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tCREATED\tSIZE\tAGE")
	for _, b := range backups {
		fmt.Fprintf(w, "%s\t%s\t%d\t%dh\n", b.Key, b.Timestamp.UTC().Format(time.RFC3339), b.SizeBytes, b.AgeHours)
	}
	w.Flush()
}
