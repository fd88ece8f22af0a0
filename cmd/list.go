package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/referral"
	"github.com/etnz/referral/renderer"
	"github.com/google/subcommands"
)

type listCmd struct {
	order string
	asc   bool
	csv   string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list the referrals of the referrer" }
func (*listCmd) Usage() string {
	return `refs list [-o <column>] [-asc] [-csv <file or folder>]

  Lists the referrals, most recent first, with the referee email masked.

  -o orders by one of: ` + strings.Join(referral.ListColumns, ", ") + `.
  -csv exports the listing instead of printing it. When the path is a folder,
  the file is named after the current day: "Referrals - YYYY-MM-DD.csv".
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.order, "o", "", "Column to order by.")
	f.BoolVar(&c.asc, "asc", false, "Order ascending instead of descending.")
	f.StringVar(&c.csv, "csv", "", "Export the listing as CSV to this file or folder.")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, referrer, ok := start(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.Close()

	rows, err := a.reporter.ListReferrals(a.ctx, referrer, referral.ListOrder{Column: c.order, Ascending: c.asc})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.csv != "" {
		filename, err := exportCSV(c.csv, "Referrals", a.cfg.Now(), func(f *os.File) error {
			return referral.WriteReferralsCSV(f, rows)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Exported %d referrals to %s\n", len(rows), filename)
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.RenderReferrals(rows))
	return subcommands.ExitSuccess
}
