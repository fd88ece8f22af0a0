package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/referral"
	"github.com/etnz/referral/renderer"
	"github.com/google/subcommands"
)

type bonusesCmd struct {
	csv string
}

func (*bonusesCmd) Name() string     { return "bonuses" }
func (*bonusesCmd) Synopsis() string { return "list the additional bonuses of the referrer" }
func (*bonusesCmd) Usage() string {
	return `refs bonuses [-csv <file or folder>]

  Lists the additional bonuses paid each time a progress cycle completed,
  most recent first.

  -csv exports the listing instead of printing it. When the path is a folder,
  the file is named after the current day: "Additional Bonus - YYYY-MM-DD.csv".
`
}

func (c *bonusesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.csv, "csv", "", "Export the listing as CSV to this file or folder.")
}

func (c *bonusesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, referrer, ok := start(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.Close()

	rows, err := a.reporter.ListGroupBonuses(a.ctx, referrer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.csv != "" {
		filename, err := exportCSV(c.csv, "Additional Bonus", a.cfg.Now(), func(f *os.File) error {
			return referral.WriteGroupBonusesCSV(f, rows)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(os.Stderr, "Exported %d additional bonuses to %s\n", len(rows), filename)
		return subcommands.ExitSuccess
	}

	printMarkdown(renderer.RenderGroupBonuses(rows))
	return subcommands.ExitSuccess
}
