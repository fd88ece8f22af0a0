package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/referral"
	"github.com/etnz/referral/renderer"
	"github.com/google/subcommands"
)

type detailCmd struct {
	referee int64
	json    bool
	query   string
}

func (*detailCmd) Name() string     { return "detail" }
func (*detailCmd) Synopsis() string { return "display the earnings breakdown of a referral" }
func (*detailCmd) Usage() string {
	return `refs detail -referee <id> [-json] [-q <jsonpath>]

  Displays the signup bonus, the tier bonuses and the stack bonuses earned
  through one referee, converted into the currency of the referee's country.

  -json prints the breakdown as json, and -q prints only the result of a
  jsonpath query on it, e.g. -q '$.earnings.total.amount'.
`
}

func (c *detailCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.referee, "referee", 0, "Signup affiliate id of the referee.")
	f.BoolVar(&c.json, "json", false, "Print json instead of markdown.")
	f.StringVar(&c.query, "q", "", "jsonpath query on the json output, implies -json.")
}

func (c *detailCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.referee == 0 {
		fmt.Fprintln(os.Stderr, "Error: -referee is required.")
		return subcommands.ExitUsageError
	}
	a, referrer, ok := start(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.Close()

	d, err := a.reporter.ReferralDetail(a.ctx, referrer, c.referee)
	if errors.Is(err, referral.ErrNoData) {
		fmt.Fprintf(os.Stderr, "No data: referee %d is not a referral of %d.\n", c.referee, referrer)
		return subcommands.ExitFailure
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json || c.query != "" {
		if err := writeJSON(os.Stdout, d, c.query); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.RenderDetail(d))
	return subcommands.ExitSuccess
}
