package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/referral/renderer"
	"github.com/google/subcommands"
)

type overviewCmd struct {
	currency string
}

func (*overviewCmd) Name() string { return "overview" }
func (*overviewCmd) Synopsis() string {
	return "display the total bonus earned and credited, and the number of active referrals"
}
func (*overviewCmd) Usage() string {
	return `refs overview [-c <currency>]

  Sums the bonuses of all the referrals of the referrer, and its additional
  bonuses, converted into a single reporting currency (the base currency by
  default). A referral is active for 180 days after its approval.
`
}

func (c *overviewCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "c", "", "Reporting currency (defaults to the base currency).")
}

func (c *overviewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, referrer, ok := start(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.Close()

	currency := strings.ToUpper(firstOf(c.currency, a.cfg.BaseCurrency))
	o, err := a.reporter.Overview(a.ctx, referrer, currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderOverview(o))
	return subcommands.ExitSuccess
}
