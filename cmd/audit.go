package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/referral/renderer"
	"github.com/google/subcommands"
)

type auditCmd struct {
	strict bool
}

func (*auditCmd) Name() string { return "audit" }
func (*auditCmd) Synopsis() string {
	return "check that the stack records agree with the progress counters"
}
func (*auditCmd) Usage() string {
	return `refs audit [-strict]

  Compares, for each stacking bonus, the number of stack records of the
  referrer with the cycles completed by its progress counter. Stack bonuses
  are computed from the records, the counters only drive the progress bar.

  -strict exits with a failure status when any bonus diverges.
`
}

func (c *auditCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.strict, "strict", false, "Fail when the records diverge from the counters.")
}

func (c *auditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, referrer, ok := start(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.Close()

	rows, err := a.reporter.Reconcile(a.ctx, referrer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderAudit(rows))

	if c.strict {
		for _, r := range rows {
			if !r.Consistent() {
				return subcommands.ExitFailure
			}
		}
	}
	return subcommands.ExitSuccess
}
