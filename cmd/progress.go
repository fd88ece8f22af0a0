package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/referral/renderer"
	"github.com/google/subcommands"
)

type progressCmd struct{}

func (*progressCmd) Name() string { return "progress" }
func (*progressCmd) Synopsis() string {
	return "display the progress toward the next additional bonus"
}
func (*progressCmd) Usage() string {
	return `refs progress

  Displays the position of the active progress counter in its current cycle,
  the value of the bonus paid when the cycle completes, and the number of
  cycles already completed.
`
}

func (c *progressCmd) SetFlags(f *flag.FlagSet) {}

func (c *progressCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, referrer, ok := start(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.Close()

	p, active, err := a.reporter.Progress(a.ctx, referrer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderProgress(p, active))
	return subcommands.ExitSuccess
}
