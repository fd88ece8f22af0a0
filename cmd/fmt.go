package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/referral/store"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the data folder into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `refs fmt

  Validates the data folder: ids are unique, tier ids and stack records refer
  to existing bonus settings, thresholds and cycle lengths are positive.
  Then sorts every table by id and writes them back, one json object per line.

Usage Examples:
# Formats the default data folder.
$ refs fmt

`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (c *fmtCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	ctx = newLogger(cfg.LogLevel).WithContext(ctx)

	folder, err := store.Open(ctx, cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load data folder: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := folder.Save(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not save data folder: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "✅ Successfully formatted %s.\n", folder.Dir())
	return subcommands.ExitSuccess
}
