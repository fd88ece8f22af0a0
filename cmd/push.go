package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/referral/store"
	"github.com/etnz/referral/store/sqlstore"
	"github.com/google/subcommands"
)

type pushCmd struct {
	migrate bool
}

func (*pushCmd) Name() string { return "push" }
func (*pushCmd) Synopsis() string {
	return "copy the data folder into the database"
}
func (*pushCmd) Usage() string {
	return `refs push [-migrate]

  Upserts every table of the data folder into the PostgreSQL database of
  $` + EnvDatabaseURL + `, in a single transaction.

  -migrate creates or updates the tables first.
`
}

func (c *pushCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.migrate, "migrate", false, "Create or update the tables before pushing.")
}

func (c *pushCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintf(os.Stderr, "Error: $%s is not set.\n", EnvDatabaseURL)
		return subcommands.ExitUsageError
	}
	log := newLogger(cfg.LogLevel)
	ctx = log.WithContext(ctx)

	folder, err := store.Open(ctx, cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load data folder: %v\n", err)
		return subcommands.ExitFailure
	}
	db, err := sqlstore.Open(cfg.DatabaseURL, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer db.Close()

	if c.migrate {
		if err := db.Migrate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if err := db.Import(ctx, &folder.Data); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "✅ Pushed %d referrals from %s.\n", len(folder.ReferralRows), folder.Dir())
	return subcommands.ExitSuccess
}
