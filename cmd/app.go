// Package cmd implements the refs CLI application, reporting on the earnings of a referrer.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/referral"
	"github.com/etnz/referral/store"
	"github.com/etnz/referral/store/ratecache"
	"github.com/etnz/referral/store/sqlstore"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&overviewCmd{}, "reports")
	c.Register(&listCmd{}, "reports")
	c.Register(&detailCmd{}, "reports")
	c.Register(&bonusesCmd{}, "reports")
	c.Register(&progressCmd{}, "reports")
	c.Register(&auditCmd{}, "reports")

	c.Register(&fmtCmd{}, "data")
	c.Register(&pushCmd{}, "data")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	referrerID = flag.Int64("referrer", 0, "Id of the referrer to report on (defaults to $"+EnvReferrer+")")
	dataDir    = flag.String("data", "", "Path to the data folder (defaults to $"+EnvDataDir+" or "+defaultDataDir+")")
	htmlOutput = flag.Bool("html", false, "Print reports as HTML instead of rendering them for the terminal")
	verbose    = flag.Bool("v", false, "Log debug messages")
)

// app is what a command needs to run.
type app struct {
	cfg      config
	ctx      context.Context
	source   referral.Source
	reporter *referral.Reporter
	closers  []func() error
}

// newApp loads the configuration, the logger and the data source.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}
	log := newLogger(cfg.LogLevel)
	a.ctx = log.WithContext(ctx)

	if err := a.openSource(log); err != nil {
		a.Close()
		return nil, err
	}
	rates := referral.RateSource(a.source)
	if cfg.RedisAddr != "" {
		rdb, err := ratecache.Connect(a.ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		rates = ratecache.New(rdb, a.source, cfg.RedisTTL)
	}

	conv := referral.NewConverter(cfg.BaseCurrency, rates, cfg.RatePolicy)
	conv.Now = cfg.Now
	a.reporter = referral.NewReporter(a.source, conv)
	a.reporter.Now = cfg.Now
	return a, nil
}

// openSource opens the database when one is configured, the data folder otherwise.
func (a *app) openSource(log zerolog.Logger) error {
	if a.cfg.DatabaseURL == "" {
		f, err := store.Open(a.ctx, a.cfg.DataDir)
		if err != nil {
			return err
		}
		a.source = f
		return nil
	}
	db, err := sqlstore.Open(a.cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, db.Close)
	a.source = db
	return nil
}

// referrer returns the referrer to report on, or an error when none was given.
func (a *app) referrer() (int64, error) {
	if a.cfg.Referrer <= 0 {
		return 0, fmt.Errorf("a referrer is required: use -referrer or $%s", EnvReferrer)
	}
	return a.cfg.Referrer, nil
}

// Close releases the connections of the app.
func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			zerolog.Ctx(a.ctx).Warn().Err(err).Msg("close failed")
		}
	}
}

// start is the common preamble of the report commands: it returns the app
// and the referrer, or prints the error.
func start(ctx context.Context) (*app, int64, bool) {
	a, err := newApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, 0, false
	}
	referrer, err := a.referrer()
	if err != nil {
		a.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return nil, 0, false
	}
	return a, referrer, true
}
