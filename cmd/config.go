package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/referral"
	"github.com/etnz/referral/date"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Environment variables read by refs, and passed to its extensions.
const (
	EnvReferrer      = "REFS_REFERRER"
	EnvDataDir       = "REFS_DATA_DIR"
	EnvBaseCurrency  = "REFS_BASE_CURRENCY"
	EnvRatePolicy    = "REFS_RATE_POLICY"
	EnvDatabaseURL   = "REFS_DATABASE_URL"
	EnvRedisAddr     = "REFS_REDIS_ADDR"
	EnvRedisPassword = "REFS_REDIS_PASSWORD"
	EnvRedisTTL      = "REFS_REDIS_TTL"
	EnvLogLevel      = "REFS_LOG_LEVEL"
	// EnvNow fixes "today", for reproducible reports.
	EnvNow = "REFS_TESTING_NOW"
)

const (
	defaultDataDir      = ".refs"
	defaultBaseCurrency = "MYR"
)

// config is the resolved configuration of a run: flags first, then the
// environment, then the defaults.
type config struct {
	Referrer      int64
	DataDir       string
	BaseCurrency  string
	RatePolicy    referral.RatePolicy
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTTL      time.Duration
	LogLevel      zerolog.Level
	Now           func() time.Time
}

// loadConfig reads the .env file if any, then the environment and the global flags.
func loadConfig() (config, error) {
	// a missing .env file is not an error, the environment is enough.
	_ = godotenv.Load()
	return parseConfig(os.Getenv)
}

func parseConfig(getenv func(string) string) (config, error) {
	cfg := config{
		DataDir:       firstOf(*dataDir, getenv(EnvDataDir), defaultDataDir),
		BaseCurrency:  strings.ToUpper(firstOf(getenv(EnvBaseCurrency), defaultBaseCurrency)),
		DatabaseURL:   getenv(EnvDatabaseURL),
		RedisAddr:     getenv(EnvRedisAddr),
		RedisPassword: getenv(EnvRedisPassword),
		Now:           time.Now,
	}

	referrer := *referrerID
	if referrer == 0 && getenv(EnvReferrer) != "" {
		var err error
		if referrer, err = strconv.ParseInt(getenv(EnvReferrer), 10, 64); err != nil {
			return config{}, fmt.Errorf("invalid %s: %w", EnvReferrer, err)
		}
	}
	cfg.Referrer = referrer

	if err := referral.ValidateCurrency(cfg.BaseCurrency); err != nil {
		return config{}, fmt.Errorf("invalid %s: %w", EnvBaseCurrency, err)
	}

	var err error
	if cfg.RatePolicy, err = referral.ParseRatePolicy(getenv(EnvRatePolicy)); err != nil {
		return config{}, fmt.Errorf("invalid %s: %w", EnvRatePolicy, err)
	}

	if ttl := getenv(EnvRedisTTL); ttl != "" {
		if cfg.RedisTTL, err = time.ParseDuration(ttl); err != nil {
			return config{}, fmt.Errorf("invalid %s: %w", EnvRedisTTL, err)
		}
	}

	cfg.LogLevel = zerolog.WarnLevel
	if *verbose {
		cfg.LogLevel = zerolog.DebugLevel
	} else if level := getenv(EnvLogLevel); level != "" {
		if cfg.LogLevel, err = zerolog.ParseLevel(level); err != nil {
			return config{}, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
	}

	if now := getenv(EnvNow); now != "" {
		t, err := time.Parse(time.DateTime, now)
		if err != nil {
			d, derr := date.Parse(now)
			if derr != nil {
				return config{}, fmt.Errorf("invalid %s: %w", EnvNow, err)
			}
			t = d.Time()
		}
		cfg.Now = func() time.Time { return t }
	}
	return cfg, nil
}

// firstOf returns the first non empty value.
func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
