package referral

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// countries lists the supported markets: their local currency and display name.
var countries = map[string]struct{ currency, name string }{
	"PH": {"PHP", "Philippines"},
	"VN": {"VND", "Vietnam"},
	"TH": {"THB", "Thailand"},
	"ID": {"IDR", "Indonesia"},
	"MY": {"MYR", "Malaysia"},
}

// CurrencyForCountry returns the local currency of a supported country.
// ok is false for any other country: the currency is unresolved, which is not
// the same as a currency equal to the base one.
func CurrencyForCountry(country string) (currency string, ok bool) {
	c, ok := countries[country]
	return c.currency, ok
}

// CountryName returns the display name of a supported country, or the country code itself.
func CountryName(country string) string {
	if c, ok := countries[country]; ok {
		return c.name
	}
	return country
}

// Rate is the price of the Base currency expressed in the Quote currency
// convention used by the rate history: an amount in Base is divided by Value
// to be expressed in Quote.
type Rate struct {
	Base  string          `json:"base"`
	Quote string          `json:"quote"`
	Value decimal.Decimal `json:"rate"`
	On    time.Time       `json:"on"`
}

// RateSource returns the most recent rate for a currency pair, effective on or before asOf.
// It returns ErrRateUnavailable when there is none.
type RateSource interface {
	LatestRate(ctx context.Context, base, quote string, asOf time.Time) (Rate, error)
}

// Rates is an in-memory rate history.
type Rates []Rate

// LatestRate implements RateSource.
func (rs Rates) LatestRate(_ context.Context, base, quote string, asOf time.Time) (Rate, error) {
	var latest Rate
	found := false
	for _, r := range rs {
		if r.Base != base || r.Quote != quote || r.On.After(asOf) {
			continue
		}
		if !found || r.On.After(latest.On) {
			latest, found = r, true
		}
	}
	if !found {
		return Rate{}, fmt.Errorf("%w: %s/%s as of %s", ErrRateUnavailable, base, quote, asOf.Format(time.RFC3339))
	}
	return latest, nil
}

// RatePolicy decides what happens when no rate exists for a needed pair.
type RatePolicy int

const (
	// RateStrict fails the conversion with ErrRateUnavailable.
	RateStrict RatePolicy = iota
	// RateIdentity converts with a factor of 1 and flags the conversion as a fallback.
	RateIdentity
)

func (p RatePolicy) String() string {
	switch p {
	case RateStrict:
		return "strict"
	case RateIdentity:
		return "identity"
	default:
		return fmt.Sprintf("RatePolicy(%d)", int(p))
	}
}

// ParseRatePolicy parses "strict" or "identity".
func ParseRatePolicy(s string) (RatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return RateStrict, nil
	case "identity":
		return RateIdentity, nil
	}
	return RateStrict, fmt.Errorf("invalid rate policy %q, want \"strict\" or \"identity\"", s)
}

// Conversion is a resolved conversion factor between two currencies.
// Amounts are divided by Rate.
type Conversion struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Rate     decimal.Decimal `json:"rate"`
	Resolved bool            `json:"resolved"` // false when the target currency could not be resolved
	Fallback bool            `json:"fallback"` // true when a missing rate was replaced by 1
}

// Identity returns the no-op conversion of a currency into itself.
func Identity(currency string) Conversion {
	return Conversion{From: currency, To: currency, Rate: decimal.NewFromInt(1), Resolved: true}
}

// IsIdentity reports whether Apply leaves values unchanged.
func (c Conversion) IsIdentity() bool { return c.Rate.Equal(decimal.NewFromInt(1)) }

// Apply converts m into the target currency.
func (c Conversion) Apply(m Money) Money {
	if c.Rate.IsZero() || c.IsIdentity() {
		return Money{value: m.value, cur: c.To}
	}
	return Money{value: m.value.Div(c.Rate), cur: c.To}
}

// Converter resolves conversion factors from a base currency as of now.
type Converter struct {
	Base   string
	Rates  RateSource
	Policy RatePolicy
	Now    func() time.Time
}

// NewConverter returns a Converter from base using rates.
func NewConverter(base string, rates RateSource, policy RatePolicy) *Converter {
	return &Converter{Base: base, Rates: rates, Policy: policy, Now: time.Now}
}

func (c *Converter) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// ForCountry returns the conversion from the base currency into the local
// currency of country. An unsupported country yields an unresolved identity
// conversion that keeps the base currency.
func (c *Converter) ForCountry(ctx context.Context, country string) (Conversion, error) {
	to, ok := CurrencyForCountry(country)
	if !ok {
		conv := Identity(c.Base)
		conv.Resolved = false
		return conv, nil
	}
	return c.Factor(ctx, c.Base, to)
}

// Factor returns the conversion from one currency into another.
//
// The direct pair is looked up first, then the inverse pair whose rate is
// inverted. A missing rate is handled according to the Policy.
func (c *Converter) Factor(ctx context.Context, from, to string) (Conversion, error) {
	if from == to || to == "" {
		conv := Identity(from)
		conv.Resolved = to != ""
		return conv, nil
	}
	rate, err := c.rate(ctx, from, to)
	if err == nil {
		return Conversion{From: from, To: to, Rate: rate, Resolved: true}, nil
	}
	if c.Policy != RateIdentity {
		return Conversion{}, err
	}
	zerolog.Ctx(ctx).Warn().Err(err).Str("from", from).Str("to", to).Msg("no exchange rate, converting with a factor of 1")
	conv := Identity(from)
	conv.To, conv.Fallback = to, true
	return conv, nil
}

// rate finds the rate dividing amounts in from into amounts in to.
func (c *Converter) rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if c.Rates == nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s/%s: no rate source", ErrRateUnavailable, from, to)
	}
	now := c.now()
	r, err := c.Rates.LatestRate(ctx, from, to, now)
	if err == nil && r.Value.IsPositive() {
		return r.Value, nil
	}
	// If the direct pair is not found, try the inverse pair.
	inv, invErr := c.Rates.LatestRate(ctx, to, from, now)
	if invErr == nil && inv.Value.IsPositive() {
		return decimal.NewFromInt(1).Div(inv.Value), nil
	}
	if err == nil {
		err = fmt.Errorf("%w: %s/%s rate is %s", ErrRateUnavailable, from, to, r.Value)
	}
	return decimal.Decimal{}, err
}

// Convert converts amount into the currency to.
func (c *Converter) Convert(ctx context.Context, amount Money, to string) (Money, error) {
	conv, err := c.Factor(ctx, amount.Currency(), to)
	if err != nil {
		return Money{}, err
	}
	return conv.Apply(amount), nil
}
