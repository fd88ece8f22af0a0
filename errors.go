package referral

import "errors"

var (
	// ErrInvalidThreshold is returned when a cycle length or a tier threshold is zero or negative.
	ErrInvalidThreshold = errors.New("invalid threshold")
	// ErrInvalidProgress is returned for a negative progress counter.
	ErrInvalidProgress = errors.New("invalid progress")
	// ErrRateUnavailable is returned when no exchange rate exists for a currency pair.
	ErrRateUnavailable = errors.New("exchange rate unavailable")
	// ErrMalformedEmail is returned when an email address has no '@'.
	ErrMalformedEmail = errors.New("malformed email")
	// ErrNoData is returned when the requested referral does not exist for the referrer.
	ErrNoData = errors.New("no data")
	// ErrUnknownCurrency is returned for a code that is not an ISO 4217 currency.
	ErrUnknownCurrency = errors.New("unknown currency")
)
