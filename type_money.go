package referral

import (
	"encoding/json"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DisplayPlaces is the number of decimals used when a Money is rendered.
//
// Rounding is half away from zero, and it happens only when rendering: all
// arithmetic is carried with the full decimal value.
const DisplayPlaces = 2

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// M returns a Money of value in currency.
func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// MustParseMoney parses a decimal string, and panics on error.
func MustParseMoney(value, currency string) Money {
	return Money{value: decimal.RequireFromString(value), cur: currency}
}

func (m Money) Currency() string       { return m.cur }
func (m Money) Value() decimal.Decimal { return m.value }
func (m Money) Equal(n Money) bool     { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool           { return m.value.IsZero() }
func (m Money) MulInt(n int) Money {
	return Money{value: m.value.Mul(decimal.NewFromInt(int64(n))), cur: m.cur}
}
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Round() Money      { return Money{value: m.value.Round(DisplayPlaces), cur: m.cur} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch " + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// Amount returns the value rounded and grouped for display, without currency: "1,234.50".
func (m Money) Amount() string {
	return money.NewFormatter(DisplayPlaces, ".", ",", "", "1").Format(m.minor())
}

// String returns the currency code followed by the amount: "PHP 1,234.50".
func (m Money) String() string {
	if m.cur == "" {
		return m.Amount()
	}
	return money.NewFormatter(DisplayPlaces, ".", ",", m.cur, "$ 1").Format(m.minor())
}

// minor returns the rounded value in hundredths.
func (m Money) minor() int64 {
	return m.value.Round(DisplayPlaces).Shift(DisplayPlaces).IntPart()
}

// ValidateCurrency checks that code is an ISO 4217 currency known to go-money.
func ValidateCurrency(code string) error {
	if money.GetCurrency(code) == nil {
		return fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}
	return nil
}

// moneyJSON is the json form of Money.
type moneyJSON struct {
	Currency string          `json:"currency,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

// MarshalJSON writes the rounded amount, reports are the only JSON consumers.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Currency: m.cur, Amount: m.value.Round(DisplayPlaces)})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var j moneyJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	m.cur, m.value = j.Currency, j.Amount
	return nil
}
