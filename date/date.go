// Package date provides a day-granular Date used for approval dates and
// bonus achievement dates.
package date

import (
	"cmp"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// Layout is the ISO 8601 layout dates are written with.
	Layout = "2006-01-02"
	// lenient also accepts single digit months and days.
	lenient = "2006-1-2"
)

// Date is a calendar day. The zero Date is "no date".
//
// Dates are comparable with ==.
type Date struct {
	y int
	m time.Month
	d int
}

// New returns the Date of year, month and day, normalized like time.Date:
// February 30th is March 2nd.
func New(year int, month time.Month, day int) Date {
	var d Date
	d.y, d.m, d.d = time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return d
}

// Of returns the day of t in t's location.
func Of(t time.Time) Date { return New(t.Date()) }

// Today returns the current day.
func Today() Date { return Of(time.Now()) }

// Time returns midnight UTC of d.
func (d Date) Time() time.Time { return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, time.UTC) }

func (d Date) IsZero() bool { return d == Date{} }

// Add returns d moved by days.
func (d Date) Add(days int) Date { return New(d.y, d.m, d.d+days) }

// DaysSince returns the number of days from x to d, negative when d is before x.
func (d Date) DaysSince(x Date) int {
	return int(d.Time().Sub(x.Time()).Hours() / 24)
}

// Compare returns -1, 0 or +1 when d is before, on, or after x.
func (d Date) Compare(x Date) int {
	return cmp.Or(cmp.Compare(d.y, x.y), cmp.Compare(d.m, x.m), cmp.Compare(d.d, x.d))
}

// String returns d in the Layout, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(Layout)
}

// Parse parses "2025-07-01", and also "2025-7-1".
func Parse(s string) (Date, error) {
	t, err := time.Parse(lenient, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q, want %s: %w", s, Layout, err)
	}
	return Of(t), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// UnmarshalJSON reads a json string, "" being the zero Date.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }
