package referral

import (
	"context"
	"errors"
	"testing"
)

func TestCurrencyForCountry(t *testing.T) {
	testCases := []struct {
		country  string
		currency string
		ok       bool
		name     string
	}{
		{"PH", "PHP", true, "Philippines"},
		{"VN", "VND", true, "Vietnam"},
		{"TH", "THB", true, "Thailand"},
		{"ID", "IDR", true, "Indonesia"},
		{"MY", "MYR", true, "Malaysia"},
		{"SG", "", false, "SG"},
		{"", "", false, ""},
	}
	for _, tc := range testCases {
		currency, ok := CurrencyForCountry(tc.country)
		if currency != tc.currency || ok != tc.ok {
			t.Errorf("CurrencyForCountry(%q) = %q, %v, want %q, %v", tc.country, currency, ok, tc.currency, tc.ok)
		}
		if got := CountryName(tc.country); got != tc.name {
			t.Errorf("CountryName(%q) = %q, want %q", tc.country, got, tc.name)
		}
	}
}

func TestRates_LatestRate(t *testing.T) {
	ctx := context.Background()

	r, err := testRates.LatestRate(ctx, "MYR", "PHP", testNow)
	if err != nil {
		t.Fatalf("LatestRate() error = %v", err)
	}
	if !r.Value.Equal(D("0.08")) {
		t.Errorf("LatestRate() = %v, want the 2025-06-01 rate 0.08 (future rates ignored)", r.Value)
	}

	r, err = testRates.LatestRate(ctx, "MYR", "PHP", at("2025-03-01"))
	if err != nil {
		t.Fatalf("LatestRate() error = %v", err)
	}
	if !r.Value.Equal(D("0.1")) {
		t.Errorf("LatestRate(2025-03-01) = %v, want 0.1", r.Value)
	}

	if _, err := testRates.LatestRate(ctx, "MYR", "THB", testNow); !errors.Is(err, ErrRateUnavailable) {
		t.Errorf("LatestRate(MYR/THB) error = %v, want ErrRateUnavailable", err)
	}
}

func TestConverter_SameCurrencyIsIdentity(t *testing.T) {
	ctx := context.Background()
	c := testConverter(RateStrict)
	for _, v := range []string{"0", "0.005", "1", "123456.789", "-42.5"} {
		for _, cur := range []string{"MYR", "PHP", "THB"} {
			x := MustParseMoney(v, cur)
			got, err := c.Convert(ctx, x, cur)
			if err != nil {
				t.Fatalf("Convert(%v, %s) error = %v", x, cur, err)
			}
			if !got.Equal(x) {
				t.Errorf("Convert(%v, %s) = %v, want %v", x, cur, got, x)
			}
		}
	}
}

// TestConverter_DividesByRate pins the convention: amounts are divided by the rate.
func TestConverter_DividesByRate(t *testing.T) {
	ctx := context.Background()
	c := NewConverter("MYR", Rates{{Base: "MYR", Quote: "PHP", Value: D("50"), On: at("2025-01-01")}}, RateStrict)

	conv, err := c.ForCountry(ctx, "PH")
	if err != nil {
		t.Fatalf("ForCountry(PH) error = %v", err)
	}
	if got, want := conv.Apply(MYR("60")), PHP("1.2"); !got.Equal(want) {
		t.Errorf("Apply(MYR 60) = %v, want %v", got, want)
	}
	if !conv.Resolved || conv.Fallback {
		t.Errorf("conversion = %+v, want resolved and no fallback", conv)
	}
}

func TestConverter_InversePair(t *testing.T) {
	ctx := context.Background()
	c := testConverter(RateStrict)
	got, err := c.Convert(ctx, PHP("887.5"), "MYR")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	// 1/0.08 = 12.5
	if want := MYR("71"); !got.Equal(want) {
		t.Errorf("Convert(PHP 887.5, MYR) = %v, want %v", got, want)
	}
}

func TestConverter_UnresolvedCountry(t *testing.T) {
	conv, err := testConverter(RateStrict).ForCountry(context.Background(), "SG")
	if err != nil {
		t.Fatalf("ForCountry(SG) error = %v", err)
	}
	if conv.Resolved {
		t.Errorf("ForCountry(SG) should be unresolved")
	}
	if conv.To != "MYR" || !conv.IsIdentity() {
		t.Errorf("ForCountry(SG) = %+v, want identity in the base currency", conv)
	}
	if got := conv.Apply(MYR("12.34")); !got.Equal(MYR("12.34")) {
		t.Errorf("Apply() = %v, want MYR 12.34", got)
	}
}

func TestConverter_MissingRate(t *testing.T) {
	ctx := context.Background()

	t.Run("strict", func(t *testing.T) {
		_, err := testConverter(RateStrict).ForCountry(ctx, "TH")
		if !errors.Is(err, ErrRateUnavailable) {
			t.Errorf("ForCountry(TH) error = %v, want ErrRateUnavailable", err)
		}
	})

	t.Run("identity", func(t *testing.T) {
		conv, err := testConverter(RateIdentity).ForCountry(ctx, "TH")
		if err != nil {
			t.Fatalf("ForCountry(TH) error = %v", err)
		}
		if !conv.Fallback || !conv.IsIdentity() || conv.To != "THB" {
			t.Errorf("ForCountry(TH) = %+v, want a THB fallback with factor 1", conv)
		}
		if got, want := conv.Apply(MYR("10")), MustParseMoney("10", "THB"); !got.Equal(want) {
			t.Errorf("Apply(MYR 10) = %v, want %v", got, want)
		}
	})
}

func TestParseRatePolicy(t *testing.T) {
	testCases := []struct {
		in      string
		want    RatePolicy
		wantErr bool
	}{
		{"", RateStrict, false},
		{"strict", RateStrict, false},
		{"Identity", RateIdentity, false},
		{"lenient", RateStrict, true},
	}
	for _, tc := range testCases {
		got, err := ParseRatePolicy(tc.in)
		if (err != nil) != tc.wantErr || got != tc.want {
			t.Errorf("ParseRatePolicy(%q) = %v, %v, want %v, error: %v", tc.in, got, err, tc.want, tc.wantErr)
		}
	}
}
