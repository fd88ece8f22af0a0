package referral

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/etnz/referral/date"
)

func newTestReporter(src Source, policy RatePolicy) *Reporter {
	r := NewReporter(src, testConverter(policy))
	r.Now = func() time.Time { return testNow }
	return r
}

func TestIsActive(t *testing.T) {
	approved := date.MustParse("2025-01-01")
	testCases := []struct {
		day  string
		want bool
	}{
		{"2025-01-01", true},
		{"2025-06-29", true}, // 179 days
		{"2025-06-30", false},
	}
	for _, tc := range testCases {
		if got := IsActive(approved, date.MustParse(tc.day)); got != tc.want {
			t.Errorf("IsActive(%v, %s) = %v, want %v", approved, tc.day, got, tc.want)
		}
	}
}

func TestReporter_Overview(t *testing.T) {
	r := newTestReporter(newTestSource(), RateStrict)
	o, err := r.Overview(context.Background(), 7, "MYR")
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	// PHP 887.5 is MYR 71, plus MYR 15 and MYR 25 of additional bonuses.
	if want := MYR("111"); !o.TotalEarned.Equal(want) {
		t.Errorf("TotalEarned = %v, want %v", o.TotalEarned, want)
	}
	if want := MYR("33"); !o.TotalCredited.Equal(want) {
		t.Errorf("TotalCredited = %v, want %v", o.TotalCredited, want)
	}
	if o.Active != 1 {
		t.Errorf("Active = %d, want 1", o.Active)
	}
}

func TestReporter_Overview_Errors(t *testing.T) {
	r := newTestReporter(newTestSource(), RateStrict)
	if _, err := r.Overview(context.Background(), 7, "THB"); !errors.Is(err, ErrRateUnavailable) {
		t.Errorf("Overview(THB) error = %v, want ErrRateUnavailable", err)
	}
	if _, err := r.Overview(context.Background(), 7, "XYZ"); !errors.Is(err, ErrUnknownCurrency) {
		t.Errorf("Overview(XYZ) error = %v, want ErrUnknownCurrency", err)
	}
}

func TestReporter_ListReferrals(t *testing.T) {
	r := newTestReporter(newTestSource(), RateStrict)
	ctx := context.Background()

	rows, err := r.ListReferrals(ctx, 7, ListOrder{})
	if err != nil {
		t.Fatalf("ListReferrals() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListReferrals() returned %d rows, want 2", len(rows))
	}
	if rows[0].ID != 2 || rows[1].ID != 1 {
		t.Errorf("default order = [%d %d], want [2 1]", rows[0].ID, rows[1].ID)
	}

	first := rows[1]
	if first.Email != "jo*****@e******.***" {
		t.Errorf("Email = %q, want masked", first.Email)
	}
	if first.Country != "Philippines" || first.Milestones != 3 || first.TotalAchievedStack != 3 {
		t.Errorf("row = %+v, want Philippines, 3 milestones, 3 stacks", first)
	}
	if got := first.Approved.String(); got != "PHP 887.50" {
		t.Errorf("Approved = %q, want %q", got, "PHP 887.50")
	}
	if !slices.Equal(first.TierBonusIDs, []int64{1, 2, 3, 4}) {
		t.Errorf("TierBonusIDs = %v", first.TierBonusIDs)
	}

	rows, err = r.ListReferrals(ctx, 7, ListOrder{Column: "milestones", Ascending: true})
	if err != nil {
		t.Fatalf("ListReferrals(milestones) error = %v", err)
	}
	if rows[0].Milestones != 1 || rows[1].Milestones != 3 {
		t.Errorf("milestones order = [%d %d], want [1 3]", rows[0].Milestones, rows[1].Milestones)
	}

	rows, err = r.ListReferrals(ctx, 7, ListOrder{Column: "stack"})
	if err != nil {
		t.Fatalf("ListReferrals(stack) error = %v", err)
	}
	if rows[0].TotalAchievedStack != 3 {
		t.Errorf("stack order = %d first, want 3", rows[0].TotalAchievedStack)
	}

	if _, err := r.ListReferrals(ctx, 7, ListOrder{Column: "bogus"}); err == nil {
		t.Errorf("ListReferrals(bogus) should fail")
	}
}

func TestReporter_ListReferrals_MalformedEmail(t *testing.T) {
	src := newTestSource()
	src.referrals[0].Email = "johndoe"
	r := newTestReporter(src, RateStrict)
	if _, err := r.ListReferrals(context.Background(), 7, ListOrder{}); !errors.Is(err, ErrMalformedEmail) {
		t.Errorf("ListReferrals() error = %v, want ErrMalformedEmail", err)
	}
}

func TestReporter_ReferralDetail(t *testing.T) {
	r := newTestReporter(newTestSource(), RateStrict)
	ctx := context.Background()

	d, err := r.ReferralDetail(ctx, 7, 101)
	if err != nil {
		t.Fatalf("ReferralDetail(101) error = %v", err)
	}
	if d.Status != "Active" || d.Email != "jo*****@e******.***" || d.Country != "Philippines" {
		t.Errorf("detail = %+v", d)
	}
	if want := PHP("887.5"); !d.Earnings.Total.Equal(want) {
		t.Errorf("Total = %v, want %v", d.Earnings.Total, want)
	}

	d, err = r.ReferralDetail(ctx, 7, 102)
	if err != nil {
		t.Fatalf("ReferralDetail(102) error = %v", err)
	}
	if d.Status != "Expired" {
		t.Errorf("Status = %q, want Expired", d.Status)
	}
	// signup 5 and tier 11, the retired MY payout portion was never achieved.
	if want := MYR("15"); !d.Earnings.Total.Equal(want) {
		t.Errorf("Total = %v, want %v", d.Earnings.Total, want)
	}
	if len(d.Earnings.Stacks) != 0 {
		t.Errorf("Stacks = %v, want none", d.Earnings.Stacks)
	}
}

func TestReporter_ReferralDetail_NoData(t *testing.T) {
	r := newTestReporter(newTestSource(), RateStrict)
	for _, referee := range []int64{999, 103} { // 103 is a referral of another referrer.
		if _, err := r.ReferralDetail(context.Background(), 7, referee); !errors.Is(err, ErrNoData) {
			t.Errorf("ReferralDetail(%d) error = %v, want ErrNoData", referee, err)
		}
	}
}

func TestReporter_ReferralDetail_RatePolicy(t *testing.T) {
	strict := newTestReporter(newTestSource(), RateStrict)
	strict.Converter.Rates = Rates(nil)
	if _, err := strict.ReferralDetail(context.Background(), 7, 101); !errors.Is(err, ErrRateUnavailable) {
		t.Errorf("strict ReferralDetail() error = %v, want ErrRateUnavailable", err)
	}

	r := newTestReporter(newTestSource(), RateIdentity)
	r.Converter.Rates = Rates(nil)
	d, err := r.ReferralDetail(context.Background(), 7, 101)
	if err != nil {
		t.Fatalf("identity ReferralDetail() error = %v", err)
	}
	if !d.Earnings.Conversion.Fallback {
		t.Errorf("the conversion should be flagged as a fallback")
	}
	// 5 + 60 + 2*3 with a factor of 1.
	if want := PHP("71"); !d.Earnings.Total.Equal(want) {
		t.Errorf("Total = %v, want %v", d.Earnings.Total, want)
	}
}

func TestReporter_ListGroupBonuses(t *testing.T) {
	r := newTestReporter(newTestSource(), RateStrict)
	rows, err := r.ListGroupBonuses(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListGroupBonuses() error = %v", err)
	}
	if len(rows) != 2 || rows[0].ID != 2 || rows[1].ID != 1 {
		t.Fatalf("ListGroupBonuses() = %+v, want ids [2 1]", rows)
	}
	if got := rows[1].Approved.String(); got != "MYR 20.00" {
		t.Errorf("Approved = %q, want %q", got, "MYR 20.00")
	}
}

func TestReporter_Progress(t *testing.T) {
	r := newTestReporter(newTestSource(), RateStrict)
	p, ok, err := r.Progress(context.Background(), 7)
	if err != nil || !ok {
		t.Fatalf("Progress() = %v, %v", ok, err)
	}
	want := ProgressSummary{BonusID: 22, Total: 5, Progress: 2, StackMultiplier: 1}
	if p.BonusID != want.BonusID || p.Total != want.Total || p.Progress != want.Progress || p.StackMultiplier != want.StackMultiplier {
		t.Errorf("Progress() = %+v, want %+v", p, want)
	}
	if !p.BonusValue.Equal(MYR("4")) || !p.Threshold.Equal(D("20")) {
		t.Errorf("bonus value %v threshold %v, want MYR 4 and 20", p.BonusValue, p.Threshold)
	}

	if _, ok, err := r.Progress(context.Background(), 8); ok || err != nil {
		t.Errorf("Progress(8) = %v, %v, want no active counter", ok, err)
	}
}

func TestReporter_Progress_InvalidCounter(t *testing.T) {
	src := newTestSource()
	src.progress[1].Ref = 0
	if _, _, err := newTestReporter(src, RateStrict).Progress(context.Background(), 7); !errors.Is(err, ErrInvalidThreshold) {
		t.Errorf("Progress() error = %v, want ErrInvalidThreshold", err)
	}
}

func TestReporter_Reconcile(t *testing.T) {
	r := newTestReporter(newTestSource(), RateStrict)
	got, err := r.Reconcile(context.Background(), 7)
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}
	want := []Reconciliation{
		{BonusID: 21, ProgressID: 1, Expired: true, CompletedCycles: 2, Recorded: 3},
		{BonusID: 22, ProgressID: 2, CompletedCycles: 1, Recorded: 1},
	}
	if !slices.Equal(got, want) {
		t.Errorf("Reconcile() = %+v, want %+v", got, want)
	}
	if got[0].Consistent() || !got[1].Consistent() {
		t.Errorf("Consistent() = %v %v, want false true", got[0].Consistent(), got[1].Consistent())
	}
}
