package referral

import (
	"context"
	"fmt"
	"time"

	"github.com/etnz/referral/date"
	"github.com/shopspring/decimal"
)

// MYR is a helper for test to create ringgit money from a decimal string.
func MYR(v string) Money { return MustParseMoney(v, "MYR") }

// PHP is a helper for test to create peso money from a decimal string.
func PHP(v string) Money { return MustParseMoney(v, "PHP") }

// D is a helper for test to create decimals from a decimal string.
func D(v string) decimal.Decimal { return decimal.RequireFromString(v) }

// testNow is the "now" of every report test.
var testNow = time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)

func at(day string) time.Time { return date.MustParse(day).Time() }

// testRates has a stale, a current and a future MYR/PHP rate.
var testRates = Rates{
	{Base: "MYR", Quote: "PHP", Value: D("0.1"), On: at("2025-01-01")},
	{Base: "MYR", Quote: "PHP", Value: D("0.08"), On: at("2025-06-01")},
	{Base: "MYR", Quote: "PHP", Value: D("0.05"), On: at("2025-08-01")},
}

func testConverter(policy RatePolicy) *Converter {
	c := NewConverter("MYR", testRates, policy)
	c.Now = func() time.Time { return testNow }
	return c
}

// memSource is an in-memory Source.
type memSource struct {
	referrals []Referral
	settings  []BonusSetting
	stacks    []StackRecord
	progress  []GroupProgress
	groups    []GroupBonus
	Rates
}

func (m *memSource) Referrals(_ context.Context, referrer int64) ([]Referral, error) {
	var out []Referral
	for _, r := range m.referrals {
		if r.ReferrerID == referrer {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memSource) Referral(_ context.Context, referrer, referee int64) (Referral, error) {
	for _, r := range m.referrals {
		if r.ReferrerID == referrer && r.RefereeID == referee {
			return r, nil
		}
	}
	return Referral{}, fmt.Errorf("referee %d of %d: %w", referee, referrer, ErrNoData)
}

func (m *memSource) BonusSettings(_ context.Context, country string) ([]BonusSetting, error) {
	var out []BonusSetting
	for _, s := range m.settings {
		if s.Country == country {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSource) BonusSetting(_ context.Context, id int64) (BonusSetting, error) {
	for _, s := range m.settings {
		if s.ID == id {
			return s, nil
		}
	}
	return BonusSetting{}, fmt.Errorf("bonus setting %d: %w", id, ErrNoData)
}

func (m *memSource) StackRecords(_ context.Context, referrer int64) ([]StackRecord, error) {
	var out []StackRecord
	for _, r := range m.stacks {
		if r.ReferrerID == referrer {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memSource) GroupProgress(_ context.Context, referrer int64) ([]GroupProgress, error) {
	var out []GroupProgress
	for _, p := range m.progress {
		if p.ReferrerID == referrer {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memSource) GroupBonuses(_ context.Context, referrer int64) ([]GroupBonus, error) {
	var out []GroupBonus
	for _, g := range m.groups {
		if g.ReferrerID == referrer {
			out = append(out, g)
		}
	}
	return out, nil
}

func retired(day string) *time.Time {
	t := at(day)
	return &t
}

// testSettings has a PH milestone ladder (tier 4 retired), two PH payout
// portions, a MY tier and a retired MY payout portion.
var testSettings = []BonusSetting{
	{ID: 1, Level: 1, Value: D("10"), Threshold: D("1"), Country: "PH", Kind: KindMilestone, CreatedAt: at("2024-01-01")},
	{ID: 2, Level: 2, Value: D("20"), Threshold: D("5"), Country: "PH", Kind: KindMilestone, CreatedAt: at("2024-01-01")},
	{ID: 3, Level: 3, Value: D("30"), Threshold: D("25"), Country: "PH", Kind: KindMilestone, CreatedAt: at("2024-01-01")},
	{ID: 4, Level: 4, Value: D("40"), Threshold: D("60"), Country: "PH", Kind: KindMilestone, CreatedAt: at("2024-01-01"), RetiredAt: retired("2025-03-01")},
	{ID: 11, Level: 1, Value: D("10"), Threshold: D("1"), Country: "MY", Kind: KindMilestone, CreatedAt: at("2024-01-01")},
	{ID: 22, Value: D("4"), Threshold: D("20"), Country: "PH", Kind: KindPayoutPortion, CreatedAt: at("2025-02-01")},
	{ID: 21, Value: D("2"), Threshold: D("10"), Country: "PH", Kind: KindPayoutPortion, CreatedAt: at("2025-01-01")},
	{ID: 31, Value: D("3"), Threshold: D("10"), Country: "MY", Kind: KindPayoutPortion, CreatedAt: at("2024-01-01"), RetiredAt: retired("2024-06-01")},
}

// newTestSource returns the data of referrer 7: an active PH referral and
// an expired MY referral.
func newTestSource() *memSource {
	return &memSource{
		referrals: []Referral{
			{
				ID: 1, ReferrerID: 7, RefereeID: 101, Email: "johndoe@example.com", Country: "PH",
				ApprovedOn: date.MustParse("2025-06-01"), Milestones: 3,
				ReferrerSignupBonus: D("5"), RefereeSignupBonus: D("5"),
				TierBonusIDs:  []int64{1, 2, 3, 4},
				ApprovedBonus: D("887.5"), CreditedBonus: D("100"), Currency: "PHP",
			},
			{
				ID: 2, ReferrerID: 7, RefereeID: 102, Email: "ann.lee@mail.co", Country: "MY",
				ApprovedOn: date.MustParse("2024-12-01"), Milestones: 1,
				ReferrerSignupBonus: D("5"), RefereeSignupBonus: D("3"),
				TierBonusIDs:  []int64{11},
				ApprovedBonus: D("15"), CreditedBonus: D("15"), Currency: "MYR",
			},
			{
				ID: 3, ReferrerID: 8, RefereeID: 103, Email: "other@example.com", Country: "TH",
				ApprovedOn: date.MustParse("2025-06-20"), Milestones: 0, Currency: "MYR",
				ApprovedBonus: D("1000"), CreditedBonus: D("1000"),
			},
		},
		settings: testSettings,
		stacks: []StackRecord{
			{ID: 1, ReferrerID: 7, RefereeID: 101, BonusID: 21},
			{ID: 2, ReferrerID: 7, RefereeID: 101, BonusID: 21},
			{ID: 3, ReferrerID: 7, RefereeID: 101, BonusID: 21},
			{ID: 4, ReferrerID: 7, RefereeID: 102, BonusID: 22},
			{ID: 5, ReferrerID: 8, RefereeID: 103, BonusID: 21},
		},
		progress: []GroupProgress{
			{ID: 1, ReferrerID: 7, BonusID: 21, Ref: 5, Progress: 10, Expired: true},
			{ID: 2, ReferrerID: 7, BonusID: 22, Ref: 5, Progress: 7},
		},
		groups: []GroupBonus{
			{ID: 1, ReferrerID: 7, AchievedOn: date.MustParse("2025-05-01"), Approved: D("20"), Credited: D("10"), Currency: "MYR"},
			{ID: 2, ReferrerID: 7, AchievedOn: date.MustParse("2025-06-15"), Approved: D("5"), Credited: D("0"), Currency: "MYR"},
		},
		Rates: testRates,
	}
}
