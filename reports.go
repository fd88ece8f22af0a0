package referral

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/etnz/referral/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ActiveDays is the number of days a referral stays active after its approval.
const ActiveDays = 180

// IsActive reports whether a referral approved on approved is still active on day.
func IsActive(approved, day date.Date) bool {
	return day.DaysSince(approved) < ActiveDays
}

// Reporter builds the referrer reports from a Source.
//
// Every operation takes the referrer explicitly, and reads its inputs once,
// so a report is computed from a single snapshot of the source.
type Reporter struct {
	Source    Source
	Converter *Converter
	Now       func() time.Time
}

// NewReporter returns a Reporter reading from src and converting with conv.
func NewReporter(src Source, conv *Converter) *Reporter {
	return &Reporter{Source: src, Converter: conv, Now: time.Now}
}

func (r *Reporter) today() date.Date {
	if r.Now == nil {
		return date.Today()
	}
	return date.Of(r.Now())
}

// Overview summarizes all the bonuses of a referrer in a reporting currency.
type Overview struct {
	Referrer      int64  `json:"referrer"`
	Currency      string `json:"currency"`
	TotalEarned   Money  `json:"totalBonusEarned"`
	TotalCredited Money  `json:"totalCredited"`
	Active        int    `json:"totalActive"`
}

// Overview sums the approved and credited bonuses of the referrals and of the
// additional bonuses of referrer, converted into currency, and counts the
// active referrals.
func (r *Reporter) Overview(ctx context.Context, referrer int64, currency string) (Overview, error) {
	if err := ValidateCurrency(currency); err != nil {
		return Overview{}, fmt.Errorf("invalid reporting currency: %w", err)
	}
	referrals, err := r.Source.Referrals(ctx, referrer)
	if err != nil {
		return Overview{}, fmt.Errorf("could not load referrals of %d: %w", referrer, err)
	}
	groups, err := r.Source.GroupBonuses(ctx, referrer)
	if err != nil {
		return Overview{}, fmt.Errorf("could not load additional bonuses of %d: %w", referrer, err)
	}

	o := Overview{
		Referrer:      referrer,
		Currency:      currency,
		TotalEarned:   M(0, currency),
		TotalCredited: M(0, currency),
	}
	// one conversion per source currency, all taken from the same "now".
	convs := make(map[string]Conversion)
	add := func(approved, credited decimal.Decimal, from string) error {
		if from == "" {
			from = r.Converter.Base
		}
		conv, ok := convs[from]
		if !ok {
			var err error
			if conv, err = r.Converter.Factor(ctx, from, currency); err != nil {
				return err
			}
			convs[from] = conv
		}
		o.TotalEarned = o.TotalEarned.Add(conv.Apply(M(approved, from)))
		o.TotalCredited = o.TotalCredited.Add(conv.Apply(M(credited, from)))
		return nil
	}

	today := r.today()
	for _, ref := range referrals {
		if err := add(ref.ApprovedBonus, ref.CreditedBonus, ref.Currency); err != nil {
			return Overview{}, fmt.Errorf("could not convert bonus of referral %d: %w", ref.ID, err)
		}
		if IsActive(ref.ApprovedOn, today) {
			o.Active++
		}
	}
	for _, g := range groups {
		if err := add(g.Approved, g.Credited, g.Currency); err != nil {
			return Overview{}, fmt.Errorf("could not convert additional bonus %d: %w", g.ID, err)
		}
	}
	zerolog.Ctx(ctx).Debug().Int64("referrer", referrer).Int("referrals", len(referrals)).Int("groups", len(groups)).Msg("overview computed")
	return o, nil
}

// ReferralRow is one line of the referral listing.
type ReferralRow struct {
	ID                 int64     `json:"id"`
	Email              string    `json:"email"` // masked
	ApprovedOn         date.Date `json:"approved"`
	Country            string    `json:"country"` // display name
	Milestones         int       `json:"milestones"`
	Approved           Money     `json:"approvedBonus"`
	Credited           Money     `json:"creditedBonus"`
	RefereeID          int64     `json:"referee"`
	TierBonusIDs       []int64   `json:"tierBonusIds"`
	TotalAchievedStack int       `json:"totalAchievedStack"`
}

// Columns the referral listing can be ordered by.
var ListColumns = []string{
	"email", "approved", "country", "milestones", "approved_bonus",
	"credited_bonus", "currency", "referee", "tier_bonus_id", "stack",
}

// ListOrder orders the referral listing. The zero value orders by
// descending id, the most recent referrals first.
type ListOrder struct {
	Column    string
	Ascending bool
}

func (o ListOrder) compare(stacks map[int64]int) (func(a, b Referral) int, error) {
	var f func(a, b Referral) int
	switch o.Column {
	case "":
		f = func(a, b Referral) int { return cmp.Compare(a.ID, b.ID) }
		if !o.Ascending {
			return func(a, b Referral) int { return f(b, a) }, nil
		}
		return f, nil
	case "email":
		f = func(a, b Referral) int { return strings.Compare(a.Email, b.Email) }
	case "approved":
		f = func(a, b Referral) int { return a.ApprovedOn.Compare(b.ApprovedOn) }
	case "country":
		f = func(a, b Referral) int { return strings.Compare(a.Country, b.Country) }
	case "milestones":
		f = func(a, b Referral) int { return cmp.Compare(a.Milestones, b.Milestones) }
	case "approved_bonus":
		f = func(a, b Referral) int { return a.ApprovedBonus.Cmp(b.ApprovedBonus) }
	case "credited_bonus":
		f = func(a, b Referral) int { return a.CreditedBonus.Cmp(b.CreditedBonus) }
	case "currency":
		f = func(a, b Referral) int { return strings.Compare(a.Currency, b.Currency) }
	case "referee":
		f = func(a, b Referral) int { return cmp.Compare(a.RefereeID, b.RefereeID) }
	case "tier_bonus_id":
		f = func(a, b Referral) int { return slices.Compare(a.TierBonusIDs, b.TierBonusIDs) }
	case "stack":
		f = func(a, b Referral) int { return cmp.Compare(stacks[a.RefereeID], stacks[b.RefereeID]) }
	default:
		return nil, fmt.Errorf("cannot order by %q, want one of %s", o.Column, strings.Join(ListColumns, ", "))
	}
	if o.Ascending {
		return f, nil
	}
	return func(a, b Referral) int { return f(b, a) }, nil
}

// ListReferrals lists the referrals of referrer.
func (r *Reporter) ListReferrals(ctx context.Context, referrer int64, order ListOrder) ([]ReferralRow, error) {
	referrals, err := r.Source.Referrals(ctx, referrer)
	if err != nil {
		return nil, fmt.Errorf("could not load referrals of %d: %w", referrer, err)
	}
	records, err := r.Source.StackRecords(ctx, referrer)
	if err != nil {
		return nil, fmt.Errorf("could not load stack records of %d: %w", referrer, err)
	}
	stacks := make(map[int64]int)
	for _, rec := range records {
		stacks[rec.RefereeID]++
	}

	compare, err := order.compare(stacks)
	if err != nil {
		return nil, err
	}
	referrals = slices.Clone(referrals)
	slices.SortStableFunc(referrals, compare)

	rows := make([]ReferralRow, 0, len(referrals))
	for _, ref := range referrals {
		email, err := MaskEmail(ref.Email)
		if err != nil {
			return nil, fmt.Errorf("referral %d: %w", ref.ID, err)
		}
		rows = append(rows, ReferralRow{
			ID:                 ref.ID,
			Email:              email,
			ApprovedOn:         ref.ApprovedOn,
			Country:            CountryName(ref.Country),
			Milestones:         ref.Milestones,
			Approved:           M(ref.ApprovedBonus, ref.Currency),
			Credited:           M(ref.CreditedBonus, ref.Currency),
			RefereeID:          ref.RefereeID,
			TierBonusIDs:       ref.TierBonusIDs,
			TotalAchievedStack: stacks[ref.RefereeID],
		})
	}
	return rows, nil
}

// Detail is the earnings report of a single referral.
type Detail struct {
	Email      string    `json:"email"` // masked
	ApprovedOn date.Date `json:"approved"`
	Status     string    `json:"status"` // "Active" or "Expired"
	Country    string    `json:"country"`
	Milestones int       `json:"milestones"`
	Earnings   Earnings  `json:"earnings"`
}

// ReferralDetail computes the earnings of the referral of referee by referrer,
// in the referee's local currency. It returns ErrNoData when referee is not a
// referral of referrer.
func (r *Reporter) ReferralDetail(ctx context.Context, referrer, referee int64) (Detail, error) {
	ref, err := r.Source.Referral(ctx, referrer, referee)
	if err != nil {
		return Detail{}, err
	}
	email, err := MaskEmail(ref.Email)
	if err != nil {
		return Detail{}, fmt.Errorf("referral %d: %w", ref.ID, err)
	}
	conv, err := r.Converter.ForCountry(ctx, ref.Country)
	if err != nil {
		return Detail{}, fmt.Errorf("could not convert into the currency of %q: %w", ref.Country, err)
	}
	settings, err := r.Source.BonusSettings(ctx, ref.Country)
	if err != nil {
		return Detail{}, fmt.Errorf("could not load bonus settings of %q: %w", ref.Country, err)
	}
	records, err := r.Source.StackRecords(ctx, referrer)
	if err != nil {
		return Detail{}, fmt.Errorf("could not load stack records of %d: %w", referrer, err)
	}

	earnings, err := ComputeEarnings(ref, settings, settings, StackMultipliers(records, referrer, referee), conv)
	if err != nil {
		return Detail{}, fmt.Errorf("referral %d: %w", ref.ID, err)
	}

	status := "Expired"
	if IsActive(ref.ApprovedOn, r.today()) {
		status = "Active"
	}
	return Detail{
		Email:      email,
		ApprovedOn: ref.ApprovedOn,
		Status:     status,
		Country:    CountryName(ref.Country),
		Milestones: ref.Milestones,
		Earnings:   earnings,
	}, nil
}

// GroupBonusRow is one line of the additional bonus listing.
type GroupBonusRow struct {
	ID         int64     `json:"id"`
	AchievedOn date.Date `json:"achieved"`
	Approved   Money     `json:"approved"`
	Credited   Money     `json:"credited"`
}

// ListGroupBonuses lists the additional bonuses of referrer, the most recent first.
func (r *Reporter) ListGroupBonuses(ctx context.Context, referrer int64) ([]GroupBonusRow, error) {
	groups, err := r.Source.GroupBonuses(ctx, referrer)
	if err != nil {
		return nil, fmt.Errorf("could not load additional bonuses of %d: %w", referrer, err)
	}
	groups = slices.Clone(groups)
	slices.SortStableFunc(groups, func(a, b GroupBonus) int { return cmp.Compare(b.ID, a.ID) })

	rows := make([]GroupBonusRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, GroupBonusRow{
			ID:         g.ID,
			AchievedOn: g.AchievedOn,
			Approved:   M(g.Approved, g.Currency),
			Credited:   M(g.Credited, g.Currency),
		})
	}
	return rows, nil
}

// ProgressSummary is the progress bar of a referrer toward the next additional bonus.
type ProgressSummary struct {
	BonusID         int64           `json:"bonus"`
	Total           int             `json:"total"`    // cycle length
	Progress        int             `json:"progress"` // within the current cycle
	BonusValue      Money           `json:"bonusValue"`
	Threshold       decimal.Decimal `json:"threshold"`
	StackMultiplier int             `json:"stackMultiplier"` // completed cycles
}

// Progress returns the progress of the active counter of referrer. ok is
// false when referrer has no active counter.
func (r *Reporter) Progress(ctx context.Context, referrer int64) (summary ProgressSummary, ok bool, err error) {
	counters, err := r.Source.GroupProgress(ctx, referrer)
	if err != nil {
		return ProgressSummary{}, false, fmt.Errorf("could not load progress of %d: %w", referrer, err)
	}
	var active *GroupProgress
	for i, c := range counters {
		if c.Expired {
			continue
		}
		if active == nil || c.ID < active.ID {
			active = &counters[i]
		}
	}
	if active == nil {
		return ProgressSummary{}, false, nil
	}

	cycle, err := CyclePosition(active.Progress, active.Ref)
	if err != nil {
		return ProgressSummary{}, false, fmt.Errorf("progress counter %d: %w", active.ID, err)
	}
	summary = ProgressSummary{
		BonusID:         active.BonusID,
		Total:           active.Ref,
		Progress:        cycle.Progress,
		BonusValue:      M(0, r.Converter.Base),
		StackMultiplier: cycle.Completed,
	}

	setting, err := r.Source.BonusSetting(ctx, active.BonusID)
	switch {
	case errors.Is(err, ErrNoData):
		zerolog.Ctx(ctx).Warn().Int64("bonus", active.BonusID).Msg("progress counter refers to an unknown bonus setting")
	case err != nil:
		return ProgressSummary{}, false, fmt.Errorf("could not load bonus setting %d: %w", active.BonusID, err)
	default:
		summary.BonusValue = M(setting.Value, r.Converter.Base)
		summary.Threshold = setting.Threshold
	}
	return summary, true, nil
}

// Reconciliation compares, for one stacking bonus, the cycles completed by
// the progress counter with the enrichment records.
type Reconciliation struct {
	BonusID         int64 `json:"bonus"`
	ProgressID      int64 `json:"progress,omitempty"` // 0 when there is no counter
	Expired         bool  `json:"expired"`
	CompletedCycles int   `json:"completedCycles"`
	Recorded        int   `json:"recorded"`
}

// Consistent reports whether both signals agree.
func (x Reconciliation) Consistent() bool { return x.CompletedCycles == x.Recorded }

// Reconcile reconciles the progress counters of referrer with its enrichment
// records. The records are the source of the stack multipliers; the counters
// only drive the progress bar, so any divergence is reported, not fixed.
func (r *Reporter) Reconcile(ctx context.Context, referrer int64) ([]Reconciliation, error) {
	counters, err := r.Source.GroupProgress(ctx, referrer)
	if err != nil {
		return nil, fmt.Errorf("could not load progress of %d: %w", referrer, err)
	}
	records, err := r.Source.StackRecords(ctx, referrer)
	if err != nil {
		return nil, fmt.Errorf("could not load stack records of %d: %w", referrer, err)
	}
	recorded := make(map[int64]int)
	for _, rec := range records {
		if rec.ReferrerID == referrer {
			recorded[rec.BonusID]++
		}
	}

	var out []Reconciliation
	seen := make(map[int64]bool)
	for _, c := range counters {
		cycle, err := CyclePosition(c.Progress, c.Ref)
		if err != nil {
			return nil, fmt.Errorf("progress counter %d: %w", c.ID, err)
		}
		seen[c.BonusID] = true
		out = append(out, Reconciliation{
			BonusID:         c.BonusID,
			ProgressID:      c.ID,
			Expired:         c.Expired,
			CompletedCycles: cycle.Completed,
			Recorded:        recorded[c.BonusID],
		})
	}
	for id, n := range recorded {
		if !seen[id] {
			out = append(out, Reconciliation{BonusID: id, Recorded: n})
		}
	}
	slices.SortFunc(out, func(a, b Reconciliation) int {
		return cmp.Or(cmp.Compare(a.BonusID, b.BonusID), cmp.Compare(a.ProgressID, b.ProgressID))
	})

	log := zerolog.Ctx(ctx)
	for _, x := range out {
		if !x.Consistent() {
			log.Warn().Int64("referrer", referrer).Int64("bonus", x.BonusID).
				Int("completed", x.CompletedCycles).Int("recorded", x.Recorded).
				Msg("stack records diverge from the progress counter")
		}
	}
	return out, nil
}
