// Package store persists the referral tables.
//
// Data is an in-memory set of tables implementing referral.Source. Folder
// persists it in a folder of JSONL files, one per table, in a way that is
// still human readable and git friendly.
package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/etnz/referral"
)

// Data holds every table read by the reports.
type Data struct {
	ReferralRows []referral.Referral
	Settings     []referral.BonusSetting
	Stacks       []referral.StackRecord
	Progress     []referral.GroupProgress
	Groups       []referral.GroupBonus
	Rates        referral.Rates
}

var _ referral.Source = (*Data)(nil)

// Referrals implements referral.ReferralSource.
func (d *Data) Referrals(_ context.Context, referrer int64) ([]referral.Referral, error) {
	return filter(d.ReferralRows, func(r referral.Referral) bool { return r.ReferrerID == referrer }), nil
}

// Referral implements referral.ReferralSource.
func (d *Data) Referral(_ context.Context, referrer, referee int64) (referral.Referral, error) {
	for _, r := range d.ReferralRows {
		if r.ReferrerID == referrer && r.RefereeID == referee {
			return r, nil
		}
	}
	return referral.Referral{}, fmt.Errorf("referee %d of referrer %d: %w", referee, referrer, referral.ErrNoData)
}

// BonusSettings implements referral.SettingSource.
func (d *Data) BonusSettings(_ context.Context, country string) ([]referral.BonusSetting, error) {
	return filter(d.Settings, func(s referral.BonusSetting) bool { return s.Country == country }), nil
}

// BonusSetting implements referral.SettingSource.
func (d *Data) BonusSetting(_ context.Context, id int64) (referral.BonusSetting, error) {
	for _, s := range d.Settings {
		if s.ID == id {
			return s, nil
		}
	}
	return referral.BonusSetting{}, fmt.Errorf("bonus setting %d: %w", id, referral.ErrNoData)
}

// StackRecords implements referral.StackSource.
func (d *Data) StackRecords(_ context.Context, referrer int64) ([]referral.StackRecord, error) {
	return filter(d.Stacks, func(r referral.StackRecord) bool { return r.ReferrerID == referrer }), nil
}

// GroupProgress implements referral.ProgressSource.
func (d *Data) GroupProgress(_ context.Context, referrer int64) ([]referral.GroupProgress, error) {
	return filter(d.Progress, func(p referral.GroupProgress) bool { return p.ReferrerID == referrer }), nil
}

// GroupBonuses implements referral.GroupSource.
func (d *Data) GroupBonuses(_ context.Context, referrer int64) ([]referral.GroupBonus, error) {
	return filter(d.Groups, func(g referral.GroupBonus) bool { return g.ReferrerID == referrer }), nil
}

// LatestRate implements referral.RateSource.
func (d *Data) LatestRate(ctx context.Context, base, quote string, asOf time.Time) (referral.Rate, error) {
	return d.Rates.LatestRate(ctx, base, quote, asOf)
}

// Check validates the tables: ids are unique and every reference to a bonus
// setting resolves, retired settings included.
func (d *Data) Check() error {
	if err := uniqueIDs("referral", d.ReferralRows, func(r referral.Referral) int64 { return r.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("bonus setting", d.Settings, func(s referral.BonusSetting) int64 { return s.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("stack record", d.Stacks, func(s referral.StackRecord) int64 { return s.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("progress counter", d.Progress, func(p referral.GroupProgress) int64 { return p.ID }); err != nil {
		return err
	}
	if err := uniqueIDs("additional bonus", d.Groups, func(g referral.GroupBonus) int64 { return g.ID }); err != nil {
		return err
	}

	settings := make(map[int64]referral.BonusSetting, len(d.Settings))
	for _, s := range d.Settings {
		if !s.Threshold.IsPositive() {
			return fmt.Errorf("bonus setting %d: threshold %s: %w", s.ID, s.Threshold, referral.ErrInvalidThreshold)
		}
		settings[s.ID] = s
	}
	for _, r := range d.ReferralRows {
		for _, id := range r.TierBonusIDs {
			if _, ok := settings[id]; !ok {
				return fmt.Errorf("referral %d: unknown tier bonus %d", r.ID, id)
			}
		}
	}
	for _, r := range d.Stacks {
		if s, ok := settings[r.BonusID]; !ok || s.Kind != referral.KindPayoutPortion {
			return fmt.Errorf("stack record %d: %d is not a payout portion bonus", r.ID, r.BonusID)
		}
	}
	for _, p := range d.Progress {
		if p.Ref <= 0 {
			return fmt.Errorf("progress counter %d: cycle length %d: %w", p.ID, p.Ref, referral.ErrInvalidThreshold)
		}
	}
	return nil
}

// sort orders every table by id, and the rates by pair then date, so that
// the encoded files are stable.
func (d *Data) sort() {
	slices.SortFunc(d.ReferralRows, func(a, b referral.Referral) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(d.Settings, func(a, b referral.BonusSetting) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(d.Stacks, func(a, b referral.StackRecord) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(d.Progress, func(a, b referral.GroupProgress) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(d.Groups, func(a, b referral.GroupBonus) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(d.Rates, func(a, b referral.Rate) int {
		return cmp.Or(cmp.Compare(a.Base, b.Base), cmp.Compare(a.Quote, b.Quote), a.On.Compare(b.On))
	})
}

func filter[T any](rows []T, keep func(T) bool) []T {
	var out []T
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func uniqueIDs[T any](name string, rows []T, id func(T) int64) error {
	seen := make(map[int64]bool, len(rows))
	for _, r := range rows {
		if seen[id(r)] {
			return fmt.Errorf("%s %d is already defined", name, id(r))
		}
		seen[id(r)] = true
	}
	return nil
}
