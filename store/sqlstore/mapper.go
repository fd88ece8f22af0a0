package sqlstore

import (
	"cmp"
	"slices"

	"github.com/etnz/referral"
	"github.com/etnz/referral/date"
)

func toReferral(m referralModel) referral.Referral {
	r := referral.Referral{
		ID:                  m.ID,
		ReferrerID:          m.ReferrerID,
		RefereeID:           m.RefereeID,
		Email:               m.Email,
		Country:             m.Country,
		Milestones:          m.Milestones,
		ReferrerSignupBonus: m.ReferrerSignupBonus,
		RefereeSignupBonus:  m.RefereeSignupBonus,
		ApprovedBonus:       m.ApprovedBonus,
		CreditedBonus:       m.CreditedBonus,
		Currency:            m.Currency,
	}
	if !m.ApprovedOn.IsZero() {
		r.ApprovedOn = date.Of(m.ApprovedOn)
	}
	tiers := slices.Clone(m.Tiers)
	slices.SortFunc(tiers, func(a, b referralTierModel) int { return cmp.Compare(a.Position, b.Position) })
	for _, t := range tiers {
		r.TierBonusIDs = append(r.TierBonusIDs, t.BonusID)
	}
	return r
}

func fromReferral(r referral.Referral) referralModel {
	m := referralModel{
		ID:                  r.ID,
		ReferrerID:          r.ReferrerID,
		RefereeID:           r.RefereeID,
		Email:               r.Email,
		Country:             r.Country,
		Milestones:          r.Milestones,
		ReferrerSignupBonus: r.ReferrerSignupBonus,
		RefereeSignupBonus:  r.RefereeSignupBonus,
		ApprovedBonus:       r.ApprovedBonus,
		CreditedBonus:       r.CreditedBonus,
		Currency:            r.Currency,
	}
	if !r.ApprovedOn.IsZero() {
		m.ApprovedOn = r.ApprovedOn.Time()
	}
	for i, id := range r.TierBonusIDs {
		m.Tiers = append(m.Tiers, referralTierModel{ReferralID: r.ID, Position: i, BonusID: id})
	}
	return m
}

func toBonusSetting(m bonusSettingModel) referral.BonusSetting {
	return referral.BonusSetting{
		ID:        m.ID,
		Level:     m.Level,
		Value:     m.Value,
		Threshold: m.Threshold,
		Country:   m.Country,
		Kind:      referral.Kind(m.Kind),
		CreatedAt: m.CreatedAt,
		RetiredAt: m.RetiredAt,
	}
}

func fromBonusSetting(s referral.BonusSetting) bonusSettingModel {
	return bonusSettingModel{
		ID:        s.ID,
		Level:     s.Level,
		Value:     s.Value,
		Threshold: s.Threshold,
		Country:   s.Country,
		Kind:      string(s.Kind),
		CreatedAt: s.CreatedAt,
		RetiredAt: s.RetiredAt,
	}
}

func toStackRecord(m stackRecordModel) referral.StackRecord {
	return referral.StackRecord(m)
}

func fromStackRecord(r referral.StackRecord) stackRecordModel {
	return stackRecordModel(r)
}

func toGroupProgress(m groupProgressModel) referral.GroupProgress {
	return referral.GroupProgress(m)
}

func fromGroupProgress(p referral.GroupProgress) groupProgressModel {
	return groupProgressModel(p)
}

func toGroupBonus(m groupBonusModel) referral.GroupBonus {
	g := referral.GroupBonus{
		ID:         m.ID,
		ReferrerID: m.ReferrerID,
		Approved:   m.Approved,
		Credited:   m.Credited,
		Currency:   m.Currency,
	}
	if !m.AchievedOn.IsZero() {
		g.AchievedOn = date.Of(m.AchievedOn)
	}
	return g
}

func fromGroupBonus(g referral.GroupBonus) groupBonusModel {
	m := groupBonusModel{
		ID:         g.ID,
		ReferrerID: g.ReferrerID,
		Approved:   g.Approved,
		Credited:   g.Credited,
		Currency:   g.Currency,
	}
	if !g.AchievedOn.IsZero() {
		m.AchievedOn = g.AchievedOn.Time()
	}
	return m
}

func toRate(m rateModel) referral.Rate {
	return referral.Rate{Base: m.Base, Quote: m.Quote, Value: m.Rate, On: m.EffectiveAt}
}

func fromRate(r referral.Rate) rateModel {
	return rateModel{Base: r.Base, Quote: r.Quote, Rate: r.Value, EffectiveAt: r.On}
}

// mapAll maps a slice of rows.
func mapAll[S, T any](rows []S, f func(S) T) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		out = append(out, f(r))
	}
	return out
}
