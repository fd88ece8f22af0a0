package referral

import "context"

// ReferralSource looks up referrals. Referral returns ErrNoData when the
// referee is not a referral of the referrer.
type ReferralSource interface {
	Referrals(ctx context.Context, referrer int64) ([]Referral, error)
	Referral(ctx context.Context, referrer, referee int64) (Referral, error)
}

// SettingSource looks up bonus settings, retired ones included. BonusSetting
// returns ErrNoData for an unknown id.
type SettingSource interface {
	BonusSettings(ctx context.Context, country string) ([]BonusSetting, error)
	BonusSetting(ctx context.Context, id int64) (BonusSetting, error)
}

// StackSource returns the enrichment records of a referrer.
type StackSource interface {
	StackRecords(ctx context.Context, referrer int64) ([]StackRecord, error)
}

// ProgressSource returns the progress counters of a referrer, expired ones included.
type ProgressSource interface {
	GroupProgress(ctx context.Context, referrer int64) ([]GroupProgress, error)
}

// GroupSource returns the additional bonuses paid to a referrer.
type GroupSource interface {
	GroupBonuses(ctx context.Context, referrer int64) ([]GroupBonus, error)
}

// Source gathers every collaborator the reports need.
type Source interface {
	ReferralSource
	SettingSource
	StackSource
	ProgressSource
	GroupSource
	RateSource
}
