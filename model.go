package referral

import (
	"time"

	"github.com/etnz/referral/date"
	"github.com/shopspring/decimal"
)

// Referral is one referrer to referee relationship.
type Referral struct {
	ID                  int64           `json:"id"`
	ReferrerID          int64           `json:"referrer"`
	RefereeID           int64           `json:"referee"` // the referee's signup affiliate id
	Email               string          `json:"email"`
	Country             string          `json:"country"`
	ApprovedOn          date.Date       `json:"approved"`
	Milestones          int             `json:"milestones"`
	ReferrerSignupBonus decimal.Decimal `json:"referrerSignupBonus"` // base currency
	RefereeSignupBonus  decimal.Decimal `json:"refereeSignupBonus"`  // base currency
	TierBonusIDs        []int64         `json:"tierBonusIds,omitempty"`
	ApprovedBonus       decimal.Decimal `json:"approvedBonus"` // in Currency
	CreditedBonus       decimal.Decimal `json:"creditedBonus"` // in Currency
	Currency            string          `json:"currency"`
}

// Kind distinguishes milestone tiers from stacking payout portions.
type Kind string

const (
	KindMilestone     Kind = "milestone"
	KindPayoutPortion Kind = "payout_portion"
)

// BonusSetting defines a bonus tier or a stacking bonus for a country.
//
// Settings are append-only: retiring one sets RetiredAt, and a retired setting
// can still be looked up by id so that past earnings remain computable.
type BonusSetting struct {
	ID        int64           `json:"id"`
	Level     int             `json:"level"`
	Value     decimal.Decimal `json:"value"` // base currency
	Threshold decimal.Decimal `json:"threshold"`
	Country   string          `json:"country"`
	Kind      Kind            `json:"kind"`
	CreatedAt time.Time       `json:"createdAt"`
	RetiredAt *time.Time      `json:"retiredAt,omitempty"`
}

// Retired reports whether the setting has been soft-deleted.
func (s BonusSetting) Retired() bool { return s.RetiredAt != nil }

// StackRecord is one enrichment event: the referee triggered the stacking bonus once more.
type StackRecord struct {
	ID         int64     `json:"id"`
	ReferrerID int64     `json:"referrer"`
	RefereeID  int64     `json:"referee"`
	BonusID    int64     `json:"bonus"`
	AchievedAt time.Time `json:"achievedAt"`
}

// GroupProgress is a referrer's cumulative progress toward a repeating bonus cycle.
// Once Expired, the counter is frozen and excluded from active reporting.
type GroupProgress struct {
	ID         int64 `json:"id"`
	ReferrerID int64 `json:"referrer"`
	BonusID    int64 `json:"bonus"`
	Ref        int   `json:"ref"` // cycle length
	Progress   int   `json:"progress"`
	Expired    bool  `json:"expired"`
}

// GroupBonus is an additional bonus paid to a referrer when a cycle completes.
type GroupBonus struct {
	ID         int64           `json:"id"`
	ReferrerID int64           `json:"referrer"`
	AchievedOn date.Date       `json:"achieved"`
	Approved   decimal.Decimal `json:"approved"`
	Credited   decimal.Decimal `json:"credited"`
	Currency   string          `json:"currency"`
}
