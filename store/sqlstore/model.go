package sqlstore

import (
	"time"

	"github.com/shopspring/decimal"
)

// referralModel is the referrals table.
type referralModel struct {
	ID                  int64 `gorm:"primaryKey;autoIncrement:false"`
	ReferrerID          int64 `gorm:"not null;index;index:idx_referral_pair,unique"`
	RefereeID           int64 `gorm:"not null;index:idx_referral_pair,unique"`
	Email               string
	Country             string          `gorm:"type:varchar(2);not null"`
	ApprovedOn          time.Time       `gorm:"type:date"`
	Milestones          int             `gorm:"not null;default:0"`
	ReferrerSignupBonus decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	RefereeSignupBonus  decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	ApprovedBonus       decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	CreditedBonus       decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	Currency            string          `gorm:"type:varchar(3)"`

	Tiers []referralTierModel `gorm:"foreignKey:ReferralID"`
}

func (referralModel) TableName() string { return "referrals" }

// referralTierModel lists the tier bonus settings attached to a referral, in order.
type referralTierModel struct {
	ReferralID int64 `gorm:"primaryKey;autoIncrement:false"`
	Position   int   `gorm:"primaryKey;autoIncrement:false"`
	BonusID    int64 `gorm:"not null;index"`
}

func (referralTierModel) TableName() string { return "referral_tiers" }

// bonusSettingModel is the bonus_settings table. Retired settings are kept:
// they are not soft deleted because past referrals still refer to them.
type bonusSettingModel struct {
	ID        int64           `gorm:"primaryKey;autoIncrement:false"`
	Level     int             `gorm:"not null;default:0"`
	Value     decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	Threshold decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	Country   string          `gorm:"type:varchar(2);not null;index"`
	Kind      string          `gorm:"type:varchar(20);not null"`
	CreatedAt time.Time
	RetiredAt *time.Time
}

func (bonusSettingModel) TableName() string { return "bonus_settings" }

// stackRecordModel is the stack_records table, an append-only audit log.
type stackRecordModel struct {
	ID         int64 `gorm:"primaryKey;autoIncrement:false"`
	ReferrerID int64 `gorm:"not null;index"`
	RefereeID  int64 `gorm:"not null"`
	BonusID    int64 `gorm:"not null"`
	AchievedAt time.Time
}

func (stackRecordModel) TableName() string { return "stack_records" }

// groupProgressModel is the group_progress table.
type groupProgressModel struct {
	ID         int64 `gorm:"primaryKey;autoIncrement:false"`
	ReferrerID int64 `gorm:"not null;index"`
	BonusID    int64 `gorm:"not null"`
	Ref        int   `gorm:"not null"`
	Progress   int   `gorm:"not null;default:0"`
	Expired    bool  `gorm:"not null;default:false"`
}

func (groupProgressModel) TableName() string { return "group_progress" }

// groupBonusModel is the group_bonuses table.
type groupBonusModel struct {
	ID         int64           `gorm:"primaryKey;autoIncrement:false"`
	ReferrerID int64           `gorm:"not null;index"`
	AchievedOn time.Time       `gorm:"type:date"`
	Approved   decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	Credited   decimal.Decimal `gorm:"type:decimal(20,6);not null;default:0"`
	Currency   string          `gorm:"type:varchar(3)"`
}

func (groupBonusModel) TableName() string { return "group_bonuses" }

// rateModel is the currency_rates table.
type rateModel struct {
	Base        string          `gorm:"primaryKey;type:varchar(3)"`
	Quote       string          `gorm:"primaryKey;type:varchar(3)"`
	EffectiveAt time.Time       `gorm:"primaryKey"`
	Rate        decimal.Decimal `gorm:"type:decimal(20,10);not null"`
}

func (rateModel) TableName() string { return "currency_rates" }

// models lists every table, for migrations.
var models = []any{
	&referralModel{},
	&referralTierModel{},
	&bonusSettingModel{},
	&stackRecordModel{},
	&groupProgressModel{},
	&groupBonusModel{},
	&rateModel{},
}
