// Package sqlstore implements referral.Source on a PostgreSQL database with gorm.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/etnz/referral"
	"github.com/etnz/referral/store"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// batchSize is the number of rows inserted per statement by Import.
const batchSize = 500

// Store reads the referral tables from a database.
type Store struct {
	db *gorm.DB
}

var _ referral.Source = (*Store)(nil)

// New returns a Store on an open database.
func New(db *gorm.DB) *Store { return &Store{db: db} }

// Open connects to the PostgreSQL database at dsn, gorm statements are logged
// with log.
func Open(dsn string, log zerolog.Logger) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: newLogger(log)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return New(db), nil
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Referrals implements referral.ReferralSource.
func (s *Store) Referrals(ctx context.Context, referrer int64) ([]referral.Referral, error) {
	var rows []referralModel
	err := s.db.WithContext(ctx).Preload("Tiers").
		Where("referrer_id = ?", referrer).Order("id").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return mapAll(rows, toReferral), nil
}

// Referral implements referral.ReferralSource.
func (s *Store) Referral(ctx context.Context, referrer, referee int64) (referral.Referral, error) {
	var row referralModel
	err := s.db.WithContext(ctx).Preload("Tiers").
		Where("referrer_id = ? AND referee_id = ?", referrer, referee).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return referral.Referral{}, fmt.Errorf("referee %d of referrer %d: %w", referee, referrer, referral.ErrNoData)
	}
	if err != nil {
		return referral.Referral{}, err
	}
	return toReferral(row), nil
}

// BonusSettings implements referral.SettingSource.
func (s *Store) BonusSettings(ctx context.Context, country string) ([]referral.BonusSetting, error) {
	var rows []bonusSettingModel
	if err := s.db.WithContext(ctx).Where("country = ?", country).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return mapAll(rows, toBonusSetting), nil
}

// BonusSetting implements referral.SettingSource.
func (s *Store) BonusSetting(ctx context.Context, id int64) (referral.BonusSetting, error) {
	var row bonusSettingModel
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return referral.BonusSetting{}, fmt.Errorf("bonus setting %d: %w", id, referral.ErrNoData)
	}
	if err != nil {
		return referral.BonusSetting{}, err
	}
	return toBonusSetting(row), nil
}

// StackRecords implements referral.StackSource.
func (s *Store) StackRecords(ctx context.Context, referrer int64) ([]referral.StackRecord, error) {
	var rows []stackRecordModel
	if err := s.db.WithContext(ctx).Where("referrer_id = ?", referrer).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return mapAll(rows, toStackRecord), nil
}

// GroupProgress implements referral.ProgressSource.
func (s *Store) GroupProgress(ctx context.Context, referrer int64) ([]referral.GroupProgress, error) {
	var rows []groupProgressModel
	if err := s.db.WithContext(ctx).Where("referrer_id = ?", referrer).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return mapAll(rows, toGroupProgress), nil
}

// GroupBonuses implements referral.GroupSource.
func (s *Store) GroupBonuses(ctx context.Context, referrer int64) ([]referral.GroupBonus, error) {
	var rows []groupBonusModel
	if err := s.db.WithContext(ctx).Where("referrer_id = ?", referrer).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return mapAll(rows, toGroupBonus), nil
}

// LatestRate implements referral.RateSource.
func (s *Store) LatestRate(ctx context.Context, base, quote string, asOf time.Time) (referral.Rate, error) {
	var row rateModel
	err := s.db.WithContext(ctx).
		Where("base = ? AND quote = ? AND effective_at <= ?", base, quote, asOf).
		Order("effective_at DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return referral.Rate{}, fmt.Errorf("%w: %s/%s as of %s", referral.ErrRateUnavailable, base, quote, asOf.Format(time.RFC3339))
	}
	if err != nil {
		return referral.Rate{}, err
	}
	return toRate(row), nil
}

// Import upserts every table of data in a single transaction. The tier list
// of an imported referral replaces the one in the database.
func (s *Store) Import(ctx context.Context, data *store.Data) error {
	if err := data.Check(); err != nil {
		return fmt.Errorf("cannot import: %w", err)
	}
	referrals := mapAll(data.ReferralRows, fromReferral)
	var tiers []referralTierModel
	ids := make([]int64, 0, len(referrals))
	for i := range referrals {
		ids = append(ids, referrals[i].ID)
		tiers = append(tiers, referrals[i].Tiers...)
		referrals[i].Tiers = nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := upsert(tx, mapAll(data.Settings, fromBonusSetting)); err != nil {
			return fmt.Errorf("bonus settings: %w", err)
		}
		if err := upsert(tx, referrals); err != nil {
			return fmt.Errorf("referrals: %w", err)
		}
		if len(ids) > 0 {
			if err := tx.Where("referral_id IN ?", ids).Delete(&referralTierModel{}).Error; err != nil {
				return fmt.Errorf("referral tiers: %w", err)
			}
		}
		if err := upsert(tx, tiers); err != nil {
			return fmt.Errorf("referral tiers: %w", err)
		}
		if err := upsert(tx, mapAll(data.Stacks, fromStackRecord)); err != nil {
			return fmt.Errorf("stack records: %w", err)
		}
		if err := upsert(tx, mapAll(data.Progress, fromGroupProgress)); err != nil {
			return fmt.Errorf("group progress: %w", err)
		}
		if err := upsert(tx, mapAll(data.Groups, fromGroupBonus)); err != nil {
			return fmt.Errorf("group bonuses: %w", err)
		}
		if err := upsert(tx, mapAll([]referral.Rate(data.Rates), fromRate)); err != nil {
			return fmt.Errorf("currency rates: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cannot import: %w", err)
	}
	zerolog.Ctx(ctx).Info().Int("referrals", len(referrals)).Int("settings", len(data.Settings)).
		Int("stacks", len(data.Stacks)).Int("rates", len(data.Rates)).Msg("data imported")
	return nil
}

// upsert inserts rows, updating the existing ones.
func upsert[T any](tx *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Omit(clause.Associations).Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, batchSize).Error
}
