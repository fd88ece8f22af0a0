package referral

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

// TierBonus is a milestone tier resolved for one referral.
type TierBonus struct {
	ID        int64           `json:"id"`
	Level     int             `json:"level"`
	Value     Money           `json:"value"`     // base currency
	Converted Money           `json:"converted"` // display currency
	Threshold decimal.Decimal `json:"threshold"`
	Achieved  bool            `json:"achieved"`
}

// ResolveTiers resolves the tiers referenced by ids for a referee of country
// that reached the given number of milestones.
//
// Retired settings are resolved like any other. Unknown ids, and settings of
// another country, are ignored. Tiers are returned by ascending level.
func ResolveTiers(settings []BonusSetting, ids []int64, country string, milestones int, conv Conversion) ([]TierBonus, error) {
	tiers := make([]TierBonus, 0, len(ids))
	for _, s := range settings {
		if s.Country != country || !slices.Contains(ids, s.ID) {
			continue
		}
		if !s.Threshold.IsPositive() {
			return nil, fmt.Errorf("tier %d (level %d): threshold %s: %w", s.ID, s.Level, s.Threshold, ErrInvalidThreshold)
		}
		value := M(s.Value, conv.From)
		tiers = append(tiers, TierBonus{
			ID:        s.ID,
			Level:     s.Level,
			Value:     value,
			Converted: conv.Apply(value),
			Threshold: s.Threshold,
			Achieved:  s.Level <= milestones,
		})
	}
	slices.SortStableFunc(tiers, func(a, b TierBonus) int {
		return cmp.Or(cmp.Compare(a.Level, b.Level), cmp.Compare(a.ID, b.ID))
	})
	return tiers, nil
}

// AchievedTiers returns the converted sum of the achieved tiers.
func AchievedTiers(tiers []TierBonus, currency string) Money {
	total := M(0, currency)
	for _, t := range tiers {
		if t.Achieved {
			total = total.Add(t.Converted)
		}
	}
	return total
}
