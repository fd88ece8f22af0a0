package referral

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

// StackBonus is a stacking bonus resolved for one referral.
type StackBonus struct {
	ID           int64           `json:"id"`
	Value        Money           `json:"value"`     // base currency
	Converted    Money           `json:"converted"` // display currency, for one stack
	Threshold    decimal.Decimal `json:"threshold"`
	Multiplier   int             `json:"multiplier"`
	Contribution Money           `json:"contribution"` // Converted × Multiplier
	Achieved     bool            `json:"achieved"`
}

// StackMultipliers counts the enrichment records of a (referrer, referee)
// pair per bonus setting.
func StackMultipliers(records []StackRecord, referrer, referee int64) map[int64]int {
	m := make(map[int64]int)
	for _, r := range records {
		if r.ReferrerID == referrer && r.RefereeID == referee {
			m[r.BonusID]++
		}
	}
	return m
}

// TotalAchievedStack returns the number of enrichment records of a (referrer, referee) pair.
func TotalAchievedStack(records []StackRecord, referrer, referee int64) int {
	n := 0
	for _, r := range records {
		if r.ReferrerID == referrer && r.RefereeID == referee {
			n++
		}
	}
	return n
}

// ResolveStacks resolves the payout portion settings of country, with the
// multiplier of each setting taken from multipliers.
//
// Retired settings are skipped unless they have been achieved. Stacks are
// ordered by creation time.
func ResolveStacks(settings []BonusSetting, multipliers map[int64]int, country string, conv Conversion) []StackBonus {
	defs := make([]BonusSetting, 0, len(settings))
	for _, s := range settings {
		if s.Kind != KindPayoutPortion || s.Country != country {
			continue
		}
		if s.Retired() && multipliers[s.ID] <= 0 {
			continue
		}
		defs = append(defs, s)
	}
	slices.SortStableFunc(defs, func(a, b BonusSetting) int {
		return cmp.Or(a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})

	stacks := make([]StackBonus, 0, len(defs))
	for _, s := range defs {
		n := max(multipliers[s.ID], 0)
		value := M(s.Value, conv.From)
		converted := conv.Apply(value)
		stacks = append(stacks, StackBonus{
			ID:           s.ID,
			Value:        value,
			Converted:    converted,
			Threshold:    s.Threshold,
			Multiplier:   n,
			Contribution: converted.MulInt(n),
			Achieved:     n > 0,
		})
	}
	return stacks
}

// AchievedStacks returns the converted sum of the stack contributions.
func AchievedStacks(stacks []StackBonus, currency string) Money {
	total := M(0, currency)
	for _, s := range stacks {
		if s.Achieved {
			total = total.Add(s.Contribution)
		}
	}
	return total
}
