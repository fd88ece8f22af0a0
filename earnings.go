package referral

// SignupBonus holds the flat signup bonus of both parties, in the base and the display currency.
type SignupBonus struct {
	Referrer          Money `json:"referrer"`
	ReferrerConverted Money `json:"referrerConverted"`
	Referee           Money `json:"referee"`
	RefereeConverted  Money `json:"refereeConverted"`
}

// Earnings is the currency-normalized breakdown of what a referrer earned
// from one referral.
//
// Total is kept with its full precision: it is the exact sum of the
// converted referrer signup bonus, the achieved tiers and the achieved stack
// contributions. It is only rounded when rendered.
type Earnings struct {
	Signup     SignupBonus  `json:"signupBonus"`
	Tiers      []TierBonus  `json:"tiers"`
	Stacks     []StackBonus `json:"stacks"`
	Total      Money        `json:"total"`
	Currency   string       `json:"currency"`
	Conversion Conversion   `json:"conversion"`
}

// AchievedTierCount returns the number of achieved tiers.
func (e Earnings) AchievedTierCount() int {
	n := 0
	for _, t := range e.Tiers {
		if t.Achieved {
			n++
		}
	}
	return n
}

// ComputeEarnings computes the earnings of a referral.
//
// tierDefs are resolved against the referral's tier ids, stackDefs against
// multipliers (see StackMultipliers). conv converts from the base currency
// into the display currency, usually Converter.ForCountry of the referee's
// country.
func ComputeEarnings(r Referral, tierDefs, stackDefs []BonusSetting, multipliers map[int64]int, conv Conversion) (Earnings, error) {
	tiers, err := ResolveTiers(tierDefs, r.TierBonusIDs, r.Country, r.Milestones, conv)
	if err != nil {
		return Earnings{}, err
	}
	stacks := ResolveStacks(stackDefs, multipliers, r.Country, conv)

	referrer := M(r.ReferrerSignupBonus, conv.From)
	referee := M(r.RefereeSignupBonus, conv.From)
	e := Earnings{
		Signup: SignupBonus{
			Referrer:          referrer,
			ReferrerConverted: conv.Apply(referrer),
			Referee:           referee,
			RefereeConverted:  conv.Apply(referee),
		},
		Tiers:      tiers,
		Stacks:     stacks,
		Currency:   conv.To,
		Conversion: conv,
	}
	e.Total = e.Signup.ReferrerConverted.
		Add(AchievedTiers(tiers, conv.To)).
		Add(AchievedStacks(stacks, conv.To))
	return e, nil
}
