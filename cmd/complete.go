package cmd

import (
	"github.com/etnz/referral"
	"github.com/etnz/referral/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion describes the refs command line for shell completion.
func Completion() *complete.Command {
	topics, _ := docs.AllTopics()
	csv := predict.Or(predict.Dirs("*"), predict.Files("*.csv"))
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"referrer": predict.Something,
			"data":     predict.Dirs("*"),
			"html":     predict.Nothing,
			"v":        predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"overview": {Flags: map[string]complete.Predictor{"c": predict.Set(currencies())}},
			"list": {Flags: map[string]complete.Predictor{
				"o":   predict.Set(referral.ListColumns),
				"asc": predict.Nothing,
				"csv": csv,
			}},
			"detail": {Flags: map[string]complete.Predictor{
				"referee": predict.Something,
				"json":    predict.Nothing,
				"q":       predict.Set{"$.status", "$.earnings.total.amount", "$.earnings.tiers", "$.earnings.stacks"},
			}},
			"bonuses":  {Flags: map[string]complete.Predictor{"csv": csv}},
			"progress": {},
			"audit":    {Flags: map[string]complete.Predictor{"strict": predict.Nothing}},
			"fmt":      {},
			"push":     {Flags: map[string]complete.Predictor{"migrate": predict.Nothing}},
			"topic":    {Args: predict.Set(append(topics, "*"))},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
	}
}

// currencies are the local currencies of the supported countries.
func currencies() []string {
	var out []string
	for _, c := range []string{"MY", "PH", "VN", "TH", "ID"} {
		if cur, ok := referral.CurrencyForCountry(c); ok {
			out = append(out, cur)
		}
	}
	return out
}
