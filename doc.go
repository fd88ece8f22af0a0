// Package referral computes and reports the bonuses a referrer earned from the
// people they referred.
//
// The core is a stateless engine that works on data supplied by a Source:
//   - Currency conversion: amounts are kept in the base currency and divided
//     by the latest exchange rate of the referee's local currency.
//   - Tier bonuses: a milestone ladder, each tier achieved once the referee's
//     milestone count reaches the tier level.
//   - Stacking bonuses: payout portions multiplied by the number of recorded
//     enrichment events.
//   - Progress cycles: a repeating count-to-threshold bar per referrer.
//   - Earnings: the sum of signup, tier and stacking bonuses in the referee's
//     currency, rounded only when rendered.
//
// Reports (overview, listing, detail, additional bonuses, progress and
// reconciliation) are built on top of the engine by a Reporter, and are
// rendered by the renderer package or exported as CSV.
package referral
