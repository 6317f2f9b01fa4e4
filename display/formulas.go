// Package display turns a session snapshot into fully defaulted view
// records. All functions are pure.
package display

import (
	"math"

	"mitra-credit/content"
)

// ScoreScale is the denominator of the credit-score ring.
const ScoreScale = 900

// Utilization returns the percentage of limit currently drawn.
func Utilization(creditLimit, availableLimit int64) float64 {
	if creditLimit == 0 {
		return 0
	}
	return float64(creditLimit-availableLimit) * 100 / float64(creditLimit)
}

// RingFraction returns the share of the limit still available.
func RingFraction(creditLimit, availableLimit int64) float64 {
	if creditLimit == 0 {
		return 0
	}
	return float64(availableLimit) / float64(creditLimit)
}

// ScoreFraction returns the credit-score ring fill.
func ScoreFraction(score int) float64 {
	return float64(score) / ScoreScale
}

// TierFor returns the index of the highest tier unlocked by coins. tiers
// must be ordered by MinCoins with the first at 0.
func TierFor(tiers []content.Tier, coins int) int {
	idx := 0
	for i, t := range tiers {
		if coins >= t.MinCoins {
			idx = i
		}
	}
	return idx
}

// Unlocked reports whether coins reach the tier threshold.
func Unlocked(t content.Tier, coins int) bool {
	return coins >= t.MinCoins
}

// NextTier returns the tier after index i, if there is one.
func NextTier(tiers []content.Tier, i int) (content.Tier, bool) {
	if i+1 >= len(tiers) {
		return content.Tier{}, false
	}
	return tiers[i+1], true
}

// CoinsToNext returns how many coins are missing to reach next.
func CoinsToNext(next content.Tier, coins int) int {
	return next.MinCoins - coins
}

// Redeemable reports whether coins cover the reward.
func Redeemable(r content.Reward, coins int) bool {
	return coins >= r.Cost
}

// Shortfall returns the coins still needed for r, or 0 when redeemable.
func Shortfall(r content.Reward, coins int) int {
	if Redeemable(r, coins) {
		return 0
	}
	return r.Cost - coins
}

// JourneyReached reports whether score has reached the stage.
func JourneyReached(stage content.JourneyStage, score int) bool {
	return score >= stage.MinScore
}

// EMI returns the equated monthly instalment for principal borrowed at
// annualRate percent over months. A zero rate spreads principal evenly.
func EMI(principal int64, annualRate float64, months int) float64 {
	if months <= 0 || principal <= 0 {
		return 0
	}
	p := float64(principal)
	r := annualRate / 1200
	if r == 0 {
		return roundRupee(p / float64(months))
	}
	f := math.Pow(1+r, float64(months))
	return roundRupee(p * r * f / (f - 1))
}

// Instalment is one row of a repayment schedule.
type Instalment struct {
	Number    int     `json:"number"`
	EMI       float64 `json:"emi"`
	Principal float64 `json:"principal"`
	Interest  float64 `json:"interest"`
	Balance   float64 `json:"balance"`
}

// Schedule returns the amortisation table for the loan. The last row
// absorbs rounding so the balance closes at zero.
func Schedule(principal int64, annualRate float64, months int, emi float64) []Instalment {
	if months <= 0 || principal <= 0 {
		return nil
	}
	r := annualRate / 1200
	balance := float64(principal)
	rows := make([]Instalment, 0, months)
	for n := 1; n <= months; n++ {
		interest := roundRupee(balance * r)
		pay := emi
		princ := roundRupee(pay - interest)
		if n == months || princ > balance {
			princ = balance
			pay = roundRupee(princ + interest)
		}
		balance = roundRupee(balance - princ)
		rows = append(rows, Instalment{
			Number:    n,
			EMI:       pay,
			Principal: princ,
			Interest:  interest,
			Balance:   balance,
		})
	}
	return rows
}

func roundRupee(v float64) float64 {
	return math.Round(v*100) / 100
}
