// Package calculator holds the money formulas of a chit group. Every value is
// an integer amount of minor currency units; divisions round half to even.
package calculator

import "github.com/shopspring/decimal"

// SurrenderPenaltyPercent is the share of the pot kept back when a member exits.
const SurrenderPenaltyPercent = 5

var hundred = decimal.NewFromInt(100)

func round(d decimal.Decimal) int64 {
	return d.RoundBank(0).IntPart()
}

func divide(num int64, den int64) int64 {
	return round(decimal.NewFromInt(num).Div(decimal.NewFromInt(den)))
}

// Commission is the foreman's cut of a bid at the given percentage rate.
func Commission(bid int64, rate decimal.Decimal) int64 {
	return round(decimal.NewFromInt(bid).Mul(rate).Div(hundred))
}

// Dividend is the per-member share of the bid after commission.
func Dividend(bid, commission int64, totalMembers int) int64 {
	if totalMembers <= 0 {
		return 0
	}
	return divide(bid-commission, int64(totalMembers))
}

// NextPayable is the installment due next month. It is not clamped.
func NextPayable(baseInstallment, dividend int64) int64 {
	return baseInstallment - dividend
}

func PrizeMoney(pot, bid int64) int64 {
	return pot - bid
}

// SurrenderValue is what an exiting member gets back. It may be negative.
func SurrenderValue(totalPaid, pot int64) int64 {
	return totalPaid - divide(pot*SurrenderPenaltyPercent, 100)
}

// CatchUpAmount sums the net installments a late joiner missed.
func CatchUpAmount(history []int64) int64 {
	var total int64
	for _, v := range history {
		total += v
	}
	return total
}

func ForemanProfit(totalCommissions, badDebts, operationalCosts int64) int64 {
	return totalCommissions - badDebts - operationalCosts
}

func BaseInstallment(pot int64, duration int) int64 {
	if duration == 0 {
		return 0
	}
	return divide(pot, int64(duration))
}

// Outcome bundles every amount derived from one bid.
type Outcome struct {
	Commission  int64
	Dividend    int64
	NextPayable int64
	PrizeMoney  int64
}

// AuctionOutcome derives commission, dividend, next payable and prize for a bid.
func AuctionOutcome(pot, baseInstallment, bid int64, rate decimal.Decimal, totalMembers int) Outcome {
	commission := Commission(bid, rate)
	dividend := Dividend(bid, commission, totalMembers)
	return Outcome{
		Commission:  commission,
		Dividend:    dividend,
		NextPayable: NextPayable(baseInstallment, dividend),
		PrizeMoney:  PrizeMoney(pot, bid),
	}
}
