package domain

import "github.com/shopspring/decimal"

// PoolFees are the execution costs of one swap on one pool: a
// proportional taker rate plus a flat per-swap fee in shared-asset
// terms.
type PoolFees struct {
	Rate  decimal.Decimal
	Fixed decimal.Decimal
}

// FeeSchedule resolves per-pool fees with flat defaults.
type FeeSchedule struct {
	DefaultRate  decimal.Decimal
	DefaultFixed decimal.Decimal
	PerPool      map[string]PoolFees
}

// DefaultFeeSchedule returns the venue's standard taker schedule:
// 0.3% per swap, no flat fee.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		DefaultRate: decimal.RequireFromString("0.003"),
	}
}

// For returns the fees for a pool, falling back to the defaults.
func (f FeeSchedule) For(poolKey string) PoolFees {
	if fees, ok := f.PerPool[poolKey]; ok {
		return fees
	}
	return PoolFees{Rate: f.DefaultRate, Fixed: f.DefaultFixed}
}

// RoundTripProfit nets a two-swap round trip: the gross return is
// discounted by each leg's proportional fee, then both flat fees and
// the loan principal are subtracted. With identical fees on both legs
// this is final*(1-rate)^2 - 2*fixed - borrow.
func RoundTripProfit(finalAmount, borrowAmount decimal.Decimal, outbound, ret PoolFees) decimal.Decimal {
	one := decimal.NewFromInt(1)
	net := finalAmount.
		Mul(one.Sub(outbound.Rate)).
		Mul(one.Sub(ret.Rate)).
		Sub(outbound.Fixed).
		Sub(ret.Fixed).
		Sub(borrowAmount)
	return net
}

// ProfitPercent expresses net profit relative to the borrowed amount.
func ProfitPercent(netProfit, borrowAmount decimal.Decimal) decimal.Decimal {
	if borrowAmount.IsZero() {
		return decimal.Zero
	}
	return netProfit.Div(borrowAmount).Mul(decimal.NewFromInt(100))
}
