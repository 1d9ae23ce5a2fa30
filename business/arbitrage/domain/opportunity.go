// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/deeparb/deeparb/internal/asset"
)

// Opportunity is one profitable round trip found by a scan. Values
// are estimates against the books seen during the scan; a new scan
// replaces them wholesale.
type Opportunity struct {
	Path            []string // asset symbols along the route
	BorrowPool      string
	BorrowAsset     string
	BorrowSide      asset.Side
	SwapPool        string
	BorrowAmount    decimal.Decimal
	EstimatedReturn decimal.Decimal // shared-asset amount after both legs, before fees
	EstimatedProfit decimal.Decimal // net of swap fees and loan repayment
	ProfitPercent   decimal.Decimal
	Timestamp       time.Time
}

// String returns a one-line summary.
func (o *Opportunity) String() string {
	return fmt.Sprintf("%s: borrow %s %s on %s, swap via %s, profit %s (%s%%)",
		pathString(o.Path), o.BorrowAmount, o.BorrowAsset, o.BorrowPool,
		o.SwapPool, o.EstimatedProfit, o.ProfitPercent.StringFixed(4))
}

func pathString(path []string) string {
	out := ""
	for i, p := range path {
		if i > 0 {
			out += " -> "
		}
		out += p
	}
	return out
}
