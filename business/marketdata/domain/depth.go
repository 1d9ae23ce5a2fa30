package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/deeparb/deeparb/internal/apperror"
)

// EvaluateDepth walks the levels best-to-worst, filling the requested
// size and returning the volume-weighted average execution price. The
// book must cover the whole size; a partial fill is reported as
// insufficient liquidity, never as a price.
func EvaluateDepth(levels []Level, size decimal.Decimal) (decimal.Decimal, error) {
	if !size.IsPositive() {
		return decimal.Zero, apperror.InvalidAmount(fmt.Sprintf("requested size %s must be positive", size))
	}

	remaining := size
	totalCost := decimal.Zero

	for _, level := range levels {
		if !remaining.IsPositive() {
			break
		}
		fill := decimal.Min(remaining, level.Quantity)
		totalCost = totalCost.Add(fill.Mul(level.Price))
		remaining = remaining.Sub(fill)
	}

	if remaining.IsPositive() {
		return decimal.Zero, apperror.New(apperror.CodeInsufficientLiquidity,
			apperror.WithContext(fmt.Sprintf("book covers %s of requested %s", size.Sub(remaining), size)))
	}

	return totalCost.Div(size), nil
}
