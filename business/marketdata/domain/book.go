// Package domain contains the order-book types and depth math for the
// market data context.
package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/deeparb/deeparb/internal/apperror"
)

// Level is a single price level: price in quote per base, quantity in
// base units.
type Level struct {
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// Book is a snapshot of one pool's order book. Bids are ordered
// best-to-worst descending, asks ascending.
type Book struct {
	PoolKey   string
	Bids      []Level
	Asks      []Level
	Timestamp time.Time
}

// BestBid returns the highest bid, nil on an empty side.
func (b *Book) BestBid() *Level {
	if len(b.Bids) == 0 {
		return nil
	}
	return &b.Bids[0]
}

// BestAsk returns the lowest ask, nil on an empty side.
func (b *Book) BestAsk() *Level {
	if len(b.Asks) == 0 {
		return nil
	}
	return &b.Asks[0]
}

// MidPrice returns the mid-market price, zero when either side is empty.
func (b *Book) MidPrice() decimal.Decimal {
	bid := b.BestBid()
	ask := b.BestAsk()
	if bid == nil || ask == nil {
		return decimal.Zero
	}
	return bid.Price.Add(ask.Price).Div(decimal.NewFromInt(2))
}

// Age returns how old the snapshot is.
func (b *Book) Age() time.Duration {
	return time.Since(b.Timestamp)
}

// Validate checks the level ordering on both sides.
func (b *Book) Validate() error {
	for i := 1; i < len(b.Bids); i++ {
		if b.Bids[i].Price.GreaterThan(b.Bids[i-1].Price) {
			return apperror.New(apperror.CodeInvalidOrderBook,
				apperror.WithContext(fmt.Sprintf("bids out of order at level %d for %s", i, b.PoolKey)))
		}
	}
	for i := 1; i < len(b.Asks); i++ {
		if b.Asks[i].Price.LessThan(b.Asks[i-1].Price) {
			return apperror.New(apperror.CodeInvalidOrderBook,
				apperror.WithContext(fmt.Sprintf("asks out of order at level %d for %s", i, b.PoolKey)))
		}
	}
	return nil
}
