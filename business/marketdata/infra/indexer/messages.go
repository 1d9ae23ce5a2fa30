package indexer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/deeparb/deeparb/business/marketdata/domain"
)

// depthResponse is the REST depth snapshot: [[price, quantity], ...]
// per side, best level first.
type depthResponse struct {
	PoolKey   string     `json:"pool"`
	Timestamp int64      `json:"timestamp"`
	Bids      [][]string `json:"bids"`
	Asks      [][]string `json:"asks"`
}

// bookEvent is the WebSocket stream frame, same level encoding as the
// REST snapshot.
type bookEvent struct {
	PoolKey   string     `json:"pool"`
	Timestamp int64      `json:"timestamp"`
	Bids      [][]string `json:"bids"`
	Asks      [][]string `json:"asks"`
}

// parseLevels decodes [[price, quantity], ...] pairs.
func parseLevels(raw [][]string) ([]domain.Level, error) {
	levels := make([]domain.Level, 0, len(raw))
	for i, entry := range raw {
		if len(entry) < 2 {
			return nil, fmt.Errorf("level %d: want [price, quantity], got %d fields", i, len(entry))
		}
		price, err := decimal.NewFromString(entry[0])
		if err != nil {
			return nil, fmt.Errorf("level %d price %q: %w", i, entry[0], err)
		}
		qty, err := decimal.NewFromString(entry[1])
		if err != nil {
			return nil, fmt.Errorf("level %d quantity %q: %w", i, entry[1], err)
		}
		levels = append(levels, domain.Level{Price: price, Quantity: qty})
	}
	return levels, nil
}
