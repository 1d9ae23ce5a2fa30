// Package asset provides the per-network registry of assets, pools and
// margin pools, plus exact unit conversion between human-readable decimal
// amounts and integer ledger units.
package asset

import (
	"fmt"
	"regexp"
)

// Network identifies a ledger network.
type Network string

// Supported networks.
const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

// Address is a 32-byte ledger object address in 0x-prefixed hex.
type Address string

var addressRe = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)

// IsValid reports whether the address is well-formed.
func (a Address) IsValid() bool {
	return addressRe.MatchString(string(a))
}

// String returns the address as a string.
func (a Address) String() string {
	return string(a)
}

// Asset represents the metadata of a ledger asset.
// The symbol is display metadata; the ledger type id is the identity.
type Asset struct {
	symbol      string
	typeID      string
	decimals    uint8
	priceFeedID Address // empty = no oracle feed
}

// NewAsset creates a new Asset with the given parameters.
func NewAsset(symbol, typeID string, decimals uint8) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if typeID == "" {
		panic("asset: empty ledger type id")
	}
	if decimals > 19 {
		panic(fmt.Sprintf("asset: decimals %d exceed uint64 range", decimals))
	}

	return &Asset{
		symbol:   symbol,
		typeID:   typeID,
		decimals: decimals,
	}
}

// NewAssetWithFeed creates an Asset with an oracle price feed reference.
func NewAssetWithFeed(symbol, typeID string, decimals uint8, feed Address) *Asset {
	a := NewAsset(symbol, typeID, decimals)
	a.priceFeedID = feed
	return a
}

// Symbol returns the ticker symbol (e.g., "SUI", "USDC").
func (a *Asset) Symbol() string {
	return a.symbol
}

// TypeID returns the ledger type identifier (e.g., "0x2::sui::SUI").
func (a *Asset) TypeID() string {
	return a.typeID
}

// Decimals returns the number of decimal places.
func (a *Asset) Decimals() uint8 {
	return a.decimals
}

// Scalar returns 10^decimals, the unit conversion factor.
func (a *Asset) Scalar() uint64 {
	s := uint64(1)
	for i := uint8(0); i < a.decimals; i++ {
		s *= 10
	}
	return s
}

// HasPriceFeed reports whether the asset has an oracle price feed.
func (a *Asset) HasPriceFeed() bool {
	return a.priceFeedID != ""
}

// PriceFeedID returns the oracle feed address, empty if none.
func (a *Asset) PriceFeedID() Address {
	return a.priceFeedID
}

// String returns a human-readable representation.
func (a *Asset) String() string {
	return a.symbol
}

// Equals compares two Assets by ledger type id.
func (a *Asset) Equals(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.typeID == other.typeID
}
