package asset

// Side selects the base or quote asset of a pool.
type Side string

// Pool sides.
const (
	SideBase  Side = "base"
	SideQuote Side = "quote"
)

// Pool represents a trading pool on the venue.
type Pool struct {
	key     string
	address Address
	base    *Asset
	quote   *Asset
}

// NewPool creates a new Pool. Base and quote must differ.
func NewPool(key string, address Address, base, quote *Asset) *Pool {
	if key == "" {
		panic("asset: empty pool key")
	}
	if base == nil || quote == nil {
		panic("asset: nil asset in pool " + key)
	}
	if base.Equals(quote) {
		panic("asset: pool " + key + " has identical base and quote")
	}

	return &Pool{
		key:     key,
		address: address,
		base:    base,
		quote:   quote,
	}
}

// Key returns the symbolic pool key (e.g., "SUI_USDC").
func (p *Pool) Key() string {
	return p.key
}

// Address returns the pool's ledger address.
func (p *Pool) Address() Address {
	return p.address
}

// Base returns the base asset.
func (p *Pool) Base() *Asset {
	return p.base
}

// Quote returns the quote asset.
func (p *Pool) Quote() *Asset {
	return p.quote
}

// AssetBySide returns the asset on the given side.
func (p *Pool) AssetBySide(side Side) *Asset {
	if side == SideBase {
		return p.base
	}
	return p.quote
}

// SideOf returns the side the asset sits on, or false if it is not in the pool.
func (p *Pool) SideOf(a *Asset) (Side, bool) {
	switch {
	case p.base.Equals(a):
		return SideBase, true
	case p.quote.Equals(a):
		return SideQuote, true
	default:
		return "", false
	}
}

// Has reports whether the asset is one of the pool's two assets.
func (p *Pool) Has(a *Asset) bool {
	_, ok := p.SideOf(a)
	return ok
}

// String returns the pool key.
func (p *Pool) String() string {
	return p.key
}

// MarginPool is the lending pool backing margin trades for one asset.
type MarginPool struct {
	address Address
	asset   *Asset
}

// NewMarginPool creates a MarginPool for the given asset.
func NewMarginPool(address Address, a *Asset) *MarginPool {
	if a == nil {
		panic("asset: nil asset in margin pool")
	}
	return &MarginPool{address: address, asset: a}
}

// Address returns the margin pool's ledger address.
func (m *MarginPool) Address() Address {
	return m.address
}

// Asset returns the asset the margin pool lends.
func (m *MarginPool) Asset() *Asset {
	return m.asset
}
