package asset

import (
	"fmt"
	"sort"
	"sync"

	"github.com/deeparb/deeparb/internal/apperror"
)

// Registry is a thread-safe, per-network table of assets, pools and
// margin pools. The tables are versioned constant data: registration
// happens at startup, lookups for unknown symbols are configuration
// bugs and fail fast.
type Registry struct {
	network     Network
	packageID   Address
	registryID  Address
	assets      map[string]*Asset
	pools       map[string]*Pool
	marginPools map[string]*MarginPool
	mu          sync.RWMutex
}

// NewRegistry creates an empty registry for a network.
func NewRegistry(network Network, packageID, registryID Address) *Registry {
	return &Registry{
		network:     network,
		packageID:   packageID,
		registryID:  registryID,
		assets:      make(map[string]*Asset),
		pools:       make(map[string]*Pool),
		marginPools: make(map[string]*MarginPool),
	}
}

// Network returns the registry's network.
func (r *Registry) Network() Network {
	return r.network
}

// PackageID returns the venue contract package address.
func (r *Registry) PackageID() Address {
	return r.packageID
}

// RegistryID returns the venue's on-ledger registry object address.
func (r *Registry) RegistryID() Address {
	return r.registryID
}

// RegisterAsset adds an asset. Panics on duplicate symbols: one ledger
// type per symbol per network.
func (r *Registry) RegisterAsset(a *Asset) {
	if a == nil {
		panic("asset: cannot register nil asset")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.assets[a.Symbol()]; exists {
		panic(fmt.Sprintf("asset: %s already registered on %s", a.Symbol(), r.network))
	}
	r.assets[a.Symbol()] = a
}

// RegisterPool adds a pool. Both assets must already be registered.
func (r *Registry) RegisterPool(p *Pool) {
	if p == nil {
		panic("asset: cannot register nil pool")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pools[p.Key()]; exists {
		panic(fmt.Sprintf("asset: pool %s already registered on %s", p.Key(), r.network))
	}
	for _, a := range []*Asset{p.Base(), p.Quote()} {
		if _, ok := r.assets[a.Symbol()]; !ok {
			panic(fmt.Sprintf("asset: pool %s references unregistered asset %s", p.Key(), a.Symbol()))
		}
	}
	r.pools[p.Key()] = p
}

// RegisterMarginPool adds a margin pool keyed by asset symbol.
func (r *Registry) RegisterMarginPool(m *MarginPool) {
	if m == nil {
		panic("asset: cannot register nil margin pool")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	symbol := m.Asset().Symbol()
	if _, exists := r.marginPools[symbol]; exists {
		panic(fmt.Sprintf("asset: margin pool for %s already registered on %s", symbol, r.network))
	}
	r.marginPools[symbol] = m
}

// Asset retrieves an asset by symbol.
func (r *Registry) Asset(symbol string) (*Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assets[symbol]
	if !ok {
		return nil, apperror.Configuration(fmt.Sprintf("unknown asset %q on network %s", symbol, r.network))
	}
	return a, nil
}

// Pool retrieves a pool by key.
func (r *Registry) Pool(key string) (*Pool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.pools[key]
	if !ok {
		return nil, apperror.Configuration(fmt.Sprintf("unknown pool %q on network %s", key, r.network))
	}
	return p, nil
}

// MarginPool retrieves the margin pool for an asset symbol.
func (r *Registry) MarginPool(symbol string) (*MarginPool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.marginPools[symbol]
	if !ok {
		return nil, apperror.Configuration(fmt.Sprintf("no margin pool for %q on network %s", symbol, r.network))
	}
	return m, nil
}

// Pools returns all pools sorted by key for deterministic iteration.
func (r *Registry) Pools() []*Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Pool, 0, len(r.pools))
	for _, p := range r.pools {
		result = append(result, p)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key() < result[j].Key() })
	return result
}

// Assets returns all assets sorted by symbol.
func (r *Registry) Assets() []*Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Asset, 0, len(r.assets))
	for _, a := range r.assets {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Symbol() < result[j].Symbol() })
	return result
}

// IsMarginable reports whether a pool supports margin trading: both of
// its assets need a margin pool entry and an oracle price feed.
func (r *Registry) IsMarginable(p *Pool) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range []*Asset{p.Base(), p.Quote()} {
		if !a.HasPriceFeed() {
			return false
		}
		if _, ok := r.marginPools[a.Symbol()]; !ok {
			return false
		}
	}
	return true
}
