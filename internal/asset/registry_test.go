package asset_test

import (
	"testing"

	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/asset"
)

func TestMainnetRegistry_Lookups(t *testing.T) {
	r := asset.MainnetRegistry()

	sui, err := r.Asset("SUI")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sui.Decimals() != 9 || sui.Scalar() != 1_000_000_000 {
		t.Errorf("SUI scalar = %d, want 1e9", sui.Scalar())
	}

	pool, err := r.Pool("SUI_USDC")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool.Base().Symbol() != "SUI" || pool.Quote().Symbol() != "USDC" {
		t.Errorf("unexpected pool assets: %s/%s", pool.Base(), pool.Quote())
	}

	if _, err := r.Asset("DOGE"); !apperror.HasCode(err, apperror.CodeConfigurationError) {
		t.Errorf("unknown asset: got %v, want CONFIGURATION_ERROR", err)
	}
	if _, err := r.Pool("DOGE_USDC"); !apperror.HasCode(err, apperror.CodeConfigurationError) {
		t.Errorf("unknown pool: got %v, want CONFIGURATION_ERROR", err)
	}
}

func TestRegistry_IsMarginable(t *testing.T) {
	r := asset.MainnetRegistry()

	// SUI and USDC both have margin pools and price feeds.
	suiUSDC, _ := r.Pool("SUI_USDC")
	if !r.IsMarginable(suiUSDC) {
		t.Error("SUI_USDC should be marginable")
	}

	// WAL has a price feed but no margin pool entry.
	walUSDC, _ := r.Pool("WAL_USDC")
	if r.IsMarginable(walUSDC) {
		t.Error("WAL_USDC should not be marginable")
	}

	// NS has neither feed nor margin pool.
	nsUSDC, _ := r.Pool("NS_USDC")
	if r.IsMarginable(nsUSDC) {
		t.Error("NS_USDC should not be marginable")
	}
}

func TestPool_SideOf(t *testing.T) {
	r := asset.MainnetRegistry()
	pool, _ := r.Pool("DEEP_SUI")
	deep, _ := r.Asset("DEEP")
	sui, _ := r.Asset("SUI")
	usdc, _ := r.Asset("USDC")

	if side, ok := pool.SideOf(deep); !ok || side != asset.SideBase {
		t.Errorf("DEEP side = %v/%v, want base", side, ok)
	}
	if side, ok := pool.SideOf(sui); !ok || side != asset.SideQuote {
		t.Errorf("SUI side = %v/%v, want quote", side, ok)
	}
	if _, ok := pool.SideOf(usdc); ok {
		t.Error("USDC should not be in DEEP_SUI")
	}
}

func TestRegistry_DeterministicPoolOrder(t *testing.T) {
	r := asset.MainnetRegistry()

	first := r.Pools()
	second := r.Pools()
	if len(first) != len(second) {
		t.Fatalf("pool count changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Key() != second[i].Key() {
			t.Errorf("pool order not deterministic at %d: %s vs %s", i, first[i].Key(), second[i].Key())
		}
	}
}
