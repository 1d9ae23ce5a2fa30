package app

import (
	"context"
	"io"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/deeparb/deeparb/business/txcompose/domain"
	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/asset"
	"github.com/deeparb/deeparb/internal/logger"
)

func testService(t *testing.T) *ComposeService {
	t.Helper()
	return NewComposeService(testRegistry(), logger.New(io.Discard, logger.LevelError, "test", nil))
}

// testRegistry sets up two pools on the same pair so a full borrow,
// swap out, swap back round trip is possible, plus a disjoint pair.
func testRegistry() *asset.Registry {
	reg := asset.NewRegistry(asset.NetworkTestnet, "0x2bee", "0x3fee")

	sui := asset.NewAssetWithFeed("SUI", "0x2::sui::SUI", 9, "0xfeed01")
	usdc := asset.NewAssetWithFeed("USDC", "0xa1::usdc::USDC", 6, "0xfeed02")
	deep := asset.NewAssetWithFeed("DEEP", "0xb2::deep::DEEP", 6, "0xfeed03")
	wal := asset.NewAsset("WAL", "0xc3::wal::WAL", 9)

	for _, a := range []*asset.Asset{sui, usdc, deep, wal} {
		reg.RegisterAsset(a)
	}
	reg.RegisterPool(asset.NewPool("SUI_USDC", "0xp001", sui, usdc))
	reg.RegisterPool(asset.NewPool("SUI_USDC_2", "0xp002", sui, usdc))
	reg.RegisterPool(asset.NewPool("DEEP_WAL", "0xp003", deep, wal))
	reg.RegisterPool(asset.NewPool("WAL_USDC", "0xp004", wal, usdc))

	reg.RegisterMarginPool(asset.NewMarginPool("0xm001", sui))
	reg.RegisterMarginPool(asset.NewMarginPool("0xm002", usdc))
	return reg
}

func TestBuildFlashArbitrage(t *testing.T) {
	s := testService(t)

	d, err := s.BuildFlashArbitrage(context.Background(), FlashArbitrageParams{
		BorrowPool:   "SUI_USDC",
		SwapPool:     "SUI_USDC_2",
		BorrowSide:   asset.SideBase,
		BorrowAmount: decimal.RequireFromString("10"),
	})
	if err != nil {
		t.Fatalf("BuildFlashArbitrage: %v", err)
	}

	// borrow, fee mint + swap out, fee mint + swap back, split,
	// return, transfer.
	if d.Len() != 8 {
		t.Fatalf("instruction count = %d, want 8", d.Len())
	}
	instructions, err := d.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	// The second swap must not accept less than the borrowed amount.
	var minOut string
	for _, in := range instructions {
		if len(in.Args) >= 4 && in.Target == "0x2bee::pool::swap_exact_quote_for_base" {
			minOut = in.Args[3].Value
		}
	}
	if minOut != "10000000000" {
		t.Fatalf("return swap min output = %q, want borrow amount in units", minOut)
	}
}

func TestBuildFlashArbitrageDisjointPools(t *testing.T) {
	s := testService(t)

	_, err := s.BuildFlashArbitrage(context.Background(), FlashArbitrageParams{
		BorrowPool:   "SUI_USDC",
		SwapPool:     "DEEP_WAL",
		BorrowSide:   asset.SideBase,
		BorrowAmount: decimal.RequireFromString("1"),
	})
	if !apperror.HasCode(err, apperror.CodeConfigurationError) {
		t.Fatalf("err = %v, want %s", err, apperror.CodeConfigurationError)
	}
}

func TestBuildFlashArbitrageNoReturnLeg(t *testing.T) {
	s := testService(t)

	// WAL_USDC shares USDC with SUI_USDC but pays out WAL, which the
	// borrow pool cannot convert back.
	_, err := s.BuildFlashArbitrage(context.Background(), FlashArbitrageParams{
		BorrowPool:   "SUI_USDC",
		SwapPool:     "WAL_USDC",
		BorrowSide:   asset.SideQuote,
		BorrowAmount: decimal.RequireFromString("100"),
	})
	if !apperror.HasCode(err, apperror.CodeConfigurationError) {
		t.Fatalf("err = %v, want %s", err, apperror.CodeConfigurationError)
	}
}

func TestOpenMarginPosition(t *testing.T) {
	s := testService(t)

	d, err := s.OpenMarginPosition(context.Background(), OpenPositionParams{
		Pool:        "SUI_USDC",
		DepositSide: asset.SideBase,
		CoinObject:  "0xc0ffee",
		Amount:      decimal.RequireFromString("2.5"),
	})
	if err != nil {
		t.Fatalf("OpenMarginPosition: %v", err)
	}

	// create, split, deposit, share, transfer change.
	if d.Len() != 5 {
		t.Fatalf("instruction count = %d, want 5", d.Len())
	}
	if _, err := d.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
}

func TestOpenMarginPositionNonMarginable(t *testing.T) {
	s := testService(t)

	_, err := s.OpenMarginPosition(context.Background(), OpenPositionParams{
		Pool:        "WAL_USDC",
		DepositSide: asset.SideQuote,
		CoinObject:  "0xc0ffee",
		Amount:      decimal.RequireFromString("1"),
	})
	if !apperror.HasCode(err, apperror.CodeConfigurationError) {
		t.Fatalf("err = %v, want %s", err, apperror.CodeConfigurationError)
	}
}

func TestRepayDebtFullVersusZero(t *testing.T) {
	s := testService(t)
	ctx := context.Background()
	pos := PositionParams{Pool: "SUI_USDC", ManagerID: "0xabc123", Side: asset.SideQuote}

	d, err := s.RepayDebt(ctx, pos, nil)
	if err != nil {
		t.Fatalf("RepayDebt(nil): %v", err)
	}
	in := d.Instructions()[0]
	found := false
	for _, a := range in.Args {
		if a.Kind == domain.ArgPure && a.Value == "none" {
			found = true
		}
	}
	if !found {
		t.Fatalf("repay-all instruction missing absent-amount marker: %+v", in.Args)
	}

	zero := decimal.Zero
	if _, err := s.RepayDebt(ctx, pos, &zero); !apperror.HasCode(err, apperror.CodeInvalidAmount) {
		t.Fatalf("RepayDebt(0) err = %v, want %s", err, apperror.CodeInvalidAmount)
	}
}

func TestBuildLimitOrderEncoding(t *testing.T) {
	s := testService(t)

	d, err := s.BuildLimitOrder(context.Background(), LimitOrderIntent{
		Pool:      "SUI_USDC",
		ManagerID: "0xabc123",
		Price:     decimal.RequireFromString("3.7"),
		Quantity:  decimal.RequireFromString("2"),
		IsBid:     true,
	})
	if err != nil {
		t.Fatalf("BuildLimitOrder: %v", err)
	}

	instructions := d.Instructions()
	order := instructions[len(instructions)-1]
	// 3.7 quote/base with base 10^9 and quote 10^6 scalars encodes to
	// 3.7 * 1e9 * 1e6 / 1e9.
	if got := order.Args[5].Value; got != "3700000" {
		t.Fatalf("encoded price = %s, want 3700000", got)
	}
	if got := order.Args[6].Value; got != "2000000000" {
		t.Fatalf("encoded quantity = %s, want 2000000000", got)
	}
}
