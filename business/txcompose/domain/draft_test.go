package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/asset"
)

func mainnetDraft(t *testing.T) (*Draft, *asset.Registry) {
	t.Helper()
	reg := asset.MainnetRegistry()
	return NewDraft(reg), reg
}

func mustPool(t *testing.T, reg *asset.Registry, key string) *asset.Pool {
	t.Helper()
	p, err := reg.Pool(key)
	if err != nil {
		t.Fatalf("Pool(%s): %v", key, err)
	}
	return p
}

func TestFlashLoanRoundTrip(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")

	coin, receipt, err := d.BorrowFlashLoan(pool, asset.SideBase, 1_000_000_000)
	if err != nil {
		t.Fatalf("BorrowFlashLoan: %v", err)
	}
	if coin.Kind() != HandleCoin || receipt.Kind() != HandleFlashLoanReceipt {
		t.Fatalf("unexpected handle kinds: %s, %s", coin.Kind(), receipt.Kind())
	}
	if got := coin.Asset().Symbol(); got != "SUI" {
		t.Fatalf("borrowed coin asset = %s, want SUI", got)
	}

	if err := d.ReturnFlashLoan(pool, coin, receipt); err != nil {
		t.Fatalf("ReturnFlashLoan: %v", err)
	}

	instructions, err := d.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if len(instructions) != 2 {
		t.Fatalf("instruction count = %d, want 2", len(instructions))
	}
	if !receipt.Consumed() {
		t.Fatal("receipt not marked consumed after return")
	}
}

func TestFlashLoanBorrowZeroAmount(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")

	_, _, err := d.BorrowFlashLoan(pool, asset.SideQuote, 0)
	if !apperror.HasCode(err, apperror.CodeInvalidAmount) {
		t.Fatalf("err = %v, want %s", err, apperror.CodeInvalidAmount)
	}
}

func TestUnreturnedReceiptFailsFinish(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")

	coin, _, err := d.BorrowFlashLoan(pool, asset.SideBase, 100)
	if err != nil {
		t.Fatalf("BorrowFlashLoan: %v", err)
	}
	if err := d.TransferToOwner(coin); err != nil {
		t.Fatalf("TransferToOwner: %v", err)
	}

	if _, err := d.Finish(); !apperror.HasCode(err, apperror.CodeDanglingReceipt) {
		t.Fatalf("Finish err = %v, want %s", err, apperror.CodeDanglingReceipt)
	}
	if _, err := json.Marshal(d); err == nil {
		t.Fatal("marshaling a draft with a dangling receipt should fail")
	}
}

func TestReturnAgainstWrongPool(t *testing.T) {
	d, reg := mainnetDraft(t)
	suiUSDC := mustPool(t, reg, "SUI_USDC")
	deepSUI := mustPool(t, reg, "DEEP_SUI")

	coin, receipt, err := d.BorrowFlashLoan(suiUSDC, asset.SideBase, 100)
	if err != nil {
		t.Fatalf("BorrowFlashLoan: %v", err)
	}

	err = d.ReturnFlashLoan(deepSUI, coin, receipt)
	if !apperror.HasCode(err, apperror.CodeDanglingReceipt) {
		t.Fatalf("err = %v, want %s", err, apperror.CodeDanglingReceipt)
	}
}

func TestCoinConsumedTwice(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")

	coin, receipt, err := d.BorrowFlashLoan(pool, asset.SideBase, 100)
	if err != nil {
		t.Fatalf("BorrowFlashLoan: %v", err)
	}
	if err := d.ReturnFlashLoan(pool, coin, receipt); err != nil {
		t.Fatalf("ReturnFlashLoan: %v", err)
	}

	err = d.TransferToOwner(coin)
	if !apperror.HasCode(err, apperror.CodeOutOfOrderHandle) {
		t.Fatalf("err = %v, want %s", err, apperror.CodeOutOfOrderHandle)
	}
}

func TestHandleFromAnotherDraft(t *testing.T) {
	reg := asset.MainnetRegistry()
	pool := mustPool(t, reg, "SUI_USDC")

	d1 := NewDraft(reg)
	d2 := NewDraft(reg)

	coin, _, err := d1.BorrowFlashLoan(pool, asset.SideBase, 100)
	if err != nil {
		t.Fatalf("BorrowFlashLoan: %v", err)
	}

	err = d2.TransferToOwner(coin)
	if !apperror.HasCode(err, apperror.CodeForeignHandle) {
		t.Fatalf("err = %v, want %s", err, apperror.CodeForeignHandle)
	}
}

func TestNilHandleRejected(t *testing.T) {
	d, _ := mainnetDraft(t)
	err := d.TransferToOwner(nil)
	if !apperror.HasCode(err, apperror.CodeRequiredField) {
		t.Fatalf("err = %v, want %s", err, apperror.CodeRequiredField)
	}
}

func TestEmptyDraftFinish(t *testing.T) {
	d, _ := mainnetDraft(t)
	if _, err := d.Finish(); !apperror.HasCode(err, apperror.CodeInvalidState) {
		t.Fatalf("err = %v, want %s", err, apperror.CodeInvalidState)
	}
}

func TestSwapDirectionMismatch(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")

	// Borrow the base coin, then try to swap it as if it were quote.
	coin, receipt, err := d.BorrowFlashLoan(pool, asset.SideBase, 100)
	if err != nil {
		t.Fatalf("BorrowFlashLoan: %v", err)
	}

	_, _, _, err = d.SwapExact(SwapParams{
		Pool:      pool,
		Direction: DirQuoteToBase,
		Input:     coin,
	})
	if !apperror.HasCode(err, apperror.CodeInvalidInput) {
		t.Fatalf("err = %v, want %s", err, apperror.CodeInvalidInput)
	}
	_ = receipt
}

func TestSwapMintsDefaultFeeCoin(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")

	coin, receipt, err := d.BorrowFlashLoan(pool, asset.SideBase, 1_000)
	if err != nil {
		t.Fatalf("BorrowFlashLoan: %v", err)
	}

	base, quote, fee, err := d.SwapExact(SwapParams{
		Pool:      pool,
		Direction: DirBaseToQuote,
		Input:     coin,
		MinOutput: 1,
	})
	if err != nil {
		t.Fatalf("SwapExact: %v", err)
	}
	if got := quote.Asset().Symbol(); got != "USDC" {
		t.Fatalf("quote output asset = %s, want USDC", got)
	}
	if got := fee.Asset().Symbol(); got != "DEEP" {
		t.Fatalf("default fee coin asset = %s, want DEEP", got)
	}

	if err := d.ReturnFlashLoan(pool, base, receipt); err != nil {
		t.Fatalf("ReturnFlashLoan: %v", err)
	}
	if err := d.TransferToOwner(quote, fee); err != nil {
		t.Fatalf("TransferToOwner: %v", err)
	}
	if _, err := d.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
}

func TestRejectedReturnLeavesCoinSpendable(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")

	coin, receipt, err := d.BorrowFlashLoan(pool, asset.SideBase, 1_000)
	if err != nil {
		t.Fatalf("BorrowFlashLoan: %v", err)
	}

	usdc, err := reg.Asset("USDC")
	if err != nil {
		t.Fatalf("Asset(USDC): %v", err)
	}
	wrong := d.MintZeroCoin(usdc)

	err = d.ReturnFlashLoan(pool, wrong, receipt)
	if !apperror.HasCode(err, apperror.CodeDanglingReceipt) {
		t.Fatalf("err = %v, want %s", err, apperror.CodeDanglingReceipt)
	}
	if wrong.Consumed() {
		t.Fatal("rejected return spent the repayment coin")
	}
	if receipt.Consumed() {
		t.Fatal("rejected return spent the receipt")
	}

	// Both handles survive, so the draft can still complete.
	if err := d.ReturnFlashLoan(pool, coin, receipt); err != nil {
		t.Fatalf("ReturnFlashLoan: %v", err)
	}
	if err := d.TransferToOwner(wrong); err != nil {
		t.Fatalf("TransferToOwner: %v", err)
	}
	if _, err := d.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
}

func TestRejectedSwapLeavesDraftUntouched(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")

	coin, receipt, err := d.BorrowFlashLoan(pool, asset.SideBase, 1_000)
	if err != nil {
		t.Fatalf("BorrowFlashLoan: %v", err)
	}

	before := d.Len()
	_, _, _, err = d.SwapExact(SwapParams{
		Pool:      pool,
		Direction: DirQuoteToBase,
		Input:     coin,
	})
	if !apperror.HasCode(err, apperror.CodeInvalidInput) {
		t.Fatalf("err = %v, want %s", err, apperror.CodeInvalidInput)
	}
	if coin.Consumed() {
		t.Fatal("rejected swap spent the input coin")
	}
	if d.Len() != before {
		t.Fatalf("rejected swap emitted instructions: %d -> %d", before, d.Len())
	}

	base, quote, fee, err := d.SwapExact(SwapParams{
		Pool:      pool,
		Direction: DirBaseToQuote,
		Input:     coin,
	})
	if err != nil {
		t.Fatalf("SwapExact: %v", err)
	}
	if err := d.ReturnFlashLoan(pool, base, receipt); err != nil {
		t.Fatalf("ReturnFlashLoan: %v", err)
	}
	if err := d.TransferToOwner(quote, fee); err != nil {
		t.Fatalf("TransferToOwner: %v", err)
	}
	if _, err := d.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
}

func TestRejectedDepositLeavesCoinSpendable(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")
	call := MarginCall{Pool: pool, Manager: ManagerByID("0xabc123")}

	sui, err := reg.Asset("SUI")
	if err != nil {
		t.Fatalf("Asset(SUI): %v", err)
	}
	coin := d.MintZeroCoin(sui)

	err = d.DepositMargin(call, asset.SideQuote, coin)
	if !apperror.HasCode(err, apperror.CodeInvalidInput) {
		t.Fatalf("err = %v, want %s", err, apperror.CodeInvalidInput)
	}
	if coin.Consumed() {
		t.Fatal("rejected deposit spent the coin")
	}
	if err := d.DepositMargin(call, asset.SideBase, coin); err != nil {
		t.Fatalf("DepositMargin: %v", err)
	}
}

func TestMarginLifecycleInOneDraft(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")

	manager, initializer, err := d.CreateMarginManagerWithInitializer(pool)
	if err != nil {
		t.Fatalf("CreateMarginManagerWithInitializer: %v", err)
	}

	sui, err := reg.Asset("SUI")
	if err != nil {
		t.Fatalf("Asset(SUI): %v", err)
	}
	collateral := d.MintZeroCoin(sui)

	call := MarginCall{Pool: pool, Manager: ManagerFromHandle(manager)}
	if err := d.DepositMargin(call, asset.SideBase, collateral); err != nil {
		t.Fatalf("DepositMargin: %v", err)
	}
	if err := d.ShareMarginManager(manager, initializer); err != nil {
		t.Fatalf("ShareMarginManager: %v", err)
	}

	// The manager handle is spent once shared.
	if err := d.BorrowMargin(call, asset.SideQuote, 100); !apperror.HasCode(err, apperror.CodeOutOfOrderHandle) {
		t.Fatalf("post-share use err = %v, want %s", err, apperror.CodeOutOfOrderHandle)
	}

	if _, err := d.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
}

func TestShareConsumesInitializer(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")

	m1, init1, err := d.CreateMarginManagerWithInitializer(pool)
	if err != nil {
		t.Fatalf("CreateMarginManagerWithInitializer: %v", err)
	}
	if err := d.ShareMarginManager(m1, init1); err != nil {
		t.Fatalf("ShareMarginManager: %v", err)
	}

	m2, err := d.CreateMarginManager(pool)
	if err != nil {
		t.Fatalf("CreateMarginManager: %v", err)
	}
	err = d.ShareMarginManager(m2, init1)
	if !apperror.HasCode(err, apperror.CodeOutOfOrderHandle) {
		t.Fatalf("reused initializer err = %v, want %s", err, apperror.CodeOutOfOrderHandle)
	}
}

func TestMarginOnNonMarginablePool(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "WAL_USDC")

	_, err := d.CreateMarginManager(pool)
	if !apperror.HasCode(err, apperror.CodeConfigurationError) {
		t.Fatalf("err = %v, want %s", err, apperror.CodeConfigurationError)
	}
}

func TestRepayMarginAmountEncoding(t *testing.T) {
	reg := asset.MainnetRegistry()
	pool := mustPool(t, reg, "SUI_USDC")
	manager := ManagerByID("0xabc123")
	call := MarginCall{Pool: pool, Manager: manager}

	t.Run("nil_repays_full_debt", func(t *testing.T) {
		d := NewDraft(reg)
		if err := d.RepayMargin(call, asset.SideQuote, nil); err != nil {
			t.Fatalf("RepayMargin: %v", err)
		}
		instructions := d.Instructions()
		last := instructions[len(instructions)-1]
		found := false
		for _, a := range last.Args {
			if a.Kind == ArgPure && a.Value == "none" {
				found = true
			}
		}
		if !found {
			t.Fatalf("repay-all instruction missing the absent-amount marker: %+v", last.Args)
		}
	})

	t.Run("zero_rejected", func(t *testing.T) {
		d := NewDraft(reg)
		zero := uint64(0)
		err := d.RepayMargin(call, asset.SideQuote, &zero)
		if !apperror.HasCode(err, apperror.CodeInvalidAmount) {
			t.Fatalf("err = %v, want %s", err, apperror.CodeInvalidAmount)
		}
	})

	t.Run("explicit_amount", func(t *testing.T) {
		d := NewDraft(reg)
		amt := uint64(500)
		if err := d.RepayMargin(call, asset.SideQuote, &amt); err != nil {
			t.Fatalf("RepayMargin: %v", err)
		}
		last := d.Instructions()[0]
		found := false
		for _, a := range last.Args {
			if a.Kind == ArgPure && a.Value == "500" {
				found = true
			}
		}
		if !found {
			t.Fatalf("repay instruction missing amount: %+v", last.Args)
		}
	})
}

func TestWithdrawMarginZeroAmount(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")
	call := MarginCall{Pool: pool, Manager: ManagerByID("0xabc123")}

	_, err := d.WithdrawMargin(call, asset.SideBase, 0)
	if !apperror.HasCode(err, apperror.CodeInvalidAmount) {
		t.Fatalf("err = %v, want %s", err, apperror.CodeInvalidAmount)
	}
}

func TestTradeProofIsReusable(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")
	manager := ManagerByID("0xabc123")

	proof, err := d.GenerateTradeProof(pool, manager)
	if err != nil {
		t.Fatalf("GenerateTradeProof: %v", err)
	}

	for i := 0; i < 2; i++ {
		err := d.PlaceLimitOrder(LimitOrderParams{
			Pool:     pool,
			Manager:  manager,
			Proof:    proof,
			Price:    3_700_000,
			Quantity: 1_000_000_000,
			IsBid:    true,
		})
		if err != nil {
			t.Fatalf("PlaceLimitOrder #%d: %v", i+1, err)
		}
	}
	if err := d.CancelOrder(pool, manager, proof, 42); err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if _, err := d.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
}

func TestPlaceLimitOrderDefaults(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")
	manager := ManagerByID("0xabc123")

	proof, err := d.GenerateTradeProof(pool, manager)
	if err != nil {
		t.Fatalf("GenerateTradeProof: %v", err)
	}
	if err := d.PlaceLimitOrder(LimitOrderParams{
		Pool:     pool,
		Manager:  manager,
		Proof:    proof,
		Price:    1,
		Quantity: 1,
	}); err != nil {
		t.Fatalf("PlaceLimitOrder: %v", err)
	}

	instructions := d.Instructions()
	order := instructions[len(instructions)-1]
	if !strings.HasSuffix(order.Target, "::pool::place_limit_order") {
		t.Fatalf("target = %s", order.Target)
	}
	// Defaulted client order id and expiry are both non-zero pure args.
	for _, pos := range []int{3, 8} {
		a := order.Args[pos]
		if a.Kind != ArgPure || a.Value == "" || a.Value == "0" {
			t.Fatalf("arg %d not defaulted: %+v", pos, a)
		}
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")
	manager := ManagerByID("0xabc123")

	proof, err := d.GenerateTradeProof(pool, manager)
	if err != nil {
		t.Fatalf("GenerateTradeProof: %v", err)
	}

	err = d.PlaceLimitOrder(LimitOrderParams{Pool: pool, Manager: manager, Proof: proof, Price: 0, Quantity: 1})
	if !apperror.HasCode(err, apperror.CodeInvalidAmount) {
		t.Fatalf("zero price err = %v, want %s", err, apperror.CodeInvalidAmount)
	}
	err = d.PlaceMarketOrder(MarketOrderParams{Pool: pool, Manager: manager, Proof: proof, Quantity: 0})
	if !apperror.HasCode(err, apperror.CodeInvalidAmount) {
		t.Fatalf("zero quantity err = %v, want %s", err, apperror.CodeInvalidAmount)
	}
}

func TestDraftSerialization(t *testing.T) {
	d, reg := mainnetDraft(t)
	pool := mustPool(t, reg, "SUI_USDC")

	coin, receipt, err := d.BorrowFlashLoan(pool, asset.SideQuote, 5_000_000)
	if err != nil {
		t.Fatalf("BorrowFlashLoan: %v", err)
	}
	if err := d.ReturnFlashLoan(pool, coin, receipt); err != nil {
		t.Fatalf("ReturnFlashLoan: %v", err)
	}

	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded struct {
		Network      string        `json:"network"`
		Instructions []Instruction `json:"instructions"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Network != "mainnet" {
		t.Fatalf("network = %s", decoded.Network)
	}
	if len(decoded.Instructions) != 2 {
		t.Fatalf("instruction count = %d", len(decoded.Instructions))
	}
	ref := decoded.Instructions[1].Args[1].Ref
	if ref == nil || ref.Instruction != 0 || ref.Output != 0 {
		t.Fatalf("return instruction does not reference the borrowed coin: %+v", decoded.Instructions[1].Args)
	}
}
