package domain

import "github.com/deeparb/deeparb/internal/asset"

// HandleKind discriminates the intermediate values an instruction can
// produce for later instructions in the same draft.
type HandleKind string

// Handle kinds.
const (
	HandleCoin               HandleKind = "coin"
	HandleFlashLoanReceipt   HandleKind = "flash_loan_receipt"
	HandleMarginManager      HandleKind = "margin_manager"
	HandleManagerInitializer HandleKind = "manager_initializer"
	HandleTradeProof         HandleKind = "trade_proof"
)

// Handle is a reference to a live intermediate value inside a draft.
// Coins, flash-loan receipts and manager initializers are move-values:
// consuming one spends it, and a second use is rejected at assembly
// time. Manager and trade-proof handles may be referenced repeatedly.
type Handle struct {
	draft      *Draft
	kind       HandleKind
	producedBy int           // index of the producing instruction, -1 for owned objects
	output     int           // output position of the producing instruction
	objectID   asset.Address // ledger id, wallet-owned objects only
	coinAsset  *asset.Asset  // denomination, coin handles only
	pool       *asset.Pool   // origin pool for receipts and managers
	side       asset.Side    // borrowed side, receipts only
	consumed   bool
}

// arg returns the instruction argument form of the handle.
func (h *Handle) arg() Arg {
	if h.objectID != "" {
		return objectArg(h.objectID.String())
	}
	return resultArg(h.producedBy, h.output)
}

// Kind returns the handle kind.
func (h *Handle) Kind() HandleKind {
	return h.kind
}

// Asset returns the coin denomination, nil for non-coin handles.
func (h *Handle) Asset() *asset.Asset {
	return h.coinAsset
}

// Pool returns the origin pool for receipts and managers, nil otherwise.
func (h *Handle) Pool() *asset.Pool {
	return h.pool
}

// Consumed reports whether a move-value handle has been spent.
func (h *Handle) Consumed() bool {
	return h.consumed
}

func (h *Handle) singleUse() bool {
	switch h.kind {
	case HandleCoin, HandleFlashLoanReceipt, HandleManagerInitializer:
		return true
	}
	return false
}
