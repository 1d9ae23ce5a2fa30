package domain

import (
	"fmt"

	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/asset"
)

// Manager identifies a margin manager either by its in-draft handle
// (freshly created, not yet shared) or by the ledger id of an already
// shared manager from an earlier transaction.
type Manager struct {
	id     asset.Address
	handle *Handle
}

// ManagerByID references a shared manager by ledger id.
func ManagerByID(id asset.Address) Manager {
	return Manager{id: id}
}

// ManagerFromHandle references a manager created earlier in the same
// draft.
func ManagerFromHandle(h *Handle) Manager {
	return Manager{handle: h}
}

// MarginCall names the pool and manager a margin operation acts on.
type MarginCall struct {
	Pool    *asset.Pool
	Manager Manager
}

// CreateMarginManager emits the creation of a new, unshared margin
// manager for a pool. The manager is only usable outside this draft
// after ShareMarginManager.
func (d *Draft) CreateMarginManager(pool *asset.Pool) (*Handle, error) {
	if err := d.checkMarginable(pool); err != nil {
		return nil, err
	}

	idx := d.emit("margin_manager", "new_margin_manager", poolTypeArgs(pool),
		objectArg(d.registry.RegistryID().String()),
		objectArg(clockObjectID),
	)
	manager := d.produce(HandleMarginManager, idx, 0)
	manager.pool = pool
	return manager, nil
}

// CreateMarginManagerWithInitializer also returns the single-use
// initializer capability required to share the manager.
func (d *Draft) CreateMarginManagerWithInitializer(pool *asset.Pool) (*Handle, *Handle, error) {
	if err := d.checkMarginable(pool); err != nil {
		return nil, nil, err
	}

	idx := d.emit("margin_manager", "new_margin_manager_with_initializer", poolTypeArgs(pool),
		objectArg(d.registry.RegistryID().String()),
		objectArg(clockObjectID),
	)
	manager := d.produce(HandleMarginManager, idx, 0)
	manager.pool = pool
	initializer := d.produce(HandleManagerInitializer, idx, 1)
	return manager, initializer, nil
}

// ShareMarginManager publishes the manager as a shared ledger object,
// spending the initializer. The manager handle is no longer usable in
// this draft afterwards; later transactions reference it by id.
func (d *Draft) ShareMarginManager(manager, initializer *Handle) error {
	managerArg, err := d.borrow(manager, HandleMarginManager)
	if err != nil {
		return err
	}
	initArg, err := d.consume(initializer, HandleManagerInitializer)
	if err != nil {
		return err
	}

	d.emit("margin_manager", "share", poolTypeArgs(manager.pool),
		managerArg,
		initArg,
	)
	manager.consumed = true
	return nil
}

// DepositMargin moves a coin into the manager as collateral.
func (d *Draft) DepositMargin(c MarginCall, side asset.Side, coin *Handle) error {
	if err := d.spendable(coin, HandleCoin); err != nil {
		return err
	}
	if !coin.coinAsset.Equals(c.Pool.AssetBySide(side)) {
		return apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext(fmt.Sprintf("depositing %s on the %s side of %s",
				coin.coinAsset.Symbol(), side, c.Pool.Key())))
	}

	args, err := d.marginArgs(c, side)
	if err != nil {
		return err
	}
	coinArg, err := d.consume(coin, HandleCoin)
	if err != nil {
		return err
	}
	d.emit("margin_manager", "deposit_"+string(side), poolTypeArgs(c.Pool),
		append(args, coinArg, objectArg(clockObjectID))...)
	return nil
}

// WithdrawMargin takes collateral out of the manager, returning the
// withdrawn coin. The ledger rejects the whole draft with a risk-ratio
// failure if the withdrawal would undercollateralize the position.
func (d *Draft) WithdrawMargin(c MarginCall, side asset.Side, amount uint64) (*Handle, error) {
	if amount == 0 {
		return nil, apperror.InvalidAmount("withdraw amount must be positive")
	}

	args, err := d.marginArgs(c, side)
	if err != nil {
		return nil, err
	}
	idx := d.emit("margin_manager", "withdraw_"+string(side), poolTypeArgs(c.Pool),
		append(args, pureU64(amount), objectArg(clockObjectID))...)

	coin := d.produce(HandleCoin, idx, 0)
	coin.coinAsset = c.Pool.AssetBySide(side)
	return coin, nil
}

// BorrowMargin borrows from the side's margin pool into the manager.
func (d *Draft) BorrowMargin(c MarginCall, side asset.Side, amount uint64) error {
	if amount == 0 {
		return apperror.InvalidAmount("borrow amount must be positive")
	}

	args, err := d.marginArgs(c, side)
	if err != nil {
		return err
	}
	d.emit("margin_manager", "borrow_"+string(side), poolTypeArgs(c.Pool),
		append(args, pureU64(amount), objectArg(clockObjectID))...)
	return nil
}

// RepayMargin repays debt on the side's margin pool. A nil amount
// emits a repay-everything instruction; zero is rejected rather than
// silently emitting a no-op.
func (d *Draft) RepayMargin(c MarginCall, side asset.Side, amount *uint64) error {
	if amount != nil && *amount == 0 {
		return apperror.InvalidAmount("repay amount must be positive, or nil to repay the full debt")
	}

	args, err := d.marginArgs(c, side)
	if err != nil {
		return err
	}
	d.emit("margin_manager", "repay_"+string(side), poolTypeArgs(c.Pool),
		append(args, optionU64(amount), objectArg(clockObjectID))...)
	return nil
}

// marginArgs assembles the shared prefix of every post-creation margin
// instruction: the manager, the affected side's margin pool and both
// assets' oracle price feeds.
func (d *Draft) marginArgs(c MarginCall, side asset.Side) ([]Arg, error) {
	if err := d.checkMarginable(c.Pool); err != nil {
		return nil, err
	}

	managerArg, err := d.managerArg(c.Manager)
	if err != nil {
		return nil, err
	}

	marginPool, err := d.registry.MarginPool(c.Pool.AssetBySide(side).Symbol())
	if err != nil {
		return nil, err
	}

	return []Arg{
		managerArg,
		objectArg(marginPool.Address().String()),
		objectArg(c.Pool.Base().PriceFeedID().String()),
		objectArg(c.Pool.Quote().PriceFeedID().String()),
	}, nil
}

func (d *Draft) managerArg(m Manager) (Arg, error) {
	if m.handle != nil {
		return d.borrow(m.handle, HandleMarginManager)
	}
	if !m.id.IsValid() {
		return Arg{}, apperror.New(apperror.CodeRequiredField,
			apperror.WithContext("margin manager needs a handle or a valid ledger id"))
	}
	return objectArg(m.id.String()), nil
}

func (d *Draft) checkMarginable(pool *asset.Pool) error {
	if !d.registry.IsMarginable(pool) {
		return apperror.Configuration(fmt.Sprintf(
			"pool %s does not support margin trading: both assets need a margin pool and a price feed", pool.Key()))
	}
	return nil
}

// optionU64 encodes an optional amount. The absent form is a distinct
// wire value, not zero.
func optionU64(v *uint64) Arg {
	if v == nil {
		return Arg{Kind: ArgPure, Value: "none"}
	}
	return pureU64(*v)
}
