package domain

import (
	"encoding/binary"
	"time"

	"github.com/google/uuid"

	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/asset"
)

// OrderType restricts how a limit order may execute.
type OrderType uint8

// Order types. NoRestriction is the default.
const (
	OrderNoRestriction     OrderType = 0
	OrderImmediateOrCancel OrderType = 1
	OrderFillOrKill        OrderType = 2
	OrderPostOnly          OrderType = 3
)

// defaultOrderTTL is how long a limit order without an explicit expiry
// stays on the book.
const defaultOrderTTL = 24 * time.Hour

// GenerateTradeProof emits the delegated trading capability for a
// manager. The proof is reusable within the draft.
func (d *Draft) GenerateTradeProof(pool *asset.Pool, manager Manager) (*Handle, error) {
	managerArg, err := d.managerArg(manager)
	if err != nil {
		return nil, err
	}

	idx := d.emit("margin_manager", "generate_proof_as_owner", poolTypeArgs(pool),
		managerArg,
	)
	proof := d.produce(HandleTradeProof, idx, 0)
	proof.pool = pool
	return proof, nil
}

// LimitOrderParams configures PlaceLimitOrder. Price and Quantity are
// encoded ledger units (see the asset package's EncodePrice and
// EncodeQuantity). A zero ClientOrderID is replaced with a random one;
// a zero Expire defaults to 24 hours from now.
type LimitOrderParams struct {
	Pool          *asset.Pool
	Manager       Manager
	Proof         *Handle
	ClientOrderID uint64
	Price         uint64
	Quantity      uint64
	IsBid         bool
	Type          OrderType
	Expire        time.Time
}

// PlaceLimitOrder emits a limit order against the pool's book.
func (d *Draft) PlaceLimitOrder(p LimitOrderParams) error {
	if p.Price == 0 {
		return apperror.InvalidAmount("limit order price must be positive")
	}
	if p.Quantity == 0 {
		return apperror.InvalidAmount("order quantity must be positive")
	}
	if p.Type > OrderPostOnly {
		return apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext("unknown order type"))
	}

	managerArg, proofArg, err := d.orderArgs(p.Manager, p.Proof)
	if err != nil {
		return err
	}

	clientOrderID := p.ClientOrderID
	if clientOrderID == 0 {
		clientOrderID = randomOrderID()
	}
	expire := p.Expire
	if expire.IsZero() {
		expire = time.Now().Add(defaultOrderTTL)
	}

	d.emit("pool", "place_limit_order", poolTypeArgs(p.Pool),
		objectArg(p.Pool.Address().String()),
		managerArg,
		proofArg,
		pureU64(clientOrderID),
		pureU8(uint8(p.Type)),
		pureU64(p.Price),
		pureU64(p.Quantity),
		pureBool(p.IsBid),
		pureU64(uint64(expire.UnixMilli())),
		objectArg(clockObjectID),
	)
	return nil
}

// MarketOrderParams configures PlaceMarketOrder. Quantity is in
// encoded ledger units of the base asset.
type MarketOrderParams struct {
	Pool          *asset.Pool
	Manager       Manager
	Proof         *Handle
	ClientOrderID uint64
	Quantity      uint64
	IsBid         bool
}

// PlaceMarketOrder emits an order that fills immediately at whatever
// the book offers.
func (d *Draft) PlaceMarketOrder(p MarketOrderParams) error {
	if p.Quantity == 0 {
		return apperror.InvalidAmount("order quantity must be positive")
	}

	managerArg, proofArg, err := d.orderArgs(p.Manager, p.Proof)
	if err != nil {
		return err
	}

	clientOrderID := p.ClientOrderID
	if clientOrderID == 0 {
		clientOrderID = randomOrderID()
	}

	d.emit("pool", "place_market_order", poolTypeArgs(p.Pool),
		objectArg(p.Pool.Address().String()),
		managerArg,
		proofArg,
		pureU64(clientOrderID),
		pureU64(p.Quantity),
		pureBool(p.IsBid),
		objectArg(clockObjectID),
	)
	return nil
}

// CancelOrder emits the cancellation of a resting order by its
// ledger-assigned order id.
func (d *Draft) CancelOrder(pool *asset.Pool, manager Manager, proof *Handle, orderID uint64) error {
	managerArg, proofArg, err := d.orderArgs(manager, proof)
	if err != nil {
		return err
	}

	d.emit("pool", "cancel_order", poolTypeArgs(pool),
		objectArg(pool.Address().String()),
		managerArg,
		proofArg,
		pureU64(orderID),
		objectArg(clockObjectID),
	)
	return nil
}

func (d *Draft) orderArgs(manager Manager, proof *Handle) (Arg, Arg, error) {
	managerArg, err := d.managerArg(manager)
	if err != nil {
		return Arg{}, Arg{}, err
	}
	proofArg, err := d.borrow(proof, HandleTradeProof)
	if err != nil {
		return Arg{}, Arg{}, err
	}
	return managerArg, proofArg, nil
}

func randomOrderID() uint64 {
	u := uuid.New()
	return binary.BigEndian.Uint64(u[:8])
}
