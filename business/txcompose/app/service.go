// Package app contains application services for the transaction
// composition context.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/deeparb/deeparb/business/txcompose/domain"
	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/asset"
	"github.com/deeparb/deeparb/internal/logger"
)

// ComposeService builds complete transaction drafts from high-level
// intents. Amounts cross its boundary as decimals and leave as ledger
// units; the drafts it returns are ready for the signing collaborator.
type ComposeService struct {
	registry *asset.Registry
	log      logger.LoggerInterface
}

// NewComposeService creates a ComposeService.
func NewComposeService(registry *asset.Registry, log logger.LoggerInterface) *ComposeService {
	return &ComposeService{registry: registry, log: log}
}

// FlashArbitrageParams describes one round trip: flash-borrow on the
// borrow pool, swap out on the swap pool, swap back on the borrow
// pool, repay, keep the remainder.
type FlashArbitrageParams struct {
	BorrowPool   string
	SwapPool     string
	BorrowSide   asset.Side
	BorrowAmount decimal.Decimal
}

// BuildFlashArbitrage composes the full arbitrage draft. The second
// swap carries the borrow amount as its minimum output, so a round
// trip that cannot repay the loan fails on the ledger before any value
// moves.
func (s *ComposeService) BuildFlashArbitrage(ctx context.Context, p FlashArbitrageParams) (*domain.Draft, error) {
	borrowPool, err := s.registry.Pool(p.BorrowPool)
	if err != nil {
		return nil, err
	}
	swapPool, err := s.registry.Pool(p.SwapPool)
	if err != nil {
		return nil, err
	}

	borrowAsset := borrowPool.AssetBySide(p.BorrowSide)
	outboundSide, ok := swapPool.SideOf(borrowAsset)
	if !ok {
		return nil, apperror.Configuration(fmt.Sprintf(
			"pools %s and %s share no asset on the %s side", borrowPool.Key(), swapPool.Key(), p.BorrowSide))
	}
	received := swapPool.AssetBySide(otherSide(outboundSide))
	returnSide, ok := borrowPool.SideOf(received)
	if !ok {
		return nil, apperror.Configuration(fmt.Sprintf(
			"%s received on %s is not tradable on %s", received.Symbol(), swapPool.Key(), borrowPool.Key()))
	}

	units, err := asset.ToUnits(p.BorrowAmount, borrowAsset.Decimals())
	if err != nil {
		return nil, err
	}

	d := domain.NewDraft(s.registry)

	borrowed, receipt, err := d.BorrowFlashLoan(borrowPool, p.BorrowSide, units)
	if err != nil {
		return nil, err
	}

	outBase, outQuote, outFee, err := d.SwapExact(domain.SwapParams{
		Pool:      swapPool,
		Direction: directionFrom(outboundSide),
		Input:     borrowed,
	})
	if err != nil {
		return nil, err
	}
	proceeds, outboundRest := pickSide(outBase, outQuote, otherSide(outboundSide))

	backBase, backQuote, backFee, err := d.SwapExact(domain.SwapParams{
		Pool:      borrowPool,
		Direction: directionFrom(returnSide),
		Input:     proceeds,
		MinOutput: units,
	})
	if err != nil {
		return nil, err
	}
	final, returnRest := pickSide(backBase, backQuote, p.BorrowSide)

	repayment, profit, err := d.SplitCoin(final, units)
	if err != nil {
		return nil, err
	}
	if err := d.ReturnFlashLoan(borrowPool, repayment, receipt); err != nil {
		return nil, err
	}
	if err := d.TransferToOwner(profit, outboundRest, returnRest, outFee, backFee); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "composed flash arbitrage draft",
		"borrow_pool", borrowPool.Key(),
		"swap_pool", swapPool.Key(),
		"borrow_asset", borrowAsset.Symbol(),
		"borrow_units", units,
		"instructions", d.Len(),
	)
	return d, nil
}

// OpenPositionParams configures a margin position opening: the manager
// is created, funded from a wallet-owned coin and shared, all in one
// draft. A manager left unshared at the end of a draft is unusable, so
// there is no open flow without an initial deposit.
type OpenPositionParams struct {
	Pool        string
	DepositSide asset.Side
	CoinObject  asset.Address
	Amount      decimal.Decimal
}

// OpenMarginPosition builds the create + deposit + share draft.
func (s *ComposeService) OpenMarginPosition(ctx context.Context, p OpenPositionParams) (*domain.Draft, error) {
	pool, err := s.registry.Pool(p.Pool)
	if err != nil {
		return nil, err
	}
	depositAsset := pool.AssetBySide(p.DepositSide)

	units, err := asset.ToUnits(p.Amount, depositAsset.Decimals())
	if err != nil {
		return nil, err
	}
	if units == 0 {
		return nil, apperror.InvalidAmount("initial deposit must be positive")
	}

	d := domain.NewDraft(s.registry)

	manager, initializer, err := d.CreateMarginManagerWithInitializer(pool)
	if err != nil {
		return nil, err
	}
	funding, err := d.OwnedCoin(depositAsset, p.CoinObject)
	if err != nil {
		return nil, err
	}
	deposit, change, err := d.SplitCoin(funding, units)
	if err != nil {
		return nil, err
	}

	call := domain.MarginCall{Pool: pool, Manager: domain.ManagerFromHandle(manager)}
	if err := d.DepositMargin(call, p.DepositSide, deposit); err != nil {
		return nil, err
	}
	if err := d.ShareMarginManager(manager, initializer); err != nil {
		return nil, err
	}
	if err := d.TransferToOwner(change); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "composed open-position draft", "pool", pool.Key(), "deposit_units", units)
	return d, nil
}

// PositionParams identifies a shared manager for follow-up operations.
type PositionParams struct {
	Pool      string
	ManagerID asset.Address
	Side      asset.Side
}

// DepositCollateral builds a deposit into a shared manager from a
// wallet-owned coin.
func (s *ComposeService) DepositCollateral(ctx context.Context, p PositionParams, coinObject asset.Address, amount decimal.Decimal) (*domain.Draft, error) {
	pool, call, err := s.position(p)
	if err != nil {
		return nil, err
	}
	depositAsset := pool.AssetBySide(p.Side)
	units, err := asset.ToUnits(amount, depositAsset.Decimals())
	if err != nil {
		return nil, err
	}
	if units == 0 {
		return nil, apperror.InvalidAmount("deposit must be positive")
	}

	d := domain.NewDraft(s.registry)
	funding, err := d.OwnedCoin(depositAsset, coinObject)
	if err != nil {
		return nil, err
	}
	deposit, change, err := d.SplitCoin(funding, units)
	if err != nil {
		return nil, err
	}
	if err := d.DepositMargin(call, p.Side, deposit); err != nil {
		return nil, err
	}
	if err := d.TransferToOwner(change); err != nil {
		return nil, err
	}
	return d, nil
}

// WithdrawCollateral builds a withdrawal from a shared manager. The
// withdrawn coin goes back to the owner.
func (s *ComposeService) WithdrawCollateral(ctx context.Context, p PositionParams, amount decimal.Decimal) (*domain.Draft, error) {
	pool, call, err := s.position(p)
	if err != nil {
		return nil, err
	}
	units, err := asset.ToUnits(amount, pool.AssetBySide(p.Side).Decimals())
	if err != nil {
		return nil, err
	}

	d := domain.NewDraft(s.registry)
	coin, err := d.WithdrawMargin(call, p.Side, units)
	if err != nil {
		return nil, err
	}
	if err := d.TransferToOwner(coin); err != nil {
		return nil, err
	}
	return d, nil
}

// BorrowFunds builds a borrow from the side's margin pool into the
// manager.
func (s *ComposeService) BorrowFunds(ctx context.Context, p PositionParams, amount decimal.Decimal) (*domain.Draft, error) {
	pool, call, err := s.position(p)
	if err != nil {
		return nil, err
	}
	units, err := asset.ToUnits(amount, pool.AssetBySide(p.Side).Decimals())
	if err != nil {
		return nil, err
	}

	d := domain.NewDraft(s.registry)
	if err := d.BorrowMargin(call, p.Side, units); err != nil {
		return nil, err
	}
	return d, nil
}

// RepayDebt builds a repayment. A nil amount repays the full debt.
func (s *ComposeService) RepayDebt(ctx context.Context, p PositionParams, amount *decimal.Decimal) (*domain.Draft, error) {
	pool, call, err := s.position(p)
	if err != nil {
		return nil, err
	}

	var units *uint64
	if amount != nil {
		u, err := asset.ToUnits(*amount, pool.AssetBySide(p.Side).Decimals())
		if err != nil {
			return nil, err
		}
		units = &u
	}

	d := domain.NewDraft(s.registry)
	if err := d.RepayMargin(call, p.Side, units); err != nil {
		return nil, err
	}
	return d, nil
}

// LimitOrderIntent is a human-unit limit order: price in quote per
// base, quantity in base units.
type LimitOrderIntent struct {
	Pool      string
	ManagerID asset.Address
	Price     decimal.Decimal
	Quantity  decimal.Decimal
	IsBid     bool
	Type      domain.OrderType
	Expire    time.Time
}

// BuildLimitOrder encodes the price and quantity and builds a
// single-order draft, generating the trade proof inline.
func (s *ComposeService) BuildLimitOrder(ctx context.Context, p LimitOrderIntent) (*domain.Draft, error) {
	pool, err := s.registry.Pool(p.Pool)
	if err != nil {
		return nil, err
	}

	price, err := asset.EncodePrice(p.Price, pool.Base().Scalar(), pool.Quote().Scalar(), asset.FloatScalar)
	if err != nil {
		return nil, err
	}
	quantity, err := asset.EncodeQuantity(p.Quantity, pool.Base().Scalar())
	if err != nil {
		return nil, err
	}

	d := domain.NewDraft(s.registry)
	manager := domain.ManagerByID(p.ManagerID)
	proof, err := d.GenerateTradeProof(pool, manager)
	if err != nil {
		return nil, err
	}
	if err := d.PlaceLimitOrder(domain.LimitOrderParams{
		Pool:     pool,
		Manager:  manager,
		Proof:    proof,
		Price:    price,
		Quantity: quantity,
		IsBid:    p.IsBid,
		Type:     p.Type,
		Expire:   p.Expire,
	}); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "composed limit order draft",
		"pool", pool.Key(), "price_units", price, "quantity_units", quantity, "is_bid", p.IsBid)
	return d, nil
}

func (s *ComposeService) position(p PositionParams) (*asset.Pool, domain.MarginCall, error) {
	pool, err := s.registry.Pool(p.Pool)
	if err != nil {
		return nil, domain.MarginCall{}, err
	}
	call := domain.MarginCall{Pool: pool, Manager: domain.ManagerByID(p.ManagerID)}
	return pool, call, nil
}

func otherSide(s asset.Side) asset.Side {
	if s == asset.SideBase {
		return asset.SideQuote
	}
	return asset.SideBase
}

func directionFrom(inputSide asset.Side) domain.Direction {
	if inputSide == asset.SideBase {
		return domain.DirBaseToQuote
	}
	return domain.DirQuoteToBase
}

func pickSide(base, quote *domain.Handle, s asset.Side) (picked, other *domain.Handle) {
	if s == asset.SideBase {
		return base, quote
	}
	return quote, base
}
