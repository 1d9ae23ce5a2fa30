package domain

import (
	"fmt"

	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/asset"
)

// Direction selects which way a swap crosses the pool.
type Direction string

// Swap directions.
const (
	DirBaseToQuote Direction = "base_to_quote"
	DirQuoteToBase Direction = "quote_to_base"
)

// SwapParams configures a SwapExact call. MinOutput is the caller's
// slippage floor in output-asset units; the ledger, not the builder,
// enforces it at execution time. FeeCoin pays the venue's trading fee
// and may be nil, in which case a zero fee coin is minted in-draft.
type SwapParams struct {
	Pool      *asset.Pool
	Direction Direction
	Input     *Handle
	FeeCoin   *Handle
	MinOutput uint64
}

// SwapExact swaps the whole input coin across the pool, returning the
// base, quote and residual fee coins as new handles.
func (d *Draft) SwapExact(p SwapParams) (*Handle, *Handle, *Handle, error) {
	inputAsset := p.Pool.Base()
	function := "swap_exact_base_for_quote"
	if p.Direction == DirQuoteToBase {
		inputAsset = p.Pool.Quote()
		function = "swap_exact_quote_for_base"
	}

	if err := d.spendable(p.Input, HandleCoin); err != nil {
		return nil, nil, nil, err
	}
	if !p.Input.coinAsset.Equals(inputAsset) {
		return nil, nil, nil, apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext("input coin does not match swap direction"))
	}

	var feeAsset *asset.Asset
	feeCoin := p.FeeCoin
	if feeCoin == nil {
		var err error
		feeAsset, err = d.registry.Asset("DEEP")
		if err != nil {
			return nil, nil, nil, err
		}
	} else {
		if feeCoin == p.Input {
			return nil, nil, nil, apperror.New(apperror.CodeInvalidInput,
				apperror.WithContext("fee coin and input coin are the same handle"))
		}
		if err := d.spendable(feeCoin, HandleCoin); err != nil {
			return nil, nil, nil, err
		}
	}

	// All inputs validated, draft mutation starts here.
	if feeCoin == nil {
		feeCoin = d.MintZeroCoin(feeAsset)
	}
	inputArg, err := d.consume(p.Input, HandleCoin)
	if err != nil {
		return nil, nil, nil, err
	}
	feeArg, err := d.consume(feeCoin, HandleCoin)
	if err != nil {
		return nil, nil, nil, err
	}

	idx := d.emit("pool", function, poolTypeArgs(p.Pool),
		objectArg(p.Pool.Address().String()),
		inputArg,
		feeArg,
		pureU64(p.MinOutput),
		objectArg(clockObjectID),
	)

	baseOut := d.produce(HandleCoin, idx, 0)
	baseOut.coinAsset = p.Pool.Base()
	quoteOut := d.produce(HandleCoin, idx, 1)
	quoteOut.coinAsset = p.Pool.Quote()
	feeOut := d.produce(HandleCoin, idx, 2)
	feeOut.coinAsset = feeCoin.coinAsset

	return baseOut, quoteOut, feeOut, nil
}

// MintZeroCoin emits a zero-value coin of the given asset, used to
// satisfy by-value coin parameters when the caller has nothing to pay.
func (d *Draft) MintZeroCoin(a *asset.Asset) *Handle {
	idx := d.emitTarget("0x2::coin::zero", []string{a.TypeID()})
	coin := d.produce(HandleCoin, idx, 0)
	coin.coinAsset = a
	return coin
}

// OwnedCoin registers a wallet-owned coin object as a spendable coin
// handle. The coin is not produced by any instruction; its argument
// form is the ledger object id.
func (d *Draft) OwnedCoin(a *asset.Asset, id asset.Address) (*Handle, error) {
	if !id.IsValid() {
		return nil, apperror.New(apperror.CodeInvalidInput,
			apperror.WithContext(fmt.Sprintf("malformed coin object id %q", id)))
	}
	h := &Handle{draft: d, kind: HandleCoin, producedBy: -1, objectID: id, coinAsset: a}
	d.handles = append(d.handles, h)
	return h, nil
}

// SplitCoin divides a coin into an exact part and the remainder.
func (d *Draft) SplitCoin(coin *Handle, amount uint64) (*Handle, *Handle, error) {
	if amount == 0 {
		return nil, nil, apperror.InvalidAmount("split amount must be positive")
	}
	coinArg, err := d.consume(coin, HandleCoin)
	if err != nil {
		return nil, nil, err
	}

	idx := d.emitTarget("split_coins", nil, coinArg, pureU64(amount))
	part := d.produce(HandleCoin, idx, 0)
	part.coinAsset = coin.coinAsset
	rest := d.produce(HandleCoin, idx, 1)
	rest.coinAsset = coin.coinAsset
	return part, rest, nil
}

// TransferToOwner consumes coins and sends them to the draft's sender.
// Every coin produced in a draft must end up somewhere: returned to a
// pool, deposited, or transferred out.
func (d *Draft) TransferToOwner(coins ...*Handle) error {
	for i, c := range coins {
		if err := d.spendable(c, HandleCoin); err != nil {
			return err
		}
		for _, prev := range coins[:i] {
			if prev == c {
				return apperror.New(apperror.CodeInvalidInput,
					apperror.WithContext("same coin handle passed twice"))
			}
		}
	}

	args := make([]Arg, 0, len(coins))
	for _, c := range coins {
		arg, err := d.consume(c, HandleCoin)
		if err != nil {
			return err
		}
		args = append(args, arg)
	}
	d.emitTarget("transfer_objects", nil, args...)
	return nil
}
