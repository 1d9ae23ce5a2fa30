package domain

import (
	"fmt"

	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/asset"
)

// BorrowFlashLoan emits a flash-loan borrow against a pool and returns
// the borrowed coin plus a single-use receipt. The receipt must be
// consumed by a matching ReturnFlashLoan in the same draft or the
// draft will not finish.
func (d *Draft) BorrowFlashLoan(pool *asset.Pool, side asset.Side, amount uint64) (*Handle, *Handle, error) {
	if amount == 0 {
		return nil, nil, apperror.InvalidAmount("flash loan amount must be positive")
	}

	function := "borrow_flashloan_base"
	if side == asset.SideQuote {
		function = "borrow_flashloan_quote"
	}

	idx := d.emit("pool", function, poolTypeArgs(pool),
		objectArg(pool.Address().String()),
		pureU64(amount),
	)

	coin := d.produce(HandleCoin, idx, 0)
	coin.coinAsset = pool.AssetBySide(side)

	receipt := d.produce(HandleFlashLoanReceipt, idx, 1)
	receipt.pool = pool
	receipt.side = side

	return coin, receipt, nil
}

// ReturnFlashLoan repays a flash loan, consuming both the repayment
// coin and the receipt. The receipt must originate from a borrow on
// the same pool and side earlier in this draft.
func (d *Draft) ReturnFlashLoan(pool *asset.Pool, coin, receipt *Handle) error {
	if receipt == nil || receipt.draft != d || receipt.kind != HandleFlashLoanReceipt {
		return apperror.New(apperror.CodeDanglingReceipt,
			apperror.WithContext("return without a receipt from a matching borrow in this draft"))
	}
	if receipt.pool != pool {
		return apperror.New(apperror.CodeDanglingReceipt,
			apperror.WithContext(fmt.Sprintf("receipt from pool %s returned against pool %s", receipt.pool.Key(), pool.Key())))
	}

	if err := d.spendable(coin, HandleCoin); err != nil {
		return err
	}
	if !coin.coinAsset.Equals(pool.AssetBySide(receipt.side)) {
		return apperror.New(apperror.CodeDanglingReceipt,
			apperror.WithContext(fmt.Sprintf("repaying %s against a %s-side loan on %s",
				coin.coinAsset.Symbol(), receipt.side, pool.Key())))
	}
	if err := d.spendable(receipt, HandleFlashLoanReceipt); err != nil {
		return err
	}

	coinArg, err := d.consume(coin, HandleCoin)
	if err != nil {
		return err
	}
	receiptArg, err := d.consume(receipt, HandleFlashLoanReceipt)
	if err != nil {
		return err
	}

	function := "return_flashloan_base"
	if receipt.side == asset.SideQuote {
		function = "return_flashloan_quote"
	}

	d.emit("pool", function, poolTypeArgs(pool),
		objectArg(pool.Address().String()),
		coinArg,
		receiptArg,
	)
	return nil
}
