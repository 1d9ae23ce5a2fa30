package asset

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/deeparb/deeparb/internal/apperror"
)

// FloatScalar is the venue's fixed-point price scalar. Encoded prices
// are round(price * FloatScalar * quoteScalar / baseScalar) and must
// match the ledger-side decoding bit for bit.
const FloatScalar uint64 = 1_000_000_000

// ToUnits converts a human-readable decimal amount to integer ledger
// units: round(amount * 10^decimals), rounding half away from zero.
func ToUnits(amount decimal.Decimal, decimals uint8) (uint64, error) {
	if amount.IsNegative() {
		return 0, apperror.InvalidAmount(fmt.Sprintf("negative amount %s", amount))
	}
	return toUint64(amount.Shift(int32(decimals)).Round(0))
}

// ToUnitsFloat converts a float64 amount to ledger units.
// NaN and infinities are rejected before entering decimal math.
func ToUnitsFloat(amount float64, decimals uint8) (uint64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, apperror.InvalidAmount("amount is not a finite number")
	}
	return ToUnits(decimal.NewFromFloat(amount), decimals)
}

// ParseUnits parses a decimal string and converts it to ledger units.
func ParseUnits(s string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, apperror.New(apperror.CodeInvalidAmount,
			apperror.WithContext(fmt.Sprintf("unparseable amount %q", s)),
			apperror.WithCause(err))
	}
	return ToUnits(d, decimals)
}

// FromUnits converts integer ledger units back to a decimal amount.
// FromUnits(ToUnits(x, d), d) == x for any x with at most d fractional
// decimal digits.
func FromUnits(units uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -int32(decimals))
}

// EncodePrice encodes a human-readable price into the venue's
// fixed-point representation: round(price * floatScalar * quoteScalar
// / baseScalar). Scalars must be powers of ten, so the division is an
// exact decimal shift and the only rounding happens once, half away
// from zero, on the final value.
func EncodePrice(price decimal.Decimal, baseScalar, quoteScalar, floatScalar uint64) (uint64, error) {
	if price.IsNegative() {
		return 0, apperror.InvalidAmount(fmt.Sprintf("negative price %s", price))
	}

	baseExp, err := pow10Exp(baseScalar)
	if err != nil {
		return 0, err
	}
	quoteExp, err := pow10Exp(quoteScalar)
	if err != nil {
		return 0, err
	}
	floatExp, err := pow10Exp(floatScalar)
	if err != nil {
		return 0, err
	}

	return toUint64(price.Shift(floatExp + quoteExp - baseExp).Round(0))
}

// EncodeQuantity encodes a base-asset quantity: round(qty * baseScalar).
func EncodeQuantity(qty decimal.Decimal, baseScalar uint64) (uint64, error) {
	if qty.IsNegative() {
		return 0, apperror.InvalidAmount(fmt.Sprintf("negative quantity %s", qty))
	}
	exp, err := pow10Exp(baseScalar)
	if err != nil {
		return 0, err
	}
	return toUint64(qty.Shift(exp).Round(0))
}

// pow10Exp returns e such that scalar == 10^e. Non-power-of-ten
// scalars violate the registry invariant and are configuration bugs.
func pow10Exp(scalar uint64) (int32, error) {
	if scalar == 0 {
		return 0, apperror.Configuration("zero scalar")
	}
	var exp int32
	for scalar > 1 {
		if scalar%10 != 0 {
			return 0, apperror.Configuration(fmt.Sprintf("scalar %d is not a power of ten", scalar))
		}
		scalar /= 10
		exp++
	}
	return exp, nil
}

func toUint64(d decimal.Decimal) (uint64, error) {
	bi := d.BigInt()
	if !bi.IsUint64() {
		return 0, apperror.New(apperror.CodeAmountRange,
			apperror.WithContext(fmt.Sprintf("value %s exceeds uint64", d)))
	}
	return bi.Uint64(), nil
}
