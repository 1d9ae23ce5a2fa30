package asset_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/deeparb/deeparb/internal/apperror"
	"github.com/deeparb/deeparb/internal/asset"
)

func TestToUnits_RoundTrip(t *testing.T) {
	// Round trip must be exact for any amount with <= decimals
	// fractional digits.
	cases := []struct {
		amount   string
		decimals uint8
	}{
		{"0", 0},
		{"42", 0},
		{"1.5", 6},
		{"0.000001", 6},
		{"123456.654321", 6},
		{"0.00000001", 8},
		{"20999999.99999999", 8},
		{"1.000000001", 9},
		{"987654321.123456789", 9},
	}

	for _, tc := range cases {
		amount := decimal.RequireFromString(tc.amount)

		units, err := asset.ToUnits(amount, tc.decimals)
		if err != nil {
			t.Fatalf("ToUnits(%s, %d): unexpected error: %v", tc.amount, tc.decimals, err)
		}

		back := asset.FromUnits(units, tc.decimals)
		if !back.Equal(amount) {
			t.Errorf("round trip of %s with %d decimals: got %s", tc.amount, tc.decimals, back)
		}
	}
}

func TestToUnits_Rounding(t *testing.T) {
	// Half rounds away from zero, matching the ledger encoding.
	cases := []struct {
		amount   string
		decimals uint8
		want     uint64
	}{
		{"1.0000005", 6, 1000001},
		{"1.0000004", 6, 1000000},
		{"0.5", 0, 1},
		{"2.5", 0, 3},
	}

	for _, tc := range cases {
		got, err := asset.ToUnits(decimal.RequireFromString(tc.amount), tc.decimals)
		if err != nil {
			t.Fatalf("ToUnits(%s): unexpected error: %v", tc.amount, err)
		}
		if got != tc.want {
			t.Errorf("ToUnits(%s, %d) = %d, want %d", tc.amount, tc.decimals, got, tc.want)
		}
	}
}

func TestToUnits_Invalid(t *testing.T) {
	if _, err := asset.ToUnits(decimal.RequireFromString("-1"), 6); !apperror.HasCode(err, apperror.CodeInvalidAmount) {
		t.Errorf("negative amount: got %v, want INVALID_AMOUNT", err)
	}

	if _, err := asset.ToUnitsFloat(nan(), 6); !apperror.HasCode(err, apperror.CodeInvalidAmount) {
		t.Errorf("NaN: got %v, want INVALID_AMOUNT", err)
	}

	if _, err := asset.ParseUnits("not-a-number", 6); !apperror.HasCode(err, apperror.CodeInvalidAmount) {
		t.Errorf("unparseable: got %v, want INVALID_AMOUNT", err)
	}

	// 2^64 overflows uint64 ledger units.
	if _, err := asset.ToUnits(decimal.RequireFromString("18446744073709551616"), 0); !apperror.HasCode(err, apperror.CodeAmountRange) {
		t.Errorf("overflow: got %v, want AMOUNT_OUT_OF_RANGE", err)
	}
}

func nan() float64 {
	zero := 0.0
	return zero / zero
}

func TestEncodePrice(t *testing.T) {
	// SUI/USDC: base scalar 1e9, quote scalar 1e6, float scalar 1e9.
	// encoded = price * 1e9 * 1e6 / 1e9 = price * 1e6.
	price := decimal.RequireFromString("3.7")

	got, err := asset.EncodePrice(price, 1_000_000_000, 1_000_000, asset.FloatScalar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 3_700_000 {
		t.Errorf("EncodePrice = %d, want 3700000", got)
	}

	// Deterministic: identical inputs, identical output.
	again, _ := asset.EncodePrice(price, 1_000_000_000, 1_000_000, asset.FloatScalar)
	if again != got {
		t.Errorf("EncodePrice not deterministic: %d vs %d", got, again)
	}
}

func TestEncodePrice_Monotonic(t *testing.T) {
	prices := []string{"0.0001", "0.5", "1", "1.000001", "2.5", "99999.99"}

	var prev uint64
	for i, s := range prices {
		enc, err := asset.EncodePrice(decimal.RequireFromString(s), 1_000_000_000, 1_000_000, asset.FloatScalar)
		if err != nil {
			t.Fatalf("EncodePrice(%s): unexpected error: %v", s, err)
		}
		if i > 0 && enc < prev {
			t.Errorf("EncodePrice(%s) = %d decreased below %d", s, enc, prev)
		}
		prev = enc
	}
}

func TestEncodePrice_BadScalar(t *testing.T) {
	price := decimal.RequireFromString("1")

	if _, err := asset.EncodePrice(price, 12345, 1_000_000, asset.FloatScalar); !apperror.HasCode(err, apperror.CodeConfigurationError) {
		t.Errorf("non-power-of-ten scalar: got %v, want CONFIGURATION_ERROR", err)
	}
	if _, err := asset.EncodePrice(price, 0, 1_000_000, asset.FloatScalar); !apperror.HasCode(err, apperror.CodeConfigurationError) {
		t.Errorf("zero scalar: got %v, want CONFIGURATION_ERROR", err)
	}
}

func TestEncodeQuantity(t *testing.T) {
	got, err := asset.EncodeQuantity(decimal.RequireFromString("2.25"), 1_000_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2_250_000_000 {
		t.Errorf("EncodeQuantity = %d, want 2250000000", got)
	}
}
