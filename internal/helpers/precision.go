package helpers

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ScalePrecision rescales value between decimal unit systems: multiplies by
// 10^delta for a non-negative delta, divides by 10^|delta| for a negative
// one. Both directions move the decimal exponent directly, so scaling down is
// an exact division by a power of ten and never drops digits; any truncation
// happens only when a caller collapses the final result to an integer.
func ScalePrecision(value decimal.Decimal, delta int32) decimal.Decimal {
	return value.Shift(delta)
}

// BigIntToDecimal lifts an integer quantity (gas units, wei) into exact
// decimal space. Nil is treated as zero.
func BigIntToDecimal(value *big.Int) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(value, 0)
}

// DecimalToBigInt truncates a decimal to an integer quantity. This is the
// single place a conversion result loses sub-integer precision.
func DecimalToBigInt(value decimal.Decimal) *big.Int {
	return value.Truncate(0).BigInt()
}

// IsDegenerate reports whether a big integer operand is absent or negative.
// Conversion sits in fee-quoting paths, so such operands resolve to a zero
// amount instead of an error.
func IsDegenerate(value *big.Int) bool {
	return value == nil || value.Sign() < 0
}
