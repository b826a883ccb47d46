package helpers

import (
	"math/big"

	"github.com/relaycore/relay-server/internal/constants"
	"github.com/relaycore/relay-server/internal/types"
	"github.com/shopspring/decimal"
)

// Currency conversion between gas, native currency and fee tokens. All
// arithmetic is exact decimal; a degenerate operand (absent, negative, zero
// rate) yields a zero amount by policy so a bad quote input never aborts
// request processing.

// ConvertTokenAmountToNative converts the token's Amount (in the token's
// minimal units) into native minimal units using its exchange rate.
func ConvertTokenAmountToNative(token types.ExchangeToken) decimal.Decimal {
	if token.Amount.Sign() <= 0 || token.ExchangeRate.Sign() <= 0 {
		return decimal.Zero
	}

	// Token minimal units -> whole tokens -> whole native -> native minimal units.
	wholeTokens := ScalePrecision(token.Amount, -token.Decimals)
	wholeNative := wholeTokens.Mul(token.ExchangeRate)

	return ScalePrecision(wholeNative, constants.NativeCurrencyDecimals)
}

// ConvertGasToToken expresses the cost of gasAmount gas at gasPrice in the
// token's minimal units at token.ExchangeRate.
func ConvertGasToToken(gasAmount *big.Int, token types.ExchangeToken, gasPrice *big.Int) decimal.Decimal {
	if IsDegenerate(gasAmount) || IsDegenerate(gasPrice) || token.ExchangeRate.Sign() <= 0 {
		return decimal.Zero
	}

	costNativeUnits := BigIntToDecimal(gasAmount).Mul(BigIntToDecimal(gasPrice))
	costTokenScale := ScalePrecision(costNativeUnits, token.Decimals-constants.NativeCurrencyDecimals)

	return costTokenScale.DivRound(token.ExchangeRate, constants.NativeCurrencyDecimals)
}

// ConvertGasToNative expresses the cost of gasAmount gas at gasPrice in
// native minimal units.
func ConvertGasToNative(gasAmount, gasPrice *big.Int) decimal.Decimal {
	if IsDegenerate(gasAmount) || IsDegenerate(gasPrice) {
		return decimal.Zero
	}

	return BigIntToDecimal(gasAmount).Mul(BigIntToDecimal(gasPrice))
}
