package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/relaycore/relay-server/internal/constants"
	"github.com/shopspring/decimal"
)

// ExchangeToken describes everything needed to convert between a token's unit
// system and the native currency: contract, symbol, decimal precision and the
// current exchange rate (native units per one token unit).
//
// A zero ExchangeRate or Amount means "absent"; conversion resolves absent
// operands to a zero amount by policy rather than failing.
type ExchangeToken struct {
	ContractAddress common.Address
	Symbol          string
	Decimals        int32
	ExchangeRate    decimal.Decimal
	Amount          decimal.Decimal
}

// NewExchangeToken creates a token descriptor with the default 18-decimal
// precision.
func NewExchangeToken(contractAddress common.Address, symbol string) ExchangeToken {
	return ExchangeToken{
		ContractAddress: contractAddress,
		Symbol:          symbol,
		Decimals:        constants.NativeCurrencyDecimals,
	}
}

// WithDecimals returns a copy with the given decimal precision.
func (t ExchangeToken) WithDecimals(decimals int32) ExchangeToken {
	t.Decimals = decimals
	return t
}

// WithExchangeRate returns a copy with the given exchange rate.
func (t ExchangeToken) WithExchangeRate(rate decimal.Decimal) ExchangeToken {
	t.ExchangeRate = rate
	return t
}

// WithAmount returns a copy carrying an amount denominated in the token's own
// unit system.
func (t ExchangeToken) WithAmount(amount decimal.Decimal) ExchangeToken {
	t.Amount = amount
	return t
}
