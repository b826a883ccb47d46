package helpers_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/relaycore/relay-server/internal/helpers"
	"github.com/relaycore/relay-server/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var tokenContract = common.HexToAddress("0x726ECC75d5D51356AA4d0a5B648790cC345985ED")

func TestConvertTokenAmountToNative(t *testing.T) {
	tests := []struct {
		name     string
		token    types.ExchangeToken
		expected string
	}{
		{
			name: "whole token at rate one",
			token: types.NewExchangeToken(tokenContract, "RIF").
				WithExchangeRate(decimal.NewFromInt(1)).
				WithAmount(decimal.RequireFromString("1000000000000000000")),
			expected: "1000000000000000000",
		},
		{
			name: "six decimal token at rate two",
			token: types.NewExchangeToken(tokenContract, "USDT").
				WithDecimals(6).
				WithExchangeRate(decimal.NewFromInt(2)).
				WithAmount(decimal.NewFromInt(1000000)),
			expected: "2000000000000000000",
		},
		{
			name: "fractional rate keeps full precision",
			token: types.NewExchangeToken(tokenContract, "RIF").
				WithExchangeRate(decimal.RequireFromString("0.000105")).
				WithAmount(decimal.RequireFromString("1000000000000000000")),
			expected: "105000000000000",
		},
		{
			name: "zero amount yields zero",
			token: types.NewExchangeToken(tokenContract, "RIF").
				WithExchangeRate(decimal.NewFromInt(1)),
			expected: "0",
		},
		{
			name: "missing rate yields zero",
			token: types.NewExchangeToken(tokenContract, "RIF").
				WithAmount(decimal.NewFromInt(1000)),
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := helpers.ConvertTokenAmountToNative(tt.token)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(result),
				"expected %s, got %s", tt.expected, result.String())
		})
	}
}

func TestConvertGasToToken(t *testing.T) {
	gasPrice := big.NewInt(60000000)

	tests := []struct {
		name     string
		gas      *big.Int
		token    types.ExchangeToken
		gasPrice *big.Int
		expected string
	}{
		{
			name: "eighteen decimal token at rate one half",
			gas:  big.NewInt(120192),
			token: types.NewExchangeToken(tokenContract, "RIF").
				WithExchangeRate(decimal.RequireFromString("0.5")),
			gasPrice: gasPrice,
			expected: "14423040000000",
		},
		{
			name: "six decimal token rescales before dividing",
			gas:  big.NewInt(120192),
			token: types.NewExchangeToken(tokenContract, "USDT").
				WithDecimals(6).
				WithExchangeRate(decimal.NewFromInt(2)),
			gasPrice: gasPrice,
			expected: "3.60576",
		},
		{
			name: "nil gas yields zero",
			gas:  nil,
			token: types.NewExchangeToken(tokenContract, "RIF").
				WithExchangeRate(decimal.NewFromInt(1)),
			gasPrice: gasPrice,
			expected: "0",
		},
		{
			name: "negative gas price yields zero",
			gas:  big.NewInt(21000),
			token: types.NewExchangeToken(tokenContract, "RIF").
				WithExchangeRate(decimal.NewFromInt(1)),
			gasPrice: big.NewInt(-1),
			expected: "0",
		},
		{
			name:     "missing exchange rate yields zero",
			gas:      big.NewInt(21000),
			token:    types.NewExchangeToken(tokenContract, "RIF"),
			gasPrice: gasPrice,
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := helpers.ConvertGasToToken(tt.gas, tt.token, tt.gasPrice)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(result),
				"expected %s, got %s", tt.expected, result.String())
		})
	}
}

func TestConvertGasToNative(t *testing.T) {
	result := helpers.ConvertGasToNative(big.NewInt(120192), big.NewInt(60000000))
	assert.Equal(t, "7211520000000", result.String())

	assert.True(t, helpers.ConvertGasToNative(nil, big.NewInt(1)).IsZero())
	assert.True(t, helpers.ConvertGasToNative(big.NewInt(1), nil).IsZero())
	assert.True(t, helpers.ConvertGasToNative(big.NewInt(0), big.NewInt(50)).IsZero())
}
