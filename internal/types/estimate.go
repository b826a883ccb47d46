package types

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// EstimateGasParams is a raw simulated-call specification passed to the
// contract interactor.
type EstimateGasParams struct {
	From common.Address
	To   common.Address
	Data []byte
}

// RelayEstimation is the fee quote assembled from a gas estimation and the
// token's exchange rate.
type RelayEstimation struct {
	QuoteID         string
	Kind            string
	MaxPossibleGas  *big.Int
	GasPrice        *big.Int
	NativeCost      decimal.Decimal
	TokenFee        decimal.Decimal
	TokenSymbol     string
	ExchangeRate    decimal.Decimal
	EstimatedAt     time.Time
}
