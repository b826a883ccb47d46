package services

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/relaycore/relay-server/internal/types"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/services_mocks.go -package=mocks

// ContractInteractor abstracts chain-state reads and call simulation. The
// estimation engine never talks to a node directly; everything it knows about
// gas comes through this interface, which makes the engine fully testable
// with a substitutable fake.
type ContractInteractor interface {
	// SimulateCall simulates execution of a raw call and returns the gas it
	// consumes. Fails when the call would revert.
	SimulateCall(ctx context.Context, params types.EstimateGasParams) (*big.Int, error)

	// GetSmartWalletAddress returns the deterministic address of the smart
	// wallet derived from owner and index, whether or not it is deployed yet.
	GetSmartWalletAddress(ctx context.Context, owner common.Address, index *big.Int) (common.Address, error)

	// RelayCallEstimate simulates the relay-hub relayCall wrapper.
	RelayCallEstimate(ctx context.Context, relay types.RelayCallRequest, relayWorker common.Address) (*big.Int, error)

	// DeployCallEstimate simulates the relay-hub deployCall wrapper.
	DeployCallEstimate(ctx context.Context, deploy types.DeployCallRequest, relayWorker common.Address) (*big.Int, error)

	// TokenTransferEstimate simulates the ERC20 transfer that collects the
	// relay fee.
	TokenTransferEstimate(ctx context.Context, token types.ExchangeToken, from, to common.Address, amount *big.Int) (*big.Int, error)
}

// PriceOracle quotes one unit of a symbol in a target currency.
type PriceOracle interface {
	GetExchangeRate(ctx context.Context, symbol, targetCurrency string) (decimal.Decimal, error)
}
