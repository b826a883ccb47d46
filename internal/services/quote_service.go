package services

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/relaycore/relay-server/internal/constants"
	"github.com/relaycore/relay-server/internal/helpers"
	"github.com/relaycore/relay-server/internal/logger"
	"github.com/relaycore/relay-server/internal/types"
	"go.uber.org/zap"
)

// QuoteService assembles full fee quotes: maximum possible gas for the
// request, its native cost at the request's gas price, and the token amount
// the relay charges for it.
type QuoteService struct {
	estimation   *EstimationService
	exchangeRate *ExchangeRateService
	relayWorker  common.Address
	logger       *zap.Logger
}

// NewQuoteService creates a new quote service
func NewQuoteService(estimation *EstimationService, exchangeRate *ExchangeRateService, relayWorker common.Address) *QuoteService {
	return &QuoteService{
		estimation:   estimation,
		exchangeRate: exchangeRate,
		relayWorker:  relayWorker,
		logger:       logger.Log,
	}
}

// QuoteRelayTransaction estimates the request with the default strategy and
// converts the resulting gas charge into native and token amounts. The token
// fee is truncated to whole token minimal units; that is the only point
// sub-unit precision is dropped.
func (s *QuoteService) QuoteRelayTransaction(ctx context.Context, req types.RelayTransactionRequest) (*types.RelayEstimation, error) {
	return s.quote(ctx, req, constants.StandardEstimation)
}

// QuoteRelayTransactionWithStrategy quotes with an explicit estimation
// strategy. The linear-fit strategy skips the relay-hub simulation and is
// valid for relay requests only.
func (s *QuoteService) QuoteRelayTransactionWithStrategy(ctx context.Context, req types.RelayTransactionRequest, strategy string) (*types.RelayEstimation, error) {
	return s.quote(ctx, req, strategy)
}

func (s *QuoteService) quote(ctx context.Context, req types.RelayTransactionRequest, strategy string) (*types.RelayEstimation, error) {
	data := req.Data()

	var (
		maxPossibleGas *big.Int
		err            error
	)

	switch strategy {
	case constants.LinearFitEstimation:
		var tokenGas *big.Int
		tokenGas, err = s.estimation.EstimateTokenTransferGas(ctx, req)
		if err != nil {
			return nil, err
		}
		maxPossibleGas, err = s.estimation.LinearFitMaxPossibleGas(ctx, req, tokenGas)
	default:
		maxPossibleGas, err = s.estimation.EstimateRelayTransactionGas(ctx, req, s.relayWorker)
	}
	if err != nil {
		return nil, err
	}

	rate, err := s.exchangeRate.GetXRateFor(ctx, data.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve exchange rate for %s: %w", data.Token.Symbol, err)
	}

	token := data.Token.WithExchangeRate(rate)
	tokenFee := helpers.ConvertGasToToken(maxPossibleGas, token, data.GasPrice).Truncate(0)
	nativeCost := helpers.ConvertGasToNative(maxPossibleGas, data.GasPrice)

	estimation := &types.RelayEstimation{
		QuoteID:        uuid.New().String(),
		Kind:           req.Kind(),
		MaxPossibleGas: maxPossibleGas,
		GasPrice:       data.GasPrice,
		NativeCost:     nativeCost,
		TokenFee:       tokenFee,
		TokenSymbol:    token.Symbol,
		ExchangeRate:   rate,
		EstimatedAt:    time.Now(),
	}

	s.logger.Info("Assembled relay fee quote",
		zap.String("quote_id", estimation.QuoteID),
		zap.String("kind", estimation.Kind),
		zap.String("max_possible_gas", maxPossibleGas.String()),
		zap.String("token_fee", tokenFee.String()),
		zap.String("token", token.Symbol))

	return estimation, nil
}
