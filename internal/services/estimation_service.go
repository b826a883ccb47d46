package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/relaycore/relay-server/internal/constants"
	"github.com/relaycore/relay-server/internal/helpers"
	"github.com/relaycore/relay-server/internal/logger"
	"github.com/relaycore/relay-server/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrLinearFitDeployNotSupported is returned when the linear-fit strategy is
// invoked with a deploy request. The linear model was calibrated against
// relay-call overhead only; rejecting deploys is a hard contract of the
// strategy, not a recoverable condition.
var ErrLinearFitDeployNotSupported = errors.New("LinearFit estimation not implemented for deployments")

// EstimationService predicts the gas a relayed or deployed transaction will
// consume. It is stateless: every method is a pure computation over the
// injected contract interactor, so estimations for different requests can run
// concurrently.
type EstimationService struct {
	interactor ContractInteractor
	logger     *zap.Logger
}

// NewEstimationService creates a new estimation service
func NewEstimationService(interactor ContractInteractor) *EstimationService {
	return &EstimationService{
		interactor: interactor,
		logger:     logger.Log,
	}
}

// CorrectInternalCallGas removes the fixed overhead a forwarding contract
// adds to a simulated internal call. Estimations at or below the correction
// threshold pass through unchanged; the correction must never deflate an
// estimate that cannot contain the overhead.
func CorrectInternalCallGas(estimation *big.Int) *big.Int {
	correction := big.NewInt(constants.InternalCallGasCorrection)
	if estimation.Cmp(correction) > 0 {
		return new(big.Int).Sub(estimation, correction)
	}
	return new(big.Int).Set(estimation)
}

// ApplyGasCorrectionFactor inflates an estimation by the calibrated safety
// margin, truncating to whole gas units.
func ApplyGasCorrectionFactor(estimation *big.Int) *big.Int {
	margined := helpers.BigIntToDecimal(estimation).Mul(constants.EstimationCorrectionFactor)
	return helpers.DecimalToBigInt(margined)
}

// EstimateTokenTransferGas determines the gas the relay spends collecting its
// fee via an ERC20 transfer. Three disjoint cases, in priority order:
//
//  1. The caller already fixed a tokenGas value: trust it and apply the
//     safety margin only. It did not come from a forwarder simulation, so no
//     internal-call correction.
//  2. Simulate the transfer. A zero result (zero-value transfers many token
//     contracts short-circuit) is charged at the subsidy floor; the relay
//     never quotes zero for performing work.
//  3. A non-zero simulation went through the forwarder: apply the
//     internal-call correction and return it with no safety margin.
func (s *EstimationService) EstimateTokenTransferGas(ctx context.Context, req types.RelayTransactionRequest) (*big.Int, error) {
	data := req.Data()

	if data.TokenGas != nil {
		return ApplyGasCorrectionFactor(data.TokenGas), nil
	}

	if data.Token.ContractAddress == (common.Address{}) {
		// Subsidized relay: no fee token, no transfer to pay for.
		return big.NewInt(0), nil
	}

	from := req.Caller()
	if req.IsDeploy() {
		// The smart wallet paying the fee does not exist yet; its address is
		// derived from the owner and the deploy index.
		walletAddress, err := s.interactor.GetSmartWalletAddress(ctx, req.Deploy.Owner, req.Deploy.Index)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve smart wallet address: %w", err)
		}
		from = walletAddress
	}

	amount := helpers.DecimalToBigInt(data.Token.Amount)
	estimation, err := s.interactor.TokenTransferEstimate(ctx, data.Token, from, data.FeesReceiver, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate token transfer: %w", err)
	}

	if estimation.Sign() == 0 {
		s.logger.Debug("Token transfer simulation returned zero, charging subsidy floor",
			zap.String("token", data.Token.Symbol),
			zap.String("from", from.Hex()))
		return big.NewInt(constants.TokenTransferSubsidyGas), nil
	}

	return CorrectInternalCallGas(estimation), nil
}

// StandardMaxPossibleGas is the default estimation strategy: simulate the
// full relay-hub wrapper call for the request kind, apply the safety margin,
// and add the already-computed fee-collection gas.
func (s *EstimationService) StandardMaxPossibleGas(ctx context.Context, req types.RelayTransactionRequest, relayWorker common.Address, tokenGas *big.Int) (*big.Int, error) {
	var (
		base *big.Int
		err  error
	)

	if req.IsDeploy() {
		base, err = s.interactor.DeployCallEstimate(ctx, *req.Deploy, relayWorker)
	} else {
		base, err = s.interactor.RelayCallEstimate(ctx, *req.Relay, relayWorker)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to estimate %s call: %w", req.Kind(), err)
	}

	return new(big.Int).Add(tokenGas, ApplyGasCorrectionFactor(base)), nil
}

// LinearFitMaxPossibleGas predicts total relay-hub gas from the inner call's
// own estimation through a calibrated linear model, avoiding the full
// relay-hub simulation. Valid for relay requests only.
func (s *EstimationService) LinearFitMaxPossibleGas(ctx context.Context, req types.RelayTransactionRequest, tokenGas *big.Int) (*big.Int, error) {
	if req.IsDeploy() {
		return nil, ErrLinearFitDeployNotSupported
	}

	relay := req.Relay
	simulated, err := s.interactor.SimulateCall(ctx, types.EstimateGasParams{
		From: relay.From,
		To:   relay.To,
		Data: relay.Data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate inner call: %w", err)
	}

	innerGas := helpers.BigIntToDecimal(CorrectInternalCallGas(simulated))

	var total decimal.Decimal
	if tokenGas == nil || tokenGas.Sign() == 0 {
		total = constants.LinearFitSubsidizedSlope.Mul(innerGas).
			Add(constants.LinearFitSubsidizedIntercept)
	} else {
		total = constants.LinearFitTokenPaymentSlope.Mul(innerGas).
			Add(constants.LinearFitTokenPaymentIntercept).
			Add(helpers.BigIntToDecimal(tokenGas))
	}

	return helpers.DecimalToBigInt(total), nil
}

// EstimateRelayTransactionGas is the top-level entry point: fee-collection
// gas first, then the standard strategy, which is the only one valid for both
// request kinds.
func (s *EstimationService) EstimateRelayTransactionGas(ctx context.Context, req types.RelayTransactionRequest, relayWorker common.Address) (*big.Int, error) {
	tokenGas, err := s.EstimateTokenTransferGas(ctx, req)
	if err != nil {
		return nil, err
	}

	maxPossibleGas, err := s.StandardMaxPossibleGas(ctx, req, relayWorker, tokenGas)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Estimated relay transaction gas",
		zap.String("kind", req.Kind()),
		zap.String("token_gas", tokenGas.String()),
		zap.String("max_possible_gas", maxPossibleGas.String()))

	return maxPossibleGas, nil
}

// EstimateRawCallGas exposes the uncorrected, unmargined simulation for
// callers that need the raw number (diagnostics, calibration).
func (s *EstimationService) EstimateRawCallGas(ctx context.Context, params types.EstimateGasParams) (*big.Int, error) {
	return s.interactor.SimulateCall(ctx, params)
}
