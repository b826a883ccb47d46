package services_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/relaycore/relay-server/internal/constants"
	"github.com/relaycore/relay-server/internal/mocks"
	"github.com/relaycore/relay-server/internal/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newQuoteService(interactor *mocks.MockContractInteractor, oracle *mocks.MockPriceOracle) *services.QuoteService {
	estimation := services.NewEstimationService(interactor)
	exchangeRate := services.NewExchangeRateService(oracle, "RBTC")
	return services.NewQuoteService(estimation, exchangeRate, relayWorker)
}

func TestQuoteService_QuoteRelayTransaction(t *testing.T) {
	ctx := context.Background()

	t.Run("assembles a full quote for a relay request", func(t *testing.T) {
		interactor := mocks.NewMockContractInteractorForTest(t)
		oracle := mocks.NewMockPriceOracleForTest(t)

		interactor.EXPECT().
			TokenTransferEstimate(ctx, gomock.Any(), walletAddress, feesReceiver, big.NewInt(1000)).
			Return(big.NewInt(16559), nil)
		interactor.EXPECT().
			RelayCallEstimate(ctx, gomock.Any(), relayWorker).
			Return(big.NewInt(82907), nil)
		oracle.EXPECT().
			GetExchangeRate(ctx, "RIF", "RBTC").
			Return(decimal.RequireFromString("0.5"), nil)

		service := newQuoteService(interactor, oracle)
		quote, err := service.QuoteRelayTransaction(ctx, newRelayRequest(nil))

		assert.NoError(t, err)
		assert.NotEmpty(t, quote.QuoteID)
		assert.Equal(t, constants.RelayRequestKind, quote.Kind)
		// 16559 + trunc(82907 * 1.25)
		assert.Equal(t, int64(120192), quote.MaxPossibleGas.Int64())
		assert.Equal(t, int64(60000000), quote.GasPrice.Int64())
		// 120192 * 60000000
		assert.Equal(t, "7211520000000", quote.NativeCost.String())
		// native cost / 0.5, token also 18 decimals
		assert.Equal(t, "14423040000000", quote.TokenFee.String())
		assert.Equal(t, "RIF", quote.TokenSymbol)
		assert.False(t, quote.EstimatedAt.IsZero())
	})

	t.Run("token fee is truncated to whole minimal units", func(t *testing.T) {
		interactor := mocks.NewMockContractInteractorForTest(t)
		oracle := mocks.NewMockPriceOracleForTest(t)

		interactor.EXPECT().
			TokenTransferEstimate(ctx, gomock.Any(), walletAddress, feesReceiver, big.NewInt(1000)).
			Return(big.NewInt(16559), nil)
		interactor.EXPECT().
			RelayCallEstimate(ctx, gomock.Any(), relayWorker).
			Return(big.NewInt(82907), nil)
		// A rate that does not divide the cost evenly.
		oracle.EXPECT().
			GetExchangeRate(ctx, "RIF", "RBTC").
			Return(decimal.RequireFromString("7"), nil)

		service := newQuoteService(interactor, oracle)
		quote, err := service.QuoteRelayTransaction(ctx, newRelayRequest(nil))

		assert.NoError(t, err)
		// 7211520000000 / 7 = 1030217142857.142857... truncated
		assert.Equal(t, "1030217142857", quote.TokenFee.String())
	})

	t.Run("deploy requests quote through the deploy wrapper", func(t *testing.T) {
		interactor := mocks.NewMockContractInteractorForTest(t)
		oracle := mocks.NewMockPriceOracleForTest(t)

		interactor.EXPECT().
			GetSmartWalletAddress(ctx, ownerAddress, big.NewInt(0)).
			Return(walletAddress, nil)
		interactor.EXPECT().
			TokenTransferEstimate(ctx, gomock.Any(), walletAddress, feesReceiver, big.NewInt(1000)).
			Return(big.NewInt(16559), nil)
		interactor.EXPECT().
			DeployCallEstimate(ctx, gomock.Any(), relayWorker).
			Return(big.NewInt(147246), nil)
		oracle.EXPECT().
			GetExchangeRate(ctx, "RIF", "RBTC").
			Return(decimal.RequireFromString("0.5"), nil)

		service := newQuoteService(interactor, oracle)
		quote, err := service.QuoteRelayTransaction(ctx, newDeployRequest(nil))

		assert.NoError(t, err)
		assert.Equal(t, constants.DeployRequestKind, quote.Kind)
		// 16559 + trunc(147246 * 1.25)
		assert.Equal(t, int64(200616), quote.MaxPossibleGas.Int64())
	})

	t.Run("oracle failure aborts the quote", func(t *testing.T) {
		interactor := mocks.NewMockContractInteractorForTest(t)
		oracle := mocks.NewMockPriceOracleForTest(t)

		interactor.EXPECT().
			TokenTransferEstimate(ctx, gomock.Any(), walletAddress, feesReceiver, big.NewInt(1000)).
			Return(big.NewInt(16559), nil)
		interactor.EXPECT().
			RelayCallEstimate(ctx, gomock.Any(), relayWorker).
			Return(big.NewInt(82907), nil)
		oracle.EXPECT().
			GetExchangeRate(ctx, "RIF", "RBTC").
			Return(decimal.Zero, errors.New("rate limited"))

		service := newQuoteService(interactor, oracle)
		_, err := service.QuoteRelayTransaction(ctx, newRelayRequest(nil))

		assert.Error(t, err)
	})
}

func TestQuoteService_QuoteRelayTransactionWithStrategy(t *testing.T) {
	ctx := context.Background()

	t.Run("linear fit skips the relay hub simulation", func(t *testing.T) {
		interactor := mocks.NewMockContractInteractorForTest(t)
		oracle := mocks.NewMockPriceOracleForTest(t)

		interactor.EXPECT().
			TokenTransferEstimate(ctx, gomock.Any(), walletAddress, feesReceiver, big.NewInt(1000)).
			Return(big.NewInt(16559), nil)
		interactor.EXPECT().
			SimulateCall(ctx, gomock.Any()).
			Return(big.NewInt(120000), nil)
		interactor.EXPECT().
			RelayCallEstimate(gomock.Any(), gomock.Any(), gomock.Any()).
			Times(0)
		oracle.EXPECT().
			GetExchangeRate(ctx, "RIF", "RBTC").
			Return(decimal.RequireFromString("0.5"), nil)

		service := newQuoteService(interactor, oracle)
		quote, err := service.QuoteRelayTransactionWithStrategy(ctx, newRelayRequest(nil), constants.LinearFitEstimation)

		assert.NoError(t, err)
		// trunc(1.098 * (120000 - 20000) + 76489.969 + 16559)
		assert.Equal(t, int64(202848), quote.MaxPossibleGas.Int64())
	})

	t.Run("linear fit rejects deploy requests", func(t *testing.T) {
		interactor := mocks.NewMockContractInteractorForTest(t)
		oracle := mocks.NewMockPriceOracleForTest(t)

		interactor.EXPECT().
			GetSmartWalletAddress(ctx, ownerAddress, big.NewInt(0)).
			Return(walletAddress, nil)
		interactor.EXPECT().
			TokenTransferEstimate(ctx, gomock.Any(), walletAddress, feesReceiver, big.NewInt(1000)).
			Return(big.NewInt(16559), nil)

		service := newQuoteService(interactor, oracle)
		_, err := service.QuoteRelayTransactionWithStrategy(ctx, newDeployRequest(nil), constants.LinearFitEstimation)

		assert.ErrorIs(t, err, services.ErrLinearFitDeployNotSupported)
	})
}
