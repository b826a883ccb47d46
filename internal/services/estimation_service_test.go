package services_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/relaycore/relay-server/internal/logger"
	"github.com/relaycore/relay-server/internal/mocks"
	"github.com/relaycore/relay-server/internal/services"
	"github.com/relaycore/relay-server/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test")
}

var (
	relayWorker   = common.HexToAddress("0x74105590d404df3f384a099c2e55135281ca6b40")
	feesReceiver  = common.HexToAddress("0xabcd000000000000000000000000000000001234")
	tokenContract = common.HexToAddress("0x726ECC75d5D51356AA4d0a5B648790cC345985ED")
	walletAddress = common.HexToAddress("0x8a9c64bd3c936dbd8d9a4cb7cb1bbbf172a37a5b")
	ownerAddress  = common.HexToAddress("0x155d400a3cbd2b0a092bbbbbd53fe8d4e3d0c87f")
	callTarget    = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func newRelayRequest(tokenGas *big.Int) types.RelayTransactionRequest {
	token := types.NewExchangeToken(tokenContract, "RIF").
		WithAmount(decimal.NewFromInt(1000))
	return types.NewRelayRequest(types.RelayCallRequest{
		From: walletAddress,
		To:   callTarget,
		Data: []byte{0xde, 0xad, 0xbe, 0xef},
		RelayData: types.RelayData{
			GasPrice:     big.NewInt(60000000),
			Token:        token,
			TokenGas:     tokenGas,
			FeesReceiver: feesReceiver,
		},
	}, types.RelayMetadata{})
}

func newDeployRequest(tokenGas *big.Int) types.RelayTransactionRequest {
	token := types.NewExchangeToken(tokenContract, "RIF").
		WithAmount(decimal.NewFromInt(1000))
	return types.NewDeployRequest(types.DeployCallRequest{
		Owner: ownerAddress,
		Index: big.NewInt(0),
		RelayData: types.RelayData{
			GasPrice:     big.NewInt(60000000),
			Token:        token,
			TokenGas:     tokenGas,
			FeesReceiver: feesReceiver,
		},
	}, types.RelayMetadata{})
}

func TestCorrectInternalCallGas(t *testing.T) {
	tests := []struct {
		name       string
		estimation int64
		expected   int64
	}{
		{name: "above threshold is reduced", estimation: 82907, expected: 62907},
		{name: "just above threshold leaves the remainder", estimation: 20001, expected: 1},
		{name: "exactly at threshold passes through", estimation: 20000, expected: 20000},
		{name: "below threshold passes through", estimation: 16559, expected: 16559},
		{name: "zero passes through", estimation: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := big.NewInt(tt.estimation)
			result := services.CorrectInternalCallGas(input)
			assert.Equal(t, tt.expected, result.Int64())
			// The input operand is never mutated.
			assert.Equal(t, tt.estimation, input.Int64())
		})
	}
}

func TestApplyGasCorrectionFactor(t *testing.T) {
	tests := []struct {
		name       string
		estimation int64
		expected   int64
	}{
		{name: "margin truncates fractional gas", estimation: 82907, expected: 103633},
		{name: "exact multiple keeps whole result", estimation: 40000, expected: 50000},
		{name: "zero stays zero", estimation: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := services.ApplyGasCorrectionFactor(big.NewInt(tt.estimation))
			assert.Equal(t, tt.expected, result.Int64())
		})
	}
}

func TestEstimationService_EstimateTokenTransferGas(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		request    types.RelayTransactionRequest
		setupMocks func(interactor *mocks.MockContractInteractor)
		expected   int64
		wantErr    bool
	}{
		{
			name:    "explicit token gas gets the margin and skips simulation",
			request: newRelayRequest(big.NewInt(16559)),
			setupMocks: func(interactor *mocks.MockContractInteractor) {
				interactor.EXPECT().TokenTransferEstimate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				interactor.EXPECT().GetSmartWalletAddress(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			expected: 20698, // trunc(16559 * 1.25)
		},
		{
			name:    "explicit token gas on deploy never resolves the wallet address",
			request: newDeployRequest(big.NewInt(16559)),
			setupMocks: func(interactor *mocks.MockContractInteractor) {
				interactor.EXPECT().TokenTransferEstimate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
				interactor.EXPECT().GetSmartWalletAddress(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			expected: 20698,
		},
		{
			name:    "relay simulation below correction threshold is returned unchanged",
			request: newRelayRequest(nil),
			setupMocks: func(interactor *mocks.MockContractInteractor) {
				interactor.EXPECT().
					TokenTransferEstimate(ctx, gomock.Any(), walletAddress, feesReceiver, big.NewInt(1000)).
					Return(big.NewInt(16559), nil)
			},
			expected: 16559,
		},
		{
			name:    "relay simulation above correction threshold is corrected",
			request: newRelayRequest(nil),
			setupMocks: func(interactor *mocks.MockContractInteractor) {
				interactor.EXPECT().
					TokenTransferEstimate(ctx, gomock.Any(), walletAddress, feesReceiver, big.NewInt(1000)).
					Return(big.NewInt(36559), nil)
			},
			expected: 16559,
		},
		{
			name:    "zero simulation is charged at the subsidy floor",
			request: newRelayRequest(nil),
			setupMocks: func(interactor *mocks.MockContractInteractor) {
				interactor.EXPECT().
					TokenTransferEstimate(ctx, gomock.Any(), walletAddress, feesReceiver, big.NewInt(1000)).
					Return(big.NewInt(0), nil)
			},
			expected: 12000,
		},
		{
			name:    "deploy simulates from the predicted wallet address",
			request: newDeployRequest(nil),
			setupMocks: func(interactor *mocks.MockContractInteractor) {
				interactor.EXPECT().
					GetSmartWalletAddress(ctx, ownerAddress, big.NewInt(0)).
					Return(walletAddress, nil)
				interactor.EXPECT().
					TokenTransferEstimate(ctx, gomock.Any(), walletAddress, feesReceiver, big.NewInt(1000)).
					Return(big.NewInt(16559), nil)
			},
			expected: 16559,
		},
		{
			name:    "wallet address resolution failure propagates",
			request: newDeployRequest(nil),
			setupMocks: func(interactor *mocks.MockContractInteractor) {
				interactor.EXPECT().
					GetSmartWalletAddress(ctx, ownerAddress, big.NewInt(0)).
					Return(common.Address{}, errors.New("node unreachable"))
			},
			wantErr: true,
		},
		{
			name:    "transfer simulation failure propagates",
			request: newRelayRequest(nil),
			setupMocks: func(interactor *mocks.MockContractInteractor) {
				interactor.EXPECT().
					TokenTransferEstimate(ctx, gomock.Any(), walletAddress, feesReceiver, big.NewInt(1000)).
					Return(nil, errors.New("execution reverted"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interactor := mocks.NewMockContractInteractorForTest(t)
			tt.setupMocks(interactor)

			service := services.NewEstimationService(interactor)
			result, err := service.EstimateTokenTransferGas(ctx, tt.request)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result.Int64())
		})
	}
}

func TestEstimationService_EstimateTokenTransferGas_Subsidized(t *testing.T) {
	ctx := context.Background()
	interactor := mocks.NewMockContractInteractorForTest(t)
	interactor.EXPECT().TokenTransferEstimate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	token := types.NewExchangeToken(common.Address{}, "")
	request := types.NewRelayRequest(types.RelayCallRequest{
		From: walletAddress,
		To:   callTarget,
		RelayData: types.RelayData{
			GasPrice: big.NewInt(60000000),
			Token:    token,
		},
	}, types.RelayMetadata{})

	service := services.NewEstimationService(interactor)
	result, err := service.EstimateTokenTransferGas(ctx, request)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), result.Int64())
}

func TestEstimationService_EstimateRelayTransactionGas(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		request    types.RelayTransactionRequest
		setupMocks func(interactor *mocks.MockContractInteractor)
		expected   int64
		wantErr    bool
	}{
		{
			name:    "relay request sums token gas and margined hub estimation",
			request: newRelayRequest(nil),
			setupMocks: func(interactor *mocks.MockContractInteractor) {
				interactor.EXPECT().
					TokenTransferEstimate(ctx, gomock.Any(), walletAddress, feesReceiver, big.NewInt(1000)).
					Return(big.NewInt(16559), nil)
				interactor.EXPECT().
					RelayCallEstimate(ctx, gomock.Any(), relayWorker).
					Return(big.NewInt(82907), nil)
			},
			// 16559 + trunc(82907 * 1.25)
			expected: 120192,
		},
		{
			name:    "deploy request estimates through the deploy wrapper",
			request: newDeployRequest(nil),
			setupMocks: func(interactor *mocks.MockContractInteractor) {
				interactor.EXPECT().
					GetSmartWalletAddress(ctx, ownerAddress, big.NewInt(0)).
					Return(walletAddress, nil)
				interactor.EXPECT().
					TokenTransferEstimate(ctx, gomock.Any(), walletAddress, feesReceiver, big.NewInt(1000)).
					Return(big.NewInt(16559), nil)
				interactor.EXPECT().
					DeployCallEstimate(ctx, gomock.Any(), relayWorker).
					Return(big.NewInt(147246), nil)
			},
			// 16559 + trunc(147246 * 1.25)
			expected: 200616,
		},
		{
			name:    "hub estimation failure propagates",
			request: newRelayRequest(nil),
			setupMocks: func(interactor *mocks.MockContractInteractor) {
				interactor.EXPECT().
					TokenTransferEstimate(ctx, gomock.Any(), walletAddress, feesReceiver, big.NewInt(1000)).
					Return(big.NewInt(16559), nil)
				interactor.EXPECT().
					RelayCallEstimate(ctx, gomock.Any(), relayWorker).
					Return(nil, errors.New("execution reverted"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interactor := mocks.NewMockContractInteractorForTest(t)
			tt.setupMocks(interactor)

			service := services.NewEstimationService(interactor)
			result, err := service.EstimateRelayTransactionGas(ctx, tt.request, relayWorker)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, result.Int64())
		})
	}
}

func TestEstimationService_LinearFitMaxPossibleGas(t *testing.T) {
	ctx := context.Background()

	t.Run("deploy requests are rejected", func(t *testing.T) {
		interactor := mocks.NewMockContractInteractorForTest(t)
		service := services.NewEstimationService(interactor)

		result, err := service.LinearFitMaxPossibleGas(ctx, newDeployRequest(nil), big.NewInt(16559))

		assert.Nil(t, result)
		assert.ErrorIs(t, err, services.ErrLinearFitDeployNotSupported)
		assert.EqualError(t, err, "LinearFit estimation not implemented for deployments")
	})

	t.Run("subsidized relay uses the no-payment line", func(t *testing.T) {
		interactor := mocks.NewMockContractInteractorForTest(t)
		interactor.EXPECT().
			SimulateCall(ctx, types.EstimateGasParams{
				From: walletAddress,
				To:   callTarget,
				Data: []byte{0xde, 0xad, 0xbe, 0xef},
			}).
			Return(big.NewInt(120000), nil)

		service := services.NewEstimationService(interactor)
		result, err := service.LinearFitMaxPossibleGas(ctx, newRelayRequest(nil), big.NewInt(0))

		assert.NoError(t, err)
		// corrected inner gas: 120000 - 20000 = 100000
		// trunc(1.067 * 100000 + 85090.977)
		assert.Equal(t, int64(191790), result.Int64())
	})

	t.Run("token payment adds the token gas on top of its line", func(t *testing.T) {
		interactor := mocks.NewMockContractInteractorForTest(t)
		interactor.EXPECT().
			SimulateCall(ctx, gomock.Any()).
			Return(big.NewInt(120000), nil)

		service := services.NewEstimationService(interactor)
		result, err := service.LinearFitMaxPossibleGas(ctx, newRelayRequest(nil), big.NewInt(16559))

		assert.NoError(t, err)
		// trunc(1.098 * 100000 + 76489.969 + 16559)
		assert.Equal(t, int64(202848), result.Int64())
	})

	t.Run("inner simulation failure propagates", func(t *testing.T) {
		interactor := mocks.NewMockContractInteractorForTest(t)
		interactor.EXPECT().
			SimulateCall(ctx, gomock.Any()).
			Return(nil, errors.New("execution reverted"))

		service := services.NewEstimationService(interactor)
		_, err := service.LinearFitMaxPossibleGas(ctx, newRelayRequest(nil), big.NewInt(0))

		assert.Error(t, err)
	})
}
