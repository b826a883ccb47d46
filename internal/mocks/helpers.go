package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockContractInteractorForTest creates a new mock ContractInteractor for testing
func NewMockContractInteractorForTest(t *testing.T) *MockContractInteractor {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockContractInteractor(ctrl)
}

// NewMockPriceOracleForTest creates a new mock PriceOracle for testing
func NewMockPriceOracleForTest(t *testing.T) *MockPriceOracle {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockPriceOracle(ctrl)
}
