package constants

import "github.com/shopspring/decimal"

// NativeCurrencyDecimals is the decimal precision of the chain's native
// currency (wei-style, 18 places).
const NativeCurrencyDecimals = 18

// Gas estimation calibration constants. These are tuned against the gas-cost
// shape of the target chain; change them only as part of a deliberate
// recalibration, never to "fix" an individual estimate.
const (
	// InternalCallGasCorrection is the fixed gas overhead a forwarding
	// contract adds to a simulated internal call. Estimations obtained through
	// the forwarder subtract it to isolate the target call's own cost.
	InternalCallGasCorrection = 20000

	// TokenTransferSubsidyGas is the minimum gas charged for collecting the
	// fee when the simulated token transfer costs zero (zero-value transfers
	// that token contracts short-circuit). The relay never quotes a zero fee
	// for work performed.
	TokenTransferSubsidyGas = 12000
)

// EstimationCorrectionFactor inflates relay and deploy gas estimations to
// cover simulation under-prediction. Applied once, to the final relay-hub
// estimate.
var EstimationCorrectionFactor = decimal.NewFromFloat(1.25)

// Linear-fit calibration. Total relay-hub gas regressed against the inner
// call's corrected estimation, one line per fee mode.
var (
	// Subsidized relays (no token payment collected).
	LinearFitSubsidizedSlope     = decimal.NewFromFloat(1.067)
	LinearFitSubsidizedIntercept = decimal.NewFromFloat(85090.977)

	// Token-paying relays; the token-transfer gas is added on top.
	LinearFitTokenPaymentSlope     = decimal.NewFromFloat(1.098)
	LinearFitTokenPaymentIntercept = decimal.NewFromFloat(76489.969)
)
