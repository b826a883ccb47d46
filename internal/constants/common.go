package constants

// Common string constants used throughout the codebase
const (
	// Log levels
	ErrorLevel = "error"

	// Environments
	ProdEnvironment = "prod"

	// Currencies
	USDCurrency = "USD"

	// Request kinds
	RelayRequestKind  = "relay"
	DeployRequestKind = "deploy"

	// Estimation strategies
	StandardEstimation  = "standard"
	LinearFitEstimation = "linearFit"
)
