package config

import (
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"
)

// Config holds the server configuration read from the environment.
type Config struct {
	Stage string
	Port  string

	// Chain access
	RPCURL             string
	RelayHubAddress    common.Address
	WalletFactory      common.Address
	WalletInitCodeHash common.Hash
	RelayWorkerAddress common.Address

	// Fee conversion
	NativeSymbol string

	// Price oracle
	CoinMarketCapAPIKey string
}

// Load reads the configuration from environment variables. Required
// variables missing or malformed produce an error naming the variable.
func Load() (*Config, error) {
	cfg := &Config{
		Stage:        getEnvWithDefault("STAGE", "dev"),
		Port:         getEnvWithDefault("API_PORT", "8000"),
		NativeSymbol: getEnvWithDefault("NATIVE_CURRENCY_SYMBOL", "RBTC"),
	}

	var err error
	if cfg.RPCURL, err = requireEnv("RPC_URL"); err != nil {
		return nil, err
	}
	if cfg.RelayHubAddress, err = requireAddress("RELAY_HUB_ADDRESS"); err != nil {
		return nil, err
	}
	if cfg.WalletFactory, err = requireAddress("SMART_WALLET_FACTORY_ADDRESS"); err != nil {
		return nil, err
	}
	if cfg.RelayWorkerAddress, err = requireAddress("RELAY_WORKER_ADDRESS"); err != nil {
		return nil, err
	}

	initCodeHash, err := requireEnv("SMART_WALLET_INIT_CODE_HASH")
	if err != nil {
		return nil, err
	}
	cfg.WalletInitCodeHash = common.HexToHash(initCodeHash)

	if cfg.CoinMarketCapAPIKey, err = requireEnv("COINMARKETCAP_API_KEY"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func requireEnv(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s environment variable is required", key)
	}
	return value, nil
}

func requireAddress(key string) (common.Address, error) {
	value, err := requireEnv(key)
	if err != nil {
		return common.Address{}, err
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s is not a valid address", key)
	}
	return common.HexToAddress(value), nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
