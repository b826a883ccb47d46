package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/relaycore/relay-server/internal/logger"
	"github.com/relaycore/relay-server/internal/types"
	"go.uber.org/zap"
)

// ErrSimulationReverted marks estimations that failed because the simulated
// call reverts. Callers distinguish it from transport failures: a revert is a
// property of the request, not of the connection.
var ErrSimulationReverted = errors.New("call simulation reverted")

// Minimal ABI fragments for the calls the relay simulates. The server never
// sends these transactions itself; it only needs their calldata shapes for
// gas estimation.
const relayHubABI = `[
	{"type":"function","name":"relayCall","stateMutability":"nonpayable","inputs":[{"name":"forwarder","type":"address"},{"name":"to","type":"address"},{"name":"data","type":"bytes"},{"name":"gasLimit","type":"uint256"},{"name":"signature","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"deployCall","stateMutability":"nonpayable","inputs":[{"name":"owner","type":"address"},{"name":"index","type":"uint256"},{"name":"signature","type":"bytes"}],"outputs":[]}
]`

const erc20ABI = `[
	{"type":"function","name":"transfer","stateMutability":"nonpayable","inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"outputs":[{"name":"","type":"bool"}]}
]`

// Config carries the chain-side addresses the client needs.
type Config struct {
	RPCURL             string
	RelayHubAddress    common.Address
	WalletFactory      common.Address
	WalletInitCodeHash common.Hash
}

// Client implements the contract interactor over a JSON-RPC node: call
// simulation via eth_estimateGas, relay-hub wrapper estimation via packed
// calldata, and deterministic smart wallet address prediction.
type Client struct {
	client   *ethclient.Client
	config   Config
	relayHub abi.ABI
	erc20    abi.ABI
	logger   *zap.Logger
}

// NewClient dials the node and prepares the ABI codecs.
func NewClient(config Config) (*Client, error) {
	ethClient, err := ethclient.Dial(config.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC node %s: %w", config.RPCURL, err)
	}

	return newClientWith(ethClient, config)
}

func newClientWith(ethClient *ethclient.Client, config Config) (*Client, error) {
	relayHub, err := abi.JSON(strings.NewReader(relayHubABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse relay hub ABI: %w", err)
	}

	erc20, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}

	return &Client{
		client:   ethClient,
		config:   config,
		relayHub: relayHub,
		erc20:    erc20,
		logger:   logger.Log,
	}, nil
}

// SimulateCall estimates the gas a raw call consumes.
func (c *Client) SimulateCall(ctx context.Context, params types.EstimateGasParams) (*big.Int, error) {
	return c.estimateGas(ctx, ethereum.CallMsg{
		From: params.From,
		To:   &params.To,
		Data: params.Data,
	})
}

// GetSmartWalletAddress predicts the CREATE2 address of the smart wallet the
// factory derives from owner and index, deployed or not.
func (c *Client) GetSmartWalletAddress(ctx context.Context, owner common.Address, index *big.Int) (common.Address, error) {
	if index == nil || index.Sign() < 0 {
		return common.Address{}, fmt.Errorf("invalid smart wallet index")
	}

	salt := crypto.Keccak256Hash(owner.Bytes(), common.LeftPadBytes(index.Bytes(), 32))
	address := crypto.CreateAddress2(c.config.WalletFactory, salt, c.config.WalletInitCodeHash.Bytes())

	return address, nil
}

// RelayCallEstimate simulates the relay-hub relayCall wrapper from the relay
// worker's account.
func (c *Client) RelayCallEstimate(ctx context.Context, relay types.RelayCallRequest, relayWorker common.Address) (*big.Int, error) {
	innerGas := relay.Gas
	if innerGas == nil {
		innerGas = big.NewInt(0)
	}

	callData, err := c.relayHub.Pack("relayCall", relay.From, relay.To, relay.Data, innerGas, []byte{})
	if err != nil {
		return nil, fmt.Errorf("failed to pack relayCall: %w", err)
	}

	return c.estimateGas(ctx, ethereum.CallMsg{
		From:     relayWorker,
		To:       &c.config.RelayHubAddress,
		Data:     callData,
		GasPrice: relay.GasPrice,
	})
}

// DeployCallEstimate simulates the relay-hub deployCall wrapper from the
// relay worker's account.
func (c *Client) DeployCallEstimate(ctx context.Context, deploy types.DeployCallRequest, relayWorker common.Address) (*big.Int, error) {
	index := deploy.Index
	if index == nil {
		index = big.NewInt(0)
	}

	callData, err := c.relayHub.Pack("deployCall", deploy.Owner, index, []byte{})
	if err != nil {
		return nil, fmt.Errorf("failed to pack deployCall: %w", err)
	}

	return c.estimateGas(ctx, ethereum.CallMsg{
		From:     relayWorker,
		To:       &c.config.RelayHubAddress,
		Data:     callData,
		GasPrice: deploy.GasPrice,
	})
}

// TokenTransferEstimate simulates the ERC20 transfer collecting the relay fee.
func (c *Client) TokenTransferEstimate(ctx context.Context, token types.ExchangeToken, from, to common.Address, amount *big.Int) (*big.Int, error) {
	if amount == nil {
		amount = big.NewInt(0)
	}

	callData, err := c.erc20.Pack("transfer", to, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to pack token transfer: %w", err)
	}

	return c.estimateGas(ctx, ethereum.CallMsg{
		From: from,
		To:   &token.ContractAddress,
		Data: callData,
	})
}

func (c *Client) estimateGas(ctx context.Context, msg ethereum.CallMsg) (*big.Int, error) {
	gas, err := c.client.EstimateGas(ctx, msg)
	if err != nil {
		if strings.Contains(err.Error(), "execution reverted") {
			return nil, fmt.Errorf("%w: %v", ErrSimulationReverted, err)
		}
		return nil, fmt.Errorf("failed to estimate gas: %w", err)
	}

	c.logger.Debug("Estimated gas via node simulation",
		zap.String("from", msg.From.Hex()),
		zap.Uint64("gas", gas))

	return new(big.Int).SetUint64(gas), nil
}
