package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/relaycore/relay-server/internal/constants"
)

// RelayData carries the relay parameters common to both request kinds.
type RelayData struct {
	GasPrice *big.Int
	Token    ExchangeToken
	// TokenGas is the fee-collection gas the caller already computed and
	// accepts. Nil when the server must estimate it.
	TokenGas *big.Int
	// Fee destination: the relay worker collects the token payment here.
	FeesReceiver common.Address
}

// RelayCallRequest is a forwarded call executed through an already deployed
// smart wallet.
type RelayCallRequest struct {
	From common.Address // the smart wallet executing the inner call
	To   common.Address
	Data []byte
	Gas  *big.Int // caller-specified gas limit for the inner call
	RelayData
}

// DeployCallRequest asks the relay to deploy a user's smart wallet instance.
// The wallet address is derived deterministically from the owner and Index
// before deployment.
type DeployCallRequest struct {
	Owner common.Address
	Index *big.Int
	RelayData
}

// RelayMetadata is the out-of-band data accompanying a request. Only its
// presence matters to the estimation engine; signature verification happens
// elsewhere.
type RelayMetadata struct {
	Signature       []byte
	RelayHubAddress common.Address
}

// RelayTransactionRequest is the engine's request envelope: exactly one of
// Relay or Deploy is set. Use the constructors so malformed envelopes cannot
// be built.
type RelayTransactionRequest struct {
	Relay    *RelayCallRequest
	Deploy   *DeployCallRequest
	Metadata RelayMetadata
}

// NewRelayRequest wraps a relay call in a request envelope.
func NewRelayRequest(relay RelayCallRequest, metadata RelayMetadata) RelayTransactionRequest {
	return RelayTransactionRequest{Relay: &relay, Metadata: metadata}
}

// NewDeployRequest wraps a deploy call in a request envelope.
func NewDeployRequest(deploy DeployCallRequest, metadata RelayMetadata) RelayTransactionRequest {
	return RelayTransactionRequest{Deploy: &deploy, Metadata: metadata}
}

// IsDeploy reports whether the envelope carries a deploy call.
func (r RelayTransactionRequest) IsDeploy() bool {
	return r.Deploy != nil
}

// Kind returns the request discriminant as a string for logging and dispatch.
func (r RelayTransactionRequest) Kind() string {
	if r.IsDeploy() {
		return constants.DeployRequestKind
	}
	return constants.RelayRequestKind
}

// Data returns the relay parameters shared by both request kinds.
func (r RelayTransactionRequest) Data() RelayData {
	if r.IsDeploy() {
		return r.Deploy.RelayData
	}
	return r.Relay.RelayData
}

// Caller returns the account the fee-collecting token transfer is simulated
// from: the smart wallet for relay calls, the wallet owner for deploys (the
// wallet itself does not exist yet; see ContractInteractor.GetSmartWalletAddress).
func (r RelayTransactionRequest) Caller() common.Address {
	if r.IsDeploy() {
		return r.Deploy.Owner
	}
	return r.Relay.From
}
