package handlers

import (
	"fmt"
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/relaycore/relay-server/internal/constants"
	"github.com/relaycore/relay-server/internal/types"
)

// EstimationHandler handles fee estimation operations
type EstimationHandler struct {
	common *CommonServices
}

// NewEstimationHandler creates a new instance of EstimationHandler
func NewEstimationHandler(common *CommonServices) *EstimationHandler {
	return &EstimationHandler{common: common}
}

// RelayDataRequest carries the relay parameters shared by both request kinds.
// Big-number fields are decimal strings; addresses are 0x-prefixed hex.
type RelayDataRequest struct {
	GasPrice      string `json:"gas_price" binding:"required"`
	TokenContract string `json:"token_contract"`
	TokenSymbol   string `json:"token_symbol" binding:"required"`
	TokenDecimals *int32 `json:"token_decimals,omitempty"`
	TokenGas      string `json:"token_gas,omitempty"`
	FeesReceiver  string `json:"fees_receiver"`
}

// RelayCallPayload describes a forwarded call through a deployed smart wallet
type RelayCallPayload struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
	Data string `json:"data,omitempty"`
	Gas  string `json:"gas,omitempty"`
}

// DeployCallPayload describes a smart wallet deployment request
type DeployCallPayload struct {
	Owner string `json:"owner" binding:"required"`
	Index string `json:"index,omitempty"`
}

// EstimateRequest represents the request body for a fee estimation. Exactly
// one of relay_call and deploy_call must be set.
type EstimateRequest struct {
	RelayCall  *RelayCallPayload  `json:"relay_call,omitempty"`
	DeployCall *DeployCallPayload `json:"deploy_call,omitempty"`
	RelayData  RelayDataRequest   `json:"relay_data" binding:"required"`
	Signature  string             `json:"signature,omitempty"`
	RelayHub   string             `json:"relay_hub,omitempty"`
	Strategy   string             `json:"strategy,omitempty"`
}

// EstimationResponse represents the standardized API response for estimation operations
type EstimationResponse struct {
	Object         string `json:"object"`
	QuoteID        string `json:"quote_id"`
	Kind           string `json:"kind"`
	MaxPossibleGas string `json:"max_possible_gas"`
	GasPrice       string `json:"gas_price"`
	NativeCost     string `json:"native_cost"`
	TokenFee       string `json:"token_fee"`
	TokenSymbol    string `json:"token_symbol"`
	ExchangeRate   string `json:"exchange_rate"`
	EstimatedAt    int64  `json:"estimated_at"`
}

// Estimate godoc
// @Summary Estimate relay transaction fees
// @Description Computes the maximum possible gas for a relay or deploy request and the token fee charged for it
// @Tags estimation
// @Accept json
// @Produce json
// @Param request body EstimateRequest true "Estimation request"
// @Success 200 {object} EstimationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /estimate [post]
func (h *EstimationHandler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	txRequest, err := buildTransactionRequest(req)
	if err != nil {
		sendError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	strategy := req.Strategy
	if strategy == "" {
		strategy = constants.StandardEstimation
	}
	if strategy != constants.StandardEstimation && strategy != constants.LinearFitEstimation {
		sendError(c, http.StatusBadRequest, fmt.Sprintf("Unknown estimation strategy: %s", strategy), nil)
		return
	}

	estimation, err := h.common.quote.QuoteRelayTransactionWithStrategy(c.Request.Context(), txRequest, strategy)
	if err != nil {
		handleEstimationError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, EstimationResponse{
		Object:         "estimation",
		QuoteID:        estimation.QuoteID,
		Kind:           estimation.Kind,
		MaxPossibleGas: estimation.MaxPossibleGas.String(),
		GasPrice:       estimation.GasPrice.String(),
		NativeCost:     estimation.NativeCost.String(),
		TokenFee:       estimation.TokenFee.String(),
		TokenSymbol:    estimation.TokenSymbol,
		ExchangeRate:   estimation.ExchangeRate.String(),
		EstimatedAt:    estimation.EstimatedAt.Unix(),
	})
}

// buildTransactionRequest validates and converts the wire request into the
// engine's request envelope.
func buildTransactionRequest(req EstimateRequest) (types.RelayTransactionRequest, error) {
	var empty types.RelayTransactionRequest

	if (req.RelayCall == nil) == (req.DeployCall == nil) {
		return empty, fmt.Errorf("exactly one of relay_call and deploy_call must be set")
	}

	relayData, err := buildRelayData(req.RelayData)
	if err != nil {
		return empty, err
	}

	metadata := types.RelayMetadata{}
	if req.Signature != "" {
		sig, err := hexutil.Decode(req.Signature)
		if err != nil {
			return empty, fmt.Errorf("invalid signature: %w", err)
		}
		metadata.Signature = sig
	}
	if req.RelayHub != "" {
		hub, err := parseAddress(req.RelayHub, "relay_hub")
		if err != nil {
			return empty, err
		}
		metadata.RelayHubAddress = hub
	}

	if req.DeployCall != nil {
		owner, err := parseAddress(req.DeployCall.Owner, "owner")
		if err != nil {
			return empty, err
		}
		index := big.NewInt(0)
		if req.DeployCall.Index != "" {
			index, err = parseBigInt(req.DeployCall.Index, "index")
			if err != nil {
				return empty, err
			}
		}
		return types.NewDeployRequest(types.DeployCallRequest{
			Owner:     owner,
			Index:     index,
			RelayData: relayData,
		}, metadata), nil
	}

	from, err := parseAddress(req.RelayCall.From, "from")
	if err != nil {
		return empty, err
	}
	to, err := parseAddress(req.RelayCall.To, "to")
	if err != nil {
		return empty, err
	}
	var data []byte
	if req.RelayCall.Data != "" {
		data, err = hexutil.Decode(req.RelayCall.Data)
		if err != nil {
			return empty, fmt.Errorf("invalid call data: %w", err)
		}
	}
	var gas *big.Int
	if req.RelayCall.Gas != "" {
		gas, err = parseBigInt(req.RelayCall.Gas, "gas")
		if err != nil {
			return empty, err
		}
	}
	return types.NewRelayRequest(types.RelayCallRequest{
		From:      from,
		To:        to,
		Data:      data,
		Gas:       gas,
		RelayData: relayData,
	}, metadata), nil
}

func buildRelayData(req RelayDataRequest) (types.RelayData, error) {
	var empty types.RelayData

	gasPrice, err := parseBigInt(req.GasPrice, "gas_price")
	if err != nil {
		return empty, err
	}

	var tokenContract common.Address
	if req.TokenContract != "" {
		tokenContract, err = parseAddress(req.TokenContract, "token_contract")
		if err != nil {
			return empty, err
		}
	}

	token := types.NewExchangeToken(tokenContract, req.TokenSymbol)
	if req.TokenDecimals != nil {
		token = token.WithDecimals(*req.TokenDecimals)
	}

	var tokenGas *big.Int
	if req.TokenGas != "" {
		tokenGas, err = parseBigInt(req.TokenGas, "token_gas")
		if err != nil {
			return empty, err
		}
	}

	var feesReceiver common.Address
	if req.FeesReceiver != "" {
		feesReceiver, err = parseAddress(req.FeesReceiver, "fees_receiver")
		if err != nil {
			return empty, err
		}
	}

	return types.RelayData{
		GasPrice:     gasPrice,
		Token:        token,
		TokenGas:     tokenGas,
		FeesReceiver: feesReceiver,
	}, nil
}

func parseBigInt(value, field string) (*big.Int, error) {
	parsed, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return nil, fmt.Errorf("invalid %s: not a decimal integer", field)
	}
	if parsed.Sign() < 0 {
		return nil, fmt.Errorf("invalid %s: must not be negative", field)
	}
	return parsed, nil
}

func parseAddress(value, field string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid %s: not a hex address", field)
	}
	return common.HexToAddress(value), nil
}
