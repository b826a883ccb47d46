package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RateHandler handles exchange rate lookups
type RateHandler struct {
	common *CommonServices
}

// NewRateHandler creates a new instance of RateHandler
func NewRateHandler(common *CommonServices) *RateHandler {
	return &RateHandler{common: common}
}

// RateResponse represents the standardized API response for rate operations
type RateResponse struct {
	Object       string `json:"object"`
	TokenSymbol  string `json:"token_symbol"`
	NativeSymbol string `json:"native_symbol"`
	Rate         string `json:"rate"`
}

// GetTokenRate godoc
// @Summary Get token exchange rate
// @Description Returns the token-per-native exchange rate used for fee conversion
// @Tags rates
// @Accept json
// @Produce json
// @Param symbol path string true "Token symbol"
// @Success 200 {object} RateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /tokens/{symbol}/rate [get]
func (h *RateHandler) GetTokenRate(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
	if symbol == "" {
		sendError(c, http.StatusBadRequest, "Token symbol is required", nil)
		return
	}

	rate, err := h.common.exchangeRate.GetExchangeRate(c.Request.Context(), symbol, h.common.exchangeRate.NativeSymbol())
	if err != nil {
		handleEstimationError(c, err)
		return
	}

	sendSuccess(c, http.StatusOK, RateResponse{
		Object:       "exchange_rate",
		TokenSymbol:  symbol,
		NativeSymbol: h.common.exchangeRate.NativeSymbol(),
		Rate:         rate.String(),
	})
}
