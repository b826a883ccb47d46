package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/relaycore/relay-server/internal/client/chain"
	"github.com/relaycore/relay-server/internal/client/coinmarketcap"
	"github.com/relaycore/relay-server/internal/logger"
	"github.com/relaycore/relay-server/internal/services"
	"go.uber.org/zap"
)

// CommonServices holds common dependencies used across handlers
type CommonServices struct {
	quote        *services.QuoteService
	estimation   *services.EstimationService
	exchangeRate *services.ExchangeRateService
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// NewCommonServices creates a new instance of CommonServices
func NewCommonServices(quote *services.QuoteService, estimation *services.EstimationService, exchangeRate *services.ExchangeRateService) *CommonServices {
	return &CommonServices{
		quote:        quote,
		estimation:   estimation,
		exchangeRate: exchangeRate,
	}
}

// sendError is a helper function that combines logging and error response
// It logs the error with the given message and sends a JSON error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// handleEstimationError maps estimation failures to HTTP status codes
func handleEstimationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLinearFitDeployNotSupported):
		sendError(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, chain.ErrSimulationReverted):
		sendError(c, http.StatusUnprocessableEntity, "Destination call reverts during simulation", err)
	case errors.Is(err, coinmarketcap.ErrRateUnavailable):
		sendError(c, http.StatusBadGateway, "Exchange rate unavailable for token", err)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// sendSuccess is a helper function that sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}
