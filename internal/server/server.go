package server

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/relaycore/relay-server/internal/client/chain"
	"github.com/relaycore/relay-server/internal/client/coinmarketcap"
	"github.com/relaycore/relay-server/internal/config"
	"github.com/relaycore/relay-server/internal/handlers"
	"github.com/relaycore/relay-server/internal/logger"
	"github.com/relaycore/relay-server/internal/middleware"
	"github.com/relaycore/relay-server/internal/services"
	"go.uber.org/zap"
)

// Handler Definitions
var (
	estimationHandler *handlers.EstimationHandler
	rateHandler       *handlers.RateHandler
	healthHandler     *handlers.HealthHandler
)

// InitializeHandlers builds the chain client, the price oracle and the
// estimation services, then wires the API handlers on top of them.
func InitializeHandlers(cfg *config.Config) error {
	chainClient, err := chain.NewClient(chain.Config{
		RPCURL:             cfg.RPCURL,
		RelayHubAddress:    cfg.RelayHubAddress,
		WalletFactory:      cfg.WalletFactory,
		WalletInitCodeHash: cfg.WalletInitCodeHash,
	})
	if err != nil {
		return err
	}

	oracle := coinmarketcap.NewClient(cfg.CoinMarketCapAPIKey)

	estimationService := services.NewEstimationService(chainClient)
	exchangeRateService := services.NewExchangeRateService(oracle, cfg.NativeSymbol)
	quoteService := services.NewQuoteService(estimationService, exchangeRateService, cfg.RelayWorkerAddress)

	commonServices := handlers.NewCommonServices(quoteService, estimationService, exchangeRateService)

	estimationHandler = handlers.NewEstimationHandler(commonServices)
	rateHandler = handlers.NewRateHandler(commonServices)
	healthHandler = handlers.NewHealthHandler()

	logger.Info("Handlers initialized",
		zap.String("relay_hub", cfg.RelayHubAddress.Hex()),
		zap.String("relay_worker", cfg.RelayWorkerAddress.Hex()),
		zap.String("native_symbol", cfg.NativeSymbol))

	return nil
}

// InitializeRoutes configures the middleware chain and registers the routes.
func InitializeRoutes(router *gin.Engine) {
	// Configure and apply CORS middleware
	router.Use(configureCORS())

	// Correlation IDs for request tracing
	router.Use(middleware.CorrelationIDMiddleware())

	// Per-client rate limiting
	rateLimiter := middleware.NewRateLimiter(10, 20)
	router.Use(rateLimiter.Middleware())

	// Health check
	router.GET("/health", healthHandler.Health)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.POST("/estimate", estimationHandler.Estimate)
		v1.GET("/tokens/:symbol/rate", rateHandler.GetTokenRate)
	}
}

// configureCORS returns a configured CORS middleware
func configureCORS() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv == "" {
		// Default to localhost if not set
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	} else {
		// Split and trim the origins
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		corsConfig.AllowOrigins = origins
	}

	// Get allowed methods from environment variable
	methodsEnv := os.Getenv("CORS_ALLOWED_METHODS")
	if methodsEnv == "" {
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	} else {
		methods := strings.Split(methodsEnv, ",")
		for i, method := range methods {
			methods[i] = strings.TrimSpace(method)
		}
		corsConfig.AllowMethods = methods
	}

	// Get allowed headers from environment variable
	headersEnv := os.Getenv("CORS_ALLOWED_HEADERS")
	if headersEnv == "" {
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "X-Correlation-ID"}
	} else {
		headers := strings.Split(headersEnv, ",")
		for i, header := range headers {
			headers[i] = strings.TrimSpace(header)
		}
		corsConfig.AllowHeaders = headers
	}

	// Set credentials allowed
	corsConfig.AllowCredentials = os.Getenv("CORS_ALLOW_CREDENTIALS") == "true"

	return cors.New(corsConfig)
}
