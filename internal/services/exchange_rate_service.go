package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/relaycore/relay-server/internal/logger"
	"github.com/relaycore/relay-server/internal/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExchangeRateService fronts the price oracle with a small TTL cache. A cache
// miss goes to the oracle; an oracle failure propagates to the caller
// unchanged — quoting against an invented fallback rate would silently
// mis-price relays, so there is deliberately no synthetic fallback here.
type ExchangeRateService struct {
	oracle       PriceOracle
	nativeSymbol string
	logger       *zap.Logger
	cache        map[string]*CachedRate
	cacheMutex   sync.RWMutex
	cacheTTL     time.Duration
}

// CachedRate represents a cached exchange rate with expiration
type CachedRate struct {
	Rate      decimal.Decimal
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// NewExchangeRateService creates a new exchange rate service quoting against
// the given native currency symbol.
func NewExchangeRateService(oracle PriceOracle, nativeSymbol string) *ExchangeRateService {
	return &ExchangeRateService{
		oracle:       oracle,
		nativeSymbol: nativeSymbol,
		logger:       logger.Log,
		cache:        make(map[string]*CachedRate),
		cacheMutex:   sync.RWMutex{},
		cacheTTL:     5 * time.Minute, // Cache rates for 5 minutes
	}
}

// GetExchangeRate returns the quoted rate of one unit of fromSymbol in
// toSymbol units.
func (s *ExchangeRateService) GetExchangeRate(ctx context.Context, fromSymbol, toSymbol string) (decimal.Decimal, error) {
	if fromSymbol == toSymbol {
		return decimal.NewFromInt(1), nil
	}

	cacheKey := fmt.Sprintf("%s_%s", fromSymbol, toSymbol)

	// Check cache first
	if rate := s.getCachedRate(cacheKey); rate != nil {
		return rate.Rate, nil
	}

	rate, err := s.oracle.GetExchangeRate(ctx, fromSymbol, toSymbol)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch exchange rate for %s/%s: %w", fromSymbol, toSymbol, err)
	}

	s.setCachedRate(cacheKey, rate)

	s.logger.Debug("Fetched exchange rate from oracle",
		zap.String("from", fromSymbol),
		zap.String("to", toSymbol),
		zap.String("rate", rate.String()))

	return rate, nil
}

// NativeSymbol returns the chain's native currency symbol rates are quoted
// against.
func (s *ExchangeRateService) NativeSymbol() string {
	return s.nativeSymbol
}

// GetXRateFor returns the exchange rate of one unit of the token in native
// currency, the rate ConvertGasToToken consumes.
func (s *ExchangeRateService) GetXRateFor(ctx context.Context, token types.ExchangeToken) (decimal.Decimal, error) {
	return s.GetExchangeRate(ctx, token.Symbol, s.nativeSymbol)
}

// getCachedRate retrieves rate from in-memory cache
func (s *ExchangeRateService) getCachedRate(key string) *CachedRate {
	s.cacheMutex.RLock()
	defer s.cacheMutex.RUnlock()

	if rate, exists := s.cache[key]; exists {
		if time.Now().Before(rate.ExpiresAt) {
			return rate
		}
	}

	return nil
}

// setCachedRate stores rate in in-memory cache
func (s *ExchangeRateService) setCachedRate(key string, rate decimal.Decimal) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	now := time.Now()
	s.cache[key] = &CachedRate{
		Rate:      rate,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.cacheTTL),
	}
}

// ClearCache clears all cached exchange rates
func (s *ExchangeRateService) ClearCache() {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()
	s.cache = make(map[string]*CachedRate)
}
