package coinmarketcap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	httpClient "github.com/relaycore/relay-server/internal/client/http"
	"github.com/relaycore/relay-server/internal/constants"
	"github.com/shopspring/decimal"
)

const (
	defaultBaseURL = "https://pro-api.coinmarketcap.com"
	defaultTimeout = 10 * time.Second

	// CoinMarketCap's standard plan allows 30 requests a minute.
	defaultRequestsPerSecond = 0.5
	defaultBurst             = 5
)

// ErrRateUnavailable marks quotes the API could not produce for the requested
// pair. Distinct from transport errors: the request worked, the pair has no
// price.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// Client manages communication with the CoinMarketCap API.
type Client struct {
	apiKey     string
	httpClient *httpClient.HTTPClient
	baseURL    string
}

// NewClient creates a new CoinMarketCap API client.
func NewClient(apiKey string) *Client {
	return NewClientWithBaseURL(apiKey, defaultBaseURL)
}

// NewClientWithBaseURL creates a client against a non-default API host.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	client := httpClient.NewHTTPClient(
		httpClient.WithBaseURL(baseURL),
		httpClient.WithTimeout(defaultTimeout),
		httpClient.WithRateLimit(defaultRequestsPerSecond, defaultBurst),
	)
	return &Client{
		apiKey:     apiKey,
		httpClient: client,
		baseURL:    baseURL,
	}
}

// --- CMC API Response Structs ---
// Prices are decoded as json.Number and lifted into decimal space; a float64
// on this path would corrupt fee amounts.

type CmcQuote struct {
	Price       json.Number `json:"price"`
	LastUpdated string      `json:"last_updated"`
}

type CmcQuoteMap map[string]CmcQuote // Keyed by target symbol (e.g., "USD")

type CmcTokenData struct {
	ID          int         `json:"id"`
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol"`
	Slug        string      `json:"slug"`
	LastUpdated string      `json:"last_updated"`
	Quote       CmcQuoteMap `json:"quote"`
}

// V2 uses an array even for a single symbol query
type CmcResponseData map[string][]CmcTokenData // Keyed by token symbol (e.g., "BTC")

type CmcStatus struct {
	Timestamp    string `json:"timestamp"`
	ErrorCode    int    `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	Elapsed      int    `json:"elapsed"`
	CreditCount  int    `json:"credit_count"`
}

type CmcAPIResponse struct {
	Status CmcStatus       `json:"status"`
	Data   CmcResponseData `json:"data"`
}

// GetLatestQuotes fetches the latest quotes for the given token symbols.
func (c *Client) GetLatestQuotes(ctx context.Context, tokenSymbols []string, convertSymbols []string) (*CmcAPIResponse, error) {
	if len(tokenSymbols) == 0 {
		return nil, fmt.Errorf("tokenSymbols cannot be empty")
	}

	endpointPath := "/v2/cryptocurrency/quotes/latest"

	if len(convertSymbols) == 0 {
		convertSymbols = []string{constants.USDCurrency}
	}

	requestOptions := []httpClient.RequestOption{
		httpClient.WithQueryParam("symbol", strings.ToUpper(strings.Join(tokenSymbols, ","))),
		httpClient.WithQueryParam("convert", strings.ToUpper(strings.Join(convertSymbols, ","))),
		httpClient.WithHeader("X-CMC_PRO_API_KEY", c.apiKey),
	}

	resp, err := c.httpClient.Get(ctx, endpointPath, requestOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotes from CoinMarketCap: %w", err)
	}

	var apiResponse CmcAPIResponse
	if err := c.httpClient.ProcessJSONResponse(resp, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to decode CoinMarketCap response: %w", err)
	}

	if apiResponse.Status.ErrorCode != 0 {
		return nil, fmt.Errorf("CoinMarketCap API error %d: %s", apiResponse.Status.ErrorCode, apiResponse.Status.ErrorMessage)
	}

	return &apiResponse, nil
}

// GetExchangeRate returns the quoted rate of one unit of symbol in
// targetCurrency. Implements the estimation engine's price oracle.
func (c *Client) GetExchangeRate(ctx context.Context, symbol, targetCurrency string) (decimal.Decimal, error) {
	symbol = strings.ToUpper(symbol)
	targetCurrency = strings.ToUpper(targetCurrency)

	response, err := c.GetLatestQuotes(ctx, []string{symbol}, []string{targetCurrency})
	if err != nil {
		return decimal.Zero, err
	}

	tokenData, exists := response.Data[symbol]
	if !exists || len(tokenData) == 0 {
		return decimal.Zero, fmt.Errorf("%w: no data for token %s", ErrRateUnavailable, symbol)
	}

	quote, exists := tokenData[0].Quote[targetCurrency]
	if !exists {
		return decimal.Zero, fmt.Errorf("%w: no %s quote for %s", ErrRateUnavailable, targetCurrency, symbol)
	}

	rate, err := decimal.NewFromString(quote.Price.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse %s/%s rate %q: %w", symbol, targetCurrency, quote.Price.String(), err)
	}

	return rate, nil
}
