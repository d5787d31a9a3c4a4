package atomexapi

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sigweihq/atomexplay/pkg/constants"
	"github.com/sigweihq/atomexplay/pkg/utils"
)

// DefaultURL is the trading backend used when no valid URL is configured
const DefaultURL = constants.AtomexAPITestnet

// Config configures a backend client
type Config struct {
	URL        string
	HTTPClient *http.Client // nil means utils.CreateHTTPClientWithTimeouts
	Logger     *slog.Logger
}

// Client provides access to the Atomex REST API.
// Market data is public; orders and swaps need the session token held by Auth.
type Client struct {
	URL        string
	HTTPClient *http.Client

	// Auth issues and holds the session token
	// Endpoints: /v1/Token
	Auth *AuthClient

	// MarketData serves public market data
	// Endpoints: /v1/Symbols, /v1/MarketData/book
	MarketData *MarketDataClient

	// Orders serves the authenticated user's orders
	// Endpoints: /v1/Orders
	Orders *OrdersClient

	// Swaps serves the authenticated user's swaps
	// Endpoints: /v1/Swaps
	Swaps *SwapsClient

	logger *slog.Logger
}

// New creates a backend client with all sub-clients initialized
// The sub-clients share the same HTTP client, base URL and token store
func New(config *Config) *Client {
	if config == nil {
		config = &Config{URL: DefaultURL}
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Endpoint paths carry the API version, so a configured /v1 suffix is dropped
	baseURL := strings.TrimSuffix(strings.TrimRight(config.URL, "/"), "/v1")
	// Validate URL security - fall back to default if invalid
	if err := utils.ValidateAPIURL(baseURL); err != nil {
		logger.Warn("invalid API URL, using default", "url", config.URL, "default", DefaultURL, "error", err)
		baseURL = DefaultURL
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = utils.CreateHTTPClientWithTimeouts()
	}

	authClient := newAuthClient(baseURL, httpClient)

	return &Client{
		URL:        baseURL,
		HTTPClient: httpClient,
		Auth:       authClient,
		MarketData: newMarketDataClient(baseURL, httpClient),
		Orders:     newOrdersClient(baseURL, httpClient, authClient),
		Swaps:      newSwapsClient(baseURL, httpClient, authClient),
		logger:     logger,
	}
}

// Clone returns a client for the same backend with its own, empty token store
func (c *Client) Clone() *Client {
	return New(&Config{URL: c.URL, HTTPClient: c.HTTPClient, Logger: c.logger})
}
