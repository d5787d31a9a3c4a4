package atomexapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sigweihq/atomexplay/pkg/types"
)

// MarketDataClient serves public market data
type MarketDataClient struct {
	baseURL    string
	httpClient *http.Client
}

func newMarketDataClient(baseURL string, httpClient *http.Client) *MarketDataClient {
	return &MarketDataClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// GetSymbols lists the tradable pairs
// GET /v1/Symbols
func (c *MarketDataClient) GetSymbols(ctx context.Context) ([]types.Symbol, error) {
	var result []types.Symbol
	if err := httpRequest(ctx, c.httpClient, http.MethodGet, fmt.Sprintf("%s/v1/Symbols", c.baseURL), nil, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to get symbols: %w", err)
	}
	return result, nil
}

// GetOrderBook returns the aggregated order book for a symbol
// GET /v1/MarketData/book?symbol=XTZ/ETH
func (c *MarketDataClient) GetOrderBook(ctx context.Context, symbol string) (*types.OrderBook, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol is required")
	}

	u, err := url.Parse(fmt.Sprintf("%s/v1/MarketData/book", c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	q := u.Query()
	q.Set("symbol", symbol)
	u.RawQuery = q.Encode()

	var result types.OrderBook
	if err := httpRequest(ctx, c.httpClient, http.MethodGet, u.String(), nil, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to get order book: %w", err)
	}
	return &result, nil
}
