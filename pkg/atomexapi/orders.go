package atomexapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sigweihq/atomexplay/pkg/types"
)

// OrdersClient serves the authenticated user's orders
type OrdersClient struct {
	baseURL    string
	httpClient *http.Client
	authClient *AuthClient // Reference to auth client for token management
}

func newOrdersClient(baseURL string, httpClient *http.Client, authClient *AuthClient) *OrdersClient {
	return &OrdersClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		authClient: authClient,
	}
}

// GetOrders lists the user's orders
// GET /v1/Orders?symbols=XTZ/ETH&limit=50&offset=0
func (c *OrdersClient) GetOrders(ctx context.Context, params *ListParams) ([]types.Order, error) {
	headers, err := c.authClient.authHeaders()
	if err != nil {
		return nil, err
	}
	if params == nil {
		params = &ListParams{}
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	u, err := url.Parse(fmt.Sprintf("%s/v1/Orders", c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	params.apply(u)

	var result []types.Order
	if err := httpRequest(ctx, c.httpClient, http.MethodGet, u.String(), nil, headers, &result); err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	return result, nil
}

// GetOrder fetches a single order
// GET /v1/Orders/{id}
func (c *OrdersClient) GetOrder(ctx context.Context, orderID int64) (*types.Order, error) {
	headers, err := c.authClient.authHeaders()
	if err != nil {
		return nil, err
	}

	var result types.Order
	url := fmt.Sprintf("%s/v1/Orders/%d", c.baseURL, orderID)
	if err := httpRequest(ctx, c.httpClient, http.MethodGet, url, nil, headers, &result); err != nil {
		return nil, fmt.Errorf("failed to get order %d: %w", orderID, err)
	}
	return &result, nil
}

// AddOrder submits a new order
// POST /v1/Orders
func (c *OrdersClient) AddOrder(ctx context.Context, order *types.NewOrderRequest) (*types.NewOrderResponse, error) {
	headers, err := c.authClient.authHeaders()
	if err != nil {
		return nil, err
	}

	var result types.NewOrderResponse
	url := fmt.Sprintf("%s/v1/Orders", c.baseURL)
	if err := httpRequest(ctx, c.httpClient, http.MethodPost, url, order, headers, &result); err != nil {
		return nil, fmt.Errorf("failed to add order: %w", err)
	}
	return &result, nil
}

// CancelOrder cancels an order; the backend needs the order's symbol and side
// DELETE /v1/Orders/{id}?symbol=XTZ/ETH&side=Buy
func (c *OrdersClient) CancelOrder(ctx context.Context, orderID int64, symbol, side string) (bool, error) {
	headers, err := c.authClient.authHeaders()
	if err != nil {
		return false, err
	}

	u, err := url.Parse(c.baseURL + "/v1/Orders/" + strconv.FormatInt(orderID, 10))
	if err != nil {
		return false, fmt.Errorf("failed to parse URL: %w", err)
	}
	q := u.Query()
	q.Set("symbol", symbol)
	q.Set("side", side)
	u.RawQuery = q.Encode()

	var result types.CancelOrderResponse
	if err := httpRequest(ctx, c.httpClient, http.MethodDelete, u.String(), nil, headers, &result); err != nil {
		return false, fmt.Errorf("failed to cancel order %d: %w", orderID, err)
	}
	return result.Result, nil
}
