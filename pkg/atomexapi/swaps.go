package atomexapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sigweihq/atomexplay/pkg/types"
)

// SwapsClient serves the authenticated user's swaps
type SwapsClient struct {
	baseURL    string
	httpClient *http.Client
	authClient *AuthClient
}

func newSwapsClient(baseURL string, httpClient *http.Client, authClient *AuthClient) *SwapsClient {
	return &SwapsClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		authClient: authClient,
	}
}

// GetSwaps lists the user's swaps
// GET /v1/Swaps
func (c *SwapsClient) GetSwaps(ctx context.Context, params *ListParams) ([]types.Swap, error) {
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

	u, err := url.Parse(fmt.Sprintf("%s/v1/Swaps", c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	params.apply(u)

	var result []types.Swap
	if err := httpRequest(ctx, c.httpClient, http.MethodGet, u.String(), nil, headers, &result); err != nil {
		return nil, fmt.Errorf("failed to get swaps: %w", err)
	}
	return result, nil
}

// GetSwap fetches a single swap
// GET /v1/Swaps/{id}
func (c *SwapsClient) GetSwap(ctx context.Context, swapID int64) (*types.Swap, error) {
	headers, err := c.authClient.authHeaders()
	if err != nil {
		return nil, err
	}

	var result types.Swap
	url := fmt.Sprintf("%s/v1/Swaps/%d", c.baseURL, swapID)
	if err := httpRequest(ctx, c.httpClient, http.MethodGet, url, nil, headers, &result); err != nil {
		return nil, fmt.Errorf("failed to get swap %d: %w", swapID, err)
	}
	return &result, nil
}
