package atomexapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/sigweihq/atomexplay/pkg/types"
)

// ErrNoSessionToken is returned by authenticated endpoints before a token was issued
var ErrNoSessionToken = errors.New("not authenticated: no session token")

// AuthClient exchanges signed challenges for session tokens and stores the current one
type AuthClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
	tokenMutex sync.RWMutex
}

// newAuthClient creates a new auth client (internal constructor)
func newAuthClient(baseURL string, httpClient *http.Client) *AuthClient {
	return &AuthClient{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// CreateToken submits a signed challenge and stores the issued token
// POST /v1/Token
func (c *AuthClient) CreateToken(ctx context.Context, request *types.AuthTokenRequest) (*types.AuthTokenResponse, error) {
	url := fmt.Sprintf("%s/v1/Token", c.baseURL)

	var result types.AuthTokenResponse
	if err := httpRequest(ctx, c.httpClient, http.MethodPost, url, request, nil, &result); err != nil {
		return nil, fmt.Errorf("failed to create session token: %w", err)
	}
	if result.Token == "" {
		return nil, fmt.Errorf("failed to create session token: empty token in response")
	}

	c.SetToken(result.Token)

	return &result, nil
}

// SetToken stores the session token (thread-safe)
func (c *AuthClient) SetToken(token string) {
	c.tokenMutex.Lock()
	defer c.tokenMutex.Unlock()
	c.token = token
}

// GetToken retrieves the current session token (thread-safe)
func (c *AuthClient) GetToken() string {
	c.tokenMutex.RLock()
	defer c.tokenMutex.RUnlock()
	return c.token
}

// ClearToken clears the stored session token (thread-safe)
func (c *AuthClient) ClearToken() {
	c.tokenMutex.Lock()
	defer c.tokenMutex.Unlock()
	c.token = ""
}

// IsAuthenticated returns true if a session token is available
func (c *AuthClient) IsAuthenticated() bool {
	c.tokenMutex.RLock()
	defer c.tokenMutex.RUnlock()
	return c.token != ""
}

// authHeaders returns the bearer header for authenticated endpoints
func (c *AuthClient) authHeaders() (map[string]string, error) {
	token := c.GetToken()
	if token == "" {
		return nil, ErrNoSessionToken
	}
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}, nil
}
