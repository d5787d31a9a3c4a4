package atomexclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/sigweihq/atomexplay/pkg/atomexapi"
	"github.com/sigweihq/atomexplay/pkg/chains"
	"github.com/sigweihq/atomexplay/pkg/constants"
	"github.com/sigweihq/atomexplay/pkg/types"
	"golang.org/x/sync/errgroup"
)

// Authentication pairs the signed token request with the token it produced
type Authentication struct {
	Request  *types.AuthTokenRequest  `json:"request"`
	Response *types.AuthTokenResponse `json:"response"`
}

// state is the client lifecycle: nil (uninitialized), *initializedState or *authenticatedState
type state interface {
	initialized() *initializedState
}

type initializedState struct {
	identity *chains.Identity
	helpers  chains.Helpers
}

func (s *initializedState) initialized() *initializedState { return s }

type authenticatedState struct {
	initializedState
	authentication *Authentication
}

// Client talks to the trading backend on behalf of one user on one chain
type Client struct {
	id      string
	user    *types.User
	chain   string
	network string
	adapter chains.ChainAdapter
	api     *atomexapi.Client
	logger  *slog.Logger
	now     func() time.Time

	mu    sync.RWMutex
	state state
}

// New creates an uninitialized client for the user's key on chain.
// The client gets its own token store cloned from api.
func New(user *types.User, chain, network string, registry *chains.Registry, api *atomexapi.Client, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	secretKey, ok := user.SecretKey(chain)
	if !ok {
		return nil, fmt.Errorf("%w: user %s has no %s key", ErrMissingSecretKey, user.ID(), chain)
	}

	adapter, err := registry.New(chain, secretKey)
	if err != nil {
		return nil, err
	}

	id := ClientID(user.ID(), chain)
	return &Client{
		id:      id,
		user:    user,
		chain:   chain,
		network: network,
		adapter: adapter,
		api:     api.Clone(),
		logger:  logger.With("client", id),
		now:     time.Now,
	}, nil
}

// ClientID returns the lookup key of a user's client on a chain
func ClientID(userID, chain string) string {
	return userID + "_" + chain
}

func (c *Client) ID() string { return c.id }

func (c *Client) User() *types.User { return c.user }

func (c *Client) Chain() string { return c.chain }

func (c *Client) Network() string { return c.network }

func (c *Client) Currency() string { return c.adapter.Currency() }

// API returns the client's backend handle, which carries its session token
func (c *Client) API() *atomexapi.Client { return c.api }

// Initialize derives the identity and the chain helpers concurrently.
// Calling it again re-derives both and drops any authentication.
func (c *Client) Initialize(ctx context.Context) error {
	var (
		identity *chains.Identity
		helpers  chains.Helpers
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		identity, err = c.adapter.DeriveIdentity(gctx)
		if err != nil {
			return fmt.Errorf("failed to derive identity: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		helpers, err = c.adapter.NewHelpers(gctx)
		if err != nil {
			return fmt.Errorf("failed to create helpers: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to initialize %s: %w", c.id, err)
	}

	c.mu.Lock()
	c.state = &initializedState{identity: identity, helpers: helpers}
	c.mu.Unlock()
	c.api.Auth.ClearToken()

	c.logger.Debug("client initialized", "address", identity.Address)
	return nil
}

// Close releases the chain adapter's resources, such as an open node connection
func (c *Client) Close() error {
	if closer, ok := c.adapter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Authenticate signs the sign-in challenge and exchanges it for a session token
func (c *Client) Authenticate(ctx context.Context) error {
	current, err := c.initialized()
	if err != nil {
		return err
	}

	message := current.helpers.AuthMessage(constants.AuthenticationMessage, current.identity.Address, c.now())
	signature, err := c.adapter.SignMessage(ctx, []byte(message.MsgToSign))
	if err != nil {
		return fmt.Errorf("failed to sign auth message: %w", err)
	}
	publicKey, err := current.helpers.EncodePublicKey(current.identity)
	if err != nil {
		return fmt.Errorf("failed to encode public key: %w", err)
	}

	request := &types.AuthTokenRequest{
		TimeStamp: message.TimeStamp,
		Message:   message.Message,
		PublicKey: publicKey,
		Signature: current.helpers.EncodeSignature(signature),
		Algorithm: message.Algorithm,
	}
	response, err := c.api.Auth.CreateToken(ctx, request)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.state = &authenticatedState{
		initializedState: *current,
		authentication:   &Authentication{Request: request, Response: response},
	}
	c.mu.Unlock()

	c.logger.Info("client authenticated", "address", current.identity.Address, "expires", response.ExpiresAt())
	return nil
}

func (c *Client) initialized() (*initializedState, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state == nil {
		return nil, ErrNotInitialized
	}
	return c.state.initialized(), nil
}

func (c *Client) authenticated() (*authenticatedState, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.state == nil {
		return nil, ErrNotInitialized
	}
	s, ok := c.state.(*authenticatedState)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return s, nil
}

// IsInitialized reports whether Initialize has completed
func (c *Client) IsInitialized() bool {
	_, err := c.initialized()
	return err == nil
}

// IsAuthenticated reports whether Authenticate has succeeded since the last Initialize
func (c *Client) IsAuthenticated() bool {
	_, err := c.authenticated()
	return err == nil
}

// UserPublicKey returns the chain public key; ErrNotInitialized before Initialize
func (c *Client) UserPublicKey() (string, error) {
	s, err := c.initialized()
	if err != nil {
		return "", err
	}
	return s.identity.PublicKey, nil
}

// UserAddress returns the chain address; ErrNotInitialized before Initialize
func (c *Client) UserAddress() (string, error) {
	s, err := c.initialized()
	if err != nil {
		return "", err
	}
	return s.identity.Address, nil
}

// Helpers returns the chain helpers; ErrNotInitialized before Initialize
func (c *Client) Helpers() (chains.Helpers, error) {
	s, err := c.initialized()
	if err != nil {
		return nil, err
	}
	return s.helpers, nil
}

// Authentication returns the stored request/response pair
func (c *Client) Authentication() (*Authentication, error) {
	s, err := c.authenticated()
	if err != nil {
		return nil, err
	}
	return s.authentication, nil
}

// Session returns the trading operations bound to the current authentication
func (c *Client) Session() (*Session, error) {
	s, err := c.authenticated()
	if err != nil {
		return nil, err
	}
	return &Session{
		client:         c,
		identity:       s.identity,
		helpers:        s.helpers,
		authentication: s.authentication,
	}, nil
}
