package atomexclient

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/sigweihq/atomexplay/pkg/atomexapi"
	"github.com/sigweihq/atomexplay/pkg/chains"
	"github.com/sigweihq/atomexplay/pkg/types"
	"github.com/stretchr/testify/require"
)

var testNow = time.UnixMilli(1700000000000)

type fakeAdapter struct {
	chain       string
	currency    string
	identity    *chains.Identity
	identityErr error
	helpersErr  error
	helpers     *fakeHelpers
	derivations int
	closed      int
	mu          sync.Mutex
}

func (a *fakeAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed++
	return nil
}

func (a *fakeAdapter) Chain() string { return a.chain }

func (a *fakeAdapter) Currency() string { return a.currency }

func (a *fakeAdapter) DeriveIdentity(ctx context.Context) (*chains.Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.derivations++
	if a.identityErr != nil {
		return nil, a.identityErr
	}
	return a.identity, nil
}

func (a *fakeAdapter) NewHelpers(ctx context.Context) (chains.Helpers, error) {
	if a.helpersErr != nil {
		return nil, a.helpersErr
	}
	return a.helpers, nil
}

// SignMessage returns the message reversed so tests can tell what was signed
func (a *fakeAdapter) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	signature := make([]byte, len(message))
	for i, b := range message {
		signature[len(message)-1-i] = b
	}
	return signature, nil
}

type fakeHelpers struct {
	buildErr   error
	invokeErr  error
	initiation *chains.EscrowInitiation
	invoked    *chains.ContractCall
}

func (h *fakeHelpers) AuthMessage(message, address string, at time.Time) *chains.AuthMessage {
	ts := at.UnixMilli()
	return &chains.AuthMessage{
		Message:   message,
		TimeStamp: ts,
		MsgToSign: message + strconv.FormatInt(ts, 10),
		Algorithm: "Fake:Algorithm",
	}
}

func (h *fakeHelpers) EncodePublicKey(identity *chains.Identity) (string, error) {
	return "encoded-" + identity.PublicKey, nil
}

func (h *fakeHelpers) EncodeSignature(signature []byte) string {
	return hex.EncodeToString(signature)
}

func (h *fakeHelpers) BuildEscrowInitiation(ctx context.Context, initiation *chains.EscrowInitiation) (*chains.ContractCall, error) {
	h.initiation = initiation
	if h.buildErr != nil {
		return nil, h.buildErr
	}
	return &chains.ContractCall{
		Contract:   "0xswap",
		EntryPoint: "initiate",
		Value:      big.NewInt(1),
	}, nil
}

func (h *fakeHelpers) InvokeContract(ctx context.Context, call *chains.ContractCall) (string, error) {
	h.invoked = call
	if h.invokeErr != nil {
		return "", h.invokeErr
	}
	return "0xtxhash", nil
}

func newFakeAdapter(chain, currency string) *fakeAdapter {
	return &fakeAdapter{
		chain:    chain,
		currency: currency,
		identity: &chains.Identity{PublicKey: "pk-" + chain, Address: "addr-" + chain},
		helpers:  &fakeHelpers{},
	}
}

func newFakeRegistry(adapters ...*fakeAdapter) *chains.Registry {
	registry := chains.NewRegistry()
	for _, adapter := range adapters {
		registry.Register(adapter.chain, func(secretKey string) (chains.ChainAdapter, error) {
			if secretKey == "bad" {
				return nil, errors.New("invalid key")
			}
			return adapter, nil
		})
	}
	return registry
}

// fakeBackend records what the trading backend receives
type fakeBackend struct {
	mu           sync.Mutex
	tokenRequest *types.AuthTokenRequest
	newOrder     *types.NewOrderRequest
	cancelQuery  map[string]string
	authHeaders  []string
	swap         string
}

func newFakeBackend(t *testing.T) (*fakeBackend, *atomexapi.Client) {
	t.Helper()
	backend := &fakeBackend{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/Token", func(w http.ResponseWriter, r *http.Request) {
		var request types.AuthTokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&request))
		backend.mu.Lock()
		backend.tokenRequest = &request
		backend.mu.Unlock()
		json.NewEncoder(w).Encode(types.AuthTokenResponse{ID: "user", Token: "token-" + request.PublicKey, Expires: 1700003600000})
	})
	mux.HandleFunc("GET /v1/Orders", func(w http.ResponseWriter, r *http.Request) {
		backend.recordAuth(r)
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("GET /v1/Orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		backend.recordAuth(r)
		w.Write([]byte(`{"id":` + r.PathValue("id") + `,"symbol":"XTZ/ETH","side":"Sell"}`))
	})
	mux.HandleFunc("DELETE /v1/Orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		backend.recordAuth(r)
		backend.mu.Lock()
		backend.cancelQuery = map[string]string{
			"id":     r.PathValue("id"),
			"symbol": r.URL.Query().Get("symbol"),
			"side":   r.URL.Query().Get("side"),
		}
		backend.mu.Unlock()
		w.Write([]byte(`{"result":true}`))
	})
	mux.HandleFunc("POST /v1/Orders", func(w http.ResponseWriter, r *http.Request) {
		backend.recordAuth(r)
		var order types.NewOrderRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&order))
		backend.mu.Lock()
		backend.newOrder = &order
		backend.mu.Unlock()
		w.Write([]byte(`{"orderId":501}`))
	})
	mux.HandleFunc("GET /v1/Swaps/{id}", func(w http.ResponseWriter, r *http.Request) {
		backend.recordAuth(r)
		backend.mu.Lock()
		swap := backend.swap
		backend.mu.Unlock()
		if swap == "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(swap))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return backend, atomexapi.New(&atomexapi.Config{URL: server.URL})
}

func (b *fakeBackend) recordAuth(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.authHeaders = append(b.authHeaders, r.Header.Get("Authorization"))
}

func (b *fakeBackend) setSwap(swap string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.swap = swap
}

func (b *fakeBackend) lastAuthHeader() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.authHeaders) == 0 {
		return ""
	}
	return b.authHeaders[len(b.authHeaders)-1]
}

func newTestUser() *types.User {
	return types.NewUser("mm0", "Market Maker", map[string]string{
		"tez": "edsk-test",
		"eth": "eth-test",
	})
}

// newAuthenticatedClient returns an authenticated client for chain backed by a fake adapter
func newAuthenticatedClient(t *testing.T, chain, currency string) (*Client, *fakeAdapter, *fakeBackend) {
	t.Helper()
	adapter := newFakeAdapter(chain, currency)
	backend, api := newFakeBackend(t)

	client, err := New(newTestUser(), chain, "testnet", newFakeRegistry(adapter), api, nil)
	require.NoError(t, err)
	client.now = func() time.Time { return testNow }

	require.NoError(t, client.Initialize(context.Background()))
	require.NoError(t, client.Authenticate(context.Background()))
	return client, adapter, backend
}
