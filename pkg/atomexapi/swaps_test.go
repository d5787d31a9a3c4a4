package atomexapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSwapJSON = `{
	"id": 12,
	"symbol": "XTZ/ETH",
	"side": "Buy",
	"timeStamp": "2023-11-14T22:13:20Z",
	"price": 0.0006,
	"qty": 10,
	"secretHash": "",
	"isInitiator": true,
	"user": {"requisites": {"receivingAddress": "tz1user", "rewardForRedeem": 0}, "status": "Created"},
	"counterParty": {"requisites": {"receivingAddress": "0x2222222222222222222222222222222222222222", "rewardForRedeem": 0.001}, "status": "Created"}
}`

func newTestSwapsClient(serverURL, token string) *SwapsClient {
	auth := newAuthClient(serverURL, http.DefaultClient)
	auth.SetToken(token)
	return newSwapsClient(serverURL, http.DefaultClient, auth)
}

func TestSwapsClient_GetSwaps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/Swaps", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		w.Write([]byte(`[` + testSwapJSON + `]`))
	}))
	defer server.Close()

	client := newTestSwapsClient(server.URL, "token")
	swaps, err := client.GetSwaps(context.Background(), &ListParams{Limit: 20})
	require.NoError(t, err)
	require.Len(t, swaps, 1)
	assert.Equal(t, int64(12), swaps[0].ID)
	assert.True(t, swaps[0].IsInitiator)
}

func TestSwapsClient_GetSwap(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/Swaps/12", r.URL.Path)
		w.Write([]byte(testSwapJSON))
	}))
	defer server.Close()

	client := newTestSwapsClient(server.URL, "token")
	swap, err := client.GetSwap(context.Background(), 12)
	require.NoError(t, err)

	assert.Equal(t, int64(1700000000000), swap.TimeStamp.UnixMilli())
	assert.Equal(t, "0x2222222222222222222222222222222222222222", swap.CounterParty.Requisites.ReceivingAddress)
	assert.Equal(t, "0.001", swap.CounterParty.Requisites.RewardForRedeem.String())
}

func TestSwapsClient_RequiresToken(t *testing.T) {
	client := newTestSwapsClient("http://localhost", "")

	_, err := client.GetSwaps(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSessionToken)

	_, err = client.GetSwap(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoSessionToken)
}
