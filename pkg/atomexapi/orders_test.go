package atomexapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sigweihq/atomexplay/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOrdersClient(serverURL, token string) *OrdersClient {
	auth := newAuthClient(serverURL, http.DefaultClient)
	auth.SetToken(token)
	return newOrdersClient(serverURL, http.DefaultClient, auth)
}

func TestOrdersClient_GetOrders(t *testing.T) {
	tests := []struct {
		name          string
		token         string
		params        *ListParams
		expectedQuery map[string]string
		expectedError bool
		errorContains string
	}{
		{
			name:          "all params",
			token:         "valid-token",
			params:        &ListParams{Symbol: "XTZ/ETH", Limit: 10, Offset: 5, SortAsc: true},
			expectedQuery: map[string]string{"symbols": "XTZ/ETH", "limit": "10", "offset": "5", "sortAsc": "true"},
		},
		{
			name:          "defaults",
			token:         "valid-token",
			params:        nil,
			expectedQuery: map[string]string{"symbols": "", "limit": "", "offset": ""},
		},
		{
			name:          "not authenticated",
			token:         "",
			expectedError: true,
			errorContains: "not authenticated",
		},
		{
			name:          "limit too large",
			token:         "valid-token",
			params:        &ListParams{Limit: MaxListLimit + 1},
			expectedError: true,
			errorContains: "limit must be between",
		},
		{
			name:          "negative offset",
			token:         "valid-token",
			params:        &ListParams{Offset: -1},
			expectedError: true,
			errorContains: "offset must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/Orders", r.URL.Path)
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "Bearer "+tt.token, r.Header.Get("Authorization"))
				for key, value := range tt.expectedQuery {
					assert.Equal(t, value, r.URL.Query().Get(key), key)
				}
				w.Write([]byte(`[{"id":1,"symbol":"XTZ/ETH","side":"Buy","price":0.0006,"qty":10,"leaveQty":10,"type":"Return","status":"Placed","timeStamp":"2023-11-14T22:13:20Z"}]`))
			}))
			defer server.Close()

			client := newTestOrdersClient(server.URL, tt.token)
			orders, err := client.GetOrders(context.Background(), tt.params)

			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			require.Len(t, orders, 1)
			assert.Equal(t, int64(1), orders[0].ID)
			assert.Equal(t, "Placed", orders[0].Status)
		})
	}
}

func TestOrdersClient_GetOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/Orders/7" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"id":7,"symbol":"XTZ/ETH","side":"Sell"}`))
	}))
	defer server.Close()

	client := newTestOrdersClient(server.URL, "token")
	order, err := client.GetOrder(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Sell", order.Side)

	_, err = client.GetOrder(context.Background(), 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get order 8")
}

func TestOrdersClient_AddOrder(t *testing.T) {
	order := &types.NewOrderRequest{
		ClientOrderID: "client-1",
		Symbol:        "XTZ/ETH",
		Price:         decimal.RequireFromString("0.0006"),
		Qty:           decimal.RequireFromString("10"),
		Side:          types.SideBuy,
		Type:          types.OrderTypeReturn,
		ProofsOfFunds: []types.ProofOfFunds{{Address: "0xabc", Currency: "ETH"}},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/Orders", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "client-1", body["clientOrderId"])
		assert.Equal(t, "Buy", body["side"])
		assert.Len(t, body["proofsOfFunds"], 1)
		assert.NotContains(t, body, "requisites")

		w.Write([]byte(`{"orderId":99}`))
	}))
	defer server.Close()

	client := newTestOrdersClient(server.URL, "token")
	result, err := client.AddOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, int64(99), result.OrderID)
}

func TestOrdersClient_CancelOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/Orders/5", r.URL.Path)
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "XTZ/ETH", r.URL.Query().Get("symbol"))
		assert.Equal(t, "Sell", r.URL.Query().Get("side"))
		w.Write([]byte(`{"result":true}`))
	}))
	defer server.Close()

	client := newTestOrdersClient(server.URL, "token")
	ok, err := client.CancelOrder(context.Background(), 5, "XTZ/ETH", "Sell")
	require.NoError(t, err)
	assert.True(t, ok)
}
