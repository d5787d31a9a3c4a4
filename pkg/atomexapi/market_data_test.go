package atomexapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketDataClient_GetOrderBook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/MarketData/book", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "XTZ/ETH", r.URL.Query().Get("symbol"))
		assert.Empty(t, r.Header.Get("Authorization"))

		w.Write([]byte(`{
			"updateId": 42,
			"symbol": "XTZ/ETH",
			"entries": [
				{"side": "Buy", "price": 0.00061, "qtyProfile": [10, 5.5]},
				{"side": "Sell", "price": 0.00063, "qtyProfile": [7]}
			]
		}`))
	}))
	defer server.Close()

	client := newMarketDataClient(server.URL, http.DefaultClient)
	book, err := client.GetOrderBook(context.Background(), "XTZ/ETH")
	require.NoError(t, err)

	assert.Equal(t, int64(42), book.UpdateID)
	require.Len(t, book.Entries, 2)
	assert.Equal(t, "Buy", book.Entries[0].Side)
	assert.Equal(t, "0.00061", book.Entries[0].Price.String())
	assert.Equal(t, "15.5", book.Entries[0].Qty().String())
}

func TestMarketDataClient_GetOrderBookErrors(t *testing.T) {
	client := newMarketDataClient("http://localhost", http.DefaultClient)
	_, err := client.GetOrderBook(context.Background(), "")
	assert.Error(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":2001,"message":"Unknown symbol"}`))
	}))
	defer server.Close()

	client = newMarketDataClient(server.URL, http.DefaultClient)
	_, err = client.GetOrderBook(context.Background(), "FOO/BAR")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get order book")
	assert.Contains(t, err.Error(), "Unknown symbol")
}

func TestMarketDataClient_GetSymbols(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/Symbols", r.URL.Path)
		w.Write([]byte(`[{"name":"XTZ/ETH","minimumQty":1},{"name":"ETH/BTC","minimumQty":0.001}]`))
	}))
	defer server.Close()

	client := newMarketDataClient(server.URL, http.DefaultClient)
	symbols, err := client.GetSymbols(context.Background())
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.Equal(t, "XTZ/ETH", symbols[0].Name)
	assert.Equal(t, "0.001", symbols[1].MinimumQty.String())
}
