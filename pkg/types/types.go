package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

// Order sides
const (
	SideBuy  = "Buy"
	SideSell = "Sell"
)

// Order types accepted by the trading backend
const (
	OrderTypeReturn            = "Return"
	OrderTypeFillOrKill        = "FillOrKill"
	OrderTypeSolidFillOrKill   = "SolidFillOrKill"
	OrderTypeImmediateOrCancel = "ImmediateOrCancel"
)

// Timestamp decodes the backend's time fields, which arrive either as ISO-8601
// strings (with or without a zone, UTC assumed) or as Unix milliseconds
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] != '"' {
		ms, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid timestamp %s: %w", data, err)
		}
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

// AuthTokenRequest is the signed challenge submitted to POST /v1/Token
type AuthTokenRequest struct {
	TimeStamp int64  `json:"timeStamp"`
	Message   string `json:"message"`
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
	Algorithm string `json:"algorithm"`
}

// AuthTokenResponse is the session token issued by the trading backend
type AuthTokenResponse struct {
	ID      string `json:"id"`
	Token   string `json:"token"`
	Expires int64  `json:"expires"` // Unix milliseconds
}

// ExpiresAt returns the token expiry as a time
func (r *AuthTokenResponse) ExpiresAt() time.Time {
	return time.UnixMilli(r.Expires)
}

// Claims decodes the session token's registered claims without verifying them.
// The backend signs the token; the playground only displays what it carries.
func (r *AuthTokenResponse) Claims() (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(r.Token, claims); err != nil {
		return nil, fmt.Errorf("failed to decode session token: %w", err)
	}
	return claims, nil
}

// Symbol is a tradable pair, e.g. "ETH/BTC"
type Symbol struct {
	Name       string          `json:"name"`
	MinimumQty decimal.Decimal `json:"minimumQty"`
}

// OrderBook is the aggregated book returned by GET /v1/MarketData/book
type OrderBook struct {
	UpdateID int64            `json:"updateId"`
	Symbol   string           `json:"symbol"`
	Entries  []OrderBookEntry `json:"entries"`
}

// OrderBookEntry is a price level; QtyProfile lists the individual order sizes
type OrderBookEntry struct {
	Side       string            `json:"side"`
	Price      decimal.Decimal   `json:"price"`
	QtyProfile []decimal.Decimal `json:"qtyProfile"`
}

// Qty returns the total quantity at this price level
func (e *OrderBookEntry) Qty() decimal.Decimal {
	total := decimal.Zero
	for _, qty := range e.QtyProfile {
		total = total.Add(qty)
	}
	return total
}

// ProofOfFunds proves control of the address an order will be paid from
type ProofOfFunds struct {
	Address   string `json:"address"`
	Currency  string `json:"currency"`
	TimeStamp int64  `json:"timeStamp"`
	Message   string `json:"message"`
	PublicKey string `json:"publicKey"`
	Signature string `json:"signature"`
	Algorithm string `json:"algorithm"`
}

// Requisites carry the swap parameters a party commits to
type Requisites struct {
	SecretHash       string          `json:"secretHash,omitempty"`
	ReceivingAddress string          `json:"receivingAddress,omitempty"`
	RefundAddress    string          `json:"refundAddress,omitempty"`
	RewardForRedeem  decimal.Decimal `json:"rewardForRedeem"`
	LockTime         int64           `json:"lockTime,omitempty"`
}

// NewOrderRequest is the body of POST /v1/Orders
type NewOrderRequest struct {
	ClientOrderID string          `json:"clientOrderId"`
	Symbol        string          `json:"symbol"`
	Price         decimal.Decimal `json:"price"`
	Qty           decimal.Decimal `json:"qty"`
	Side          string          `json:"side"`
	Type          string          `json:"type"`
	ProofsOfFunds []ProofOfFunds  `json:"proofsOfFunds"`
	Requisites    *Requisites     `json:"requisites,omitempty"`
}

// NewOrderResponse is returned by POST /v1/Orders
type NewOrderResponse struct {
	OrderID int64 `json:"orderId"`
}

// CancelOrderResponse is returned by DELETE /v1/Orders/{id}
type CancelOrderResponse struct {
	Result bool `json:"result"`
}

// Trade is a fill of an order
type Trade struct {
	OrderID int64           `json:"orderId"`
	Price   decimal.Decimal `json:"price"`
	Qty     decimal.Decimal `json:"qty"`
}

// Order represents a user order
type Order struct {
	ID            int64           `json:"id"`
	ClientOrderID string          `json:"clientOrderId"`
	Symbol        string          `json:"symbol"`
	Side          string          `json:"side"`
	TimeStamp     Timestamp       `json:"timeStamp"`
	Price         decimal.Decimal `json:"price"`
	Qty           decimal.Decimal `json:"qty"`
	LeaveQty      decimal.Decimal `json:"leaveQty"`
	Type          string          `json:"type"`
	Status        string          `json:"status"`
	Trades        []Trade         `json:"trades"`
	Swaps         []Swap          `json:"swaps"`
}

// SwapTransaction is an on-chain transaction observed for a swap party
type SwapTransaction struct {
	Currency      string `json:"currency"`
	TxID          string `json:"txId"`
	BlockHeight   int64  `json:"blockHeight"`
	Confirmations int64  `json:"confirmations"`
	Status        string `json:"status"`
	Type          string `json:"type"`
}

// SwapParty is one side of a swap
type SwapParty struct {
	Requisites   Requisites        `json:"requisites"`
	Status       string            `json:"status"`
	Trades       []Trade           `json:"trades"`
	Transactions []SwapTransaction `json:"transactions"`
}

// Swap represents a matched swap between the user and a counterparty
type Swap struct {
	ID           int64           `json:"id"`
	Symbol       string          `json:"symbol"`
	Side         string          `json:"side"`
	TimeStamp    Timestamp       `json:"timeStamp"`
	Price        decimal.Decimal `json:"price"`
	Qty          decimal.Decimal `json:"qty"`
	Secret       string          `json:"secret"`
	SecretHash   string          `json:"secretHash"`
	IsInitiator  bool            `json:"isInitiator"`
	User         SwapParty       `json:"user"`
	CounterParty SwapParty       `json:"counterParty"`
}
