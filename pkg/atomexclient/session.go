package atomexclient

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sigweihq/atomexplay/pkg/atomexapi"
	"github.com/sigweihq/atomexplay/pkg/chains"
	"github.com/sigweihq/atomexplay/pkg/types"
	"github.com/sigweihq/atomexplay/pkg/utils"
)

var orderValidator = validator.New(validator.WithRequiredStructEnabled())

// Session exposes the trading operations of an authenticated client
type Session struct {
	client         *Client
	identity       *chains.Identity
	helpers        chains.Helpers
	authentication *Authentication
}

// OrderDraft is an order as the user describes it, before proof of funds is attached
type OrderDraft struct {
	ClientOrderID string
	Symbol        string          `validate:"required"`
	Price         decimal.Decimal `validate:"-"`
	Qty           decimal.Decimal `validate:"-"`
	Side          string          `validate:"required,oneof=Buy Sell"`
	Type          string          `validate:"required,oneof=Return FillOrKill SolidFillOrKill ImmediateOrCancel"`
	Requisites    *types.Requisites
}

func (d *OrderDraft) validate() error {
	if err := orderValidator.Struct(d); err != nil {
		return fmt.Errorf("invalid order: %w", err)
	}
	if !d.Price.IsPositive() {
		return fmt.Errorf("invalid order: price must be positive, got %s", d.Price)
	}
	if !d.Qty.IsPositive() {
		return fmt.Errorf("invalid order: qty must be positive, got %s", d.Qty)
	}
	if d.Requisites != nil && d.Requisites.RewardForRedeem.IsNegative() {
		return fmt.Errorf("invalid order: reward for redeem must not be negative")
	}
	return nil
}

// Address returns the authenticated address
func (s *Session) Address() string {
	return s.identity.Address
}

// Authentication returns the request/response pair the session is bound to
func (s *Session) Authentication() *Authentication {
	return s.authentication
}

// GetOrders lists the user's orders
func (s *Session) GetOrders(ctx context.Context, params *atomexapi.ListParams) ([]types.Order, error) {
	return s.client.api.Orders.GetOrders(ctx, params)
}

// GetOrder fetches one of the user's orders
func (s *Session) GetOrder(ctx context.Context, orderID int64) (*types.Order, error) {
	return s.client.api.Orders.GetOrder(ctx, orderID)
}

// CancelOrder looks the order up for its symbol and side, then cancels it
func (s *Session) CancelOrder(ctx context.Context, orderID int64) (bool, error) {
	order, err := s.client.api.Orders.GetOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	canceled, err := s.client.api.Orders.CancelOrder(ctx, orderID, order.Symbol, order.Side)
	if err != nil {
		return false, err
	}
	s.client.logger.Info("order cancel requested", "order", orderID, "canceled", canceled)
	return canceled, nil
}

// ProofOfFunds builds the proof that the session's address pays for an order on symbol and side.
// The currency is the base asset when selling and the quote asset when buying.
func (s *Session) ProofOfFunds(symbol, side string) (*types.ProofOfFunds, error) {
	base, quote, err := utils.SplitSymbol(symbol)
	if err != nil {
		return nil, err
	}

	var currency string
	switch side {
	case types.SideSell:
		currency = base
	case types.SideBuy:
		currency = quote
	default:
		return nil, fmt.Errorf("invalid side %q", side)
	}

	request := s.authentication.Request
	return &types.ProofOfFunds{
		Address:   s.identity.Address,
		Currency:  currency,
		TimeStamp: request.TimeStamp,
		Message:   request.Message,
		PublicKey: request.PublicKey,
		Signature: request.Signature,
		Algorithm: request.Algorithm,
	}, nil
}

// CreateOrder attaches exactly one proof of funds to the draft and submits it
func (s *Session) CreateOrder(ctx context.Context, draft *OrderDraft) (*types.NewOrderResponse, error) {
	if err := draft.validate(); err != nil {
		return nil, err
	}

	proof, err := s.ProofOfFunds(draft.Symbol, draft.Side)
	if err != nil {
		return nil, err
	}

	clientOrderID := draft.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.NewString()
	}

	var requisites *types.Requisites
	if draft.Requisites != nil {
		copied := *draft.Requisites
		if copied.RefundAddress == "" {
			copied.RefundAddress = s.identity.Address
		}
		requisites = &copied
	}

	response, err := s.client.api.Orders.AddOrder(ctx, &types.NewOrderRequest{
		ClientOrderID: clientOrderID,
		Symbol:        draft.Symbol,
		Price:         draft.Price,
		Qty:           draft.Qty,
		Side:          draft.Side,
		Type:          draft.Type,
		ProofsOfFunds: []types.ProofOfFunds{*proof},
		Requisites:    requisites,
	})
	if err != nil {
		return nil, err
	}

	s.client.logger.Info("order created", "order", response.OrderID, "clientOrderId", clientOrderID, "symbol", draft.Symbol, "side", draft.Side)
	return response, nil
}

// GetSwaps lists the user's swaps
func (s *Session) GetSwaps(ctx context.Context, params *atomexapi.ListParams) ([]types.Swap, error) {
	return s.client.api.Swaps.GetSwaps(ctx, params)
}

// GetSwap fetches one of the user's swaps
func (s *Session) GetSwap(ctx context.Context, swapID int64) (*types.Swap, error) {
	return s.client.api.Swaps.GetSwap(ctx, swapID)
}
