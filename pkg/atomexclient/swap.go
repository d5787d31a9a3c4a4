package atomexclient

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sigweihq/atomexplay/pkg/chains"
	"github.com/sigweihq/atomexplay/pkg/constants"
	"github.com/sigweihq/atomexplay/pkg/types"
	"github.com/sigweihq/atomexplay/pkg/utils"
)

// InitiateSwapOptions override the defaults of InitiateSwap
type InitiateSwapOptions struct {
	RewardForRedeem   *decimal.Decimal // nil means the reward in the user's requisites
	ExpirationMinutes int              // 0 means constants.DefaultExpirationMinutes
	Secret            string           // empty means a random secret
}

// SwapInitiation is the outcome of locking funds for a swap
type SwapInitiation struct {
	SwapID     int64
	Secret     string
	SecretHash string
	RefundTime time.Time
	Contract   string
	TxID       string
}

// InitiateSwap locks the user's side of a swap in the chain's swap contract.
// The user pays qty when selling and qty*price when buying, in the currency of this client's chain.
func (s *Session) InitiateSwap(ctx context.Context, swapID int64, opts InitiateSwapOptions) (*SwapInitiation, error) {
	swap, err := s.client.api.Swaps.GetSwap(ctx, swapID)
	if err != nil {
		return nil, err
	}

	currency, amount, err := paymentOf(swap)
	if err != nil {
		return nil, err
	}
	if currency != s.client.Currency() {
		return nil, fmt.Errorf("%w: swap %d is paid in %s, %s holds %s", ErrCurrencyMismatch, swapID, currency, s.client.id, s.client.Currency())
	}

	participant := swap.CounterParty.Requisites.ReceivingAddress
	if participant == "" {
		return nil, fmt.Errorf("swap %d has no counterparty receiving address yet", swapID)
	}

	secret := opts.Secret
	if secret == "" {
		secret = utils.GenerateSecret()
	}
	secretHash := utils.SecretHash(secret)

	minutes := opts.ExpirationMinutes
	if minutes <= 0 {
		minutes = constants.DefaultExpirationMinutes
	}
	refundTime, err := utils.RefundTime(swap.TimeStamp.Time, minutes)
	if err != nil {
		return nil, err
	}

	reward := swap.User.Requisites.RewardForRedeem
	if opts.RewardForRedeem != nil {
		reward = *opts.RewardForRedeem
	}

	call, err := s.helpers.BuildEscrowInitiation(ctx, &chains.EscrowInitiation{
		Participant:     participant,
		SecretHash:      secretHash,
		RefundTime:      refundTime,
		Amount:          amount,
		RewardForRedeem: reward,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build initiation of swap %d: %w", swapID, err)
	}

	txID, err := s.helpers.InvokeContract(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("failed to initiate swap %d: %w", swapID, err)
	}

	s.client.logger.Info("swap initiated",
		"swap", swapID,
		"contract", call.Contract,
		"tx", txID,
		"amount", amount,
		"currency", currency,
		"refundTime", refundTime,
	)

	return &SwapInitiation{
		SwapID:     swapID,
		Secret:     secret,
		SecretHash: utils.SecretHashHex(secret),
		RefundTime: refundTime,
		Contract:   call.Contract,
		TxID:       txID,
	}, nil
}

// paymentOf returns the currency and amount the user pays into a swap
func paymentOf(swap *types.Swap) (string, decimal.Decimal, error) {
	base, quote, err := utils.SplitSymbol(swap.Symbol)
	if err != nil {
		return "", decimal.Zero, err
	}

	switch swap.Side {
	case types.SideSell:
		return base, swap.Qty, nil
	case types.SideBuy:
		return quote, swap.Qty.Mul(swap.Price), nil
	default:
		return "", decimal.Zero, fmt.Errorf("swap %d has invalid side %q", swap.ID, swap.Side)
	}
}
