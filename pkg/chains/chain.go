package chains

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnsupportedChain is returned when no adapter is registered for a chain name
	ErrUnsupportedChain = errors.New("unsupported chain")

	// ErrUnsupportedOperation is returned by chains that do not implement an operation yet
	ErrUnsupportedOperation = errors.New("operation is not supported for this chain")

	// ErrEntryPointNotFound is returned when the target contract lacks the expected entry point
	ErrEntryPointNotFound = errors.New("contract entry point not found")
)

// ChainAdapter is the per-chain signing capability built around a user's secret key.
// One adapter is selected at client construction; callers never branch on chain name.
type ChainAdapter interface {
	// Chain returns the chain name (e.g., "tez", "eth")
	Chain() string

	// Currency returns the native currency traded on the backend (e.g., "XTZ", "ETH")
	Currency() string

	// DeriveIdentity derives the public key and address from the secret key
	DeriveIdentity(ctx context.Context) (*Identity, error)

	// NewHelpers creates the chain helper used to build auth messages and transactions
	NewHelpers(ctx context.Context) (Helpers, error)

	// SignMessage signs raw message bytes following the chain's signing convention
	SignMessage(ctx context.Context, message []byte) ([]byte, error)
}

// Helpers encodes chain-specific wire formats and escrow transactions
type Helpers interface {
	// AuthMessage builds the sign-in challenge for an address at the given time
	AuthMessage(message, address string, at time.Time) *AuthMessage

	// EncodePublicKey encodes the public key as the backend expects it
	EncodePublicKey(identity *Identity) (string, error)

	// EncodeSignature encodes a raw signature as the backend expects it
	EncodeSignature(signature []byte) string

	// BuildEscrowInitiation builds the contract call that locks funds for a swap
	BuildEscrowInitiation(ctx context.Context, initiation *EscrowInitiation) (*ContractCall, error)

	// InvokeContract resolves the target contract, invokes the entry point and returns the transaction id
	InvokeContract(ctx context.Context, call *ContractCall) (string, error)
}

// Identity is the public part of a user's chain key
type Identity struct {
	PublicKey string
	Address   string
}

// AuthMessage is a chain-specific sign-in challenge
type AuthMessage struct {
	Message   string
	TimeStamp int64 // Unix milliseconds
	MsgToSign string
	Algorithm string
}

// EscrowInitiation holds the parameters that lock funds into a hash- and time-locked swap contract
type EscrowInitiation struct {
	Participant     string
	SecretHash      [32]byte
	RefundTime      time.Time
	Amount          decimal.Decimal
	RewardForRedeem decimal.Decimal
}

// ContractCall is a fully resolved call of a contract entry point
type ContractCall struct {
	Contract   string
	EntryPoint string
	Args       []any
	Value      *big.Int // in the chain's smallest unit
}

// Factory creates an adapter from a user's secret key
type Factory func(secretKey string) (ChainAdapter, error)
