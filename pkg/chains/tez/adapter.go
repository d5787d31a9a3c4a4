package tez

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/sigweihq/atomexplay/pkg/chains"
	"github.com/sigweihq/atomexplay/pkg/constants"
)

// AuthAlgorithm identifies Tezos Ed25519 signatures over Blake2b digests
const AuthAlgorithm = "Ed25519:Blake2b"

// Adapter provides Tezos functionality for a single secret key
type Adapter struct {
	network string
	key     ed25519.PrivateKey
}

// NewAdapter creates a Tezos adapter from an edsk secret key
func NewAdapter(network, secretKey string) (*Adapter, error) {
	key, err := ParseSecretKey(secretKey)
	if err != nil {
		return nil, err
	}
	return &Adapter{
		network: network,
		key:     key,
	}, nil
}

// Verify Adapter implements interface
var _ chains.ChainAdapter = (*Adapter)(nil)

// Chain implements chains.ChainAdapter
func (a *Adapter) Chain() string {
	return constants.ChainTezos
}

// Currency implements chains.ChainAdapter
func (a *Adapter) Currency() string {
	return constants.ChainToCurrency[constants.ChainTezos]
}

// DeriveIdentity implements chains.ChainAdapter
func (a *Adapter) DeriveIdentity(ctx context.Context) (*chains.Identity, error) {
	publicKey := a.key.Public().(ed25519.PublicKey)

	address, err := AddressFromPublicKey(publicKey)
	if err != nil {
		return nil, err
	}

	return &chains.Identity{
		PublicKey: EncodePublicKey(publicKey),
		Address:   address,
	}, nil
}

// NewHelpers implements chains.ChainAdapter
func (a *Adapter) NewHelpers(ctx context.Context) (chains.Helpers, error) {
	if _, ok := constants.NetworkToAtomexAPI[a.network]; !ok {
		return nil, fmt.Errorf("unsupported network: %s", a.network)
	}
	return &Helpers{network: a.network}, nil
}

// SignMessage implements chains.ChainAdapter
func (a *Adapter) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	return ed25519.Sign(a.key, messageDigest(message)), nil
}

// Helpers implements chains.Helpers for Tezos
type Helpers struct {
	network string
}

// Verify Helpers implements interface
var _ chains.Helpers = (*Helpers)(nil)

// AuthMessage implements chains.Helpers
func (h *Helpers) AuthMessage(message, address string, at time.Time) *chains.AuthMessage {
	timestamp := at.UnixMilli()
	return &chains.AuthMessage{
		Message:   message,
		TimeStamp: timestamp,
		MsgToSign: message + strconv.FormatInt(timestamp, 10),
		Algorithm: AuthAlgorithm,
	}
}

// EncodePublicKey implements chains.Helpers
// The backend expects the raw key bytes in hex rather than the edpk form
func (h *Helpers) EncodePublicKey(identity *chains.Identity) (string, error) {
	publicKey, err := DecodePublicKey(identity.PublicKey)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(publicKey), nil
}

// EncodeSignature implements chains.Helpers
func (h *Helpers) EncodeSignature(signature []byte) string {
	return hex.EncodeToString(signature)
}

// BuildEscrowInitiation implements chains.Helpers
func (h *Helpers) BuildEscrowInitiation(ctx context.Context, initiation *chains.EscrowInitiation) (*chains.ContractCall, error) {
	return nil, fmt.Errorf("tezos escrow initiation: %w", chains.ErrUnsupportedOperation)
}

// InvokeContract implements chains.Helpers
func (h *Helpers) InvokeContract(ctx context.Context, call *chains.ContractCall) (string, error) {
	return "", fmt.Errorf("tezos contract invocation: %w", chains.ErrUnsupportedOperation)
}
