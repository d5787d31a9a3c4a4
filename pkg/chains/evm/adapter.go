package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sigweihq/atomexplay/pkg/chains"
	"github.com/sigweihq/atomexplay/pkg/constants"
)

// Config describes the EVM network a playground talks to
type Config struct {
	Network      string
	RPCURL       string
	ChainID      int64  // 0 means ask the node
	SwapContract string // Atomex swap contract address, required for escrow initiation
}

// Adapter provides EVM functionality for a single secret key.
// The node connection is dialed on the first NewHelpers call and shared by every helper it returns.
type Adapter struct {
	config Config
	key    *ecdsa.PrivateKey
	signer *SignatureScheme

	mu       sync.Mutex
	endpoint string
	client   *ethclient.Client
	chainID  *big.Int
}

// NewAdapter creates an EVM adapter from a hex-encoded secp256k1 secret key
func NewAdapter(config Config, secretKey string) (*Adapter, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(secretKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &Adapter{
		config: config,
		key:    key,
		signer: NewSignatureScheme(),
	}, nil
}

// Verify Adapter implements interface
var _ chains.ChainAdapter = (*Adapter)(nil)

// Chain implements chains.ChainAdapter
func (a *Adapter) Chain() string {
	return constants.ChainEthereum
}

// Currency implements chains.ChainAdapter
func (a *Adapter) Currency() string {
	return constants.ChainToCurrency[constants.ChainEthereum]
}

// DeriveIdentity implements chains.ChainAdapter
func (a *Adapter) DeriveIdentity(ctx context.Context) (*chains.Identity, error) {
	address, err := a.signer.DeriveAddress(a.key)
	if err != nil {
		return nil, err
	}

	return &chains.Identity{
		PublicKey: hexutil.Encode(crypto.FromECDSAPub(&a.key.PublicKey)),
		Address:   address,
	}, nil
}

// NewHelpers implements chains.ChainAdapter
// Dials the configured node once and resolves the chain id
func (a *Adapter) NewHelpers(ctx context.Context) (chains.Helpers, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client == nil {
		if err := a.dial(ctx); err != nil {
			return nil, err
		}
	}

	return &Helpers{
		endpoint:     a.endpoint,
		rpc:          a.client,
		chainID:      new(big.Int).Set(a.chainID),
		swapContract: a.config.SwapContract,
		key:          a.key,
	}, nil
}

func (a *Adapter) dial(ctx context.Context) error {
	endpoint, err := a.resolveEndpoint()
	if err != nil {
		return err
	}

	client, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		return &RPCError{Endpoint: endpoint, Method: "dial", Err: err}
	}

	chainID := big.NewInt(a.config.ChainID)
	if a.config.ChainID == 0 {
		chainID, err = client.ChainID(ctx)
		if err != nil {
			client.Close()
			return &RPCError{Endpoint: endpoint, Method: "eth_chainId", Err: err}
		}
	}

	a.endpoint = endpoint
	a.client = client
	a.chainID = chainID
	return nil
}

// Close releases the node connection; helpers created earlier stop working
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		a.client.Close()
		a.client = nil
	}
	return nil
}

// resolveEndpoint returns the configured RPC URL or the public default for the network
func (a *Adapter) resolveEndpoint() (string, error) {
	if a.config.RPCURL != "" {
		return a.config.RPCURL, nil
	}
	endpoint, ok := constants.EthereumRPCEndpoints[a.config.Network]
	if !ok {
		return "", &UnsupportedNetworkError{Network: a.config.Network}
	}
	return endpoint, nil
}

// SignMessage implements chains.ChainAdapter
func (a *Adapter) SignMessage(ctx context.Context, message []byte) ([]byte, error) {
	return a.signer.SignPersonalMessage(a.key, message)
}
