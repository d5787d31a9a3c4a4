package evm

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sigweihq/atomexplay/pkg/chains"
	"github.com/sigweihq/atomexplay/pkg/constants"
	"github.com/sigweihq/atomexplay/pkg/utils"
)

// AuthAlgorithm is the signing algorithm name Atomex expects for Ethereum keys
const AuthAlgorithm = "Keccak256WithEcdsa:Geth2940"

// rpcClient is the part of ethclient.Client the helpers use
type rpcClient interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// Helpers implements chains.Helpers for an EVM network
type Helpers struct {
	endpoint     string
	rpc          rpcClient
	chainID      *big.Int
	swapContract string
	key          *ecdsa.PrivateKey
	contractABI  *abi.ABI
}

// Verify Helpers implements interface
var _ chains.Helpers = (*Helpers)(nil)

func (h *Helpers) contract() *abi.ABI {
	if h.contractABI != nil {
		return h.contractABI
	}
	return &swapContractABI
}

// ChainID returns the chain id transactions are signed for
func (h *Helpers) ChainID() *big.Int {
	return new(big.Int).Set(h.chainID)
}

// AuthMessage implements chains.Helpers
func (h *Helpers) AuthMessage(message, address string, at time.Time) *chains.AuthMessage {
	timeStamp := at.UnixMilli()
	return &chains.AuthMessage{
		Message:   message,
		TimeStamp: timeStamp,
		MsgToSign: message + strconv.FormatInt(timeStamp, 10),
		Algorithm: AuthAlgorithm,
	}
}

// EncodePublicKey implements chains.Helpers
func (h *Helpers) EncodePublicKey(identity *chains.Identity) (string, error) {
	publicKey := strings.TrimPrefix(identity.PublicKey, "0x")
	if _, err := hex.DecodeString(publicKey); err != nil {
		return "", fmt.Errorf("invalid public key: %w", err)
	}
	return publicKey, nil
}

// EncodeSignature implements chains.Helpers
func (h *Helpers) EncodeSignature(signature []byte) string {
	return hex.EncodeToString(signature)
}

// BuildEscrowInitiation implements chains.Helpers
// The locked value is the amount in wei, the redeem reward is paid out of it
func (h *Helpers) BuildEscrowInitiation(ctx context.Context, params *chains.EscrowInitiation) (*chains.ContractCall, error) {
	if h.swapContract == "" {
		return nil, ErrSwapContractNotConfigured
	}
	if !common.IsHexAddress(params.Participant) {
		return nil, fmt.Errorf("invalid participant address: %q", params.Participant)
	}
	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive: %s", params.Amount)
	}
	if params.RewardForRedeem.IsNegative() || params.Amount.LessThanOrEqual(params.RewardForRedeem) {
		return nil, fmt.Errorf("reward for redeem %s must be lower than amount %s", params.RewardForRedeem, params.Amount)
	}

	if _, ok := h.contract().Methods[EntryPointInitiate]; !ok {
		return nil, fmt.Errorf("%w: %s", chains.ErrEntryPointNotFound, EntryPointInitiate)
	}

	contract := common.HexToAddress(h.swapContract)
	code, err := h.rpc.CodeAt(ctx, contract, nil)
	if err != nil {
		return nil, &RPCError{Endpoint: h.endpoint, Method: "eth_getCode", Err: err}
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrContractNotFound, contract.Hex())
	}

	value := utils.ToBaseUnits(params.Amount, constants.EthereumDecimals)
	payoff := utils.ToBaseUnits(params.RewardForRedeem, constants.EthereumDecimals)

	return &chains.ContractCall{
		Contract:   contract.Hex(),
		EntryPoint: EntryPointInitiate,
		Args: []any{
			params.SecretHash,
			common.HexToAddress(params.Participant),
			big.NewInt(params.RefundTime.Unix()),
			payoff,
		},
		Value: value,
	}, nil
}

// InvokeContract implements chains.Helpers
// Signs a legacy transaction with the adapter key and returns its hash
func (h *Helpers) InvokeContract(ctx context.Context, call *chains.ContractCall) (string, error) {
	if _, ok := h.contract().Methods[call.EntryPoint]; !ok {
		return "", fmt.Errorf("%w: %s", chains.ErrEntryPointNotFound, call.EntryPoint)
	}
	data, err := h.contract().Pack(call.EntryPoint, call.Args...)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s call: %w", call.EntryPoint, err)
	}

	value := call.Value
	if value == nil {
		value = new(big.Int)
	}
	from := crypto.PubkeyToAddress(h.key.PublicKey)
	to := common.HexToAddress(call.Contract)

	nonce, err := h.rpc.PendingNonceAt(ctx, from)
	if err != nil {
		return "", &RPCError{Endpoint: h.endpoint, Method: "eth_getTransactionCount", Err: err}
	}
	gasPrice, err := h.rpc.SuggestGasPrice(ctx)
	if err != nil {
		return "", &RPCError{Endpoint: h.endpoint, Method: "eth_gasPrice", Err: err}
	}
	gas, err := h.rpc.EstimateGas(ctx, ethereum.CallMsg{
		From:     from,
		To:       &to,
		GasPrice: gasPrice,
		Value:    value,
		Data:     data,
	})
	if err != nil {
		return "", &RPCError{Endpoint: h.endpoint, Method: "eth_estimateGas", Err: err}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    value,
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(h.chainID), h.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := h.rpc.SendTransaction(ctx, signed); err != nil {
		return "", &RPCError{Endpoint: h.endpoint, Method: "eth_sendRawTransaction", Err: err}
	}
	return signed.Hash().Hex(), nil
}
