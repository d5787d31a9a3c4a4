package evm

import (
	"errors"
	"fmt"
)

var (
	// ErrSwapContractNotConfigured is returned when no swap contract address is configured for the network
	ErrSwapContractNotConfigured = errors.New("swap contract is not configured")

	// ErrContractNotFound is returned when no code is deployed at the swap contract address
	ErrContractNotFound = errors.New("no contract code at address")
)

// UnsupportedNetworkError is returned when a network is not supported
type UnsupportedNetworkError struct {
	Network string
}

func (e *UnsupportedNetworkError) Error() string {
	return fmt.Sprintf("unsupported network: %s", e.Network)
}

// RPCError represents an RPC-related error
type RPCError struct {
	Endpoint string
	Method   string
	Err      error
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error on %s (%s): %v", e.Endpoint, e.Method, e.Err)
}

func (e *RPCError) Unwrap() error {
	return e.Err
}
