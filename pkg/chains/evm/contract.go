package evm

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// EntryPointInitiate locks the initiator's funds under a hash and time lock
const EntryPointInitiate = "initiate"

// SwapContractABI is the subset of the Atomex swap contract ABI the playground calls
const SwapContractABI = `[
	{
		"name": "initiate",
		"type": "function",
		"stateMutability": "payable",
		"inputs": [
			{"name": "_hashedSecret", "type": "bytes32"},
			{"name": "_participant", "type": "address"},
			{"name": "_refundTimestamp", "type": "uint256"},
			{"name": "_payoff", "type": "uint256"}
		],
		"outputs": []
	}
]`

var swapContractABI = mustParseABI(SwapContractABI)

func mustParseABI(definition string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(definition))
	if err != nil {
		panic(err)
	}
	return parsed
}
