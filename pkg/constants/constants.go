package constants

import "time"

const (
	APITimeout            = 30 * time.Second // timeout for trading backend requests
	TLSHandshakeTimeout   = 10 * time.Second // timeout for TLS handshake
	ResponseHeaderTimeout = 20 * time.Second // timeout for response header
	ExpectContinueTimeout = 1 * time.Second  // timeout for expect continue
	MaxResponseBodySize   = 10 * 1024 * 1024 // maximum response body size in bytes (10MB)
)

// Network Types
const (
	NetworkMainnet = "mainnet"
	NetworkTestnet = "testnet"
)

// Chain names, used as keys in user secret keys and client ids
const (
	ChainTezos    = "tez"
	ChainEthereum = "eth"
)

var ChainToCurrency = map[string]string{
	ChainTezos:    "XTZ",
	ChainEthereum: "ETH",
}

const (
	AtomexAPIMainnet = "https://api.atomex.me"
	AtomexAPITestnet = "https://api.test.atomex.me"
)

var NetworkToAtomexAPI = map[string]string{
	NetworkMainnet: AtomexAPIMainnet,
	NetworkTestnet: AtomexAPITestnet,
}

var EthereumRPCEndpoints = map[string]string{
	NetworkMainnet: "https://ethereum-rpc.publicnode.com",
	NetworkTestnet: "https://ethereum-sepolia-rpc.publicnode.com",
}

// mapping from network name to numeric EVM chain ID
var NetworkToEthereumChainID = map[string]int64{
	NetworkMainnet: 1,
	NetworkTestnet: 11155111,
}

const (
	AuthenticationMessage    = "Signing in "
	DefaultExpirationMinutes = 60
	MaxExpirationMinutes     = 30 * 24 * 60 // refund window cap, 30 days
	SecretLength             = 27
	EthereumDecimals         = 18
	TezosDecimals            = 6
)
