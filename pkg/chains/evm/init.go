package evm

import (
	"log/slog"

	"github.com/sigweihq/atomexplay/pkg/chains"
	"github.com/sigweihq/atomexplay/pkg/constants"
)

// RegisterChain registers the Ethereum adapter factory with the given network configuration
func RegisterChain(registry *chains.Registry, logger *slog.Logger, config Config) {
	registry.Register(constants.ChainEthereum, func(secretKey string) (chains.ChainAdapter, error) {
		return NewAdapter(config, secretKey)
	})

	if config.SwapContract == "" {
		logger.Warn("no swap contract configured, swap initiation on Ethereum is disabled", "network", config.Network)
	}
	logger.Debug("registered chain", "chain", constants.ChainEthereum, "network", config.Network, "rpc", config.RPCURL)
}
