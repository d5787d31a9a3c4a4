package tez

import (
	"log/slog"

	"github.com/sigweihq/atomexplay/pkg/chains"
	"github.com/sigweihq/atomexplay/pkg/constants"
)

// RegisterChain registers the Tezos adapter factory for a network
func RegisterChain(registry *chains.Registry, logger *slog.Logger, network string) {
	registry.Register(constants.ChainTezos, func(secretKey string) (chains.ChainAdapter, error) {
		return NewAdapter(network, secretKey)
	})
	logger.Debug("registered chain", "chain", constants.ChainTezos, "network", network)
}
