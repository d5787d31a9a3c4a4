package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/sigweihq/atomexplay/pkg/atomexapi"
	"github.com/sigweihq/atomexplay/pkg/chains"
	"github.com/sigweihq/atomexplay/pkg/chains/evm"
	"github.com/sigweihq/atomexplay/pkg/chains/tez"
	"github.com/sigweihq/atomexplay/pkg/config"
	"github.com/sigweihq/atomexplay/pkg/playground"
)

func main() {
	envFile := flag.String("env", config.DefaultEnvFile, "path to the .env file")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// An interrupt cancels the running command only; exit or end of input leaves the playground
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	// Chains are registered up front; clients pick their adapter by chain name
	registry := chains.NewRegistry()
	tez.RegisterChain(registry, logger, cfg.Network)
	evm.RegisterChain(registry, logger, evm.Config{
		Network:      cfg.Network,
		RPCURL:       cfg.Ethereum.RPCURL,
		ChainID:      cfg.Ethereum.ChainID,
		SwapContract: cfg.Ethereum.SwapContract,
	})
	logger.Info("Chains registered", "chains", registry.GetSupportedChains())

	api := atomexapi.New(&atomexapi.Config{URL: cfg.AtomexAPIURL, Logger: logger})

	p := playground.New(playground.Options{
		Network:  cfg.Network,
		Users:    cfg.Users,
		Registry: registry,
		API:      api,
		Logger:   logger,

		Interrupts: interrupts,
	})
	if err := p.Run(context.Background()); err != nil {
		logger.Error("Playground stopped", "error", err)
		os.Exit(1)
	}
}
