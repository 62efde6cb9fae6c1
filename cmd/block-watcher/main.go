package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dyachv/multisend/internal/config"
	"github.com/dyachv/multisend/internal/domain/entities"
	sdk "github.com/dyachv/multisend/internal/infrastructure/blockchain/solana"
	"github.com/dyachv/multisend/internal/infrastructure/keystore"
	"github.com/dyachv/multisend/internal/watch"
)

const (
	exitOK           = 0
	exitConfigError  = 10
	exitWatchStopped = 20
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "gen-config" {
		runGenConfig(os.Args[2:])
		return
	}
	runWatch(os.Args[1:])
}

func runGenConfig(args []string) {
	fs := flag.NewFlagSet("gen-config", flag.ExitOnError)
	output := fs.String("output", "config.yaml", "path to output config file")
	if err := fs.Parse(args); err != nil {
		os.Exit(exitConfigError)
	}
	if err := config.WriteSample(*output, config.SampleWatchConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfigError)
	}
	fmt.Printf("Sample configuration written to %s\n", *output)
	fmt.Println("Edit the file with your actual configuration before starting the watcher.")
	os.Exit(exitOK)
}

func runWatch(args []string) {
	fs := flag.NewFlagSet("block-watcher", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to the YAML configuration file")
	if err := fs.Parse(args); err != nil {
		os.Exit(exitConfigError)
	}

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfigError)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.LoadWatchConfig(*configPath)
	if err != nil {
		log.Error("failed to load configuration", zap.Error(err))
		os.Exit(exitConfigError)
	}
	log.Info("configuration loaded", zap.String("destination", cfg.DestinationWallet))

	client := sdk.NewClient(cfg.SolanaRPCURL)
	builder := sdk.NewTransferBuilder(keystore.NewFileKeyStore())
	spec := entities.TransferSpec{
		SourceKeyRef: cfg.KeypairPath,
		Destination:  cfg.DestinationWallet,
		Amount:       decimal.NewFromFloat(cfg.SOLAmount),
	}

	watcher := watch.New(client, client, builder, client, spec, cfg.PollInterval(), log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("watching for new blocks")
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("watcher stopped", zap.Error(err))
		os.Exit(exitWatchStopped)
	}
	os.Exit(exitOK)
}
