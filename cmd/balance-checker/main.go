package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/dyachv/multisend/internal/balance"
	"github.com/dyachv/multisend/internal/config"
	sdk "github.com/dyachv/multisend/internal/infrastructure/blockchain/solana"
)

const (
	exitOK          = 0
	exitConfigError = 10
)

func main() {
	fs := flag.NewFlagSet("balance-checker", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to the YAML configuration file")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(exitConfigError)
	}

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfigError)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.LoadBalanceConfig(*configPath)
	if err != nil {
		log.Error("failed to load configuration", zap.Error(err))
		os.Exit(exitConfigError)
	}
	log.Info("loading wallet addresses", zap.Int("count", len(cfg.Wallets)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := sdk.NewClient(cfg.RPCURL)
	checker := balance.NewChecker(client, cfg.BatchSize, log)
	balances := checker.FetchAll(ctx, cfg.Wallets)

	fmt.Println("\nWallet Balance Results:")
	fmt.Printf("%-44s | %-15s | %-8s\n", "Address", "Balance (SOL)", "Time (ms)")
	fmt.Println(strings.Repeat("-", 75))
	for _, b := range balances {
		fmt.Printf("%-44s | %-15s | %-8d\n", b.Address, b.SOL.StringFixed(5), b.FetchTimeMs)
	}
	fmt.Printf("\nSummary: Fetched %d balances\n", len(balances))
	os.Exit(exitOK)
}
