package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dyachv/multisend/internal/config"
	"github.com/dyachv/multisend/internal/domain/repositories"
	"github.com/dyachv/multisend/internal/engine"
	sdk "github.com/dyachv/multisend/internal/infrastructure/blockchain/solana"
	"github.com/dyachv/multisend/internal/infrastructure/blockchain/solana/models"
	"github.com/dyachv/multisend/internal/infrastructure/keystore"
	"github.com/dyachv/multisend/internal/infrastructure/messaging/kafka"
	"github.com/dyachv/multisend/internal/metrics"
)

const (
	exitOK             = 0
	exitTransferFailed = 1
	exitConfigError    = 10
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "gen-config":
			runGenConfig(os.Args[2:])
			return
		case "airdrop":
			runAirdrop(os.Args[2:])
			return
		}
	}
	runTransfers(os.Args[1:])
}

func runGenConfig(args []string) {
	fs := flag.NewFlagSet("gen-config", flag.ExitOnError)
	output := fs.String("output", "config.yaml", "path to output config file")
	if err := fs.Parse(args); err != nil {
		os.Exit(exitConfigError)
	}
	if err := config.WriteSample(*output, config.SampleTransferConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfigError)
	}
	fmt.Printf("Sample configuration written to %s\n", *output)
	os.Exit(exitOK)
}

// runAirdrop funds a wallet on a test cluster, useful before a devnet
// dry run of a transfer plan.
func runAirdrop(args []string) {
	fs := flag.NewFlagSet("airdrop", flag.ExitOnError)
	network := fs.String("network", string(sdk.NetworkDevnet), "cluster to request the airdrop on (devnet or testnet)")
	address := fs.String("address", "", "wallet address to fund")
	amount := fs.Float64("sol", 1, "SOL amount to request")
	if err := fs.Parse(args); err != nil {
		os.Exit(exitConfigError)
	}
	if *address == "" {
		fmt.Fprintln(os.Stderr, "airdrop requires -address")
		os.Exit(exitConfigError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := sdk.NewClientForNetwork(sdk.Network(*network))
	signature, err := client.RequestAirdrop(ctx, models.AirdropRequest{
		PublicKey: *address,
		Lamports:  sdk.LamportsFromSOL(decimal.NewFromFloat(*amount)),
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitTransferFailed)
	}
	fmt.Printf("Airdrop requested: %s\n", signature)
	os.Exit(exitOK)
}

func runTransfers(args []string) {
	fs := flag.NewFlagSet("multisend", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "path to the YAML configuration file")
	concurrent := fs.Int64("concurrent", 10, "maximum number of concurrent transfers")
	timeout := fs.Int("timeout", 60, "timeout in seconds for transaction confirmation")
	metricsAddr := fs.String("metrics-addr", "", "serve prometheus metrics on this address (optional)")
	if err := fs.Parse(args); err != nil {
		os.Exit(exitConfigError)
	}

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfigError)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.LoadTransferConfig(*configPath)
	if err != nil {
		log.Error("failed to load configuration", zap.Error(err))
		os.Exit(exitConfigError)
	}

	specs, err := engine.ExpandPlan(cfg.Plan())
	if err != nil {
		log.Error("failed to expand transfer plan", zap.Error(err))
		os.Exit(exitConfigError)
	}
	log.Info("generated transfers from configuration", zap.Int("count", len(specs)))

	var clientOpts []sdk.Option
	if cfg.RPCRateLimit > 0 {
		clientOpts = append(clientOpts, sdk.WithRateLimit(cfg.RPCRateLimit, int(cfg.RPCRateLimit)+1))
	}
	if cfg.SubmitRetries > 0 {
		clientOpts = append(clientOpts, sdk.WithSubmitRetries(uint64(cfg.SubmitRetries)))
	}
	client := sdk.NewClient(cfg.RPCURL, clientOpts...)
	builder := sdk.NewTransferBuilder(keystore.NewFileKeyStore())

	eng := engine.New(client, builder, client, client)
	eng.SetLogger(log)

	m := metrics.New()
	eng.SetMetrics(m)
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Warn("metrics endpoint stopped", zap.Error(err))
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := eng.Run(ctx, specs, engine.Options{
		MaxConcurrent:  *concurrent,
		ConfirmTimeout: time.Duration(*timeout) * time.Second,
	})
	if err != nil {
		log.Error("dispatch failed", zap.Error(err))
		os.Exit(exitCodeForRunError(err))
	}

	engine.RenderText(os.Stdout, report)

	if cfg.Kafka != nil {
		var publisher repositories.ReportPublisher = kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		publishCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := publisher.PublishReport(publishCtx, report); err != nil {
			log.Warn("failed to publish report", zap.Error(err))
		}
		cancel()
		if err := publisher.Close(); err != nil {
			log.Warn("failed to close publisher", zap.Error(err))
		}
	}

	if report.FailedCount > 0 || report.TimeoutCount > 0 {
		os.Exit(exitTransferFailed)
	}
	os.Exit(exitOK)
}

// exitCodeForRunError separates operator configuration mistakes from
// dispatch failures.
func exitCodeForRunError(err error) int {
	if errors.Is(err, engine.ErrInvalidConcurrency) || errors.Is(err, engine.ErrInvalidTimeout) {
		return exitConfigError
	}
	return exitTransferFailed
}
