package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/dyachv/multisend/internal/engine"
	sdk "github.com/dyachv/multisend/internal/infrastructure/blockchain/solana"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DefaultBatchSize      = 25
	DefaultPollIntervalMs = 1000
)

type SourceWallet struct {
	FromKeypairPath string   `yaml:"from_keypair_path"`
	Amount          *float64 `yaml:"amount"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// TransferConfig drives the multisend tool. Amount is the default SOL
// amount per transfer; a source wallet may override it. SubmitRetries
// caps how often the RPC node re-broadcasts a transaction; 0 keeps the
// client default.
type TransferConfig struct {
	RPCURL             string         `yaml:"rpc_url"`
	Amount             float64        `yaml:"amount"`
	SourceWallets      []SourceWallet `yaml:"source_wallets"`
	DestinationWallets []string       `yaml:"destination_wallets"`
	RPCRateLimit       float64        `yaml:"rpc_rate_limit"`
	SubmitRetries      int            `yaml:"submit_retries"`
	Kafka              *KafkaConfig   `yaml:"kafka"`
}

func LoadTransferConfig(path string) (*TransferConfig, error) {
	var cfg TransferConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *TransferConfig) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("%w: rpc_url is required", ErrInvalidConfig)
	}
	if len(c.SourceWallets) == 0 {
		return fmt.Errorf("%w: no source wallets specified", ErrInvalidConfig)
	}
	if len(c.DestinationWallets) == 0 {
		return fmt.Errorf("%w: no destination wallets specified", ErrInvalidConfig)
	}
	for i, source := range c.SourceWallets {
		if source.FromKeypairPath == "" {
			return fmt.Errorf("%w: source wallet %d has no keypair path", ErrInvalidConfig, i)
		}
		if source.Amount == nil && c.Amount <= 0 {
			return fmt.Errorf("%w: source wallet %d needs an amount and no positive default is set", ErrInvalidConfig, i)
		}
		if source.Amount != nil && *source.Amount <= 0 {
			return fmt.Errorf("%w: source wallet %d amount must be positive", ErrInvalidConfig, i)
		}
	}
	if c.SubmitRetries < 0 {
		return fmt.Errorf("%w: submit_retries must not be negative", ErrInvalidConfig)
	}
	if c.Kafka != nil {
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			return fmt.Errorf("%w: kafka requires brokers and a topic", ErrInvalidConfig)
		}
	}
	return nil
}

// Plan converts the YAML amounts to decimals and shapes the config for
// plan expansion.
func (c *TransferConfig) Plan() engine.Plan {
	plan := engine.Plan{
		DefaultAmount: decimal.NewFromFloat(c.Amount),
		Destinations:  c.DestinationWallets,
	}
	for _, source := range c.SourceWallets {
		s := engine.Source{KeyRef: source.FromKeypairPath}
		if source.Amount != nil {
			amount := decimal.NewFromFloat(*source.Amount)
			s.Amount = &amount
		}
		plan.Sources = append(plan.Sources, s)
	}
	return plan
}

// BalanceConfig drives the balance-checker tool.
type BalanceConfig struct {
	Wallets   []string `yaml:"wallets"`
	BatchSize int      `yaml:"batch_size"`
	RPCURL    string   `yaml:"rpc_url"`
}

func LoadBalanceConfig(path string) (*BalanceConfig, error) {
	cfg := BalanceConfig{
		BatchSize: DefaultBatchSize,
		RPCURL:    sdk.DefaultRPCURL(sdk.NetworkMainnet),
	}
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *BalanceConfig) Validate() error {
	if len(c.Wallets) == 0 {
		return fmt.Errorf("%w: no wallet addresses specified", ErrInvalidConfig)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch_size must be positive", ErrInvalidConfig)
	}
	for _, addr := range c.Wallets {
		if _, err := sdk.ParseAddress(addr); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// WatchConfig drives the block-watcher tool.
type WatchConfig struct {
	SolanaRPCURL      string  `yaml:"solana_rpc_url"`
	KeypairPath       string  `yaml:"keypair_path"`
	DestinationWallet string  `yaml:"destination_wallet"`
	SOLAmount         float64 `yaml:"sol_amount"`
	PollIntervalMs    int     `yaml:"poll_interval_ms"`
}

func LoadWatchConfig(path string) (*WatchConfig, error) {
	cfg := WatchConfig{PollIntervalMs: DefaultPollIntervalMs}
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *WatchConfig) Validate() error {
	if c.SolanaRPCURL == "" {
		return fmt.Errorf("%w: solana_rpc_url is required", ErrInvalidConfig)
	}
	if c.KeypairPath == "" {
		return fmt.Errorf("%w: keypair_path is required", ErrInvalidConfig)
	}
	if c.SOLAmount <= 0 {
		return fmt.Errorf("%w: sol_amount must be positive", ErrInvalidConfig)
	}
	if c.PollIntervalMs <= 0 {
		return fmt.Errorf("%w: poll_interval_ms must be positive", ErrInvalidConfig)
	}
	if _, err := sdk.ParseAddress(c.DestinationWallet); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *WatchConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

func loadYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}
