package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTransferConfig(t *testing.T) {
	path := writeConfig(t, `
rpc_url: "https://api.devnet.solana.com"
amount: 1.0
source_wallets:
  - from_keypair_path: "/keys/a.json"
  - from_keypair_path: "/keys/b.json"
    amount: 2.5
destination_wallets:
  - "dst1"
  - "dst2"
rpc_rate_limit: 10
submit_retries: 3
kafka:
  brokers: ["localhost:9092"]
  topic: "outcomes"
`)

	cfg, err := LoadTransferConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://api.devnet.solana.com", cfg.RPCURL)
	require.Len(t, cfg.SourceWallets, 2)
	assert.Nil(t, cfg.SourceWallets[0].Amount)
	require.NotNil(t, cfg.SourceWallets[1].Amount)
	assert.Equal(t, 2.5, *cfg.SourceWallets[1].Amount)
	assert.Equal(t, 3, cfg.SubmitRetries)
	require.NotNil(t, cfg.Kafka)
	assert.Equal(t, "outcomes", cfg.Kafka.Topic)

	plan := cfg.Plan()
	assert.True(t, plan.DefaultAmount.Equal(decimal.RequireFromString("1")))
	require.Len(t, plan.Sources, 2)
	assert.Nil(t, plan.Sources[0].Amount)
	require.NotNil(t, plan.Sources[1].Amount)
	assert.True(t, plan.Sources[1].Amount.Equal(decimal.RequireFromString("2.5")))
	assert.Equal(t, []string{"dst1", "dst2"}, plan.Destinations)
}

func TestLoadTransferConfig_ValidationFailures(t *testing.T) {
	cases := map[string]string{
		"missing rpc url": `
amount: 1.0
source_wallets: [{from_keypair_path: "/k.json"}]
destination_wallets: ["dst"]
`,
		"no sources": `
rpc_url: "http://localhost"
amount: 1.0
destination_wallets: ["dst"]
`,
		"no destinations": `
rpc_url: "http://localhost"
amount: 1.0
source_wallets: [{from_keypair_path: "/k.json"}]
`,
		"no usable amount": `
rpc_url: "http://localhost"
source_wallets: [{from_keypair_path: "/k.json"}]
destination_wallets: ["dst"]
`,
		"negative override": `
rpc_url: "http://localhost"
amount: 1.0
source_wallets: [{from_keypair_path: "/k.json", amount: -2}]
destination_wallets: ["dst"]
`,
		"negative submit retries": `
rpc_url: "http://localhost"
amount: 1.0
source_wallets: [{from_keypair_path: "/k.json"}]
destination_wallets: ["dst"]
submit_retries: -1
`,
		"kafka without topic": `
rpc_url: "http://localhost"
amount: 1.0
source_wallets: [{from_keypair_path: "/k.json"}]
destination_wallets: ["dst"]
kafka: {brokers: ["localhost:9092"]}
`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadTransferConfig(writeConfig(t, content))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadBalanceConfig_DefaultsAndValidation(t *testing.T) {
	addr := types.NewAccount().PublicKey.ToBase58()
	cfg, err := LoadBalanceConfig(writeConfig(t, "wallets: [\""+addr+"\"]\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize, cfg.BatchSize)
	assert.Equal(t, "https://api.mainnet-beta.solana.com", cfg.RPCURL)

	_, err = LoadBalanceConfig(writeConfig(t, "wallets: []\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadBalanceConfig(writeConfig(t, "wallets: [\"not-a-pubkey\"]\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadBalanceConfig(writeConfig(t, "wallets: [\""+addr+"\"]\nbatch_size: -1\n"))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadWatchConfig(t *testing.T) {
	addr := types.NewAccount().PublicKey.ToBase58()
	cfg, err := LoadWatchConfig(writeConfig(t, `
solana_rpc_url: "https://api.mainnet-beta.solana.com"
keypair_path: "/keys/a.json"
destination_wallet: "`+addr+`"
sol_amount: 0.001
`))
	require.NoError(t, err)
	assert.Equal(t, DefaultPollIntervalMs, cfg.PollIntervalMs)
	assert.Equal(t, "1s", cfg.PollInterval().String())

	_, err = LoadWatchConfig(writeConfig(t, `
solana_rpc_url: "https://api.mainnet-beta.solana.com"
keypair_path: "/keys/a.json"
destination_wallet: "`+addr+`"
sol_amount: 0
`))
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig_MissingOrMalformedFile(t *testing.T) {
	_, err := LoadTransferConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")

	_, err = LoadTransferConfig(writeConfig(t, "rpc_url: [unbalanced"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}

func TestWriteSample_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteSample(path, SampleTransferConfig))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "source_wallets")

	assert.Error(t, WriteSample(path, SampleTransferConfig))
}
