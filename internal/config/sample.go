package config

import (
	"fmt"
	"os"
)

// SampleTransferConfig is written by `multisend gen-config`.
const SampleTransferConfig = `# Solana RPC endpoint
rpc_url: "https://api.devnet.solana.com"

# Default SOL amount per transfer (sources may override)
amount: 1.0

source_wallets:
  - from_keypair_path: "/path/to/keypair1.json"
  - from_keypair_path: "/path/to/keypair2.json"
    amount: 2.5

destination_wallets:
  - "DESTINATION_WALLET_ADDRESS_1"
  - "DESTINATION_WALLET_ADDRESS_2"

# Optional: cap outgoing RPC requests per second
# rpc_rate_limit: 20

# Optional: how many times the RPC node re-broadcasts a transaction (default 5)
# submit_retries: 5

# Optional: publish outcomes to Kafka after the run
# kafka:
#   brokers: ["localhost:9092"]
#   topic: "transfer-outcomes"
`

// SampleWatchConfig is written by `block-watcher gen-config`.
const SampleWatchConfig = `# Solana RPC endpoint, used for slot watching and for sending
solana_rpc_url: "https://api.mainnet-beta.solana.com"

# Transfer sent once per new block
keypair_path: "/path/to/your/keypair.json"
destination_wallet: "YOUR_DESTINATION_WALLET_ADDRESS"
sol_amount: 0.001

# How often to poll for a new slot
poll_interval_ms: 1000
`

// WriteSample writes a sample config, refusing to overwrite an existing file.
func WriteSample(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("refusing to overwrite existing file %s", path)
	}
	return os.WriteFile(path, []byte(content), 0o600)
}
