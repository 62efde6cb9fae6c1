package balance

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dyachv/multisend/internal/domain/entities"
	"github.com/dyachv/multisend/internal/infrastructure/blockchain/solana/models"
)

// DefaultBatchDelay spaces batches out to stay under RPC rate limits.
const DefaultBatchDelay = 100 * time.Millisecond

// Ledger is the balance-query surface of the RPC client.
type Ledger interface {
	Balance(ctx context.Context, req models.BalanceRequest) (uint64, error)
}

// Checker fetches wallet balances in bounded concurrent batches. Wallets
// inside a batch are fetched in parallel; batches run sequentially with a
// short delay between them.
type Checker struct {
	ledger     Ledger
	batchSize  int
	BatchDelay time.Duration
	log        *zap.Logger
}

func NewChecker(ledger Ledger, batchSize int, log *zap.Logger) *Checker {
	if batchSize <= 0 {
		batchSize = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Checker{
		ledger:     ledger,
		batchSize:  batchSize,
		BatchDelay: DefaultBatchDelay,
		log:        log,
	}
}

// FetchAll returns one WalletBalance per wallet that could be fetched,
// in input order. Failed fetches are logged and skipped.
func (c *Checker) FetchAll(ctx context.Context, wallets []string) []entities.WalletBalance {
	results := make([]entities.WalletBalance, 0, len(wallets))
	totalStart := time.Now()

	batches := 0
	for offset := 0; offset < len(wallets); offset += c.batchSize {
		end := offset + c.batchSize
		if end > len(wallets) {
			end = len(wallets)
		}
		batch := wallets[offset:end]
		batches++

		c.log.Info("processing batch", zap.Int("batch", batches), zap.Int("addresses", len(batch)))
		batchStart := time.Now()

		slots := make([]*entities.WalletBalance, len(batch))
		var wg sync.WaitGroup
		for i, address := range batch {
			wg.Add(1)
			go func(idx int, address string) {
				defer wg.Done()
				balance, err := c.fetchOne(ctx, address)
				if err != nil {
					c.log.Warn("failed to fetch balance", zap.String("address", address), zap.Error(err))
					return
				}
				slots[idx] = balance
			}(i, address)
		}
		wg.Wait()

		for _, balance := range slots {
			if balance != nil {
				results = append(results, *balance)
			}
		}

		c.log.Info("batch completed",
			zap.Int("batch", batches),
			zap.Duration("elapsed", time.Since(batchStart)),
		)

		if end < len(wallets) {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(c.BatchDelay):
			}
		}
	}

	c.log.Info("fetched all balances",
		zap.Int("count", len(results)),
		zap.Duration("elapsed", time.Since(totalStart)),
	)
	return results
}

func (c *Checker) fetchOne(ctx context.Context, address string) (*entities.WalletBalance, error) {
	start := time.Now()
	lamports, err := c.ledger.Balance(ctx, models.BalanceRequest{PublicKey: address})
	if err != nil {
		return nil, err
	}
	return &entities.WalletBalance{
		Address:     address,
		SOL:         decimal.NewFromUint64(lamports).Shift(-9),
		FetchTimeMs: uint64(time.Since(start).Milliseconds()),
	}, nil
}
