package balance

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyachv/multisend/internal/infrastructure/blockchain/solana/models"
)

type fakeLedger struct {
	balances map[string]uint64
	calls    int64
}

func (f *fakeLedger) Balance(ctx context.Context, req models.BalanceRequest) (uint64, error) {
	atomic.AddInt64(&f.calls, 1)
	lamports, ok := f.balances[req.PublicKey]
	if !ok {
		return 0, errors.New("account not found")
	}
	return lamports, nil
}

func TestFetchAll_ConvertsAndKeepsInputOrder(t *testing.T) {
	ledger := &fakeLedger{balances: map[string]uint64{
		"w1": 1_500_000_000,
		"w2": 25,
		"w3": 0,
	}}
	checker := NewChecker(ledger, 2, nil)
	checker.BatchDelay = 0

	results := checker.FetchAll(context.Background(), []string{"w1", "w2", "w3"})
	require.Len(t, results, 3)
	assert.Equal(t, "w1", results[0].Address)
	assert.True(t, results[0].SOL.Equal(decimal.RequireFromString("1.5")))
	assert.Equal(t, "w2", results[1].Address)
	assert.True(t, results[1].SOL.Equal(decimal.RequireFromString("0.000000025")))
	assert.Equal(t, "w3", results[2].Address)
	assert.True(t, results[2].SOL.IsZero())
}

func TestFetchAll_SkipsFailedWallets(t *testing.T) {
	ledger := &fakeLedger{balances: map[string]uint64{
		"good1": 10,
		"good2": 20,
	}}
	checker := NewChecker(ledger, 10, nil)
	checker.BatchDelay = 0

	results := checker.FetchAll(context.Background(), []string{"good1", "broken", "good2"})
	require.Len(t, results, 2)
	assert.Equal(t, "good1", results[0].Address)
	assert.Equal(t, "good2", results[1].Address)
	assert.Equal(t, int64(3), atomic.LoadInt64(&ledger.calls))
}

func TestFetchAll_BatchesAllWallets(t *testing.T) {
	ledger := &fakeLedger{balances: map[string]uint64{}}
	wallets := make([]string, 0, 7)
	for _, w := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		ledger.balances[w] = 1
		wallets = append(wallets, w)
	}
	checker := NewChecker(ledger, 3, nil)
	checker.BatchDelay = 0

	results := checker.FetchAll(context.Background(), wallets)
	assert.Len(t, results, 7)
	assert.Equal(t, int64(7), atomic.LoadInt64(&ledger.calls))
}
