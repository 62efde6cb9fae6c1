package watch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dyachv/multisend/internal/domain/entities"
	"github.com/dyachv/multisend/internal/engine"
)

// SlotSource reports the ledger's current slot.
type SlotSource interface {
	Slot(ctx context.Context) (uint64, error)
}

// Watcher polls for new blocks and sends one configured transfer per
// block it observes. Each send fetches a fresh blockhash, since blocks
// keep arriving for longer than any single blockhash stays valid.
type Watcher struct {
	slots     SlotSource
	blockhash engine.BlockhashProvider
	builder   engine.TransactionBuilder
	submitter engine.Submitter
	spec      entities.TransferSpec
	interval  time.Duration
	log       *zap.Logger
}

func New(slots SlotSource, blockhash engine.BlockhashProvider, builder engine.TransactionBuilder, submitter engine.Submitter, spec entities.TransferSpec, interval time.Duration, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		slots:     slots,
		blockhash: blockhash,
		builder:   builder,
		submitter: submitter,
		spec:      spec,
		interval:  interval,
		log:       log,
	}
}

// Run watches until ctx is canceled. Send failures are logged and
// watching continues; only cancellation stops the loop.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var lastSlot uint64
	primed := false

	for {
		select {
		case <-ctx.Done():
			w.log.Info("received shutdown signal, exiting")
			return ctx.Err()
		case <-ticker.C:
			slot, err := w.slots.Slot(ctx)
			if err != nil {
				w.log.Warn("failed to fetch slot", zap.Error(err))
				continue
			}
			if !primed {
				lastSlot = slot
				primed = true
				continue
			}
			if slot <= lastSlot {
				continue
			}
			lastSlot = slot
			w.log.Info("received new block", zap.Uint64("slot", slot))

			signature, err := w.send(ctx)
			if err != nil {
				w.log.Error("failed to send transaction", zap.Error(err))
				continue
			}
			w.log.Info("transaction sent successfully", zap.String("signature", signature))
		}
	}
}

func (w *Watcher) send(ctx context.Context) (string, error) {
	recent, err := w.blockhash.LatestBlockhash(ctx)
	if err != nil {
		return "", err
	}
	built, err := w.builder.Build(w.spec, recent)
	if err != nil {
		return "", err
	}
	return w.submitter.Submit(ctx, built.Tx)
}
