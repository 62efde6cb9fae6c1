package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dyachv/multisend/internal/domain/entities"
	"github.com/dyachv/multisend/internal/metrics"
)

var ErrInvalidTimeout = errors.New("confirmation timeout must be positive")

// Engine dispatches a batch of transfer units concurrently, bounded by a
// gate, and aggregates their outcomes into an ordered report. Every
// dispatched unit yields exactly one outcome; unit-local faults are
// converted into Failed outcomes, never propagated.
type Engine struct {
	blockhash BlockhashProvider
	builder   TransactionBuilder
	submitter Submitter
	status    StatusChecker
	log       *zap.Logger
	metrics   *metrics.Metrics
}

func New(blockhash BlockhashProvider, builder TransactionBuilder, submitter Submitter, status StatusChecker) *Engine {
	return &Engine{
		blockhash: blockhash,
		builder:   builder,
		submitter: submitter,
		status:    status,
		log:       zap.NewNop(),
	}
}

func (e *Engine) SetLogger(log *zap.Logger) {
	if log != nil {
		e.log = log
	}
}

func (e *Engine) SetMetrics(m *metrics.Metrics) {
	e.metrics = m
}

// Options are the per-run knobs. Zero intervals fall back to the
// defaults; MaxConcurrent and ConfirmTimeout must be positive.
type Options struct {
	MaxConcurrent        int64
	ConfirmTimeout       time.Duration
	PollInterval         time.Duration
	TransportErrInterval time.Duration
}

// Run executes every spec through build, submit and confirmation
// polling. It returns a complete report once dispatched; only
// pre-dispatch failures (bad options, no blockhash) return an error.
func (e *Engine) Run(ctx context.Context, specs []entities.TransferSpec, opts Options) (*entities.Report, error) {
	if opts.ConfirmTimeout <= 0 {
		return nil, ErrInvalidTimeout
	}

	var inFlightGauge prometheus.Gauge
	if e.metrics != nil {
		inFlightGauge = e.metrics.InFlight
	}
	gate, err := NewGate(opts.MaxConcurrent, inFlightGauge)
	if err != nil {
		return nil, err
	}

	recent, err := e.blockhash.LatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch recent blockhash: %w", err)
	}

	poller := NewPoller(e.status)
	if opts.PollInterval > 0 {
		poller.PollInterval = opts.PollInterval
	}
	if opts.TransportErrInterval > 0 {
		poller.TransportErrInterval = opts.TransportErrInterval
	}

	e.log.Info("dispatching transfers",
		zap.Int("count", len(specs)),
		zap.Int64("max_concurrent", opts.MaxConcurrent),
		zap.Duration("confirm_timeout", opts.ConfirmTimeout),
	)

	start := time.Now()
	outcomes := make([]entities.TransferOutcome, len(specs))
	var wg sync.WaitGroup
	for i, spec := range specs {
		wg.Add(1)
		go func(idx int, spec entities.TransferSpec) {
			defer wg.Done()
			outcomes[idx] = e.executeUnit(ctx, gate, poller, spec, recent, opts.ConfirmTimeout)
			e.observe(outcomes[idx])
		}(i, spec)
	}
	wg.Wait()

	report := BuildReport(uuid.New(), outcomes, durationMs(start))
	e.log.Info("all transfers completed",
		zap.Int("success", report.SuccessCount),
		zap.Int("failed", report.FailedCount),
		zap.Int("timeout", report.TimeoutCount),
		zap.Uint64("total_ms", report.TotalDurationMs),
	)
	return report, nil
}

// executeUnit is the unit fault boundary: a panic inside the pipeline
// becomes that unit's Failed outcome and never reaches sibling units.
func (e *Engine) executeUnit(ctx context.Context, gate *Gate, poller *Poller, spec entities.TransferSpec, recent string, timeout time.Duration) (outcome entities.TransferOutcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			e.log.Error("transfer unit panicked", zap.Any("panic", recovered))
			outcome = failedOutcome(spec, spec.SourceKeyRef, 0, fmt.Sprintf("internal fault: %v", recovered))
		}
	}()
	return e.runUnit(ctx, gate, poller, spec, recent, timeout)
}

func (e *Engine) runUnit(ctx context.Context, gate *Gate, poller *Poller, spec entities.TransferSpec, recent string, timeout time.Duration) entities.TransferOutcome {
	if err := gate.Acquire(ctx); err != nil {
		return failedOutcome(spec, spec.SourceKeyRef, 0, fmt.Sprintf("dispatch aborted: %v", err))
	}
	defer gate.Release()

	log := e.log.With(zap.String("from", spec.SourceKeyRef), zap.String("to", spec.Destination))
	log.Info("starting transfer")

	built, err := e.builder.Build(spec, recent)
	if err != nil {
		log.Warn("transfer failed", zap.Error(err))
		return failedOutcome(spec, spec.SourceKeyRef, 0, err.Error())
	}

	submitStart := time.Now()
	signature, err := e.submitter.Submit(ctx, built.Tx)
	if err != nil {
		log.Warn("failed to send transaction", zap.Error(err))
		return failedOutcome(spec, built.From, durationMs(submitStart), fmt.Sprintf("send error: %v", err))
	}

	log.Info("confirming transaction", zap.String("signature", signature))
	result := poller.Confirm(ctx, signature, submitStart.Add(timeout))
	elapsed := durationMs(submitStart)

	outcome := entities.TransferOutcome{
		From:       built.From,
		To:         spec.Destination,
		Amount:     spec.Amount,
		Signature:  signature,
		DurationMs: elapsed,
	}
	switch result.Resolution {
	case ResolutionSuccess:
		log.Info("transfer confirmed", zap.String("signature", signature), zap.Uint64("duration_ms", elapsed))
		outcome.Status = entities.StatusSuccess
	case ResolutionFailed:
		log.Warn("transfer failed", zap.String("reason", result.FailureReason))
		outcome.Status = entities.StatusFailed
		outcome.Reason = fmt.Sprintf("transaction error: %s", result.FailureReason)
	case ResolutionTimeout:
		log.Warn("timeout while confirming transaction", zap.String("signature", signature))
		outcome.Status = entities.StatusTimeout
	}
	return outcome
}

func (e *Engine) observe(outcome entities.TransferOutcome) {
	if e.metrics == nil {
		return
	}
	e.metrics.Outcomes.WithLabelValues(string(outcome.Status)).Inc()
	e.metrics.Durations.Observe(float64(outcome.DurationMs) / 1000)
}

func failedOutcome(spec entities.TransferSpec, from string, elapsed uint64, reason string) entities.TransferOutcome {
	return entities.TransferOutcome{
		From:       from,
		To:         spec.Destination,
		Amount:     spec.Amount,
		DurationMs: elapsed,
		Status:     entities.StatusFailed,
		Reason:     reason,
	}
}

func durationMs(since time.Time) uint64 {
	elapsed := time.Since(since)
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed.Milliseconds())
}
