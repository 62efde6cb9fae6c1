package engine

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultPollInterval is the wait after the ledger reports "not yet known".
	DefaultPollInterval = 500 * time.Millisecond
	// DefaultTransportErrInterval is the longer wait after a failed status
	// query, since the likelier cause is a transient network problem.
	DefaultTransportErrInterval = 1000 * time.Millisecond
)

type pollState int

const (
	statePending pollState = iota
	stateResolved
	stateTimedOut
)

type Resolution int

const (
	ResolutionSuccess Resolution = iota
	ResolutionFailed
	ResolutionTimeout
)

// PollResult is the terminal result of confirmation polling.
type PollResult struct {
	Resolution    Resolution
	FailureReason string
}

// Poller drives a signature from pending to a terminal state, bounded by
// a deadline. The two intervals keep "ledger says not final yet" and
// "we failed to ask" as independent wait policies.
type Poller struct {
	Status               StatusChecker
	PollInterval         time.Duration
	TransportErrInterval time.Duration
}

func NewPoller(status StatusChecker) *Poller {
	return &Poller{
		Status:               status,
		PollInterval:         DefaultPollInterval,
		TransportErrInterval: DefaultTransportErrInterval,
	}
}

// Confirm polls until the signature resolves, the deadline passes, or ctx
// is canceled. It returns within deadline + one polling interval.
func (p *Poller) Confirm(ctx context.Context, signature string, deadline time.Time) PollResult {
	state := statePending
	var resolved PollResult

	for state == statePending {
		if !time.Now().Before(deadline) {
			state = stateTimedOut
			break
		}

		status, err := p.Status.SignatureStatus(ctx, signature)
		switch {
		case err != nil:
			if !p.wait(ctx, p.TransportErrInterval) {
				return canceledResult(ctx)
			}
		case status.State == SignaturePending:
			if !p.wait(ctx, p.PollInterval) {
				return canceledResult(ctx)
			}
		case status.State == SignatureFailed:
			state = stateResolved
			resolved = PollResult{Resolution: ResolutionFailed, FailureReason: status.FailureReason}
		default:
			state = stateResolved
			resolved = PollResult{Resolution: ResolutionSuccess}
		}
	}

	if state == stateTimedOut {
		return PollResult{Resolution: ResolutionTimeout}
	}
	return resolved
}

func (p *Poller) wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func canceledResult(ctx context.Context) PollResult {
	return PollResult{
		Resolution:    ResolutionFailed,
		FailureReason: fmt.Sprintf("confirmation aborted: %v", ctx.Err()),
	}
}
