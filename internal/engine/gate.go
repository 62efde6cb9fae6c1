package engine

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/semaphore"
)

var ErrInvalidConcurrency = errors.New("max concurrent transfers must be positive")

// Gate bounds how many transfer units run their build/submit/poll section
// at the same time. At most `limit` permits are held at any instant.
type Gate struct {
	sem      *semaphore.Weighted
	inFlight prometheus.Gauge
}

// NewGate rejects non-positive limits instead of clamping them.
// inFlight may be nil when the gate is not instrumented.
func NewGate(limit int64, inFlight prometheus.Gauge) (*Gate, error) {
	if limit <= 0 {
		return nil, ErrInvalidConcurrency
	}
	return &Gate{sem: semaphore.NewWeighted(limit), inFlight: inFlight}, nil
}

// Acquire blocks until a permit is free or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	if g.inFlight != nil {
		g.inFlight.Inc()
	}
	return nil
}

// Release returns a permit. Callers must release on every exit path.
func (g *Gate) Release() {
	if g.inFlight != nil {
		g.inFlight.Dec()
	}
	g.sem.Release(1)
}
