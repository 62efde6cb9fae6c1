package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SignedTransaction is an opaque, ready-to-submit ledger transaction.
// Built once per transfer and consumed exactly once by the submitter.
type SignedTransaction interface{}

// TransferSpec is one (source, destination, amount) unit of work.
// Immutable once produced by plan expansion.
type TransferSpec struct {
	SourceKeyRef string
	Destination  string
	Amount       decimal.Decimal
}

type OutcomeStatus string

const (
	StatusSuccess OutcomeStatus = "SUCCESS"
	StatusFailed  OutcomeStatus = "FAILED"
	StatusTimeout OutcomeStatus = "TIMEOUT"
)

// TransferOutcome is the terminal result of one transfer unit.
// Reason is set only when Status is StatusFailed and carries the
// underlying error text verbatim.
type TransferOutcome struct {
	From       string
	To         string
	Amount     decimal.Decimal
	Signature  string
	DurationMs uint64
	Status     OutcomeStatus
	Reason     string
}

// Report holds one outcome per dispatched unit, in original plan order.
type Report struct {
	RunID           uuid.UUID
	Outcomes        []TransferOutcome
	SuccessCount    int
	FailedCount     int
	TimeoutCount    int
	TotalDurationMs uint64
}

// WalletBalance is a single balance-checker result.
type WalletBalance struct {
	Address     string
	SOL         decimal.Decimal
	FetchTimeMs uint64
}
