package kafka

import "github.com/google/uuid"

// OutcomeMessage is the wire form of one transfer outcome.
type OutcomeMessage struct {
	ID         uuid.UUID `json:"id"`
	RunID      uuid.UUID `json:"runId"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Amount     string    `json:"amount"`
	Signature  string    `json:"signature,omitempty"`
	DurationMs uint64    `json:"durationMs"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
}
