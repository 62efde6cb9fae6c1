package kafka

import (
	"github.com/google/uuid"

	"github.com/dyachv/multisend/internal/domain/entities"
)

func toMessage(runID uuid.UUID, outcome entities.TransferOutcome) OutcomeMessage {
	return OutcomeMessage{
		ID:         uuid.New(),
		RunID:      runID,
		From:       outcome.From,
		To:         outcome.To,
		Amount:     outcome.Amount.String(),
		Signature:  outcome.Signature,
		DurationMs: outcome.DurationMs,
		Status:     string(outcome.Status),
		Reason:     outcome.Reason,
	}
}
