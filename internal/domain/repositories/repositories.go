package repositories

import (
	"context"

	"github.com/dyachv/multisend/internal/domain/entities"
)

// ReportPublisher exports a finished run to an external sink.
// Publishing is best-effort: a failed publish never fails the run itself.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report *entities.Report) error
	Close() error
}
