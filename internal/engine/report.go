package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/dyachv/multisend/internal/domain/entities"
)

// BuildReport assembles the ordered outcomes into a report with derived
// per-status counts. Outcomes must already be in original plan order.
func BuildReport(runID uuid.UUID, outcomes []entities.TransferOutcome, totalMs uint64) *entities.Report {
	report := &entities.Report{
		RunID:           runID,
		Outcomes:        outcomes,
		TotalDurationMs: totalMs,
	}
	for _, outcome := range outcomes {
		switch outcome.Status {
		case entities.StatusSuccess:
			report.SuccessCount++
		case entities.StatusTimeout:
			report.TimeoutCount++
		default:
			report.FailedCount++
		}
	}
	return report
}

// AverageDurationMs is the arithmetic mean across all outcomes, 0 for an
// empty report.
func AverageDurationMs(report *entities.Report) uint64 {
	if len(report.Outcomes) == 0 {
		return 0
	}
	var sum uint64
	for _, outcome := range report.Outcomes {
		sum += outcome.DurationMs
	}
	return sum / uint64(len(report.Outcomes))
}

// RenderText writes the fixed-width results table and summary statistics.
func RenderText(w io.Writer, report *entities.Report) {
	divider := strings.Repeat("-", 80)

	fmt.Fprintf(w, "\n%s\n", centered(" RESULTS SUMMARY ", 80))
	fmt.Fprintf(w, "%-5s %-12s %-44s %-10s %-10s %-20s %-20s\n",
		"No.", "Status", "Signature", "Amount", "Time (ms)", "From", "To")
	fmt.Fprintln(w, divider)

	for i, outcome := range report.Outcomes {
		if outcome.Status == entities.StatusFailed && outcome.Reason != "" {
			fmt.Fprintf(w, "    Error details: %s\n", outcome.Reason)
		}
		fmt.Fprintf(w, "%-5d %-12s %-44s %-10s %-10d %-20s %-20s\n",
			i+1,
			outcome.Status,
			outcome.Signature,
			outcome.Amount.StringFixed(4),
			outcome.DurationMs,
			outcome.From,
			outcome.To,
		)
	}

	fmt.Fprintf(w, "\n%s\n", centered(" STATISTICS ", 80))
	fmt.Fprintf(w, "Run ID: %s\n", report.RunID)
	fmt.Fprintf(w, "Total transfers: %d\n", len(report.Outcomes))
	fmt.Fprintf(w, "Successful: %d\n", report.SuccessCount)
	fmt.Fprintf(w, "Failed: %d\n", report.FailedCount)
	fmt.Fprintf(w, "Timeouts: %d\n", report.TimeoutCount)
	fmt.Fprintf(w, "Average duration: %dms\n", AverageDurationMs(report))
	fmt.Fprintf(w, "Total execution time: %dms\n", report.TotalDurationMs)
}

func centered(title string, width int) string {
	if len(title) >= width {
		return title
	}
	pad := width - len(title)
	left := pad / 2
	return strings.Repeat("-", left) + title + strings.Repeat("-", pad-left)
}
