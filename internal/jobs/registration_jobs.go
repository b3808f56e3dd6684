package jobs

import (
	"context"
	"fmt"
	"time"

	"registration-service/internal/domain"
	"registration-service/internal/logger"
)

// PendingReport summarizes the review backlog.
type PendingReport struct {
	Pending  int
	Accepted int
	Rejected int
	// Stale lists pending requests older than the configured threshold, oldest first.
	Stale []domain.RegistrationRequest
}

// PendingReviewReport logs the review backlog and warns about requests that
// have waited longer than scheduler.stale_after_hours.
func (jr *JobRunner) PendingReviewReport() {
	jr.runWithRecovery("PendingReviewReport", func(ctx context.Context) {
		report, err := jr.BuildPendingReport(ctx)
		if err != nil {
			logger.Error("Failed to build pending review report", "error", err)
			return
		}

		logger.Info("Registration review backlog",
			"pending", report.Pending,
			"accepted", report.Accepted,
			"rejected", report.Rejected,
			"stale", len(report.Stale))

		for _, req := range report.Stale {
			logger.Warn("Registration request awaiting review",
				"request_id", req.ID,
				"email", req.Email,
				"waiting", jr.now().Sub(req.CreatedDate).Truncate(time.Minute).String())
		}
	})
}

func (jr *JobRunner) BuildPendingReport(ctx context.Context) (*PendingReport, error) {
	report := &PendingReport{}
	counts := []struct {
		status domain.RequestStatus
		dst    *int
	}{
		{domain.RequestStatusPending, &report.Pending},
		{domain.RequestStatusAccepted, &report.Accepted},
		{domain.RequestStatusRejected, &report.Rejected},
	}
	for _, c := range counts {
		n, err := jr.requests.CountByStatus(ctx, c.status)
		if err != nil {
			return nil, fmt.Errorf("failed to count %s requests: %w", c.status, err)
		}
		*c.dst = n
	}

	cutoff := jr.now().Add(-jr.config.StaleAfter())
	stale, err := jr.requests.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale requests: %w", err)
	}
	report.Stale = stale
	return report, nil
}
