package jobs

import (
	"context"
	"log/slog"
	"time"

	"ovation/internal/consumers"
	"ovation/internal/repository"
)

// IssuanceRetryJob re-submits bookings whose ticket code is still pending.
// Covers lost messages and issuer outages; the booking stays sold either way.
type IssuanceRetryJob struct {
	bookingRepo *repository.BookingRepository
	handlers    *consumers.Handlers
	interval    time.Duration
	ticker      *time.Ticker
	done        chan bool
}

func NewIssuanceRetryJob(bookingRepo *repository.BookingRepository, handlers *consumers.Handlers, interval time.Duration) *IssuanceRetryJob {
	return &IssuanceRetryJob{
		bookingRepo: bookingRepo,
		handlers:    handlers,
		interval:    interval,
		done:        make(chan bool),
	}
}

func (j *IssuanceRetryJob) Start(ctx context.Context) {
	slog.Info("Starting issuance retry job", "interval", j.interval.String())

	j.ticker = time.NewTicker(j.interval)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				j.retryPending(ctx)
			case <-j.done:
				slog.Info("Issuance retry job stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the job
func (j *IssuanceRetryJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

// retryPending sweeps bookings stuck with a pending code. Only bookings
// older than one interval are retried, so a code the consumer is about to
// issue is not raced.
func (j *IssuanceRetryJob) retryPending(ctx context.Context) {
	olderThan := time.Now().Add(-j.interval)

	pending, err := j.bookingRepo.GetPendingCodeBookings(ctx, olderThan)
	if err != nil {
		slog.Error("Failed to get pending code bookings", "error", err)
		return
	}

	if len(pending) == 0 {
		return
	}

	slog.Info("Retrying ticket code issuance", "count", len(pending))

	for _, booking := range pending {
		if err := j.handlers.IssueCode(ctx, booking.ID); err != nil {
			slog.Error("Retry issuance failed",
				"error", err,
				"booking_id", booking.ID)
		}
	}
}
