package consumers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"ovation/internal/messaging"
	"ovation/internal/metrics"
	"ovation/internal/models"
	"ovation/internal/repository"
	"ovation/internal/ticketcode"

	"github.com/nats-io/stan.go"
)

type Handlers struct {
	repos  *repository.Repositories
	nats   *messaging.NATSClient
	issuer ticketcode.Issuer
}

func NewHandlers(repos *repository.Repositories, nats *messaging.NATSClient, issuer ticketcode.Issuer) *Handlers {
	return &Handlers{
		repos:  repos,
		nats:   nats,
		issuer: issuer,
	}
}

// HandleBookingConfirmed issues the ticket code for a freshly confirmed
// booking. Redelivery is safe: a booking that already carries a code is
// skipped, and a failed issuance leaves the code pending for the retry job.
func (h *Handlers) HandleBookingConfirmed(m *stan.Msg) {
	var event models.BookingConfirmedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking confirmed event", "error", err)
		m.Ack()
		return
	}

	ctx := context.Background()
	if err := h.IssueCode(ctx, event.BookingID); err != nil {
		slog.Error("Failed to issue ticket code, leaving pending",
			"error", err,
			"booking_id", event.BookingID)
	}

	m.Ack()
}

// IssueCode loads the booking, generates its ticket code and persists it.
// Shared with the retry sweep.
func (h *Handlers) IssueCode(ctx context.Context, bookingID int64) error {
	booking, err := h.repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		metrics.CodesIssuedTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}
	if booking == nil {
		slog.Warn("Booking not found for code issuance", "booking_id", bookingID)
		return nil
	}
	if booking.Status != models.BookingStatusConfirmed || booking.CodeStatus != models.CodeStatusPending {
		return nil
	}

	code, err := h.issuer.Issue(booking)
	if err != nil {
		metrics.CodesIssuedTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}

	if err := h.repos.Bookings.SetIssuedCode(ctx, booking.ID, code); err != nil {
		metrics.CodesIssuedTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}

	metrics.CodesIssuedTotal.WithLabelValues(metrics.OutcomeOK).Inc()

	issued := models.CodeIssuedEvent{
		BookingID: booking.ID,
		Timestamp: time.Now(),
	}
	if err := h.nats.Publish(models.EventCodeIssued, issued); err != nil {
		slog.Error("Failed to publish code issued event",
			"error", err,
			"booking_id", booking.ID,
			"event_type", models.EventCodeIssued)
	}

	slog.Info("Issued ticket code", "booking_id", booking.ID)
	return nil
}

// HandleBookingCancelled logs cancellations consumed off the stream. Seat
// release already happened transactionally on the API side; nothing here
// touches inventory.
func (h *Handlers) HandleBookingCancelled(m *stan.Msg) {
	var event models.BookingCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking cancelled event", "error", err)
		m.Ack()
		return
	}

	slog.Info("Processing booking cancelled event",
		"booking_id", event.BookingID,
		"event_id", event.EventID,
		"reason", event.Reason)

	m.Ack()
}
