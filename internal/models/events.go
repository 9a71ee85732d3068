package models

import "time"

// NATS Event Types
const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
	EventHoldsAcquired    = "holds.acquired"
	EventHoldsReleased    = "holds.released"
	EventHoldsReaped      = "holds.reaped"
	EventCodeIssued       = "ticketcode.issued"
)

// BookingConfirmedEvent represents a confirmed sale. The issuance worker
// consumes it to generate the ticket code for the booking.
type BookingConfirmedEvent struct {
	BookingID   int64     `json:"booking_id"`
	EventID     int64     `json:"event_id"`
	BuyerID     int64     `json:"buyer_id"`
	TicketCount int       `json:"ticket_count"`
	Timestamp   time.Time `json:"timestamp"`
}

// BookingCancelledEvent represents a booking cancellation event
type BookingCancelledEvent struct {
	BookingID int64     `json:"booking_id"`
	EventID   int64     `json:"event_id"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// HoldsAcquiredEvent represents a successful hold acquisition
type HoldsAcquiredEvent struct {
	EventID   int64     `json:"event_id"`
	SeatCodes []string  `json:"seat_codes"`
	HolderID  int64     `json:"holder_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Timestamp time.Time `json:"timestamp"`
}

// HoldsReleasedEvent represents an explicit hold release
type HoldsReleasedEvent struct {
	EventID   int64     `json:"event_id"`
	SeatCodes []string  `json:"seat_codes"`
	HolderID  int64     `json:"holder_id"`
	Timestamp time.Time `json:"timestamp"`
}

// HoldsReapedEvent is published after a reaper sweep reclaimed expired holds
type HoldsReapedEvent struct {
	Reclaimed int64     `json:"reclaimed"`
	Timestamp time.Time `json:"timestamp"`
}

// CodeIssuedEvent represents a successfully issued ticket code
type CodeIssuedEvent struct {
	BookingID int64     `json:"booking_id"`
	Timestamp time.Time `json:"timestamp"`
}
