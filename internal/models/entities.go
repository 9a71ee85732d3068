package models

import (
	"time"
)

// Seat status values. FREE seats can be held, HELD seats can be confirmed
// by their holder before held_until, BOOKED seats are sold.
const (
	SeatStatusFree   = "FREE"
	SeatStatusHeld   = "HELD"
	SeatStatusBooked = "BOOKED"
)

// Seat types assignable through pricing tiers.
const (
	SeatTypeNormal  = "normal"
	SeatTypeVIP     = "vip"
	SeatTypePremium = "premium"
)

// Booking status values.
const (
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
)

// Ticket-code issuance states. A booking stays durable with a PENDING code
// when the issuer is unavailable; issuance is retried asynchronously.
const (
	CodeStatusPending = "PENDING"
	CodeStatusIssued  = "ISSUED"
	CodeStatusFailed  = "FAILED"
)

// Event represents a scheduled event selling a finite pool of tickets.
// Events either track capacity as a single counter (general admission) or
// as individually addressed seat rows (HasSeats).
type Event struct {
	ID            int64     `json:"id" db:"id"`
	OrganizerID   int64     `json:"organizer_id" db:"organizer_id"`
	Title         string    `json:"title" db:"title"`
	Description   *string   `json:"description" db:"description"`
	Venue         *string   `json:"venue" db:"venue"`
	Category      *string   `json:"category" db:"category"`
	DatetimeStart time.Time `json:"datetime_start" db:"datetime_start"`
	Capacity      int       `json:"capacity" db:"capacity"`
	TicketPrice   int64     `json:"ticket_price" db:"ticket_price"`
	SeatRows      int       `json:"seat_rows" db:"seat_rows"`
	SeatCols      int       `json:"seat_cols" db:"seat_cols"`
	HasSeats      bool      `json:"has_seats" db:"has_seats"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Seat represents one addressable seat of an event. Prices are in cents,
// fixed at seat generation or the last tier application, never recomputed
// at booking time.
type Seat struct {
	ID         string     `json:"id" db:"id"`
	EventID    int64      `json:"event_id" db:"event_id"`
	SeatCode   string     `json:"seat_code" db:"seat_code"`
	RowLabel   string     `json:"row_label" db:"row_label"`
	SeatNumber int        `json:"seat_number" db:"seat_number"`
	SeatType   string     `json:"seat_type" db:"seat_type"`
	Price      int64      `json:"price" db:"price"`
	Status     string     `json:"status" db:"status"`
	HolderID   *int64     `json:"holder_id,omitempty" db:"holder_id"`
	HeldUntil  *time.Time `json:"held_until,omitempty" db:"held_until"`
	BookedBy   *int64     `json:"booked_by,omitempty" db:"booked_by"`
	BookedAt   *time.Time `json:"booked_at,omitempty" db:"booked_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// Booking represents a confirmed sale. General-admission bookings carry a
// ticket count; addressed bookings reference the seats confirmed in the
// same transaction through booking_seats.
type Booking struct {
	ID          int64     `json:"id" db:"id"`
	EventID     int64     `json:"event_id" db:"event_id"`
	BuyerID     int64     `json:"buyer_id" db:"buyer_id"`
	TicketCount int       `json:"ticket_count" db:"ticket_count"`
	TotalPrice  int64     `json:"total_price" db:"total_price"`
	Status      string    `json:"status" db:"status"`
	IssuedCode  *string   `json:"issued_code,omitempty" db:"issued_code"`
	CodeStatus  string    `json:"code_status" db:"code_status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	Seats       []Seat    `json:"seats,omitempty"` // Not from DB, filled separately
}

// PricingTier maps a contiguous row range to a seat type and price.
// Applying tiers is a destructive replace of the event's prior tier set.
type PricingTier struct {
	ID        int64     `json:"id" db:"id"`
	EventID   int64     `json:"event_id" db:"event_id"`
	RowStart  string    `json:"row_start" db:"row_start"`
	RowEnd    string    `json:"row_end" db:"row_end"`
	SeatType  string    `json:"seat_type" db:"seat_type"`
	Price     int64     `json:"price" db:"price"`
	AppliedAt time.Time `json:"applied_at" db:"applied_at"`
}
