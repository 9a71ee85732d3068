package models

import "time"

// CreateEventRequest - request body for creating an event
type CreateEventRequest struct {
	Title         string    `json:"title" binding:"required"`
	Description   *string   `json:"description,omitempty"`
	Venue         *string   `json:"venue,omitempty"`
	Category      *string   `json:"category,omitempty"`
	DatetimeStart time.Time `json:"datetime_start" binding:"required"`
	Capacity      int       `json:"capacity" binding:"required,min=1"`
	TicketPrice   int64     `json:"ticket_price"`
	SeatRows      int       `json:"seat_rows"`
	SeatCols      int       `json:"seat_cols"`
}

// CreateEventResponse - response for event creation
type CreateEventResponse struct {
	ID int64 `json:"id"`
}

// ListEventsResponseItem - one event in the catalog listing
type ListEventsResponseItem struct {
	ID               int64  `json:"id"`
	Title            string `json:"title"`
	Venue            string `json:"venue,omitempty"`
	Category         string `json:"category,omitempty"`
	Capacity         int    `json:"capacity"`
	AvailableTickets int    `json:"available_tickets"`
	HasSeats         bool   `json:"has_seats"`
}

// ListEventsResponse - event catalog listing
type ListEventsResponse []ListEventsResponseItem

// ListSeatsResponseItem - one seat in a seat listing
type ListSeatsResponseItem struct {
	ID       string `json:"id"`
	SeatCode string `json:"seat_code"`
	RowLabel string `json:"row_label"`
	Number   int    `json:"number"`
	SeatType string `json:"seat_type"`
	Status   string `json:"status"`
	Price    string `json:"price"`
}

// SeatMapResponse - seats grouped by row label for rendering a floor plan
type SeatMapResponse map[string][]ListSeatsResponseItem

// GenerateSeatsRequest - request body for bulk seat generation
type GenerateSeatsRequest struct {
	Rows      int   `json:"rows" binding:"required,min=1,max=26"`
	Cols      int   `json:"cols" binding:"required,min=1"`
	BasePrice int64 `json:"base_price"`
}

// HoldSeatsRequest - request body for acquiring seat holds
type HoldSeatsRequest struct {
	EventID   int64    `json:"event_id" binding:"required"`
	SeatCodes []string `json:"seat_codes" binding:"required,min=1"`
}

// HoldSeatsResponse - result of a successful hold acquisition
type HoldSeatsResponse struct {
	SeatCodes  []string  `json:"seat_codes"`
	TotalPrice string    `json:"total_price"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ReleaseSeatsRequest - request body for releasing held seats
type ReleaseSeatsRequest struct {
	EventID   int64    `json:"event_id" binding:"required"`
	SeatCodes []string `json:"seat_codes" binding:"required,min=1"`
}

// ReserveTicketsRequest - general-admission reservation request
type ReserveTicketsRequest struct {
	EventID     int64 `json:"event_id" binding:"required"`
	TicketCount int   `json:"ticket_count" binding:"required,min=1"`
}

// ConfirmSeatsRequest - confirm previously held seats into a booking
type ConfirmSeatsRequest struct {
	EventID   int64    `json:"event_id" binding:"required"`
	SeatCodes []string `json:"seat_codes" binding:"required,min=1"`
}

// CreateBookingResponse - response for a confirmed booking
type CreateBookingResponse struct {
	ID          int64  `json:"id"`
	TicketCount int    `json:"ticket_count"`
	TotalPrice  string `json:"total_price"`
	CodeStatus  string `json:"code_status"`
}

// CancelBookingRequest - request body for cancelling a booking
type CancelBookingRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

// ListBookingsResponseItem - one booking in a buyer's listing
type ListBookingsResponseItem struct {
	ID          int64                   `json:"id"`
	EventID     int64                   `json:"event_id"`
	TicketCount int                     `json:"ticket_count"`
	TotalPrice  string                  `json:"total_price"`
	Status      string                  `json:"status"`
	IssuedCode  *string                 `json:"issued_code,omitempty"`
	CodeStatus  string                  `json:"code_status"`
	Seats       []ListSeatsResponseItem `json:"seats,omitempty"`
}

// ListBookingsResponse - a buyer's bookings
type ListBookingsResponse []ListBookingsResponseItem

// ApplyTiersRequest - destructive-replace pricing tier application
type ApplyTiersRequest struct {
	Tiers []TierInput `json:"tiers" binding:"required,min=1,dive"`
}

// TierInput - one pricing tier covering a contiguous row range
type TierInput struct {
	RowStart string `json:"row_start" binding:"required"`
	RowEnd   string `json:"row_end" binding:"required"`
	SeatType string `json:"seat_type" binding:"required,oneof=normal vip premium"`
	Price    int64  `json:"price" binding:"required,min=0"`
}

// EventStatsResponse - per-event sales figures for organizers
type EventStatsResponse struct {
	EventID     int64  `json:"event_id"`
	TicketsSold int    `json:"tickets_sold"`
	Revenue     string `json:"revenue"`
	Remaining   int    `json:"remaining"`
}
