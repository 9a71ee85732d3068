package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ovation/internal/apperrors"
	"ovation/internal/database"
	"ovation/internal/logger"
	"ovation/internal/messaging"
	"ovation/internal/metrics"
	"ovation/internal/models"
	"ovation/internal/repository"
)

// BookingService coordinates booking transactions. All inventory mutation
// goes through the seat and booking repositories inside a single
// transaction per attempt; the service never writes seat state directly.
type BookingService struct {
	db          *database.DB
	bookingRepo *repository.BookingRepository
	eventRepo   *repository.EventRepository
	seatRepo    *repository.SeatRepository
	natsClient  *messaging.NATSClient
}

func NewBookingService(db *database.DB, bookingRepo *repository.BookingRepository, eventRepo *repository.EventRepository, seatRepo *repository.SeatRepository, natsClient *messaging.NATSClient) *BookingService {
	return &BookingService{
		db:          db,
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
		seatRepo:    seatRepo,
		natsClient:  natsClient,
	}
}

// ReserveTickets sells general-admission tickets. The capacity check and
// the booking insert happen in one transaction holding the event row lock,
// so concurrent reservations against the same event serialize and the sum
// of sold tickets can never pass capacity. Remaining capacity is computed
// inside the critical section, never from an earlier read.
func (s *BookingService) ReserveTickets(ctx context.Context, req *models.ReserveTicketsRequest, buyerID int64) (*models.CreateBookingResponse, error) {
	var booking *models.Booking

	err := s.db.WithTxRetry(ctx, func(tx *sql.Tx) error {
		event, err := s.eventRepo.GetForUpdateTx(ctx, tx, req.EventID)
		if err != nil {
			return fmt.Errorf("failed to get event: %w", err)
		}
		if event == nil {
			return apperrors.ErrEventNotFound
		}
		if event.HasSeats {
			return fmt.Errorf("event %d uses addressed seating; hold seats instead", event.ID)
		}

		confirmed, err := s.bookingRepo.SumConfirmedTicketsTx(ctx, tx, event.ID)
		if err != nil {
			return fmt.Errorf("failed to count confirmed tickets: %w", err)
		}

		if req.TicketCount > event.Capacity-confirmed {
			return apperrors.ErrCapacityExceeded
		}

		booking = &models.Booking{
			EventID:     event.ID,
			BuyerID:     buyerID,
			TicketCount: req.TicketCount,
			TotalPrice:  int64(req.TicketCount) * event.TicketPrice,
			Status:      models.BookingStatusConfirmed,
			CodeStatus:  models.CodeStatusPending,
		}
		return s.bookingRepo.CreateTx(ctx, tx, booking)
	})

	if err != nil {
		if errors.Is(err, apperrors.ErrCapacityExceeded) {
			metrics.ReservationsTotal.WithLabelValues(metrics.OutcomeCapacityExceeded).Inc()
		} else {
			metrics.ReservationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		}
		return nil, err
	}

	metrics.ReservationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	s.publishConfirmed(ctx, booking)

	return &models.CreateBookingResponse{
		ID:          booking.ID,
		TicketCount: booking.TicketCount,
		TotalPrice:  formatPrice(booking.TotalPrice),
		CodeStatus:  booking.CodeStatus,
	}, nil
}

// ConfirmSeats converts the buyer's existing holds into a booking. Seat
// re-verification (still held by this buyer, not expired) and the booking
// insert share one transaction; if any seat fails the check, nothing is
// persisted and the holds are left as they were.
func (s *BookingService) ConfirmSeats(ctx context.Context, req *models.ConfirmSeatsRequest, buyerID int64) (*models.CreateBookingResponse, error) {
	var booking *models.Booking

	err := s.db.WithTxRetry(ctx, func(tx *sql.Tx) error {
		seats, err := s.seatRepo.ConfirmTx(ctx, tx, req.EventID, req.SeatCodes, buyerID)
		if err != nil {
			return err
		}

		var totalPrice int64
		for _, seat := range seats {
			totalPrice += seat.Price
		}

		booking = &models.Booking{
			EventID:     req.EventID,
			BuyerID:     buyerID,
			TicketCount: len(seats),
			TotalPrice:  totalPrice,
			Status:      models.BookingStatusConfirmed,
			CodeStatus:  models.CodeStatusPending,
		}
		if err := s.bookingRepo.CreateTx(ctx, tx, booking); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		for _, seat := range seats {
			if err := s.bookingRepo.AddSeatTx(ctx, tx, booking.ID, seat.ID); err != nil {
				return fmt.Errorf("failed to link seat %s: %w", seat.SeatCode, err)
			}
		}

		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrHoldExpired):
			metrics.ConfirmationsTotal.WithLabelValues(metrics.OutcomeExpired).Inc()
		default:
			if _, ok := apperrors.AsHoldConflict(err); ok {
				metrics.ConfirmationsTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
			} else {
				metrics.ConfirmationsTotal.WithLabelValues(metrics.OutcomeError).Inc()
			}
		}
		return nil, err
	}

	metrics.ConfirmationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
	s.publishConfirmed(ctx, booking)

	return &models.CreateBookingResponse{
		ID:          booking.ID,
		TicketCount: booking.TicketCount,
		TotalPrice:  formatPrice(booking.TotalPrice),
		CodeStatus:  booking.CodeStatus,
	}, nil
}

// publishConfirmed hands the booking to the issuance worker. The booking
// is already durable; a publish failure only delays the ticket code until
// the retry sweep picks it up.
func (s *BookingService) publishConfirmed(ctx context.Context, booking *models.Booking) {
	event := models.BookingConfirmedEvent{
		BookingID:   booking.ID,
		EventID:     booking.EventID,
		BuyerID:     booking.BuyerID,
		TicketCount: booking.TicketCount,
		Timestamp:   time.Now(),
	}

	if err := s.natsClient.Publish(models.EventBookingConfirmed, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish booking confirmed event",
			"error", err,
			"booking_id", booking.ID,
			"event_type", models.EventBookingConfirmed)
	}
}

// Cancel releases a booking's inventory. Addressed seats go back to FREE;
// general-admission capacity is reclaimed implicitly because cancelled
// bookings drop out of the confirmed sum. Cancelling twice is a no-op.
func (s *BookingService) Cancel(ctx context.Context, req *models.CancelBookingRequest, buyerID int64) error {
	var cancelled *models.Booking

	err := s.db.WithTxRetry(ctx, func(tx *sql.Tx) error {
		booking, err := s.bookingRepo.GetForUpdateTx(ctx, tx, req.BookingID)
		if err != nil {
			return fmt.Errorf("failed to get booking: %w", err)
		}
		if booking == nil {
			return apperrors.ErrBookingNotFound
		}
		if booking.BuyerID != buyerID {
			return apperrors.ErrForbidden
		}
		if booking.Status == models.BookingStatusCancelled {
			return nil
		}

		if err := s.seatRepo.ReleaseBookedTx(ctx, tx, booking.ID, buyerID); err != nil {
			return fmt.Errorf("failed to release booked seats: %w", err)
		}

		if err := s.bookingRepo.CancelTx(ctx, tx, booking.ID); err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}

		cancelled = booking
		return nil
	})
	if err != nil {
		return err
	}

	if cancelled != nil {
		event := models.BookingCancelledEvent{
			BookingID: cancelled.ID,
			EventID:   cancelled.EventID,
			Reason:    "Buyer cancellation",
			Timestamp: time.Now(),
		}
		if err := s.natsClient.Publish(models.EventBookingCancelled, event); err != nil {
			logger.WithContext(ctx).Error("Failed to publish booking cancelled event",
				"error", err,
				"booking_id", cancelled.ID,
				"event_type", models.EventBookingCancelled)
		}
	}

	return nil
}

// List returns the buyer's bookings with any addressed seats attached
func (s *BookingService) List(ctx context.Context, buyerID int64) (models.ListBookingsResponse, error) {
	bookings, err := s.bookingRepo.GetByBuyerID(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	result := make(models.ListBookingsResponse, len(bookings))
	for i, booking := range bookings {
		item := models.ListBookingsResponseItem{
			ID:          booking.ID,
			EventID:     booking.EventID,
			TicketCount: booking.TicketCount,
			TotalPrice:  formatPrice(booking.TotalPrice),
			Status:      booking.Status,
			IssuedCode:  booking.IssuedCode,
			CodeStatus:  booking.CodeStatus,
		}

		seats, err := s.bookingRepo.GetSeats(ctx, booking.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get booking seats: %w", err)
		}
		for _, seat := range seats {
			item.Seats = append(item.Seats, seatResponseItem(seat))
		}

		result[i] = item
	}

	return result, nil
}

// GetByID returns one booking, restricted to its buyer
func (s *BookingService) GetByID(ctx context.Context, bookingID, buyerID int64) (*models.ListBookingsResponseItem, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrBookingNotFound
	}
	if booking.BuyerID != buyerID {
		return nil, apperrors.ErrForbidden
	}

	item := &models.ListBookingsResponseItem{
		ID:          booking.ID,
		EventID:     booking.EventID,
		TicketCount: booking.TicketCount,
		TotalPrice:  formatPrice(booking.TotalPrice),
		Status:      booking.Status,
		IssuedCode:  booking.IssuedCode,
		CodeStatus:  booking.CodeStatus,
	}

	seats, err := s.bookingRepo.GetSeats(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking seats: %w", err)
	}
	for _, seat := range seats {
		item.Seats = append(item.Seats, seatResponseItem(seat))
	}

	return item, nil
}

// EventStats aggregates sales for an event
func (s *BookingService) EventStats(ctx context.Context, eventID int64) (*models.EventStatsResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}

	sold, revenue, err := s.bookingRepo.GetEventStats(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event stats: %w", err)
	}

	return &models.EventStatsResponse{
		EventID:     eventID,
		TicketsSold: sold,
		Revenue:     formatPrice(revenue),
		Remaining:   event.Capacity - sold,
	}, nil
}
