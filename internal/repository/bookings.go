package repository

import (
	"context"
	"database/sql"
	"time"

	"ovation/internal/database"
	"ovation/internal/models"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// CreateTx persists a booking inside the caller's transaction. The caller
// owns the transaction boundary so the insert commits atomically with the
// capacity check or seat confirmation that justified it.
func (r *BookingRepository) CreateTx(ctx context.Context, tx *sql.Tx, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (event_id, buyer_id, ticket_count, total_price, status, code_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	return tx.QueryRowContext(ctx, query,
		booking.EventID,
		booking.BuyerID,
		booking.TicketCount,
		booking.TotalPrice,
		booking.Status,
		booking.CodeStatus,
	).Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt)
}

// AddSeatTx links a confirmed seat to a booking within the same transaction
func (r *BookingRepository) AddSeatTx(ctx context.Context, tx *sql.Tx, bookingID int64, seatID string) error {
	query := `INSERT INTO booking_seats (booking_id, seat_id) VALUES ($1, $2)`
	_, err := tx.ExecContext(ctx, query, bookingID, seatID)
	return err
}

// SumConfirmedTicketsTx totals the tickets sold for an event. Callers must
// hold the event row lock in the same transaction; the sum is only
// trustworthy inside that critical section.
func (r *BookingRepository) SumConfirmedTicketsTx(ctx context.Context, tx *sql.Tx, eventID int64) (int, error) {
	var confirmed int
	query := `
		SELECT COALESCE(SUM(ticket_count), 0)
		FROM bookings
		WHERE event_id = $1 AND status = $2`

	err := tx.QueryRowContext(ctx, query, eventID, models.BookingStatusConfirmed).Scan(&confirmed)
	return confirmed, err
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `
		SELECT id, event_id, buyer_id, ticket_count, total_price, status,
		       issued_code, code_status, created_at, updated_at
		FROM bookings
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.EventID,
		&booking.BuyerID,
		&booking.TicketCount,
		&booking.TotalPrice,
		&booking.Status,
		&booking.IssuedCode,
		&booking.CodeStatus,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

// GetForUpdateTx locks a booking row for cancellation
func (r *BookingRepository) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `
		SELECT id, event_id, buyer_id, ticket_count, total_price, status,
		       issued_code, code_status, created_at, updated_at
		FROM bookings
		WHERE id = $1
		FOR UPDATE`

	err := tx.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.EventID,
		&booking.BuyerID,
		&booking.TicketCount,
		&booking.TotalPrice,
		&booking.Status,
		&booking.IssuedCode,
		&booking.CodeStatus,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return booking, err
}

func (r *BookingRepository) GetByBuyerID(ctx context.Context, buyerID int64) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `
		SELECT id, event_id, buyer_id, ticket_count, total_price, status,
		       issued_code, code_status, created_at, updated_at
		FROM bookings
		WHERE buyer_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, buyerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.EventID,
			&booking.BuyerID,
			&booking.TicketCount,
			&booking.TotalPrice,
			&booking.Status,
			&booking.IssuedCode,
			&booking.CodeStatus,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// GetSeats returns the seats confirmed under a booking
func (r *BookingRepository) GetSeats(ctx context.Context, bookingID int64) ([]models.Seat, error) {
	var seats []models.Seat
	query := `
		SELECT s.id, s.event_id, s.seat_code, s.row_label, s.seat_number, s.seat_type, s.price, s.status,
		       s.holder_id, s.held_until, s.booked_by, s.booked_at, s.created_at, s.updated_at
		FROM seats s
		JOIN booking_seats bs ON s.id = bs.seat_id
		WHERE bs.booking_id = $1
		ORDER BY s.row_label, s.seat_number`

	rows, err := r.db.QueryContext(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var seat models.Seat
		if err := scanSeat(rows, &seat); err != nil {
			return nil, err
		}
		seats = append(seats, seat)
	}

	return seats, rows.Err()
}

// CancelTx flags a booking cancelled within the caller's transaction
func (r *BookingRepository) CancelTx(ctx context.Context, tx *sql.Tx, id int64) error {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`
	_, err := tx.ExecContext(ctx, query, models.BookingStatusCancelled, id)
	return err
}

// SetIssuedCode records a successfully issued ticket code
func (r *BookingRepository) SetIssuedCode(ctx context.Context, id int64, code string) error {
	query := `
		UPDATE bookings
		SET issued_code = $1, code_status = $2, updated_at = NOW()
		WHERE id = $3`

	_, err := r.db.ExecContext(ctx, query, code, models.CodeStatusIssued, id)
	return err
}

// GetPendingCodeBookings returns confirmed bookings whose ticket code has
// not been issued yet. The issuance retry job re-submits these; a booking
// never loses its confirmed status over a code failure.
func (r *BookingRepository) GetPendingCodeBookings(ctx context.Context, olderThan time.Time) ([]models.Booking, error) {
	var bookings []models.Booking
	query := `
		SELECT id, event_id, buyer_id, ticket_count, total_price, status,
		       issued_code, code_status, created_at, updated_at
		FROM bookings
		WHERE status = $1 AND code_status = $2 AND created_at < $3
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query,
		models.BookingStatusConfirmed, models.CodeStatusPending, olderThan)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var booking models.Booking
		err := rows.Scan(
			&booking.ID,
			&booking.EventID,
			&booking.BuyerID,
			&booking.TicketCount,
			&booking.TotalPrice,
			&booking.Status,
			&booking.IssuedCode,
			&booking.CodeStatus,
			&booking.CreatedAt,
			&booking.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// GetEventStats aggregates sold tickets and revenue for an organizer view
func (r *BookingRepository) GetEventStats(ctx context.Context, eventID int64) (ticketsSold int, revenue int64, err error) {
	query := `
		SELECT COALESCE(SUM(ticket_count), 0), COALESCE(SUM(total_price), 0)
		FROM bookings
		WHERE event_id = $1 AND status = $2`

	err = r.db.QueryRowContext(ctx, query, eventID, models.BookingStatusConfirmed).Scan(&ticketsSold, &revenue)
	return ticketsSold, revenue, err
}
