package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"ovation/internal/apperrors"
	"ovation/internal/database"
	"ovation/internal/models"

	"github.com/lib/pq"
)

type SeatRepository struct {
	db *database.DB
}

func NewSeatRepository(db *database.DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// rowLabelFor converts a zero-based row index into its letter label (A..Z).
func rowLabelFor(row int) string {
	return string(rune('A' + row))
}

// CreateSeatsForEvent bulk-generates the rows x cols seat grid with
// deterministic codes (row letter + 1-based column) and flips the event to
// addressed seating. Seats are created exactly once, at event setup.
func (r *SeatRepository) CreateSeatsForEvent(ctx context.Context, eventID int64, rows, cols int, basePrice int64) error {
	return r.db.WithTxRetry(ctx, func(tx *sql.Tx) error {
		var existing int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM seats WHERE event_id = $1`, eventID).Scan(&existing); err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("seats already generated for event %d", eventID)
		}

		stmt, err := tx.PrepareContext(ctx, pq.CopyIn("seats",
			"event_id", "seat_code", "row_label", "seat_number", "seat_type", "price", "status"))
		if err != nil {
			return err
		}

		for row := 0; row < rows; row++ {
			label := rowLabelFor(row)
			for col := 1; col <= cols; col++ {
				code := fmt.Sprintf("%s%d", label, col)
				if _, err := stmt.ExecContext(ctx, eventID, code, label, col,
					models.SeatTypeNormal, basePrice, models.SeatStatusFree); err != nil {
					stmt.Close()
					return err
				}
			}
		}

		if _, err := stmt.ExecContext(ctx); err != nil {
			stmt.Close()
			return err
		}
		if err := stmt.Close(); err != nil {
			return err
		}

		query := `
			UPDATE events
			SET has_seats = TRUE, seat_rows = $1, seat_cols = $2, capacity = $3, updated_at = NOW()
			WHERE id = $4`
		_, err = tx.ExecContext(ctx, query, rows, cols, rows*cols, eventID)
		return err
	})
}

func (r *SeatRepository) GetByEventID(ctx context.Context, eventID int64, page, pageSize int, rowLabel *string, status *string) ([]models.Seat, error) {
	var seats []models.Seat
	var args []interface{}
	argIndex := 1

	query := `
		SELECT id, event_id, seat_code, row_label, seat_number, seat_type, price, status,
		       holder_id, held_until, booked_by, booked_at, created_at, updated_at
		FROM seats
		WHERE event_id = $1`
	args = append(args, eventID)
	argIndex++

	if rowLabel != nil {
		query += fmt.Sprintf(" AND row_label = $%d", argIndex)
		args = append(args, *rowLabel)
		argIndex++
	}

	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	query += " ORDER BY row_label, seat_number"

	if page > 0 && pageSize > 0 {
		offset := (page - 1) * pageSize
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, pageSize, offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
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

type seatScanner interface {
	Scan(dest ...interface{}) error
}

func scanSeat(s seatScanner, seat *models.Seat) error {
	return s.Scan(
		&seat.ID,
		&seat.EventID,
		&seat.SeatCode,
		&seat.RowLabel,
		&seat.SeatNumber,
		&seat.SeatType,
		&seat.Price,
		&seat.Status,
		&seat.HolderID,
		&seat.HeldUntil,
		&seat.BookedBy,
		&seat.BookedAt,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)
}

// normalizeCodes deduplicates and sorts seat codes. Every multi-seat
// operation locks rows in this order; two overlapping requests therefore
// contend on their first common seat instead of deadlocking.
func normalizeCodes(seatCodes []string) []string {
	seen := make(map[string]bool, len(seatCodes))
	codes := make([]string, 0, len(seatCodes))
	for _, code := range seatCodes {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)
	return codes
}

// lockSeats fetches and row-locks the requested seats in canonical order.
// The ORDER BY rides the (event_id, seat_code) unique index, so rows are
// locked in sorted code order.
func lockSeats(ctx context.Context, tx *sql.Tx, eventID int64, codes []string) (map[string]models.Seat, error) {
	query := `
		SELECT id, event_id, seat_code, row_label, seat_number, seat_type, price, status,
		       holder_id, held_until, booked_by, booked_at, created_at, updated_at
		FROM seats
		WHERE event_id = $1 AND seat_code = ANY($2)
		ORDER BY seat_code
		FOR UPDATE`

	rows, err := tx.QueryContext(ctx, query, eventID, pq.Array(codes))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locked := make(map[string]models.Seat, len(codes))
	for rows.Next() {
		var seat models.Seat
		if err := scanSeat(rows, &seat); err != nil {
			return nil, err
		}
		locked[seat.SeatCode] = seat
	}

	return locked, rows.Err()
}

// AcquireHolds places a hold on every requested seat or none of them. A
// seat can be held when it is FREE, already held by the same holder (the
// re-hold resets the TTL), or carries an expired hold nobody reclaimed yet.
// Any other state fails the whole call with the conflicting codes.
func (r *SeatRepository) AcquireHolds(ctx context.Context, eventID int64, seatCodes []string, holderID int64, ttl time.Duration) (time.Time, int64, error) {
	codes := normalizeCodes(seatCodes)

	var expiresAt time.Time
	var totalPrice int64

	err := r.db.WithTxRetry(ctx, func(tx *sql.Tx) error {
		totalPrice = 0
		now := time.Now()

		locked, err := lockSeats(ctx, tx, eventID, codes)
		if err != nil {
			return err
		}

		var unavailable []string
		for _, code := range codes {
			seat, ok := locked[code]
			if !ok {
				unavailable = append(unavailable, code)
				continue
			}

			switch {
			case seat.Status == models.SeatStatusFree:
			case seat.Status == models.SeatStatusHeld && seat.HolderID != nil && *seat.HolderID == holderID:
			case seat.Status == models.SeatStatusHeld && seat.HeldUntil != nil && seat.HeldUntil.Before(now):
				// Expired hold the reaper has not swept yet; reclaimable.
			default:
				unavailable = append(unavailable, code)
				continue
			}

			totalPrice += seat.Price
		}

		if len(unavailable) > 0 {
			return &apperrors.HoldConflictError{UnavailableSeats: unavailable}
		}

		expiresAt = now.Add(ttl)
		_, err = tx.ExecContext(ctx, `
			UPDATE seats
			SET status = $1, holder_id = $2, held_until = $3, updated_at = NOW()
			WHERE event_id = $4 AND seat_code = ANY($5)`,
			models.SeatStatusHeld, holderID, expiresAt, eventID, pq.Array(codes))
		return err
	})

	if err != nil {
		return time.Time{}, 0, err
	}
	return expiresAt, totalPrice, nil
}

// ReleaseHolds frees the given seats if, and only if, they are currently
// held by holderID. Seats that are free, booked, or held by someone else
// are left untouched, so the call is idempotent and never an error.
func (r *SeatRepository) ReleaseHolds(ctx context.Context, eventID int64, seatCodes []string, holderID int64) error {
	codes := normalizeCodes(seatCodes)

	_, err := r.db.ExecContext(ctx, `
		UPDATE seats
		SET status = $1, holder_id = NULL, held_until = NULL, updated_at = NOW()
		WHERE event_id = $2 AND seat_code = ANY($3) AND status = $4 AND holder_id = $5`,
		models.SeatStatusFree, eventID, pq.Array(codes), models.SeatStatusHeld, holderID)
	return err
}

// ConfirmTx transitions every requested seat from HELD to BOOKED within
// the caller's transaction. It re-verifies, under the same row locks the
// booking write uses, that each seat is still held by holderID and the
// hold has not expired. The expiry check happens here regardless of
// whether a reaper sweep has run.
func (r *SeatRepository) ConfirmTx(ctx context.Context, tx *sql.Tx, eventID int64, seatCodes []string, holderID int64) ([]models.Seat, error) {
	codes := normalizeCodes(seatCodes)
	now := time.Now()

	locked, err := lockSeats(ctx, tx, eventID, codes)
	if err != nil {
		return nil, err
	}

	var unavailable []string
	expired := false
	seats := make([]models.Seat, 0, len(codes))

	for _, code := range codes {
		seat, ok := locked[code]
		if !ok || seat.Status != models.SeatStatusHeld || seat.HolderID == nil || *seat.HolderID != holderID {
			unavailable = append(unavailable, code)
			continue
		}
		if seat.HeldUntil == nil || !seat.HeldUntil.After(now) {
			expired = true
			continue
		}
		seats = append(seats, seat)
	}

	if len(unavailable) > 0 {
		return nil, &apperrors.HoldConflictError{UnavailableSeats: unavailable}
	}
	if expired {
		return nil, apperrors.ErrHoldExpired
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE seats
		SET status = $1, booked_by = $2, booked_at = NOW(),
		    holder_id = NULL, held_until = NULL, updated_at = NOW()
		WHERE event_id = $3 AND seat_code = ANY($4)`,
		models.SeatStatusBooked, holderID, eventID, pq.Array(codes))
	if err != nil {
		return nil, err
	}

	return seats, nil
}

// ReleaseBookedTx frees seats belonging to a cancelled booking. Only seats
// booked by buyerID are touched.
func (r *SeatRepository) ReleaseBookedTx(ctx context.Context, tx *sql.Tx, bookingID, buyerID int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE seats
		SET status = $1, booked_by = NULL, booked_at = NULL, updated_at = NOW()
		WHERE booked_by = $2
		  AND id IN (SELECT seat_id FROM booking_seats WHERE booking_id = $3)`,
		models.SeatStatusFree, buyerID, bookingID)
	return err
}

// ReapExpiredHolds frees every seat whose hold has expired, in one bulk
// statement. The row locks taken by the UPDATE serialize the sweep against
// concurrent acquisitions and confirmations on the same seats.
func (r *SeatRepository) ReapExpiredHolds(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE seats
		SET status = $1, holder_id = NULL, held_until = NULL, updated_at = NOW()
		WHERE status = $2 AND held_until < NOW()`,
		models.SeatStatusFree, models.SeatStatusHeld)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// ApplyTiers replaces the event's pricing tiers and rewrites seat prices
// and types for every row in a tier's range, all in one transaction. Seats
// outside every supplied range keep their current price and type.
func (r *SeatRepository) ApplyTiers(ctx context.Context, eventID int64, tiers []models.PricingTier) error {
	return r.db.WithTxRetry(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM pricing_tiers WHERE event_id = $1`, eventID); err != nil {
			return err
		}

		for _, tier := range tiers {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO pricing_tiers (event_id, row_start, row_end, seat_type, price)
				VALUES ($1, $2, $3, $4, $5)`,
				eventID, tier.RowStart, tier.RowEnd, tier.SeatType, tier.Price); err != nil {
				return err
			}

			if _, err := tx.ExecContext(ctx, `
				UPDATE seats
				SET seat_type = $1, price = $2, updated_at = NOW()
				WHERE event_id = $3 AND row_label BETWEEN $4 AND $5`,
				tier.SeatType, tier.Price, eventID, tier.RowStart, tier.RowEnd); err != nil {
				return err
			}
		}

		return nil
	})
}

// GetTiers returns the event's current pricing tiers
func (r *SeatRepository) GetTiers(ctx context.Context, eventID int64) ([]models.PricingTier, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, row_start, row_end, seat_type, price, applied_at
		FROM pricing_tiers
		WHERE event_id = $1
		ORDER BY row_start`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiers []models.PricingTier
	for rows.Next() {
		var tier models.PricingTier
		err := rows.Scan(
			&tier.ID,
			&tier.EventID,
			&tier.RowStart,
			&tier.RowEnd,
			&tier.SeatType,
			&tier.Price,
			&tier.AppliedAt,
		)
		if err != nil {
			return nil, err
		}
		tiers = append(tiers, tier)
	}

	return tiers, rows.Err()
}
