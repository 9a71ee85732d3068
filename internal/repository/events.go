package repository

import (
	"context"
	"database/sql"

	"ovation/internal/database"
	"ovation/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (organizer_id, title, description, venue, category,
		                    datetime_start, capacity, ticket_price, seat_rows, seat_cols, has_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		event.OrganizerID,
		event.Title,
		event.Description,
		event.Venue,
		event.Category,
		event.DatetimeStart,
		event.Capacity,
		event.TicketPrice,
		event.SeatRows,
		event.SeatCols,
		event.HasSeats,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{}
	query := `
		SELECT id, organizer_id, title, description, venue, category, datetime_start,
		       capacity, ticket_price, seat_rows, seat_cols, has_seats, created_at, updated_at
		FROM events
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Title,
		&event.Description,
		&event.Venue,
		&event.Category,
		&event.DatetimeStart,
		&event.Capacity,
		&event.TicketPrice,
		&event.SeatRows,
		&event.SeatCols,
		&event.HasSeats,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return event, err
}

// GetForUpdateTx locks the event row for the duration of the surrounding
// transaction. Every capacity check-and-decrement serializes on this lock.
func (r *EventRepository) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Event, error) {
	event := &models.Event{}
	query := `
		SELECT id, organizer_id, title, description, venue, category, datetime_start,
		       capacity, ticket_price, seat_rows, seat_cols, has_seats, created_at, updated_at
		FROM events
		WHERE id = $1
		FOR UPDATE`

	err := tx.QueryRowContext(ctx, query, id).Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Title,
		&event.Description,
		&event.Venue,
		&event.Category,
		&event.DatetimeStart,
		&event.Capacity,
		&event.TicketPrice,
		&event.SeatRows,
		&event.SeatCols,
		&event.HasSeats,
		&event.CreatedAt,
		&event.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return event, err
}

// ListWithAvailability returns a page of events with their remaining ticket
// counts. Availability here is informational; reservations recompute it
// under the event row lock.
func (r *EventRepository) ListWithAvailability(ctx context.Context, page, pageSize int) ([]models.ListEventsResponseItem, error) {
	query := `
		SELECT e.id, e.title, COALESCE(e.venue, ''), COALESCE(e.category, ''), e.capacity, e.has_seats,
		       e.capacity - COALESCE(SUM(b.ticket_count) FILTER (WHERE b.status = 'CONFIRMED'), 0) AS available
		FROM events e
		LEFT JOIN bookings b ON e.id = b.event_id
		GROUP BY e.id
		ORDER BY e.datetime_start ASC
		LIMIT $1 OFFSET $2`

	offset := 0
	if page > 0 && pageSize > 0 {
		offset = (page - 1) * pageSize
	}

	rows, err := r.db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.ListEventsResponseItem
	for rows.Next() {
		var item models.ListEventsResponseItem
		err := rows.Scan(
			&item.ID,
			&item.Title,
			&item.Venue,
			&item.Category,
			&item.Capacity,
			&item.HasSeats,
			&item.AvailableTickets,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
