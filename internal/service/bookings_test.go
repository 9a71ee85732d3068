package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"ovation/internal/apperrors"
	"ovation/internal/database"
	"ovation/internal/models"
	"ovation/internal/repository"
)

var eventColumns = []string{
	"id", "organizer_id", "title", "description", "venue", "category",
	"datetime_start", "capacity", "ticket_price", "seat_rows", "seat_cols",
	"has_seats", "created_at", "updated_at",
}

func gaEventRow(capacity int, price int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(eventColumns).
		AddRow(int64(1), int64(5), "Test Event", nil, nil, nil,
			now.Add(24*time.Hour), capacity, price, 0, 0, false, now, now)
}

func newTestBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock, func()) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	db := &database.DB{DB: mockDB}
	repos := repository.NewRepositories(db)
	svc := NewBookingService(db, repos.Bookings, repos.Events, repos.Seats, nil)
	return svc, mock, func() { mockDB.Close() }
}

func TestBookingService_ReserveTickets(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		ticketCount int
		mock        func(mock sqlmock.Sqlmock)
		wantErr     error
		wantTotal   string
	}{
		{
			name:        "reservation within remaining capacity succeeds",
			ticketCount: 2,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`(?s)FROM events.+FOR UPDATE`).
					WithArgs(int64(1)).
					WillReturnRows(gaEventRow(10, 1500))
				mock.ExpectQuery(`SELECT COALESCE\(SUM\(ticket_count\), 0\)`).
					WithArgs(int64(1), models.BookingStatusConfirmed).
					WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(8))
				mock.ExpectQuery(`INSERT INTO bookings`).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
						AddRow(int64(42), time.Now(), time.Now()))
				mock.ExpectCommit()
			},
			wantTotal: "30.00",
		},
		{
			name:        "reservation exceeding remaining capacity is rejected",
			ticketCount: 3,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`(?s)FROM events.+FOR UPDATE`).
					WithArgs(int64(1)).
					WillReturnRows(gaEventRow(10, 1500))
				mock.ExpectQuery(`SELECT COALESCE\(SUM\(ticket_count\), 0\)`).
					WithArgs(int64(1), models.BookingStatusConfirmed).
					WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(8))
				mock.ExpectRollback()
			},
			wantErr: apperrors.ErrCapacityExceeded,
		},
		{
			name:        "exact remaining capacity still fits",
			ticketCount: 2,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`(?s)FROM events.+FOR UPDATE`).
					WithArgs(int64(1)).
					WillReturnRows(gaEventRow(10, 1000))
				mock.ExpectQuery(`SELECT COALESCE\(SUM\(ticket_count\), 0\)`).
					WithArgs(int64(1), models.BookingStatusConfirmed).
					WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(8))
				mock.ExpectQuery(`INSERT INTO bookings`).
					WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
						AddRow(int64(43), time.Now(), time.Now()))
				mock.ExpectCommit()
			},
			wantTotal: "20.00",
		},
		{
			name:        "unknown event",
			ticketCount: 1,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectQuery(`(?s)FROM events.+FOR UPDATE`).
					WithArgs(int64(1)).
					WillReturnRows(sqlmock.NewRows(eventColumns))
				mock.ExpectRollback()
			},
			wantErr: apperrors.ErrEventNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock, cleanup := newTestBookingService(t)
			defer cleanup()
			tt.mock(mock)

			resp, err := svc.ReserveTickets(ctx, &models.ReserveTicketsRequest{
				EventID:     1,
				TicketCount: tt.ticketCount,
			}, 7)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.ticketCount, resp.TicketCount)
			require.Equal(t, tt.wantTotal, resp.TotalPrice)
			require.Equal(t, models.CodeStatusPending, resp.CodeStatus)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingService_ReserveTickets_RejectsSeatedEvent(t *testing.T) {
	ctx := context.Background()
	svc, mock, cleanup := newTestBookingService(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)FROM events.+FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(eventColumns).
			AddRow(int64(1), int64(5), "Seated Event", nil, nil, nil,
				now, 100, int64(1000), 10, 10, true, now, now))
	mock.ExpectRollback()

	_, err := svc.ReserveTickets(ctx, &models.ReserveTicketsRequest{EventID: 1, TicketCount: 1}, 7)
	require.Error(t, err)
	require.Contains(t, err.Error(), "addressed seating")
}

func TestBookingService_ConfirmSeats_Expired(t *testing.T) {
	ctx := context.Background()
	svc, mock, cleanup := newTestBookingService(t)
	defer cleanup()

	now := time.Now()
	past := now.Add(-time.Minute)
	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "seat_code", "row_label", "seat_number", "seat_type",
			"price", "status", "holder_id", "held_until", "booked_by", "booked_at",
			"created_at", "updated_at",
		}).AddRow("seat-uuid", int64(1), "A1", "A", 1, models.SeatTypeNormal,
			int64(1000), models.SeatStatusHeld, int64(7), past, nil, nil, now, now))
	mock.ExpectRollback()

	_, err := svc.ConfirmSeats(ctx, &models.ConfirmSeatsRequest{
		EventID:   1,
		SeatCodes: []string{"A1"},
	}, 7)
	require.ErrorIs(t, err, apperrors.ErrHoldExpired)
}

func TestBookingService_Cancel_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, mock, cleanup := newTestBookingService(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)FROM bookings.+FOR UPDATE`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "buyer_id", "ticket_count", "total_price", "status",
			"issued_code", "code_status", "created_at", "updated_at",
		}).AddRow(int64(42), int64(1), int64(7), 2, int64(2000),
			models.BookingStatusCancelled, nil, models.CodeStatusPending, now, now))
	mock.ExpectCommit()

	err := svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: 42}, 7)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingService_Cancel_Forbidden(t *testing.T) {
	ctx := context.Background()
	svc, mock, cleanup := newTestBookingService(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)FROM bookings.+FOR UPDATE`).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "buyer_id", "ticket_count", "total_price", "status",
			"issued_code", "code_status", "created_at", "updated_at",
		}).AddRow(int64(42), int64(1), int64(9), 2, int64(2000),
			models.BookingStatusConfirmed, nil, models.CodeStatusPending, now, now))
	mock.ExpectRollback()

	err := svc.Cancel(ctx, &models.CancelBookingRequest{BookingID: 42}, 7)
	require.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestFormatPrice(t *testing.T) {
	require.Equal(t, "15.00", formatPrice(1500))
	require.Equal(t, "0.50", formatPrice(50))
	require.Equal(t, "0.00", formatPrice(0))
}
