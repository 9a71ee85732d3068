package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ovation/internal/database"
	"ovation/internal/middleware"
	"ovation/internal/models"
	"ovation/internal/repository"
	"ovation/internal/service"
)

var eventColumns = []string{
	"id", "organizer_id", "title", "description", "venue", "category",
	"datetime_start", "capacity", "ticket_price", "seat_rows", "seat_cols",
	"has_seats", "created_at", "updated_at",
}

var seatColumns = []string{
	"id", "event_id", "seat_code", "row_label", "seat_number", "seat_type",
	"price", "status", "holder_id", "held_until", "booked_by", "booked_at",
	"created_at", "updated_at",
}

func setupRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	db := &database.DB{DB: mockDB}
	repos := repository.NewRepositories(db)
	services := service.NewServices(db, repos, nil, nil, nil, service.Config{
		HoldTTL: 5 * time.Minute,
	})
	h := NewHandlers(services)

	r := gin.New()
	api := r.Group("/api")
	api.Use(middleware.Identity())
	{
		api.GET("/events/:id", h.GetEvent)
		api.POST("/seats/hold", h.HoldSeats)
		api.PATCH("/seats/release", h.ReleaseSeats)
		api.POST("/bookings", h.ReserveTickets)
		api.POST("/bookings/confirm", h.ConfirmSeats)
	}

	return r, mock, func() { mockDB.Close() }
}

func doRequest(r *gin.Engine, method, path string, body interface{}, buyerID string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if buyerID != "" {
		req.Header.Set("X-Buyer-Id", buyerID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seatedEventRow() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(eventColumns).
		AddRow(int64(1), int64(5), "Seated Event", nil, nil, nil,
			now.Add(24*time.Hour), 100, int64(1000), 10, 10, true, now, now)
}

func TestHoldSeats(t *testing.T) {
	r, mock, cleanup := setupRouter(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(`(?s)FROM events.+WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(seatedEventRow())
	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)FROM seats.+FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(seatColumns).
			AddRow("uuid-1", int64(1), "A1", "A", 1, models.SeatTypeNormal,
				int64(1500), models.SeatStatusFree, nil, nil, nil, nil, now, now).
			AddRow("uuid-2", int64(1), "A2", "A", 2, models.SeatTypeNormal,
				int64(1500), models.SeatStatusFree, nil, nil, nil, nil, now, now))
	mock.ExpectExec(`(?s)UPDATE seats.+SET status = \$1, holder_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	w := doRequest(r, "POST", "/api/seats/hold", models.HoldSeatsRequest{
		EventID:   1,
		SeatCodes: []string{"A1", "A2"},
	}, "7")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.HoldSeatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "30.00", resp.TotalPrice)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
}

func TestHoldSeats_Conflict(t *testing.T) {
	r, mock, cleanup := setupRouter(t)
	defer cleanup()

	now := time.Now()
	future := now.Add(time.Minute)
	mock.ExpectQuery(`(?s)FROM events.+WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(seatedEventRow())
	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)FROM seats.+FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(seatColumns).
			AddRow("uuid-2", int64(1), "A2", "A", 2, models.SeatTypeNormal,
				int64(1500), models.SeatStatusHeld, int64(9), future, nil, nil, now, now).
			AddRow("uuid-3", int64(1), "A3", "A", 3, models.SeatTypeNormal,
				int64(1500), models.SeatStatusFree, nil, nil, nil, nil, now, now))
	mock.ExpectRollback()

	w := doRequest(r, "POST", "/api/seats/hold", models.HoldSeatsRequest{
		EventID:   1,
		SeatCodes: []string{"A2", "A3"},
	}, "7")

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp struct {
		Error            string   `json:"error"`
		UnavailableSeats []string `json:"unavailable_seats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"A2"}, resp.UnavailableSeats)
}

func TestHoldSeats_MissingIdentity(t *testing.T) {
	r, _, cleanup := setupRouter(t)
	defer cleanup()

	w := doRequest(r, "POST", "/api/seats/hold", models.HoldSeatsRequest{
		EventID:   1,
		SeatCodes: []string{"A1"},
	}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReserveTickets_CapacityExceeded(t *testing.T) {
	r, mock, cleanup := setupRouter(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)FROM events.+FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(eventColumns).
			AddRow(int64(1), int64(5), "GA Event", nil, nil, nil,
				now.Add(24*time.Hour), 10, int64(1000), 0, 0, false, now, now))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(ticket_count\), 0\)`).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(10))
	mock.ExpectRollback()

	w := doRequest(r, "POST", "/api/bookings", models.ReserveTicketsRequest{
		EventID:     1,
		TicketCount: 1,
	}, "7")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Not enough tickets")
}

func TestConfirmSeats_Expired(t *testing.T) {
	r, mock, cleanup := setupRouter(t)
	defer cleanup()

	now := time.Now()
	past := now.Add(-time.Minute)
	mock.ExpectBegin()
	mock.ExpectQuery(`(?s)FROM seats.+FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(seatColumns).
			AddRow("uuid-1", int64(1), "A1", "A", 1, models.SeatTypeNormal,
				int64(1500), models.SeatStatusHeld, int64(7), past, nil, nil, now, now))
	mock.ExpectRollback()

	w := doRequest(r, "POST", "/api/bookings/confirm", models.ConfirmSeatsRequest{
		EventID:   1,
		SeatCodes: []string{"A1"},
	}, "7")

	assert.Equal(t, http.StatusGone, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestGetEvent_NotFound(t *testing.T) {
	r, mock, cleanup := setupRouter(t)
	defer cleanup()

	mock.ExpectQuery(`(?s)FROM events.+WHERE id = \$1`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(eventColumns))

	w := doRequest(r, "GET", "/api/events/99", nil, "7")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReleaseSeats_Idempotent(t *testing.T) {
	r, mock, cleanup := setupRouter(t)
	defer cleanup()

	mock.ExpectExec(`(?s)UPDATE seats.+SET status = \$1, holder_id = NULL`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := doRequest(r, "PATCH", "/api/seats/release", models.ReleaseSeatsRequest{
		EventID:   1,
		SeatCodes: []string{"A1"},
	}, "7")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHoldSeats_BadRequest(t *testing.T) {
	r, _, cleanup := setupRouter(t)
	defer cleanup()

	w := doRequest(r, "POST", "/api/seats/hold", models.HoldSeatsRequest{
		EventID: 1,
	}, "7")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
