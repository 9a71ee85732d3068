package integration

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"

	"ovation/internal/models"
)

// APIBaseURL points the suite at a running API instance.
func APIBaseURL() string {
	if url := os.Getenv("OVATION_API_URL"); url != "" {
		return url
	}
	return "http://localhost:8080"
}

// RequireServer skips the test when no API instance is reachable, so the
// suite can live alongside unit tests without a running stack.
func RequireServer(t *testing.T) {
	t.Helper()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(APIBaseURL() + "/health")
	if err != nil {
		t.Skipf("API not reachable at %s: %v", APIBaseURL(), err)
	}
	resp.Body.Close()
}

// NewSeatedEvent creates an event with an addressed seat grid
func NewSeatedEvent(t *testing.T, client *TestClient, rows, cols int, basePrice int64) int64 {
	t.Helper()
	return client.CreateEvent(t, models.CreateEventRequest{
		Title:         "Integration Seated " + time.Now().Format("150405.000"),
		DatetimeStart: time.Now().Add(24 * time.Hour),
		Capacity:      rows * cols,
		TicketPrice:   basePrice,
		SeatRows:      rows,
		SeatCols:      cols,
	})
}

// NewGAEvent creates a general-admission event
func NewGAEvent(t *testing.T, client *TestClient, capacity int, price int64) int64 {
	t.Helper()
	return client.CreateEvent(t, models.CreateEventRequest{
		Title:         "Integration GA " + time.Now().Format("150405.000"),
		DatetimeStart: time.Now().Add(24 * time.Hour),
		Capacity:      capacity,
		TicketPrice:   price,
	})
}

// DecodeConflict extracts the unavailable seats from a 409 response
func DecodeConflict(t *testing.T, resp *http.Response) []string {
	t.Helper()

	var body struct {
		Error            string   `json:"error"`
		UnavailableSeats []string `json:"unavailable_seats"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode conflict response: %v", err)
	}
	return body.UnavailableSeats
}

// SeatByCode finds one seat in a listing
func SeatByCode(seats []models.ListSeatsResponseItem, code string) *models.ListSeatsResponseItem {
	for i := range seats {
		if seats[i].SeatCode == code {
			return &seats[i]
		}
	}
	return nil
}
