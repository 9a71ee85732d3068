package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"testing"
	"time"

	"ovation/internal/models"
)

// TestClient wraps the API for integration tests. Each client acts as one
// buyer; concurrency scenarios use one client per competing buyer.
type TestClient struct {
	BaseURL    string
	BuyerID    int64
	HTTPClient *http.Client
}

func NewTestClient(baseURL string, buyerID int64) *TestClient {
	return &TestClient{
		BaseURL: baseURL,
		BuyerID: buyerID,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *TestClient) makeRequest(t *testing.T, method, path string, body interface{}) *http.Response {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	req.Header.Set("X-Buyer-Id", strconv.FormatInt(c.BuyerID, 10))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}

	return resp
}

// CreateEvent creates an event and returns its id
func (c *TestClient) CreateEvent(t *testing.T, req models.CreateEventRequest) int64 {
	resp := c.makeRequest(t, "POST", "/api/events", req)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 201, got %d. Body: %s", resp.StatusCode, string(body))
	}

	var created models.CreateEventResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("Failed to decode create event response: %v", err)
	}

	return created.ID
}

// ListSeats lists seats for an event
func (c *TestClient) ListSeats(t *testing.T, eventID int64) []models.ListSeatsResponseItem {
	path := fmt.Sprintf("/api/events/%d/seats?page=1&pageSize=500", eventID)
	resp := c.makeRequest(t, "GET", path, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
	}

	var seats []models.ListSeatsResponseItem
	if err := json.NewDecoder(resp.Body).Decode(&seats); err != nil {
		t.Fatalf("Failed to decode seats response: %v", err)
	}

	return seats
}

// HoldSeats attempts a hold and returns the raw response for the caller to
// assert on; conflict outcomes are part of what the tests verify.
func (c *TestClient) HoldSeats(t *testing.T, eventID int64, codes []string) *http.Response {
	return c.makeRequest(t, "POST", "/api/seats/hold", models.HoldSeatsRequest{
		EventID:   eventID,
		SeatCodes: codes,
	})
}

// ReleaseSeats releases held seats
func (c *TestClient) ReleaseSeats(t *testing.T, eventID int64, codes []string) {
	resp := c.makeRequest(t, "PATCH", "/api/seats/release", models.ReleaseSeatsRequest{
		EventID:   eventID,
		SeatCodes: codes,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
	}
}

// ReserveTickets attempts a general-admission reservation
func (c *TestClient) ReserveTickets(t *testing.T, eventID int64, count int) *http.Response {
	return c.makeRequest(t, "POST", "/api/bookings", models.ReserveTicketsRequest{
		EventID:     eventID,
		TicketCount: count,
	})
}

// ConfirmSeats converts held seats into a booking
func (c *TestClient) ConfirmSeats(t *testing.T, eventID int64, codes []string) *http.Response {
	return c.makeRequest(t, "POST", "/api/bookings/confirm", models.ConfirmSeatsRequest{
		EventID:   eventID,
		SeatCodes: codes,
	})
}

// ApplyTiers replaces the event's pricing tiers
func (c *TestClient) ApplyTiers(t *testing.T, eventID int64, tiers []models.TierInput) {
	path := fmt.Sprintf("/api/events/%d/tiers", eventID)
	resp := c.makeRequest(t, "PUT", path, models.ApplyTiersRequest{Tiers: tiers})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
	}
}

// ListBookings lists the buyer's bookings
func (c *TestClient) ListBookings(t *testing.T) []models.ListBookingsResponseItem {
	resp := c.makeRequest(t, "GET", "/api/bookings", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
	}

	var bookings []models.ListBookingsResponseItem
	if err := json.NewDecoder(resp.Body).Decode(&bookings); err != nil {
		t.Fatalf("Failed to decode bookings response: %v", err)
	}

	return bookings
}

// CancelBooking cancels one of the buyer's bookings
func (c *TestClient) CancelBooking(t *testing.T, bookingID int64) {
	resp := c.makeRequest(t, "PATCH", "/api/bookings/cancel", models.CancelBookingRequest{
		BookingID: bookingID,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status 200, got %d. Body: %s", resp.StatusCode, string(body))
	}
}
