package integration

import (
	"net/http"
	"testing"

	"ovation/internal/models"
)

// TestHolds_OverlapConflict verifies an overlapping hold request reports
// exactly the contested seats and leaves no partial holds behind.
func TestHolds_OverlapConflict(t *testing.T) {
	RequireServer(t)

	admin := NewTestClient(APIBaseURL(), 1)
	eventID := NewSeatedEvent(t, admin, 3, 4, 2000)

	alice := NewTestClient(APIBaseURL(), 300)
	bob := NewTestClient(APIBaseURL(), 301)

	resp := alice.HoldSeats(t, eventID, []string{"A1", "A2"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 for first hold, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = bob.HoldSeats(t, eventID, []string{"A2", "A3"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("Expected 409 for overlapping hold, got %d", resp.StatusCode)
	}
	unavailable := DecodeConflict(t, resp)
	resp.Body.Close()

	if len(unavailable) != 1 || unavailable[0] != "A2" {
		t.Fatalf("Expected exactly [A2] unavailable, got %v", unavailable)
	}

	// All-or-nothing: A3 must still be free after Bob's failed request
	seats := alice.ListSeats(t, eventID)
	a3 := SeatByCode(seats, "A3")
	if a3 == nil || a3.Status != "FREE" {
		t.Fatalf("Expected A3 to remain FREE, got %+v", a3)
	}
}

// TestHolds_ReleaseThenReacquire releases a hold and verifies another buyer
// can immediately take the seats.
func TestHolds_ReleaseThenReacquire(t *testing.T) {
	RequireServer(t)

	admin := NewTestClient(APIBaseURL(), 1)
	eventID := NewSeatedEvent(t, admin, 2, 2, 1000)

	alice := NewTestClient(APIBaseURL(), 310)
	bob := NewTestClient(APIBaseURL(), 311)

	resp := alice.HoldSeats(t, eventID, []string{"B1", "B2"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	alice.ReleaseSeats(t, eventID, []string{"B1", "B2"})

	resp = bob.HoldSeats(t, eventID, []string{"B1", "B2"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 after release, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

// TestHolds_ConfirmProducesBooking confirms held seats and verifies the
// booking carries the held prices and the seats flip to BOOKED.
func TestHolds_ConfirmProducesBooking(t *testing.T) {
	RequireServer(t)

	admin := NewTestClient(APIBaseURL(), 1)
	eventID := NewSeatedEvent(t, admin, 2, 3, 2500)

	buyer := NewTestClient(APIBaseURL(), 320)

	resp := buyer.HoldSeats(t, eventID, []string{"A1", "A2"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = buyer.ConfirmSeats(t, eventID, []string{"A1", "A2"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	seats := buyer.ListSeats(t, eventID)
	for _, code := range []string{"A1", "A2"} {
		seat := SeatByCode(seats, code)
		if seat == nil || seat.Status != "BOOKED" {
			t.Fatalf("Expected %s to be BOOKED, got %+v", code, seat)
		}
	}

	bookings := buyer.ListBookings(t)
	var found *models.ListBookingsResponseItem
	for i := range bookings {
		if bookings[i].EventID == eventID {
			found = &bookings[i]
		}
	}
	if found == nil {
		t.Fatal("Expected a booking for the confirmed seats")
	}
	if found.TicketCount != 2 || found.TotalPrice != "50.00" {
		t.Fatalf("Unexpected booking: %+v", found)
	}
}

// TestHolds_ConfirmByNonHolderFails verifies only the holder can confirm.
func TestHolds_ConfirmByNonHolderFails(t *testing.T) {
	RequireServer(t)

	admin := NewTestClient(APIBaseURL(), 1)
	eventID := NewSeatedEvent(t, admin, 2, 2, 1000)

	alice := NewTestClient(APIBaseURL(), 330)
	bob := NewTestClient(APIBaseURL(), 331)

	resp := alice.HoldSeats(t, eventID, []string{"A1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = bob.ConfirmSeats(t, eventID, []string{"A1"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("Expected 409 for non-holder confirm, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
