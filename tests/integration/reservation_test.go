package integration

import (
	"net/http"
	"sync"
	"testing"
)

// TestReservation_ConcurrentCapacity fires more reservation requests than
// the event has tickets and verifies the sold total lands exactly on
// capacity, never over it.
func TestReservation_ConcurrentCapacity(t *testing.T) {
	RequireServer(t)

	admin := NewTestClient(APIBaseURL(), 1)
	eventID := NewGAEvent(t, admin, 10, 1500)

	const buyers = 12
	var wg sync.WaitGroup
	results := make(chan int, buyers)

	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func(buyer int64) {
			defer wg.Done()
			client := NewTestClient(APIBaseURL(), buyer)
			resp := client.ReserveTickets(t, eventID, 1)
			defer resp.Body.Close()
			results <- resp.StatusCode
		}(int64(100 + i))
	}

	wg.Wait()
	close(results)

	created, rejected := 0, 0
	for code := range results {
		switch code {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			rejected++
		default:
			t.Errorf("Unexpected status %d", code)
		}
	}

	if created != 10 {
		t.Fatalf("Expected exactly 10 successful reservations, got %d", created)
	}
	if rejected != 2 {
		t.Fatalf("Expected exactly 2 rejections, got %d", rejected)
	}
}

// TestReservation_CancellationRestoresCapacity cancels a booking and checks
// the freed tickets can be sold again.
func TestReservation_CancellationRestoresCapacity(t *testing.T) {
	RequireServer(t)

	buyer := NewTestClient(APIBaseURL(), 200)
	eventID := NewGAEvent(t, buyer, 2, 1000)

	resp := buyer.ReserveTickets(t, eventID, 2)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Sold out now
	other := NewTestClient(APIBaseURL(), 201)
	resp = other.ReserveTickets(t, eventID, 1)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("Expected 409 on sold-out event, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	bookings := buyer.ListBookings(t)
	if len(bookings) == 0 {
		t.Fatal("Expected at least one booking")
	}
	var bookingID int64
	for _, b := range bookings {
		if b.EventID == eventID {
			bookingID = b.ID
		}
	}
	buyer.CancelBooking(t, bookingID)

	// Capacity restored
	resp = other.ReserveTickets(t, eventID, 2)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201 after cancellation, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}
