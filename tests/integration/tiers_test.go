package integration

import (
	"net/http"
	"testing"

	"ovation/internal/models"
)

// TestTiers_ApplyRewritesRange applies tiers over part of the grid and
// verifies only the covered rows change price and type.
func TestTiers_ApplyRewritesRange(t *testing.T) {
	RequireServer(t)

	admin := NewTestClient(APIBaseURL(), 1)
	eventID := NewSeatedEvent(t, admin, 5, 2, 1000)

	admin.ApplyTiers(t, eventID, []models.TierInput{
		{RowStart: "A", RowEnd: "C", SeatType: "vip", Price: 5000},
	})

	seats := admin.ListSeats(t, eventID)

	a1 := SeatByCode(seats, "A1")
	if a1 == nil || a1.SeatType != "vip" || a1.Price != "50.00" {
		t.Fatalf("Expected A1 to be vip at 50.00, got %+v", a1)
	}
	c2 := SeatByCode(seats, "C2")
	if c2 == nil || c2.SeatType != "vip" || c2.Price != "50.00" {
		t.Fatalf("Expected C2 to be vip at 50.00, got %+v", c2)
	}

	// Rows outside the range keep the base price
	d1 := SeatByCode(seats, "D1")
	if d1 == nil || d1.SeatType != "normal" || d1.Price != "10.00" {
		t.Fatalf("Expected D1 unchanged at 10.00, got %+v", d1)
	}
}

// TestTiers_ReplaceIsDestructive applies a second tier set and verifies the
// first one no longer contributes anything.
func TestTiers_ReplaceIsDestructive(t *testing.T) {
	RequireServer(t)

	admin := NewTestClient(APIBaseURL(), 1)
	eventID := NewSeatedEvent(t, admin, 3, 2, 1000)

	admin.ApplyTiers(t, eventID, []models.TierInput{
		{RowStart: "A", RowEnd: "A", SeatType: "vip", Price: 9000},
	})
	admin.ApplyTiers(t, eventID, []models.TierInput{
		{RowStart: "B", RowEnd: "B", SeatType: "premium", Price: 4000},
	})

	seats := admin.ListSeats(t, eventID)

	// Row A keeps the price the first application wrote; the replace does
	// not revert seats, it just stops covering them.
	a1 := SeatByCode(seats, "A1")
	if a1 == nil || a1.Price != "90.00" {
		t.Fatalf("Expected A1 to keep 90.00, got %+v", a1)
	}
	b1 := SeatByCode(seats, "B1")
	if b1 == nil || b1.SeatType != "premium" || b1.Price != "40.00" {
		t.Fatalf("Expected B1 premium at 40.00, got %+v", b1)
	}
}

// TestTiers_RepriceBetweenHoldAndConfirm reprices a held seat's row and
// verifies the booking charges the seat row's price at confirm time.
func TestTiers_RepriceBetweenHoldAndConfirm(t *testing.T) {
	RequireServer(t)

	admin := NewTestClient(APIBaseURL(), 1)
	eventID := NewSeatedEvent(t, admin, 2, 2, 1000)

	buyer := NewTestClient(APIBaseURL(), 400)

	resp := buyer.HoldSeats(t, eventID, []string{"A1"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	admin.ApplyTiers(t, eventID, []models.TierInput{
		{RowStart: "A", RowEnd: "A", SeatType: "vip", Price: 8000},
	})

	resp = buyer.ConfirmSeats(t, eventID, []string{"A1"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	bookings := buyer.ListBookings(t)
	for _, b := range bookings {
		if b.EventID == eventID {
			// Confirm reads the seat row inside its transaction, so the
			// charged price is whatever the row holds at confirm time.
			if b.TotalPrice != "80.00" {
				t.Fatalf("Expected confirm-time price 80.00, got %s", b.TotalPrice)
			}
			return
		}
	}
	t.Fatal("Booking not found")
}
