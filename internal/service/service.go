package service

import (
	"fmt"
	"time"

	"ovation/internal/cache"
	"ovation/internal/database"
	"ovation/internal/messaging"
	"ovation/internal/repository"
	"ovation/internal/search"
)

type Services struct {
	Events   *EventService
	Seats    *SeatService
	Bookings *BookingService
}

type Config struct {
	HoldTTL time.Duration
}

func NewServices(db *database.DB, repos *repository.Repositories, natsClient *messaging.NATSClient,
	searchClient *search.Client, cacheClient *cache.Client, cfg Config) *Services {

	eventService := NewEventService(repos.Events, repos.Seats, searchClient, cacheClient)
	seatService := NewSeatService(repos.Seats, repos.Events, natsClient, cfg.HoldTTL)
	bookingService := NewBookingService(db, repos.Bookings, repos.Events, repos.Seats, natsClient)

	return &Services{
		Events:   eventService,
		Seats:    seatService,
		Bookings: bookingService,
	}
}

// formatPrice renders a price in cents as a decimal string
func formatPrice(cents int64) string {
	return fmt.Sprintf("%.2f", float64(cents)/100.0)
}
