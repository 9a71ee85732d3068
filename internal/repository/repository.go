package repository

import (
	"ovation/internal/database"
)

type Repositories struct {
	Events   *EventRepository
	Seats    *SeatRepository
	Bookings *BookingRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Events:   NewEventRepository(db),
		Seats:    NewSeatRepository(db),
		Bookings: NewBookingRepository(db),
	}
}
