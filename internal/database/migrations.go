package database

import (
	"fmt"
	"log/slog"
)

func (db *DB) RunMigrations() error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createEventsTable,
		createSeatsTable,
		createBookingsTable,
		createBookingSeatsTable,
		createPricingTiersTable,
		createSeatsReaperIndex,
	}

	for i, migration := range migrations {
		slog.Info("Running migration", "step", i+1)
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully")
	return nil
}

const createEventsTable = `
CREATE TABLE IF NOT EXISTS events (
    id SERIAL PRIMARY KEY,
    organizer_id BIGINT NOT NULL,
    title VARCHAR(500) NOT NULL,
    description TEXT,
    venue VARCHAR(255),
    category VARCHAR(100),
    datetime_start TIMESTAMP NOT NULL,
    capacity INTEGER NOT NULL DEFAULT 0,
    ticket_price BIGINT NOT NULL DEFAULT 0,
    seat_rows INTEGER NOT NULL DEFAULT 0,
    seat_cols INTEGER NOT NULL DEFAULT 0,
    has_seats BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW()
);`

const createSeatsTable = `
CREATE EXTENSION IF NOT EXISTS "uuid-ossp";
CREATE TABLE IF NOT EXISTS seats (
    id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    seat_code VARCHAR(10) NOT NULL,
    row_label VARCHAR(3) NOT NULL,
    seat_number INTEGER NOT NULL,
    seat_type VARCHAR(20) NOT NULL DEFAULT 'normal',
    price BIGINT NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'FREE',
    holder_id BIGINT,
    held_until TIMESTAMP,
    booked_by BIGINT,
    booked_at TIMESTAMP,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(event_id, seat_code),
    CHECK (status IN ('FREE', 'HELD', 'BOOKED')),
    CHECK (seat_type IN ('normal', 'vip', 'premium'))
);`

const createBookingsTable = `
CREATE TABLE IF NOT EXISTS bookings (
    id SERIAL PRIMARY KEY,
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    buyer_id BIGINT NOT NULL,
    ticket_count INTEGER NOT NULL,
    total_price BIGINT NOT NULL DEFAULT 0,
    status VARCHAR(20) NOT NULL DEFAULT 'CONFIRMED',
    issued_code TEXT,
    code_status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('CONFIRMED', 'CANCELLED')),
    CHECK (code_status IN ('PENDING', 'ISSUED', 'FAILED'))
);`

const createBookingSeatsTable = `
CREATE TABLE IF NOT EXISTS booking_seats (
    id SERIAL PRIMARY KEY,
    booking_id INTEGER NOT NULL REFERENCES bookings(id) ON DELETE CASCADE,
    seat_id UUID NOT NULL REFERENCES seats(id) ON DELETE CASCADE,
    reserved_at TIMESTAMP NOT NULL DEFAULT NOW(),

    UNIQUE(booking_id, seat_id)
);`

const createPricingTiersTable = `
CREATE TABLE IF NOT EXISTS pricing_tiers (
    id SERIAL PRIMARY KEY,
    event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
    row_start VARCHAR(3) NOT NULL,
    row_end VARCHAR(3) NOT NULL,
    seat_type VARCHAR(20) NOT NULL,
    price BIGINT NOT NULL,
    applied_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (seat_type IN ('normal', 'vip', 'premium'))
);`

const createSeatsReaperIndex = `
CREATE INDEX IF NOT EXISTS seats_held_until_idx
ON seats (held_until) WHERE status = 'HELD';`
