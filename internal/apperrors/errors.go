package apperrors

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrCapacityExceeded is returned when a reservation asks for more
	// tickets than the event has remaining. Expected under contention,
	// surfaced to the buyer as "sold out", never retried automatically.
	ErrCapacityExceeded = errors.New("not enough tickets remaining")

	// ErrHoldExpired is returned when a confirmation arrives after the
	// hold's TTL has passed. The buyer must re-acquire the seats.
	ErrHoldExpired = errors.New("seat hold has expired")

	ErrEventNotFound   = errors.New("event not found")
	ErrSeatNotFound    = errors.New("seat not found")
	ErrBookingNotFound = errors.New("booking not found")
	ErrForbidden       = errors.New("operation is forbidden for buyer")
)

// HoldConflictError reports which seats in a hold or confirm request were
// unavailable. The whole request fails atomically; no partial holds remain.
type HoldConflictError struct {
	UnavailableSeats []string
}

func (e *HoldConflictError) Error() string {
	return fmt.Sprintf("seats unavailable: %s", strings.Join(e.UnavailableSeats, ", "))
}

// AsHoldConflict unwraps err into a HoldConflictError if it is one.
func AsHoldConflict(err error) (*HoldConflictError, bool) {
	var conflict *HoldConflictError
	if errors.As(err, &conflict) {
		return conflict, true
	}
	return nil, false
}

// Postgres error codes that indicate the transaction lost a race and can
// safely be retried: serialization_failure, deadlock_detected, lock_not_available.
var transientPgCodes = map[pq.ErrorCode]bool{
	"40001": true,
	"40P01": true,
	"55P03": true,
}

// IsTransient reports whether err is a storage failure worth retrying with
// backoff: a deadlock victim, a serialization failure, a lock timeout, or a
// dropped connection. Inventory-correctness errors are never transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return transientPgCodes[pgErr.Code]
	}

	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	errStr := err.Error()
	for _, s := range []string{"connection refused", "connection reset", "broken pipe"} {
		if strings.Contains(errStr, s) {
			return true
		}
	}

	return false
}
