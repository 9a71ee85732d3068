package handlers

import (
	"errors"
	"net/http"

	"ovation/internal/apperrors"
	"ovation/internal/logger"
	"ovation/internal/middleware"
	"ovation/internal/service"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		services: services,
	}
}

// buyerID returns the authenticated buyer id set by the identity middleware
func buyerID(c *gin.Context) (int64, bool) {
	id, ok := middleware.BuyerIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing buyer identity"})
	}
	return id, ok
}

// respondError maps domain errors to HTTP responses. Raw storage errors
// never reach the client.
func respondError(c *gin.Context, err error, fallback string) {
	if conflict, ok := apperrors.AsHoldConflict(err); ok {
		c.JSON(http.StatusConflict, gin.H{
			"error":             "Some seats are no longer available",
			"unavailable_seats": conflict.UnavailableSeats,
		})
		return
	}

	switch {
	case errors.Is(err, apperrors.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": "Not enough tickets remaining"})
	case errors.Is(err, apperrors.ErrHoldExpired):
		c.JSON(http.StatusGone, gin.H{"error": "Seat selection expired"})
	case errors.Is(err, apperrors.ErrEventNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrSeatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Seat not found"})
	case errors.Is(err, apperrors.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
	case apperrors.IsTransient(err):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Temporarily unavailable, please retry"})
	default:
		logger.WithContext(c.Request.Context()).Error(fallback, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
