package handlers

import (
	"net/http"
	"strconv"

	"ovation/internal/models"

	"github.com/gin-gonic/gin"
)

// Bookings handlers

// ReserveTickets - POST /api/bookings
func (h *Handlers) ReserveTickets(c *gin.Context) {
	var req models.ReserveTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	buyer, ok := buyerID(c)
	if !ok {
		return
	}

	response, err := h.services.Bookings.ReserveTickets(c.Request.Context(), &req, buyer)
	if err != nil {
		respondError(c, err, "Failed to reserve tickets")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ConfirmSeats - POST /api/bookings/confirm
func (h *Handlers) ConfirmSeats(c *gin.Context) {
	var req models.ConfirmSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	buyer, ok := buyerID(c)
	if !ok {
		return
	}

	response, err := h.services.Bookings.ConfirmSeats(c.Request.Context(), &req, buyer)
	if err != nil {
		respondError(c, err, "Failed to confirm seats")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListBookings - GET /api/bookings
func (h *Handlers) ListBookings(c *gin.Context) {
	buyer, ok := buyerID(c)
	if !ok {
		return
	}

	response, err := h.services.Bookings.List(c.Request.Context(), buyer)
	if err != nil {
		respondError(c, err, "Failed to list bookings")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetBooking - GET /api/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	buyer, ok := buyerID(c)
	if !ok {
		return
	}

	booking, err := h.services.Bookings.GetByID(c.Request.Context(), id, buyer)
	if err != nil {
		respondError(c, err, "Failed to get booking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// CancelBooking - PATCH /api/bookings/cancel
func (h *Handlers) CancelBooking(c *gin.Context) {
	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	buyer, ok := buyerID(c)
	if !ok {
		return
	}

	if err := h.services.Bookings.Cancel(c.Request.Context(), &req, buyer); err != nil {
		respondError(c, err, "Failed to cancel booking")
		return
	}

	c.Status(http.StatusOK)
}
