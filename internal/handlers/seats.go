package handlers

import (
	"net/http"
	"strconv"

	"ovation/internal/models"

	"github.com/gin-gonic/gin"
)

// Seats handlers

// ListSeats - GET /api/events/:id/seats
func (h *Handlers) ListSeats(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	if page < 1 || pageSize < 1 || pageSize > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters"})
		return
	}

	var rowLabel, status *string
	if v := c.Query("row"); v != "" {
		rowLabel = &v
	}
	if v := c.Query("status"); v != "" {
		status = &v
	}

	seats, err := h.services.Seats.List(c.Request.Context(), eventID, page, pageSize, rowLabel, status)
	if err != nil {
		respondError(c, err, "Failed to list seats")
		return
	}

	c.JSON(http.StatusOK, seats)
}

// GetSeatMap - GET /api/events/:id/seatmap
func (h *Handlers) GetSeatMap(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	layout, err := h.services.Seats.SeatMap(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err, "Failed to get seat map")
		return
	}

	c.JSON(http.StatusOK, layout)
}

// GenerateSeats - POST /api/events/:id/seats
func (h *Handlers) GenerateSeats(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req models.GenerateSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Seats.Generate(c.Request.Context(), eventID, &req); err != nil {
		respondError(c, err, "Failed to generate seats")
		return
	}

	c.Status(http.StatusCreated)
}

// HoldSeats - POST /api/seats/hold
func (h *Handlers) HoldSeats(c *gin.Context) {
	var req models.HoldSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holderID, ok := buyerID(c)
	if !ok {
		return
	}

	response, err := h.services.Seats.AcquireHolds(c.Request.Context(), &req, holderID)
	if err != nil {
		respondError(c, err, "Failed to hold seats")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ReleaseSeats - PATCH /api/seats/release
func (h *Handlers) ReleaseSeats(c *gin.Context) {
	var req models.ReleaseSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	holderID, ok := buyerID(c)
	if !ok {
		return
	}

	if err := h.services.Seats.Release(c.Request.Context(), &req, holderID); err != nil {
		respondError(c, err, "Failed to release seats")
		return
	}

	c.Status(http.StatusOK)
}

// ApplyTiers - PUT /api/events/:id/tiers
func (h *Handlers) ApplyTiers(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req models.ApplyTiersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Seats.ApplyTiers(c.Request.Context(), eventID, &req); err != nil {
		respondError(c, err, "Failed to apply pricing tiers")
		return
	}

	c.Status(http.StatusOK)
}

// GetTiers - GET /api/events/:id/tiers
func (h *Handlers) GetTiers(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	tiers, err := h.services.Seats.GetTiers(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err, "Failed to get pricing tiers")
		return
	}

	c.JSON(http.StatusOK, tiers)
}
