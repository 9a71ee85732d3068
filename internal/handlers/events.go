package handlers

import (
	"net/http"
	"strconv"

	"ovation/internal/models"

	"github.com/gin-gonic/gin"
)

// Events handlers

// CreateEvent - POST /api/events
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	organizerID, ok := buyerID(c)
	if !ok {
		return
	}

	response, err := h.services.Events.Create(c.Request.Context(), &req, organizerID)
	if err != nil {
		respondError(c, err, "Failed to create event")
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListEvents - GET /api/events
func (h *Handlers) ListEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 100"})
		return
	}

	response, err := h.services.Events.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err, "Failed to list events")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetEvent - GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	event, err := h.services.Events.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get event")
		return
	}

	c.JSON(http.StatusOK, event)
}

// SearchEvents - GET /api/events/search
func (h *Handlers) SearchEvents(c *gin.Context) {
	query := c.Query("query")
	category := c.Query("category")
	venue := c.Query("venue")
	date := c.Query("date")

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 || pageSize < 1 || pageSize > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pagination parameters"})
		return
	}

	events, err := h.services.Events.Search(c.Request.Context(), query, category, venue, date, page, pageSize)
	if err != nil {
		respondError(c, err, "Failed to search events")
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEventStats - GET /api/events/:id/stats
func (h *Handlers) GetEventStats(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	stats, err := h.services.Bookings.EventStats(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get event stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
