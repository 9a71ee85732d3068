package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ovation/internal/apperrors"
	"ovation/internal/cache"
	"ovation/internal/logger"
	"ovation/internal/models"
	"ovation/internal/repository"
	"ovation/internal/search"
)

// EventService manages the event catalog
type EventService struct {
	eventRepo    *repository.EventRepository
	seatRepo     *repository.SeatRepository
	searchClient *search.Client
	cacheClient  *cache.Client
}

func NewEventService(eventRepo *repository.EventRepository, seatRepo *repository.SeatRepository, searchClient *search.Client, cacheClient *cache.Client) *EventService {
	return &EventService{
		eventRepo:    eventRepo,
		seatRepo:     seatRepo,
		searchClient: searchClient,
		cacheClient:  cacheClient,
	}
}

// Create inserts an event and, when a seat grid is requested, generates
// the addressed seats in the same call. Search indexing and cache
// invalidation are best effort and never fail the creation.
func (s *EventService) Create(ctx context.Context, req *models.CreateEventRequest, organizerID int64) (*models.CreateEventResponse, error) {
	event := &models.Event{
		OrganizerID:   organizerID,
		Title:         req.Title,
		Description:   req.Description,
		Venue:         req.Venue,
		Category:      req.Category,
		DatetimeStart: req.DatetimeStart,
		Capacity:      req.Capacity,
		TicketPrice:   req.TicketPrice,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if req.SeatRows > 0 && req.SeatCols > 0 {
		if err := s.seatRepo.CreateSeatsForEvent(ctx, event.ID, req.SeatRows, req.SeatCols, req.TicketPrice); err != nil {
			return nil, fmt.Errorf("failed to generate seats: %w", err)
		}
		event.SeatRows = req.SeatRows
		event.SeatCols = req.SeatCols
		event.HasSeats = true
		event.Capacity = req.SeatRows * req.SeatCols
	}

	if s.searchClient != nil {
		if err := s.searchClient.IndexEvent(ctx, event); err != nil {
			logger.WithContext(ctx).Error("Failed to index event",
				"error", err,
				"event_id", event.ID)
		}
	}

	if s.cacheClient != nil {
		s.cacheClient.InvalidateEvents(ctx)
	}

	logger.WithContext(ctx).Info("Created event",
		"event_id", event.ID, "title", event.Title, "has_seats", event.HasSeats)

	return &models.CreateEventResponse{ID: event.ID}, nil
}

// List returns a catalog page with remaining availability per event. The
// serialized page is cached; a cache miss or stale entry only costs a
// database round trip.
func (s *EventService) List(ctx context.Context, page, pageSize int) (models.ListEventsResponse, error) {
	if s.cacheClient != nil {
		if raw, err := s.cacheClient.GetEventsListRaw(ctx, page, pageSize); err == nil && raw != nil {
			var cached models.ListEventsResponse
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, nil
			}
		}
	}

	events, err := s.eventRepo.ListWithAvailability(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	result := models.ListEventsResponse(events)

	if s.cacheClient != nil {
		s.cacheClient.SetEventsList(ctx, page, pageSize, result)
	}

	return result, nil
}

// GetByID returns one event
func (s *EventService) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}

// Search queries the search index with optional category, venue and date
// filters. Falls back to the catalog listing when search is not configured.
func (s *EventService) Search(ctx context.Context, query, category, venue, date string, page, pageSize int) ([]models.Event, error) {
	if s.searchClient == nil {
		return nil, fmt.Errorf("search is not configured")
	}

	events, err := s.searchClient.Search(ctx, query, category, venue, date, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}
	return events, nil
}
