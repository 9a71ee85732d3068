package service

import (
	"context"
	"fmt"
	"time"

	"ovation/internal/apperrors"
	"ovation/internal/logger"
	"ovation/internal/messaging"
	"ovation/internal/metrics"
	"ovation/internal/models"
	"ovation/internal/repository"
)

// SeatService manages seat holds and pricing tiers for addressed events
type SeatService struct {
	seatRepo   *repository.SeatRepository
	eventRepo  *repository.EventRepository
	natsClient *messaging.NATSClient
	holdTTL    time.Duration
}

func NewSeatService(seatRepo *repository.SeatRepository, eventRepo *repository.EventRepository, natsClient *messaging.NATSClient, holdTTL time.Duration) *SeatService {
	return &SeatService{
		seatRepo:   seatRepo,
		eventRepo:  eventRepo,
		natsClient: natsClient,
		holdTTL:    holdTTL,
	}
}

func seatResponseItem(seat models.Seat) models.ListSeatsResponseItem {
	return models.ListSeatsResponseItem{
		ID:       seat.ID,
		SeatCode: seat.SeatCode,
		RowLabel: seat.RowLabel,
		Number:   seat.SeatNumber,
		SeatType: seat.SeatType,
		Status:   seat.Status,
		Price:    formatPrice(seat.Price),
	}
}

// requireSeatedEvent fetches the event and checks it uses addressed seating
func (s *SeatService) requireSeatedEvent(ctx context.Context, eventID int64) (*models.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrEventNotFound
	}
	if !event.HasSeats {
		return nil, fmt.Errorf("event %d is general admission; no addressed seats", eventID)
	}
	return event, nil
}

// Generate creates the seat grid for an event
func (s *SeatService) Generate(ctx context.Context, eventID int64, req *models.GenerateSeatsRequest) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return apperrors.ErrEventNotFound
	}

	if err := s.seatRepo.CreateSeatsForEvent(ctx, eventID, req.Rows, req.Cols, req.BasePrice); err != nil {
		return fmt.Errorf("failed to generate seats: %w", err)
	}

	logger.WithContext(ctx).Info("Generated seats for event",
		"event_id", eventID, "rows", req.Rows, "cols", req.Cols)
	return nil
}

// List returns a page of seats with optional row and status filters
func (s *SeatService) List(ctx context.Context, eventID int64, page, pageSize int, rowLabel *string, status *string) ([]models.ListSeatsResponseItem, error) {
	if _, err := s.requireSeatedEvent(ctx, eventID); err != nil {
		return nil, err
	}

	seats, err := s.seatRepo.GetByEventID(ctx, eventID, page, pageSize, rowLabel, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get seats: %w", err)
	}

	result := make([]models.ListSeatsResponseItem, len(seats))
	for i, seat := range seats {
		result[i] = seatResponseItem(seat)
	}

	return result, nil
}

// SeatMap returns every seat of the event grouped by row label
func (s *SeatService) SeatMap(ctx context.Context, eventID int64) (models.SeatMapResponse, error) {
	if _, err := s.requireSeatedEvent(ctx, eventID); err != nil {
		return nil, err
	}

	seats, err := s.seatRepo.GetByEventID(ctx, eventID, 0, 0, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get seats: %w", err)
	}

	layout := make(models.SeatMapResponse)
	for _, seat := range seats {
		layout[seat.RowLabel] = append(layout[seat.RowLabel], seatResponseItem(seat))
	}

	return layout, nil
}

// AcquireHolds places a time-bounded hold on the requested seats for the
// holder. All-or-nothing: a conflict on any seat leaves no holds behind.
func (s *SeatService) AcquireHolds(ctx context.Context, req *models.HoldSeatsRequest, holderID int64) (*models.HoldSeatsResponse, error) {
	if _, err := s.requireSeatedEvent(ctx, req.EventID); err != nil {
		return nil, err
	}

	expiresAt, totalPrice, err := s.seatRepo.AcquireHolds(ctx, req.EventID, req.SeatCodes, holderID, s.holdTTL)
	if err != nil {
		if _, ok := apperrors.AsHoldConflict(err); ok {
			metrics.HoldConflictsTotal.Inc()
		}
		return nil, err
	}

	metrics.HoldsAcquiredTotal.Inc()

	event := models.HoldsAcquiredEvent{
		EventID:   req.EventID,
		SeatCodes: req.SeatCodes,
		HolderID:  holderID,
		ExpiresAt: expiresAt,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.EventHoldsAcquired, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish holds acquired event",
			"error", err,
			"event_type", models.EventHoldsAcquired)
	}

	return &models.HoldSeatsResponse{
		SeatCodes:  req.SeatCodes,
		TotalPrice: formatPrice(totalPrice),
		ExpiresAt:  expiresAt,
	}, nil
}

// Release frees the holder's holds on the given seats. Releasing seats the
// holder does not hold is a no-op, never an error.
func (s *SeatService) Release(ctx context.Context, req *models.ReleaseSeatsRequest, holderID int64) error {
	if err := s.seatRepo.ReleaseHolds(ctx, req.EventID, req.SeatCodes, holderID); err != nil {
		return fmt.Errorf("failed to release holds: %w", err)
	}

	event := models.HoldsReleasedEvent{
		EventID:   req.EventID,
		SeatCodes: req.SeatCodes,
		HolderID:  holderID,
		Timestamp: time.Now(),
	}
	if err := s.natsClient.Publish(models.EventHoldsReleased, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish holds released event",
			"error", err,
			"event_type", models.EventHoldsReleased)
	}

	return nil
}

// validateTiers checks row ranges are single-letter labels in order
func validateTiers(tiers []models.TierInput) error {
	for _, tier := range tiers {
		if len(tier.RowStart) != 1 || tier.RowStart[0] < 'A' || tier.RowStart[0] > 'Z' {
			return fmt.Errorf("invalid row_start %q: must be a single letter A-Z", tier.RowStart)
		}
		if len(tier.RowEnd) != 1 || tier.RowEnd[0] < 'A' || tier.RowEnd[0] > 'Z' {
			return fmt.Errorf("invalid row_end %q: must be a single letter A-Z", tier.RowEnd)
		}
		if tier.RowStart > tier.RowEnd {
			return fmt.Errorf("invalid tier range %s-%s: start after end", tier.RowStart, tier.RowEnd)
		}
	}
	return nil
}

// ApplyTiers replaces the event's pricing tiers. Seat prices change for
// rows inside the new ranges; everything else keeps its price. Prices on
// already-held or booked seats do not retroactively change totals: price
// is captured when the hold or booking is made.
func (s *SeatService) ApplyTiers(ctx context.Context, eventID int64, req *models.ApplyTiersRequest) error {
	if _, err := s.requireSeatedEvent(ctx, eventID); err != nil {
		return err
	}

	if err := validateTiers(req.Tiers); err != nil {
		return err
	}

	tiers := make([]models.PricingTier, len(req.Tiers))
	for i, in := range req.Tiers {
		tiers[i] = models.PricingTier{
			EventID:  eventID,
			RowStart: in.RowStart,
			RowEnd:   in.RowEnd,
			SeatType: in.SeatType,
			Price:    in.Price,
		}
	}

	if err := s.seatRepo.ApplyTiers(ctx, eventID, tiers); err != nil {
		return fmt.Errorf("failed to apply tiers: %w", err)
	}

	logger.WithContext(ctx).Info("Applied pricing tiers",
		"event_id", eventID, "tiers", len(tiers))
	return nil
}

// GetTiers returns the event's current pricing tiers
func (s *SeatService) GetTiers(ctx context.Context, eventID int64) ([]models.PricingTier, error) {
	if _, err := s.requireSeatedEvent(ctx, eventID); err != nil {
		return nil, err
	}

	tiers, err := s.seatRepo.GetTiers(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tiers: %w", err)
	}
	return tiers, nil
}
