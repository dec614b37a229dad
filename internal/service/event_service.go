package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jlobacci/goout-backend/internal/common"
	"github.com/jlobacci/goout-backend/internal/domain"
	"github.com/jlobacci/goout-backend/internal/repository"
	"github.com/jlobacci/goout-backend/pkg/cache"
	"github.com/jlobacci/goout-backend/pkg/logger"
)

// EventService business logic for events and their slots
type EventService interface {
	Create(organizerID string, req *domain.CreateEventRequest) (*domain.Event, error)
	GetByID(id int64) (*domain.Event, error)
	List(hobby string, page, limit int) ([]*domain.Event, int64, error)
	// ListUpcoming returns events with at least one slot after now.
	ListUpcoming(now time.Time, limit int) ([]*domain.Event, error)
	// Delete removes an event and everything hanging off it. Organizer only.
	Delete(id int64, userID string) error
}

type eventService struct {
	eventRepo    repository.EventRepository
	cacheService cache.Service
}

// NewEventService creates a new EventService
func NewEventService(eventRepo repository.EventRepository, cacheService cache.Service) EventService {
	return &eventService{
		eventRepo:    eventRepo,
		cacheService: cacheService,
	}
}

// Create creates an event with its slots
func (s *eventService) Create(organizerID string, req *domain.CreateEventRequest) (*domain.Event, error) {
	for _, slot := range req.Slots {
		if !slot.EndsAt.After(slot.StartsAt) {
			return nil, fmt.Errorf("%w: slot must end after it starts", common.ErrInvalidInput)
		}
	}

	event := &domain.Event{
		OrganizerID: organizerID,
		Title:       req.Title,
		Hobby:       req.Hobby,
		Description: req.Description,
		Capacity:    req.Capacity,
	}
	for _, slot := range req.Slots {
		event.Slots = append(event.Slots, domain.EventSlot{
			StartsAt: slot.StartsAt,
			EndsAt:   slot.EndsAt,
		})
	}

	if err := s.eventRepo.Create(event); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return event, nil
}

// GetByID returns an event with its slots, cached for a short TTL.
// Deletion invalidates the entry, so a hit is never a deleted event.
func (s *eventService) GetByID(id int64) (*domain.Event, error) {
	ctx := context.Background()
	if data, err := s.cacheService.GetEvent(ctx, id); err == nil {
		var cached domain.Event
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	event, err := s.eventRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrEventNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	if err := s.cacheService.SetEvent(ctx, id, event); err != nil {
		logger.Get().Warn().Err(err).Int64("event_id", id).Msg("Failed to cache event")
	}
	return event, nil
}

// List returns events filtered by hobby, paginated
func (s *eventService) List(hobby string, page, limit int) ([]*domain.Event, int64, error) {
	events, total, err := s.eventRepo.List(hobby, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return events, total, nil
}

// ListUpcoming returns events with at least one slot after now
func (s *eventService) ListUpcoming(now time.Time, limit int) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListUpcoming(now, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return events, nil
}

// Delete removes the event after an organizer check. Deletion cascades to
// slots, applications, messages and read markers in one transaction.
func (s *eventService) Delete(id int64, userID string) error {
	event, err := s.eventRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return common.ErrEventNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if event.OrganizerID != userID {
		return common.ErrForbidden
	}

	if err := s.eventRepo.Delete(id); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if err := s.cacheService.InvalidateEvent(context.Background(), id); err != nil {
		logger.Get().Warn().Err(err).Int64("event_id", id).Msg("Failed to invalidate event cache")
	}
	return nil
}
