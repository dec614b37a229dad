package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/jlobacci/goout-backend/internal/common"
	"github.com/jlobacci/goout-backend/internal/domain"
)

func TestCreateEvent_RejectsInvertedSlot(t *testing.T) {
	now := time.Now()
	svc := NewEventService(new(mockEventRepo), noopCache{})

	_, err := svc.Create("olivia", &domain.CreateEventRequest{
		Title:    "Bouldering",
		Hobby:    "climbing",
		Capacity: 4,
		Slots: []domain.CreateSlotRequest{
			{StartsAt: now.Add(2 * time.Hour), EndsAt: now.Add(time.Hour)},
		},
	})

	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestCreateEvent_PersistsSlots(t *testing.T) {
	now := time.Now()
	eventRepo := new(mockEventRepo)
	eventRepo.On("Create", mock.MatchedBy(func(e *domain.Event) bool {
		return e.OrganizerID == "olivia" && len(e.Slots) == 2
	})).Return(nil)

	svc := NewEventService(eventRepo, noopCache{})
	event, err := svc.Create("olivia", &domain.CreateEventRequest{
		Title:    "Bouldering",
		Hobby:    "climbing",
		Capacity: 4,
		Slots: []domain.CreateSlotRequest{
			{StartsAt: now.Add(time.Hour), EndsAt: now.Add(2 * time.Hour)},
			{StartsAt: now.Add(24 * time.Hour), EndsAt: now.Add(25 * time.Hour)},
		},
	})

	assert.NoError(t, err)
	assert.Len(t, event.Slots, 2)
	eventRepo.AssertExpectations(t)
}

// eventCacheStub hits on GetEvent when primed and records SetEvent calls
type eventCacheStub struct {
	noopCache
	data     []byte
	setCalls int
}

func (s *eventCacheStub) GetEvent(ctx context.Context, eventID int64) ([]byte, error) {
	if s.data == nil {
		return nil, context.Canceled
	}
	return s.data, nil
}

func (s *eventCacheStub) SetEvent(ctx context.Context, eventID int64, data interface{}) error {
	s.setCalls++
	return nil
}

func TestGetEvent_CacheHitSkipsStore(t *testing.T) {
	cached, _ := json.Marshal(&domain.Event{ID: 7, OrganizerID: "olivia", Title: "Bouldering"})
	eventRepo := new(mockEventRepo)

	svc := NewEventService(eventRepo, &eventCacheStub{data: cached})
	event, err := svc.GetByID(7)

	assert.NoError(t, err)
	assert.Equal(t, "Bouldering", event.Title)
	eventRepo.AssertNotCalled(t, "FindByID", mock.Anything)
}

func TestGetEvent_CacheMissFillsCache(t *testing.T) {
	eventRepo := new(mockEventRepo)
	eventRepo.On("FindByID", int64(7)).Return(&domain.Event{ID: 7, Title: "Bouldering"}, nil)
	cache := &eventCacheStub{}

	svc := NewEventService(eventRepo, cache)
	event, err := svc.GetByID(7)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), event.ID)
	assert.Equal(t, 1, cache.setCalls)
}

func TestListUpcoming(t *testing.T) {
	now := time.Now()
	eventRepo := new(mockEventRepo)
	eventRepo.On("ListUpcoming", now, 5).Return([]*domain.Event{{ID: 1}, {ID: 2}}, nil)

	svc := NewEventService(eventRepo, noopCache{})
	events, err := svc.ListUpcoming(now, 5)

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	eventRepo.AssertExpectations(t)
}

func TestGetEvent_NotFound(t *testing.T) {
	eventRepo := new(mockEventRepo)
	eventRepo.On("FindByID", int64(99)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewEventService(eventRepo, noopCache{})
	_, err := svc.GetByID(99)

	assert.ErrorIs(t, err, common.ErrEventNotFound)
}

func TestDeleteEvent_OnlyOrganizer(t *testing.T) {
	eventRepo := new(mockEventRepo)
	eventRepo.On("FindByID", int64(1)).Return(&domain.Event{ID: 1, OrganizerID: "olivia"}, nil)

	svc := NewEventService(eventRepo, noopCache{})
	err := svc.Delete(1, "mallory")

	assert.ErrorIs(t, err, common.ErrForbidden)
	eventRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestDeleteEvent_Organizer(t *testing.T) {
	eventRepo := new(mockEventRepo)
	eventRepo.On("FindByID", int64(1)).Return(&domain.Event{ID: 1, OrganizerID: "olivia"}, nil)
	eventRepo.On("Delete", int64(1)).Return(nil)

	svc := NewEventService(eventRepo, noopCache{})

	assert.NoError(t, svc.Delete(1, "olivia"))
	eventRepo.AssertExpectations(t)
}
