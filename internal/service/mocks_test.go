package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jlobacci/goout-backend/internal/domain"
	"github.com/jlobacci/goout-backend/internal/repository"
)

// --- Mock MemberRepository ---

type mockMemberRepo struct {
	mock.Mock
}

func (m *mockMemberRepo) FindByID(id string) (*domain.Member, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *mockMemberRepo) ExistsByID(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *mockMemberRepo) Create(member *domain.Member) error {
	return m.Called(member).Error(0)
}

// --- Mock EventRepository ---

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) Create(event *domain.Event) error {
	return m.Called(event).Error(0)
}

func (m *mockEventRepo) FindByID(id int64) (*domain.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *mockEventRepo) List(hobby string, page, limit int) ([]*domain.Event, int64, error) {
	args := m.Called(hobby, page, limit)
	var events []*domain.Event
	if args.Get(0) != nil {
		events = args.Get(0).([]*domain.Event)
	}
	return events, args.Get(1).(int64), args.Error(2)
}

func (m *mockEventRepo) ListUpcoming(after time.Time, limit int) ([]*domain.Event, error) {
	args := m.Called(after, limit)
	var events []*domain.Event
	if args.Get(0) != nil {
		events = args.Get(0).([]*domain.Event)
	}
	return events, args.Error(1)
}

func (m *mockEventRepo) Delete(id int64) error {
	return m.Called(id).Error(0)
}

func (m *mockEventRepo) ParticipantEventIDs(userID string) ([]int64, error) {
	args := m.Called(userID)
	var ids []int64
	if args.Get(0) != nil {
		ids = args.Get(0).([]int64)
	}
	return ids, args.Error(1)
}

func (m *mockEventRepo) IsParticipant(eventID int64, userID string) (bool, error) {
	args := m.Called(eventID, userID)
	return args.Bool(0), args.Error(1)
}

// --- Mock ApplicationRepository ---

type mockApplicationRepo struct {
	mock.Mock
}

func (m *mockApplicationRepo) Create(app *domain.Application) error {
	return m.Called(app).Error(0)
}

func (m *mockApplicationRepo) FindByID(id int64) (*domain.Application, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (m *mockApplicationRepo) ListByEvent(eventID int64) ([]*domain.Application, error) {
	args := m.Called(eventID)
	var apps []*domain.Application
	if args.Get(0) != nil {
		apps = args.Get(0).([]*domain.Application)
	}
	return apps, args.Error(1)
}

func (m *mockApplicationRepo) ListByApplicant(applicantID string) ([]*domain.Application, error) {
	args := m.Called(applicantID)
	var apps []*domain.Application
	if args.Get(0) != nil {
		apps = args.Get(0).([]*domain.Application)
	}
	return apps, args.Error(1)
}

func (m *mockApplicationRepo) UpdateStatus(id int64, status string, decidedAt time.Time) error {
	return m.Called(id, status, decidedAt).Error(0)
}

func (m *mockApplicationRepo) CountAccepted(eventID int64) (int64, error) {
	args := m.Called(eventID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockApplicationRepo) AcceptedSlotsAfter(userID string, after time.Time) ([]repository.UpcomingSlotRow, error) {
	args := m.Called(userID, after)
	var rows []repository.UpcomingSlotRow
	if args.Get(0) != nil {
		rows = args.Get(0).([]repository.UpcomingSlotRow)
	}
	return rows, args.Error(1)
}

// --- Mock MessageRepository ---

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(msg *domain.Message) error {
	return m.Called(msg).Error(0)
}

func (m *mockMessageRepo) List(eventID int64, sinceID int64) ([]*domain.Message, error) {
	args := m.Called(eventID, sinceID)
	var messages []*domain.Message
	if args.Get(0) != nil {
		messages = args.Get(0).([]*domain.Message)
	}
	return messages, args.Error(1)
}

func (m *mockMessageRepo) FindByIDs(ids []int64) ([]*domain.Message, error) {
	args := m.Called(ids)
	var messages []*domain.Message
	if args.Get(0) != nil {
		messages = args.Get(0).([]*domain.Message)
	}
	return messages, args.Error(1)
}

func (m *mockMessageRepo) CountUnread(eventID int64, userID string) (int64, error) {
	args := m.Called(eventID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockMessageRepo) FindRecentUnread(eventIDs []int64, userID string, perEvent int) ([]repository.UnreadMessageRow, error) {
	args := m.Called(eventIDs, userID, perEvent)
	var rows []repository.UnreadMessageRow
	if args.Get(0) != nil {
		rows = args.Get(0).([]repository.UnreadMessageRow)
	}
	return rows, args.Error(1)
}

// --- Mock DMRepository ---

type mockDMRepo struct {
	mock.Mock
}

func (m *mockDMRepo) FindThreadByPair(userA, userB string) (*domain.DMThread, error) {
	args := m.Called(userA, userB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DMThread), args.Error(1)
}

func (m *mockDMRepo) CreateThread(thread *domain.DMThread) error {
	return m.Called(thread).Error(0)
}

func (m *mockDMRepo) FindThreadByID(id int64) (*domain.DMThread, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DMThread), args.Error(1)
}

func (m *mockDMRepo) ListThreadsForUser(userID string) ([]*domain.DMThread, error) {
	args := m.Called(userID)
	var threads []*domain.DMThread
	if args.Get(0) != nil {
		threads = args.Get(0).([]*domain.DMThread)
	}
	return threads, args.Error(1)
}

func (m *mockDMRepo) CreateMessage(msg *domain.DMMessage) error {
	return m.Called(msg).Error(0)
}

func (m *mockDMRepo) ListMessages(threadID int64, sinceID int64) ([]*domain.DMMessage, error) {
	args := m.Called(threadID, sinceID)
	var messages []*domain.DMMessage
	if args.Get(0) != nil {
		messages = args.Get(0).([]*domain.DMMessage)
	}
	return messages, args.Error(1)
}

func (m *mockDMRepo) FindMessagesByIDs(ids []int64) ([]*domain.DMMessage, error) {
	args := m.Called(ids)
	var messages []*domain.DMMessage
	if args.Get(0) != nil {
		messages = args.Get(0).([]*domain.DMMessage)
	}
	return messages, args.Error(1)
}

func (m *mockDMRepo) CountUnread(threadID int64, userID string) (int64, error) {
	args := m.Called(threadID, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockDMRepo) FindRecentUnread(threadIDs []int64, userID string, perThread int) ([]repository.UnreadDMRow, error) {
	args := m.Called(threadIDs, userID, perThread)
	var rows []repository.UnreadDMRow
	if args.Get(0) != nil {
		rows = args.Get(0).([]repository.UnreadDMRow)
	}
	return rows, args.Error(1)
}

// --- Mock ReadMarkerRepository ---

type mockReadMarkerRepo struct {
	mock.Mock
}

func (m *mockReadMarkerRepo) MarkEventMessagesRead(userID string, messageIDs []int64, readAt time.Time) error {
	return m.Called(userID, messageIDs, readAt).Error(0)
}

func (m *mockReadMarkerRepo) MarkDMMessagesRead(userID string, messageIDs []int64, readAt time.Time) error {
	return m.Called(userID, messageIDs, readAt).Error(0)
}

// --- Mock WatermarkRepository ---

type mockWatermarkRepo struct {
	mock.Mock
}

func (m *mockWatermarkRepo) Get(userID string) (*domain.NotificationWatermark, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationWatermark), args.Error(1)
}

func (m *mockWatermarkRepo) Upsert(userID string, lastSeenAt time.Time) error {
	return m.Called(userID, lastSeenAt).Error(0)
}

// --- No-op cache, stands in for an absent Redis ---

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) error {
	return context.Canceled
}

func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (noopCache) Delete(ctx context.Context, keys ...string) error { return nil }

func (noopCache) GetBadgeCount(ctx context.Context, userID string) (int, error) {
	return 0, context.Canceled
}

func (noopCache) SetBadgeCount(ctx context.Context, userID string, count int) error { return nil }

func (noopCache) InvalidateBadge(ctx context.Context, userID string) error { return nil }

func (noopCache) GetEvent(ctx context.Context, eventID int64) ([]byte, error) {
	return nil, context.Canceled
}

func (noopCache) SetEvent(ctx context.Context, eventID int64, data interface{}) error { return nil }

func (noopCache) InvalidateEvent(ctx context.Context, eventID int64) error { return nil }

func (noopCache) IsAvailable() bool { return false }
