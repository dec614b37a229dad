package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/jlobacci/goout-backend/internal/common"
	"github.com/jlobacci/goout-backend/internal/domain"
	"github.com/jlobacci/goout-backend/internal/repository"
	"github.com/jlobacci/goout-backend/internal/ws"
)

// MessageService business logic for event-scoped and direct messages.
// Messages are append-only; listing is a lazy, side-effect-free read that
// returns a consistent suffix of one total order (created_at asc, id asc).
type MessageService interface {
	AppendEventMessage(eventID int64, senderID, body string) (*domain.Message, error)
	ListEventMessages(eventID int64, userID string, sinceID int64) ([]*domain.Message, error)
	AppendDMMessage(threadID int64, senderID, body string) (*domain.DMMessage, error)
	ListDMMessages(threadID int64, userID string, sinceID int64) ([]*domain.DMMessage, error)
}

type messageService struct {
	msgRepo   repository.MessageRepository
	dmRepo    repository.DMRepository
	eventRepo repository.EventRepository
	hub       *ws.Hub
}

// NewMessageService creates a new MessageService. hub may be nil (no live
// push, e.g. in tests).
func NewMessageService(
	msgRepo repository.MessageRepository,
	dmRepo repository.DMRepository,
	eventRepo repository.EventRepository,
	hub *ws.Hub,
) MessageService {
	return &messageService{
		msgRepo:   msgRepo,
		dmRepo:    dmRepo,
		eventRepo: eventRepo,
		hub:       hub,
	}
}

// AppendEventMessage appends a message to an event thread
func (s *messageService) AppendEventMessage(eventID int64, senderID, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		// Local validation, no store round-trip
		return nil, common.ErrEmptyMessage
	}

	ok, err := s.eventRepo.IsParticipant(eventID, senderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if !ok {
		return nil, common.ErrNotParticipant
	}

	msg := &domain.Message{
		EventID:   eventID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := s.msgRepo.Create(msg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	s.publish(domain.EventThreadKey(eventID), msg.ID, msg.SenderID, msg.Body, msg.CreatedAt)
	return msg, nil
}

// ListEventMessages returns event messages after sinceID, oldest first
func (s *messageService) ListEventMessages(eventID int64, userID string, sinceID int64) ([]*domain.Message, error) {
	ok, err := s.eventRepo.IsParticipant(eventID, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if !ok {
		return nil, common.ErrNotParticipant
	}

	messages, err := s.msgRepo.List(eventID, sinceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return messages, nil
}

// AppendDMMessage appends a direct message to a thread
func (s *messageService) AppendDMMessage(threadID int64, senderID, body string) (*domain.DMMessage, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, common.ErrEmptyMessage
	}

	thread, err := s.dmRepo.FindThreadByID(threadID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if !thread.Includes(senderID) {
		return nil, common.ErrNotParticipant
	}

	msg := &domain.DMMessage{
		ThreadID:  threadID,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: time.Now(),
	}
	if err := s.dmRepo.CreateMessage(msg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	s.publish(domain.DMThreadKey(threadID), msg.ID, msg.SenderID, msg.Body, msg.CreatedAt)
	return msg, nil
}

// ListDMMessages returns direct messages after sinceID, oldest first
func (s *messageService) ListDMMessages(threadID int64, userID string, sinceID int64) ([]*domain.DMMessage, error) {
	thread, err := s.dmRepo.FindThreadByID(threadID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if !thread.Includes(userID) {
		return nil, common.ErrNotParticipant
	}

	messages, err := s.dmRepo.ListMessages(threadID, sinceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return messages, nil
}

func (s *messageService) publish(threadKey string, id int64, senderID, body string, createdAt time.Time) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(ws.InsertEvent{
		ThreadKey: threadKey,
		MessageID: id,
		SenderID:  senderID,
		Body:      body,
		CreatedAt: createdAt,
	})
}
