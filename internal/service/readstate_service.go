package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jlobacci/goout-backend/internal/common"
	"github.com/jlobacci/goout-backend/internal/domain"
	"github.com/jlobacci/goout-backend/internal/repository"
	"github.com/jlobacci/goout-backend/pkg/cache"
	"github.com/jlobacci/goout-backend/pkg/logger"
)

// ReadStateService tracks which messages a user has read and where the
// notification watermark sits. Read markers and the watermark are separate:
// dismissing notifications silences the badge without marking anything read.
type ReadStateService interface {
	// MarkRead records read markers for the given messages, skipping any
	// the user authored. Re-marking is a no-op.
	MarkRead(userID, kind string, messageIDs []int64) error
	UnreadEventCount(eventID int64, userID string) (int64, error)
	UnreadDMCount(threadID int64, userID string) (int64, error)
	// AdvanceWatermark moves the user's notification watermark to now.
	AdvanceWatermark(userID string, now time.Time) error
}

type readStateService struct {
	readRepo      repository.ReadMarkerRepository
	watermarkRepo repository.WatermarkRepository
	msgRepo       repository.MessageRepository
	dmRepo        repository.DMRepository
	cacheService  cache.Service
}

// NewReadStateService creates a new ReadStateService
func NewReadStateService(
	readRepo repository.ReadMarkerRepository,
	watermarkRepo repository.WatermarkRepository,
	msgRepo repository.MessageRepository,
	dmRepo repository.DMRepository,
	cacheService cache.Service,
) ReadStateService {
	return &readStateService{
		readRepo:      readRepo,
		watermarkRepo: watermarkRepo,
		msgRepo:       msgRepo,
		dmRepo:        dmRepo,
		cacheService:  cacheService,
	}
}

// MarkRead records read markers for messages the user did not author.
// Self-authored ids in the batch are silently dropped rather than rejected,
// so a client marking a whole visible window read never has to filter first.
func (s *readStateService) MarkRead(userID, kind string, messageIDs []int64) error {
	if len(messageIDs) == 0 {
		return nil
	}

	var toMark []int64
	switch kind {
	case domain.MessageKindEvent:
		messages, err := s.msgRepo.FindByIDs(messageIDs)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
		}
		for _, m := range messages {
			if m.SenderID != userID {
				toMark = append(toMark, m.ID)
			}
		}
	case domain.MessageKindDM:
		messages, err := s.dmRepo.FindMessagesByIDs(messageIDs)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
		}
		for _, m := range messages {
			if m.SenderID != userID {
				toMark = append(toMark, m.ID)
			}
		}
	default:
		return fmt.Errorf("%w: unknown message kind %q", common.ErrInvalidInput, kind)
	}

	if len(toMark) == 0 {
		return nil
	}

	now := time.Now()
	var err error
	if kind == domain.MessageKindEvent {
		err = s.readRepo.MarkEventMessagesRead(userID, toMark, now)
	} else {
		err = s.readRepo.MarkDMMessagesRead(userID, toMark, now)
	}
	if err != nil {
		// The markers that did land stay; a retry re-sends the batch and
		// the insert-if-absent write absorbs the overlap.
		logger.Get().Error().Err(err).
			Str("user_id", userID).
			Str("kind", kind).
			Int("count", len(toMark)).
			Msg("Failed to write read markers")
		return fmt.Errorf("%w: %v", common.ErrReadMarkerWrite, err)
	}

	if err := s.cacheService.InvalidateBadge(context.Background(), userID); err != nil {
		logger.Get().Warn().Err(err).Str("user_id", userID).Msg("Failed to invalidate badge cache")
	}
	return nil
}

// UnreadEventCount counts unread messages in an event thread
func (s *readStateService) UnreadEventCount(eventID int64, userID string) (int64, error) {
	count, err := s.msgRepo.CountUnread(eventID, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return count, nil
}

// UnreadDMCount counts unread messages in a direct thread
func (s *readStateService) UnreadDMCount(threadID int64, userID string) (int64, error) {
	count, err := s.dmRepo.CountUnread(threadID, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return count, nil
}

// AdvanceWatermark moves the watermark forward. Messages remain unread for
// thread views; only the badge resets.
func (s *readStateService) AdvanceWatermark(userID string, now time.Time) error {
	if err := s.watermarkRepo.Upsert(userID, now); err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if err := s.cacheService.InvalidateBadge(context.Background(), userID); err != nil {
		logger.Get().Warn().Err(err).Str("user_id", userID).Msg("Failed to invalidate badge cache")
	}
	return nil
}
