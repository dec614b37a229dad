package service

import (
	"fmt"
	"time"

	"github.com/jlobacci/goout-backend/internal/common"
	"github.com/jlobacci/goout-backend/internal/domain"
	"github.com/jlobacci/goout-backend/internal/repository"
)

// ThreadService resolves DM thread identity: given two participants it
// returns the one canonical thread for the pair, creating it lazily.
// Event threads need no resolution step (identity is the event id).
type ThreadService interface {
	Resolve(currentUserID, otherUserID string) (*domain.DMThread, error)
	ListThreads(userID string) ([]*domain.DMThreadRow, error)
	GetThread(threadID int64, userID string) (*domain.DMThread, error)
}

type threadService struct {
	dmRepo     repository.DMRepository
	memberRepo repository.MemberRepository
}

// NewThreadService creates a new ThreadService
func NewThreadService(dmRepo repository.DMRepository, memberRepo repository.MemberRepository) ThreadService {
	return &threadService{dmRepo: dmRepo, memberRepo: memberRepo}
}

// canonicalPair orders two user ids so that a < b. The fixed order
// guarantees at most one thread row per unordered pair.
func canonicalPair(u1, u2 string) (string, string) {
	if u1 < u2 {
		return u1, u2
	}
	return u2, u1
}

// Resolve returns the canonical thread for (currentUserID, otherUserID),
// creating it if absent. Resolve(a, b) and Resolve(b, a) return the same
// thread. Safe against a creation race: the unique constraint on the pair
// makes the insert idempotent, and the loser re-fetches once.
func (s *threadService) Resolve(currentUserID, otherUserID string) (*domain.DMThread, error) {
	if currentUserID == "" || otherUserID == "" {
		return nil, common.ErrInvalidInput
	}
	if currentUserID == otherUserID {
		return nil, common.ErrSelfMessage
	}

	exists, err := s.memberRepo.ExistsByID(otherUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if !exists {
		return nil, common.ErrNotFound
	}

	userA, userB := canonicalPair(currentUserID, otherUserID)

	thread, err := s.dmRepo.FindThreadByPair(userA, userB)
	if err == nil {
		return thread, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	created := &domain.DMThread{
		UserA:     userA,
		UserB:     userB,
		CreatedAt: time.Now(),
	}
	err = s.dmRepo.CreateThread(created)
	if err == nil {
		return created, nil
	}

	if repository.IsDuplicateKey(err) {
		// Lost the creation race: the row exists now, fetch it once.
		thread, err = s.dmRepo.FindThreadByPair(userA, userB)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrThreadConflict, err)
		}
		return thread, nil
	}

	return nil, fmt.Errorf("%w: %v", common.ErrThreadConflict, err)
}

// ListThreads returns the user's DM threads with counterpart and unread count
func (s *threadService) ListThreads(userID string) ([]*domain.DMThreadRow, error) {
	threads, err := s.dmRepo.ListThreadsForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	rows := make([]*domain.DMThreadRow, 0, len(threads))
	for _, t := range threads {
		unread, err := s.dmRepo.CountUnread(t.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
		}
		rows = append(rows, &domain.DMThreadRow{
			Thread:      t,
			OtherUserID: t.Other(userID),
			UnreadCount: unread,
		})
	}
	return rows, nil
}

// GetThread returns a thread after a membership check
func (s *threadService) GetThread(threadID int64, userID string) (*domain.DMThread, error) {
	thread, err := s.dmRepo.FindThreadByID(threadID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if !thread.Includes(userID) {
		return nil, common.ErrForbidden
	}
	return thread, nil
}
