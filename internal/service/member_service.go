package service

import (
	"fmt"
	"time"

	"github.com/jlobacci/goout-backend/internal/common"
	"github.com/jlobacci/goout-backend/internal/domain"
	"github.com/jlobacci/goout-backend/internal/repository"
)

// MemberService business logic for members
type MemberService interface {
	GetByID(id string) (*domain.Member, error)
	// EnsureExists creates the member on first sight. Idempotent.
	EnsureExists(id, nickname, hobby string) (*domain.Member, error)
}

type memberService struct {
	memberRepo repository.MemberRepository
}

// NewMemberService creates a new MemberService
func NewMemberService(memberRepo repository.MemberRepository) MemberService {
	return &memberService{memberRepo: memberRepo}
}

// GetByID finds a member by ID
func (s *memberService) GetByID(id string) (*domain.Member, error) {
	member, err := s.memberRepo.FindByID(id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return member, nil
}

// EnsureExists fetches the member, creating it when absent
func (s *memberService) EnsureExists(id, nickname, hobby string) (*domain.Member, error) {
	member, err := s.memberRepo.FindByID(id)
	if err == nil {
		return member, nil
	}
	if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}

	member = &domain.Member{
		ID:        id,
		Nickname:  nickname,
		Hobby:     hobby,
		CreatedAt: time.Now(),
	}
	if err := s.memberRepo.Create(member); err != nil {
		if repository.IsDuplicateKey(err) {
			return s.memberRepo.FindByID(id)
		}
		return nil, fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	return member, nil
}
