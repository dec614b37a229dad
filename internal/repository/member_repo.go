package repository

import (
	"github.com/jlobacci/goout-backend/internal/domain"
	"gorm.io/gorm"
)

// MemberRepository member data access interface
type MemberRepository interface {
	FindByID(id string) (*domain.Member, error)
	ExistsByID(id string) (bool, error)
	Create(member *domain.Member) error
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// FindByID finds a member by ID
func (r *memberRepository) FindByID(id string) (*domain.Member, error) {
	var member domain.Member
	err := r.db.Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ExistsByID checks whether a member exists
func (r *memberRepository) ExistsByID(id string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Member{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// Create creates a new member
func (r *memberRepository) Create(member *domain.Member) error {
	return r.db.Create(member).Error
}
