package repository

import (
	"time"

	"github.com/jlobacci/goout-backend/internal/domain"
	"gorm.io/gorm"
)

// UpcomingSlotRow is the joined shape the notification aggregator reads:
// an accepted application's slot with its event title. Decoded at the
// store boundary with an exhaustive field list.
type UpcomingSlotRow struct {
	SlotID     int64     `gorm:"column:slot_id"`
	EventID    int64     `gorm:"column:event_id"`
	EventTitle string    `gorm:"column:event_title"`
	StartsAt   time.Time `gorm:"column:starts_at"`
}

// ApplicationRepository application data access interface
type ApplicationRepository interface {
	Create(app *domain.Application) error
	FindByID(id int64) (*domain.Application, error)
	ListByEvent(eventID int64) ([]*domain.Application, error)
	ListByApplicant(applicantID string) ([]*domain.Application, error)
	UpdateStatus(id int64, status string, decidedAt time.Time) error
	CountAccepted(eventID int64) (int64, error)
	// AcceptedSlotsAfter returns slots of the user's accepted applications
	// starting after the given time, soonest first.
	AcceptedSlotsAfter(userID string, after time.Time) ([]UpcomingSlotRow, error)
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new application
func (r *applicationRepository) Create(app *domain.Application) error {
	return r.db.Create(app).Error
}

// FindByID finds an application by ID
func (r *applicationRepository) FindByID(id int64) (*domain.Application, error) {
	var app domain.Application
	err := r.db.Where("id = ?", id).First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// ListByEvent returns all applications for an event
func (r *applicationRepository) ListByEvent(eventID int64) ([]*domain.Application, error) {
	var apps []*domain.Application
	err := r.db.Where("event_id = ?", eventID).
		Order("created_at ASC, id ASC").
		Find(&apps).Error
	return apps, err
}

// ListByApplicant returns all applications by a user
func (r *applicationRepository) ListByApplicant(applicantID string) ([]*domain.Application, error) {
	var apps []*domain.Application
	err := r.db.Where("applicant_id = ?", applicantID).
		Order("created_at DESC, id DESC").
		Find(&apps).Error
	return apps, err
}

// UpdateStatus records the organizer's decision
func (r *applicationRepository) UpdateStatus(id int64, status string, decidedAt time.Time) error {
	result := r.db.Model(&domain.Application{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_at": decidedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountAccepted counts accepted applications for an event
func (r *applicationRepository) CountAccepted(eventID int64) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Application{}).
		Where("event_id = ? AND status = ?", eventID, domain.ApplicationAccepted).
		Count(&count).Error
	return count, err
}

// AcceptedSlotsAfter returns upcoming slots the user was accepted for
func (r *applicationRepository) AcceptedSlotsAfter(userID string, after time.Time) ([]UpcomingSlotRow, error) {
	var rows []UpcomingSlotRow
	err := r.db.Table("applications a").
		Select("s.id AS slot_id, s.event_id AS event_id, e.title AS event_title, s.starts_at AS starts_at").
		Joins("JOIN event_slots s ON s.id = a.slot_id").
		Joins("JOIN events e ON e.id = a.event_id").
		Where("a.applicant_id = ? AND a.status = ? AND s.starts_at > ?",
			userID, domain.ApplicationAccepted, after).
		Order("s.starts_at ASC").
		Scan(&rows).Error
	return rows, err
}
