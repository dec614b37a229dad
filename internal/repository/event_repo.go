package repository

import (
	"time"

	"github.com/jlobacci/goout-backend/internal/domain"
	"gorm.io/gorm"
)

// EventRepository event data access interface
type EventRepository interface {
	Create(event *domain.Event) error
	FindByID(id int64) (*domain.Event, error)
	List(hobby string, page, limit int) ([]*domain.Event, int64, error)
	ListUpcoming(after time.Time, limit int) ([]*domain.Event, error)
	Delete(id int64) error
	// ParticipantEventIDs returns ids of events the user participates in,
	// as organizer or accepted applicant.
	ParticipantEventIDs(userID string) ([]int64, error)
	IsParticipant(eventID int64, userID string) (bool, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

// Create creates an event with its slots in one transaction
func (r *eventRepository) Create(event *domain.Event) error {
	return r.db.Create(event).Error
}

// FindByID finds an event by ID, slots included
func (r *eventRepository) FindByID(id int64) (*domain.Event, error) {
	var event domain.Event
	err := r.db.Preload("Slots").Where("id = ?", id).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// List returns events, optionally filtered by hobby, newest first
func (r *eventRepository) List(hobby string, page, limit int) ([]*domain.Event, int64, error) {
	var events []*domain.Event
	var total int64

	q := r.db.Model(&domain.Event{})
	if hobby != "" {
		q = q.Where("hobby = ?", hobby)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := q.Preload("Slots").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&events).Error
	return events, total, err
}

// ListUpcoming returns events having at least one slot after the given time
func (r *eventRepository) ListUpcoming(after time.Time, limit int) ([]*domain.Event, error) {
	var events []*domain.Event
	err := r.db.Preload("Slots").
		Where("id IN (SELECT DISTINCT event_id FROM event_slots WHERE starts_at > ?)", after).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// Delete removes an event and everything hanging off it. Messages and
// their read markers go with the event (cascading deletion per the data
// model: event messages exist only while their event does).
func (r *eventRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			"DELETE FROM message_reads WHERE message_id IN (SELECT id FROM messages WHERE event_id = ?)", id,
		).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&domain.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&domain.EventSlot{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Event{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// ParticipantEventIDs returns event ids where the user is organizer or an
// accepted applicant.
func (r *eventRepository) ParticipantEventIDs(userID string) ([]int64, error) {
	var ids []int64
	err := r.db.Raw(
		`SELECT id FROM events WHERE organizer_id = ?
		 UNION
		 SELECT event_id FROM applications WHERE applicant_id = ? AND status = ?`,
		userID, userID, domain.ApplicationAccepted,
	).Scan(&ids).Error
	return ids, err
}

// IsParticipant checks organizer or accepted-applicant membership
func (r *eventRepository) IsParticipant(eventID int64, userID string) (bool, error) {
	var count int64
	err := r.db.Raw(
		`SELECT COUNT(*) FROM (
		   SELECT id FROM events WHERE id = ? AND organizer_id = ?
		   UNION
		   SELECT event_id FROM applications WHERE event_id = ? AND applicant_id = ? AND status = ?
		 ) p`,
		eventID, userID, eventID, userID, domain.ApplicationAccepted,
	).Scan(&count).Error
	return count > 0, err
}
