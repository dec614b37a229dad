package repository

import (
	"time"

	"github.com/jlobacci/goout-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReadMarkerRepository read-marker data access interface.
// All writes are insert-if-absent: re-marking an already-read message is a
// no-op, which makes retries after partial failure safe.
type ReadMarkerRepository interface {
	MarkEventMessagesRead(userID string, messageIDs []int64, readAt time.Time) error
	MarkDMMessagesRead(userID string, messageIDs []int64, readAt time.Time) error
}

type readMarkerRepository struct {
	db *gorm.DB
}

// NewReadMarkerRepository creates a new ReadMarkerRepository
func NewReadMarkerRepository(db *gorm.DB) ReadMarkerRepository {
	return &readMarkerRepository{db: db}
}

// MarkEventMessagesRead inserts read markers for event messages
func (r *readMarkerRepository) MarkEventMessagesRead(userID string, messageIDs []int64, readAt time.Time) error {
	if len(messageIDs) == 0 {
		return nil
	}
	markers := make([]domain.MessageRead, 0, len(messageIDs))
	for _, id := range messageIDs {
		markers = append(markers, domain.MessageRead{
			MessageID: id,
			UserID:    userID,
			ReadAt:    readAt,
		})
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&markers).Error
}

// MarkDMMessagesRead inserts read markers for direct messages
func (r *readMarkerRepository) MarkDMMessagesRead(userID string, messageIDs []int64, readAt time.Time) error {
	if len(messageIDs) == 0 {
		return nil
	}
	markers := make([]domain.DMRead, 0, len(messageIDs))
	for _, id := range messageIDs {
		markers = append(markers, domain.DMRead{
			MessageID: id,
			UserID:    userID,
			ReadAt:    readAt,
		})
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&markers).Error
}
