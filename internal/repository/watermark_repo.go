package repository

import (
	"time"

	"github.com/jlobacci/goout-backend/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WatermarkRepository notification watermark data access interface
type WatermarkRepository interface {
	Get(userID string) (*domain.NotificationWatermark, error)
	Upsert(userID string, lastSeenAt time.Time) error
}

type watermarkRepository struct {
	db *gorm.DB
}

// NewWatermarkRepository creates a new WatermarkRepository
func NewWatermarkRepository(db *gorm.DB) WatermarkRepository {
	return &watermarkRepository{db: db}
}

// Get returns the user's watermark, or nil if never dismissed
func (r *watermarkRepository) Get(userID string) (*domain.NotificationWatermark, error) {
	var wm domain.NotificationWatermark
	err := r.db.Where("user_id = ?", userID).First(&wm).Error
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &wm, nil
}

// Upsert writes the single watermark row, overwriting any previous value
func (r *watermarkRepository) Upsert(userID string, lastSeenAt time.Time) error {
	wm := domain.NotificationWatermark{
		UserID:     userID,
		LastSeenAt: lastSeenAt,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_seen_at"}),
	}).Create(&wm).Error
}
