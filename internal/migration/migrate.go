package migration

import (
	"gorm.io/gorm"

	"github.com/jlobacci/goout-backend/internal/domain"
)

// Run creates or updates the schema for all tables
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Member{},
		&domain.Event{},
		&domain.EventSlot{},
		&domain.Application{},
		&domain.Message{},
		&domain.MessageRead{},
		&domain.DMThread{},
		&domain.DMMessage{},
		&domain.DMRead{},
		&domain.NotificationWatermark{},
	)
}
