package domain

import "time"

// Application statuses
const (
	ApplicationPending  = "pending"
	ApplicationAccepted = "accepted"
	ApplicationRejected = "rejected"
)

// Application represents a user's request to join an event slot
type Application struct {
	ID          int64      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID     int64      `gorm:"column:event_id;index:idx_event_applicant,unique" json:"event_id"`
	SlotID      int64      `gorm:"column:slot_id" json:"slot_id"`
	ApplicantID string     `gorm:"column:applicant_id;size:64;index:idx_event_applicant,unique" json:"applicant_id"`
	Status      string     `gorm:"column:status;size:16;default:pending" json:"status"`
	CreatedAt   time.Time  `gorm:"column:created_at" json:"created_at"`
	DecidedAt   *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
}

// TableName returns the table name
func (Application) TableName() string {
	return "applications"
}

// ApplyRequest represents an application creation request
type ApplyRequest struct {
	SlotID int64 `json:"slot_id" binding:"required"`
}

// DecideRequest represents an organizer's accept/reject decision
type DecideRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected"`
}
