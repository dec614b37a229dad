package domain

import "time"

// Message kinds, as sent by clients in mark-read requests
const (
	MessageKindEvent = "event"
	MessageKindDM    = "dm"
)

// Message is an event-scoped chat message. Immutable once created;
// removed only by cascading deletion of its parent event.
type Message struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID   int64     `gorm:"column:event_id;index" json:"event_id"`
	SenderID  string    `gorm:"column:sender_id;size:64;index" json:"sender_id"`
	Body      string    `gorm:"column:body;type:text" json:"body"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
}

// TableName returns the table name
func (Message) TableName() string {
	return "messages"
}

// MessageRead marks an event-scoped message as read by a user.
// Append-only, insert-if-absent, unique per (message, user).
type MessageRead struct {
	MessageID int64     `gorm:"column:message_id;primaryKey" json:"message_id"`
	UserID    string    `gorm:"column:user_id;primaryKey;size:64" json:"user_id"`
	ReadAt    time.Time `gorm:"column:read_at" json:"read_at"`
}

// TableName returns the table name
func (MessageRead) TableName() string {
	return "message_reads"
}

// SendMessageRequest represents a message send request
type SendMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// MarkReadRequest marks a set of messages as read for the current user
type MarkReadRequest struct {
	Kind       string  `json:"kind" binding:"required,oneof=event dm"`
	MessageIDs []int64 `json:"message_ids" binding:"required,min=1"`
}
