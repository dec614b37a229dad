package domain

import (
	"fmt"
	"time"
)

// Notification item kinds
const (
	NotificationKindMessage       = "message"
	NotificationKindUpcomingEvent = "upcoming_event"
)

// NotificationItem is a derived (not persisted) feed entry, synthesized
// from unread messages and from accepted-application slots.
type NotificationItem struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	Link      string    `json:"link"`
}

// MessageItemID builds the feed item id for an event-scoped message
func MessageItemID(messageID int64) string {
	return fmt.Sprintf("msg:%d", messageID)
}

// DMItemID builds the feed item id for a direct message
func DMItemID(messageID int64) string {
	return fmt.Sprintf("dm:%d", messageID)
}

// SlotItemID builds the feed item id for an upcoming slot
func SlotItemID(slotID int64) string {
	return fmt.Sprintf("slot:%d", slotID)
}

// NotificationWatermark records when the user last dismissed the
// notification panel. One row per user, overwritten on each dismissal.
// Silences the badge only; per-message read markers are separate.
type NotificationWatermark struct {
	UserID     string    `gorm:"column:user_id;primaryKey;size:64" json:"user_id"`
	LastSeenAt time.Time `gorm:"column:last_seen_at" json:"last_seen_at"`
}

// TableName returns the table name
func (NotificationWatermark) TableName() string {
	return "notification_watermarks"
}

// NotificationFeedResponse is the aggregated feed plus the badge count.
// BadgeCount is derived from the pre-truncation item set, not the
// (possibly capped) Items list.
type NotificationFeedResponse struct {
	Items      []NotificationItem `json:"items"`
	BadgeCount int                `json:"badge_count"`
}
