package domain

import "time"

// Event represents an "Out": an activity invitation with time slots and capacity
type Event struct {
	ID          int64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrganizerID string      `gorm:"column:organizer_id;size:64;index" json:"organizer_id"`
	Title       string      `gorm:"column:title;size:200" json:"title"`
	Hobby       string      `gorm:"column:hobby;size:100;index" json:"hobby"`
	Description string      `gorm:"column:description;type:text" json:"description,omitempty"`
	Capacity    int         `gorm:"column:capacity" json:"capacity"`
	CreatedAt   time.Time   `gorm:"column:created_at" json:"created_at"`
	Slots       []EventSlot `gorm:"foreignKey:EventID" json:"slots,omitempty"`
}

// TableName returns the table name
func (Event) TableName() string {
	return "events"
}

// EventSlot is a concrete date/time-window offering attached to an Event
type EventSlot struct {
	ID       int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	EventID  int64     `gorm:"column:event_id;index" json:"event_id"`
	StartsAt time.Time `gorm:"column:starts_at;index" json:"starts_at"`
	EndsAt   time.Time `gorm:"column:ends_at" json:"ends_at"`
}

// TableName returns the table name
func (EventSlot) TableName() string {
	return "event_slots"
}

// CreateEventRequest represents an event creation request
type CreateEventRequest struct {
	Title       string              `json:"title" binding:"required"`
	Hobby       string              `json:"hobby" binding:"required"`
	Description string              `json:"description"`
	Capacity    int                 `json:"capacity" binding:"required,min=1"`
	Slots       []CreateSlotRequest `json:"slots" binding:"required,min=1,dive"`
}

// CreateSlotRequest represents one slot in an event creation request
type CreateSlotRequest struct {
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required"`
}
