package domain

import "time"

// DMThread is a direct-message conversation between two users.
// Invariant: UserA < UserB (lexicographic), so exactly one row exists per
// unordered pair. Created lazily on first contact attempt.
type DMThread struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserA     string    `gorm:"column:user_a;size:64;uniqueIndex:idx_dm_pair" json:"user_a"`
	UserB     string    `gorm:"column:user_b;size:64;uniqueIndex:idx_dm_pair" json:"user_b"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name
func (DMThread) TableName() string {
	return "dm_threads"
}

// Includes checks whether a user belongs to the thread
func (t *DMThread) Includes(userID string) bool {
	return t.UserA == userID || t.UserB == userID
}

// Other returns the counterpart of userID in the thread
func (t *DMThread) Other(userID string) string {
	if t.UserA == userID {
		return t.UserB
	}
	return t.UserA
}

// DMMessage is a direct message. Immutable once created.
type DMMessage struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ThreadID  int64     `gorm:"column:thread_id;index" json:"thread_id"`
	SenderID  string    `gorm:"column:sender_id;size:64;index" json:"sender_id"`
	Body      string    `gorm:"column:body;type:text" json:"body"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
}

// TableName returns the table name
func (DMMessage) TableName() string {
	return "dm_messages"
}

// DMRead marks a direct message as read by a user
type DMRead struct {
	MessageID int64     `gorm:"column:message_id;primaryKey" json:"message_id"`
	UserID    string    `gorm:"column:user_id;primaryKey;size:64" json:"user_id"`
	ReadAt    time.Time `gorm:"column:read_at" json:"read_at"`
}

// TableName returns the table name
func (DMRead) TableName() string {
	return "dm_reads"
}

// ResolveThreadRequest starts or resumes a conversation with another user
type ResolveThreadRequest struct {
	OtherUserID string `json:"other_user_id" binding:"required"`
}

// DMThreadRow pairs a thread with counterpart info and unread count
type DMThreadRow struct {
	Thread      *DMThread `json:"-"`
	OtherUserID string    `json:"other_user_id"`
	UnreadCount int64     `json:"unread_count"`
}

// ToResponse converts a DMThreadRow to its API shape
func (r *DMThreadRow) ToResponse() *DMThreadResponse {
	return &DMThreadResponse{
		ID:          r.Thread.ID,
		OtherUserID: r.OtherUserID,
		UnreadCount: r.UnreadCount,
		CreatedAt:   r.Thread.CreatedAt.Format(time.RFC3339),
	}
}

// DMThreadResponse is a thread with counterpart info and unread count
type DMThreadResponse struct {
	ID          int64  `json:"id"`
	OtherUserID string `json:"other_user_id"`
	UnreadCount int64  `json:"unread_count"`
	CreatedAt   string `json:"created_at"`
}
