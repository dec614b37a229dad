package repository

import (
	"time"

	"github.com/jlobacci/goout-backend/internal/domain"
	"gorm.io/gorm"
)

// UnreadMessageRow is the joined shape the notification aggregator reads:
// an unread event message with sender nickname and event title.
type UnreadMessageRow struct {
	ID         int64     `gorm:"column:id"`
	EventID    int64     `gorm:"column:event_id"`
	SenderID   string    `gorm:"column:sender_id"`
	SenderNick string    `gorm:"column:sender_nick"`
	EventTitle string    `gorm:"column:event_title"`
	Body       string    `gorm:"column:body"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

// MessageRepository event-scoped message data access interface.
// Messages are append-only: no update or single-message delete exists.
type MessageRepository interface {
	Create(msg *domain.Message) error
	// List returns messages for an event with id > sinceID, ascending by
	// (created_at, id). Repeated calls with the same sinceID return a
	// consistent suffix of the same total order.
	List(eventID int64, sinceID int64) ([]*domain.Message, error)
	FindByIDs(ids []int64) ([]*domain.Message, error)
	CountUnread(eventID int64, userID string) (int64, error)
	// FindRecentUnread returns unread messages across the given events for
	// the user (sender excluded), most recent first, capped per event.
	FindRecentUnread(eventIDs []int64, userID string, perEvent int) ([]UnreadMessageRow, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create appends a message
func (r *messageRepository) Create(msg *domain.Message) error {
	return r.db.Create(msg).Error
}

// List returns messages ascending by created_at, tie-broken by id.
// The insertion id tie-break keeps the order stable under coarse clock
// resolution, so pagination never reorders.
func (r *messageRepository) List(eventID int64, sinceID int64) ([]*domain.Message, error) {
	var messages []*domain.Message
	q := r.db.Where("event_id = ?", eventID)
	if sinceID > 0 {
		q = q.Where("id > ?", sinceID)
	}
	err := q.Order("created_at ASC, id ASC").Find(&messages).Error
	return messages, err
}

// FindByIDs fetches messages by id set
func (r *messageRepository) FindByIDs(ids []int64) ([]*domain.Message, error) {
	var messages []*domain.Message
	if len(ids) == 0 {
		return messages, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&messages).Error
	return messages, err
}

// CountUnread counts messages in the event not authored by the user and
// lacking a read marker for the user.
func (r *messageRepository) CountUnread(eventID int64, userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.Message{}).
		Where("event_id = ? AND sender_id <> ?", eventID, userID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads mr WHERE mr.message_id = messages.id AND mr.user_id = ?)", userID).
		Count(&count).Error
	return count, err
}

// FindRecentUnread returns unread messages across the user's events.
// Scoped to the participant's threads rather than a system-wide recency
// window, so unread messages in old threads are never missed.
func (r *messageRepository) FindRecentUnread(eventIDs []int64, userID string, perEvent int) ([]UnreadMessageRow, error) {
	var rows []UnreadMessageRow
	if len(eventIDs) == 0 {
		return rows, nil
	}
	err := r.db.Table("messages m").
		Select("m.id, m.event_id, m.sender_id, COALESCE(mb.nickname, m.sender_id) AS sender_nick, e.title AS event_title, m.body, m.created_at").
		Joins("JOIN events e ON e.id = m.event_id").
		Joins("LEFT JOIN members mb ON mb.id = m.sender_id").
		Where("m.event_id IN ? AND m.sender_id <> ?", eventIDs, userID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads mr WHERE mr.message_id = m.id AND mr.user_id = ?)", userID).
		Order("m.created_at DESC, m.id DESC").
		Limit(perEvent * len(eventIDs)).
		Scan(&rows).Error
	return rows, err
}
