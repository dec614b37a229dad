package repository

import (
	"time"

	"github.com/jlobacci/goout-backend/internal/domain"
	"gorm.io/gorm"
)

// UnreadDMRow is the joined shape the notification aggregator reads:
// an unread direct message with sender nickname.
type UnreadDMRow struct {
	ID         int64     `gorm:"column:id"`
	ThreadID   int64     `gorm:"column:thread_id"`
	SenderID   string    `gorm:"column:sender_id"`
	SenderNick string    `gorm:"column:sender_nick"`
	Body       string    `gorm:"column:body"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

// DMRepository direct-message data access interface
type DMRepository interface {
	// FindThreadByPair looks up a thread by canonical pair (userA < userB)
	FindThreadByPair(userA, userB string) (*domain.DMThread, error)
	CreateThread(thread *domain.DMThread) error
	FindThreadByID(id int64) (*domain.DMThread, error)
	ListThreadsForUser(userID string) ([]*domain.DMThread, error)

	CreateMessage(msg *domain.DMMessage) error
	// ListMessages returns thread messages with id > sinceID, ascending by
	// (created_at, id).
	ListMessages(threadID int64, sinceID int64) ([]*domain.DMMessage, error)
	FindMessagesByIDs(ids []int64) ([]*domain.DMMessage, error)
	CountUnread(threadID int64, userID string) (int64, error)
	FindRecentUnread(threadIDs []int64, userID string, perThread int) ([]UnreadDMRow, error)
}

type dmRepository struct {
	db *gorm.DB
}

// NewDMRepository creates a new DMRepository
func NewDMRepository(db *gorm.DB) DMRepository {
	return &dmRepository{db: db}
}

// FindThreadByPair looks up the unique thread for a canonical pair
func (r *dmRepository) FindThreadByPair(userA, userB string) (*domain.DMThread, error) {
	var thread domain.DMThread
	err := r.db.Where("user_a = ? AND user_b = ?", userA, userB).First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// CreateThread inserts a thread row. The composite unique index on
// (user_a, user_b) makes the insert idempotent under races: the loser
// gets a duplicate-key error and re-fetches.
func (r *dmRepository) CreateThread(thread *domain.DMThread) error {
	return r.db.Create(thread).Error
}

// FindThreadByID finds a thread by ID
func (r *dmRepository) FindThreadByID(id int64) (*domain.DMThread, error) {
	var thread domain.DMThread
	err := r.db.Where("id = ?", id).First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

// ListThreadsForUser returns all threads the user belongs to
func (r *dmRepository) ListThreadsForUser(userID string) ([]*domain.DMThread, error) {
	var threads []*domain.DMThread
	err := r.db.Where("user_a = ? OR user_b = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&threads).Error
	return threads, err
}

// CreateMessage appends a direct message
func (r *dmRepository) CreateMessage(msg *domain.DMMessage) error {
	return r.db.Create(msg).Error
}

// ListMessages returns messages ascending by created_at, tie-broken by id
func (r *dmRepository) ListMessages(threadID int64, sinceID int64) ([]*domain.DMMessage, error) {
	var messages []*domain.DMMessage
	q := r.db.Where("thread_id = ?", threadID)
	if sinceID > 0 {
		q = q.Where("id > ?", sinceID)
	}
	err := q.Order("created_at ASC, id ASC").Find(&messages).Error
	return messages, err
}

// FindMessagesByIDs fetches direct messages by id set
func (r *dmRepository) FindMessagesByIDs(ids []int64) ([]*domain.DMMessage, error) {
	var messages []*domain.DMMessage
	if len(ids) == 0 {
		return messages, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&messages).Error
	return messages, err
}

// CountUnread counts messages in the thread not authored by the user and
// lacking a read marker for the user.
func (r *dmRepository) CountUnread(threadID int64, userID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.DMMessage{}).
		Where("thread_id = ? AND sender_id <> ?", threadID, userID).
		Where("NOT EXISTS (SELECT 1 FROM dm_reads dr WHERE dr.message_id = dm_messages.id AND dr.user_id = ?)", userID).
		Count(&count).Error
	return count, err
}

// FindRecentUnread returns unread direct messages across the user's threads
func (r *dmRepository) FindRecentUnread(threadIDs []int64, userID string, perThread int) ([]UnreadDMRow, error) {
	var rows []UnreadDMRow
	if len(threadIDs) == 0 {
		return rows, nil
	}
	err := r.db.Table("dm_messages m").
		Select("m.id, m.thread_id, m.sender_id, COALESCE(mb.nickname, m.sender_id) AS sender_nick, m.body, m.created_at").
		Joins("LEFT JOIN members mb ON mb.id = m.sender_id").
		Where("m.thread_id IN ? AND m.sender_id <> ?", threadIDs, userID).
		Where("NOT EXISTS (SELECT 1 FROM dm_reads dr WHERE dr.message_id = m.id AND dr.user_id = ?)", userID).
		Order("m.created_at DESC, m.id DESC").
		Limit(perThread * len(threadIDs)).
		Scan(&rows).Error
	return rows, err
}
