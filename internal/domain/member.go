package domain

import "time"

// Member represents a registered user
type Member struct {
	ID        string    `gorm:"column:id;primaryKey;size:64" json:"id"`
	Nickname  string    `gorm:"column:nickname;size:100" json:"nickname"`
	Hobby     string    `gorm:"column:hobby;size:100" json:"hobby,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name
func (Member) TableName() string {
	return "members"
}
