package models

import "time"

// Like represents a user's like on a post. The combination of UserID and
// PostID must be unique; existence of the row is the "liked" state, so
// toggling off hard-deletes it.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_like_user_post" json:"post_id"`
	Type      string    `gorm:"type:varchar(10);default:'like'" json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
