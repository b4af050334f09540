package domain

import "time"

// Like is a (user, blog) pair; the composite unique index makes double-liking
// a store-level conflict rather than a caller-side race.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_like_user_blog;not null" json:"user_id"`
	BlogID    uint      `gorm:"uniqueIndex:idx_like_user_blog;not null" json:"blog_id"`
	CreatedAt time.Time `json:"created_at"`

	Blog *Blog `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"blog,omitempty"`
}
