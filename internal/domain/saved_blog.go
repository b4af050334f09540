package domain

import "time"

type SavedBlog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_saved_user_blog;not null" json:"user_id"`
	BlogID    uint      `gorm:"uniqueIndex:idx_saved_user_blog;not null" json:"blog_id"`
	CreatedAt time.Time `json:"created_at"`

	Blog *Blog `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"blog,omitempty"`
}
