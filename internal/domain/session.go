package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is one authenticated client/device. Rows are never deleted by the
// normal auth flows; invalidation flips IsValid to false and leaves the row
// behind as an audit record.
type Session struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"`
	RefreshToken string    `gorm:"size:512;uniqueIndex;not null" json:"-"`
	UserAgent    string    `gorm:"size:512" json:"user_agent"`
	IPAddress    string    `gorm:"size:64" json:"ip_address"`
	IsValid      bool      `gorm:"index;not null;default:true" json:"is_valid"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Session) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
