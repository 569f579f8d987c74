package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User represents a registered investor or opportunity owner
type User struct {
	ID           uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Username     string    `json:"username" db:"username" gorm:"type:text;not null;uniqueIndex:idx_user_username"`
	Email        string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex:idx_user_email"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null"`

	// Optional stored preferences, used as a fallback when the recommendation
	// request carries no explicit sector filter
	PreferredSectors datatypes.JSONSlice[string] `json:"preferred_sectors,omitempty" db:"preferred_sectors"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
