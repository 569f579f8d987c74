package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is append-only free text attributed to a (user, opportunity) pair
type Comment struct {
	ID            uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID        uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null"`
	OpportunityID uuid.UUID `json:"opportunity_id" db:"opportunity_id" gorm:"type:uuid;not null;index:idx_comment_opportunity"`
	Content       string    `json:"content" db:"content" gorm:"type:text;not null"`
	CreatedAt     time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`

	User *User `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CommentView carries the commenter's username alongside the comment
type CommentView struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	OpportunityID uuid.UUID `json:"opportunity_id"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"created_at"`
	Username      string    `json:"username"`
}

func (c *Comment) View() CommentView {
	username := "Unknown"
	if c.User != nil {
		username = c.User.Username
	}
	return CommentView{
		ID:            c.ID,
		UserID:        c.UserID,
		OpportunityID: c.OpportunityID,
		Content:       c.Content,
		CreatedAt:     c.CreatedAt,
		Username:      username,
	}
}
