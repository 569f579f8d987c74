package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote polarity values
const (
	VoteLike    = "like"
	VoteDislike = "dislike"
)

// Vote records a single user's like/dislike of an opportunity. The composite
// unique index enforces at most one vote per (user, opportunity) pair; a
// second insert fails with a uniqueness violation rather than overwriting.
type Vote struct {
	ID            uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID        uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_vote_user_opportunity"`
	OpportunityID uuid.UUID `json:"opportunity_id" db:"opportunity_id" gorm:"type:uuid;not null;uniqueIndex:idx_vote_user_opportunity;index:idx_vote_opportunity"`
	VoteType      string    `json:"vote_type" db:"vote_type" gorm:"type:text;not null"`
	CreatedAt     time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`

	User *User `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
