package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NDAAcceptance records a user acknowledging confidentiality terms for a
// protected opportunity. One acceptance per (user, opportunity); accepting
// again is idempotent at the repository level. The requester IP is kept for
// the audit trail.
type NDAAcceptance struct {
	ID            uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID        uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_nda_user_opportunity"`
	OpportunityID uuid.UUID `json:"opportunity_id" db:"opportunity_id" gorm:"type:uuid;not null;uniqueIndex:idx_nda_user_opportunity"`
	AcceptedAt    time.Time `json:"accepted_at" db:"accepted_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	IPAddress     *string   `json:"ip_address,omitempty" db:"ip_address" gorm:"type:text"`
}

func (n *NDAAcceptance) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
