package database

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aseerhub/aseerhub-backend/models"
)

type NDARepo struct {
	db *gorm.DB
}

func NewNDARepo(db *gorm.DB) *NDARepo {
	return &NDARepo{db}
}

// Accept records an NDA acceptance. Accepting twice is idempotent: the
// existing record is returned unchanged.
func (r *NDARepo) Accept(userID, opportunityID uuid.UUID, ipAddress *string) (*models.NDAAcceptance, error) {
	existing, err := r.Find(userID, opportunityID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	acceptance := &models.NDAAcceptance{
		UserID:        userID,
		OpportunityID: opportunityID,
		AcceptedAt:    time.Now().UTC(),
		IPAddress:     ipAddress,
	}
	if err := r.db.Create(acceptance).Error; err != nil {
		return nil, err
	}
	return acceptance, nil
}

// Find returns the acceptance for a (user, opportunity) pair, or nil
func (r *NDARepo) Find(userID, opportunityID uuid.UUID) (*models.NDAAcceptance, error) {
	var acceptance models.NDAAcceptance
	err := r.db.First(&acceptance, "user_id = ? AND opportunity_id = ?", userID, opportunityID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &acceptance, nil
}

// HasAccepted reports whether the user has an NDA on file for the opportunity
func (r *NDARepo) HasAccepted(userID, opportunityID uuid.UUID) (bool, error) {
	acceptance, err := r.Find(userID, opportunityID)
	if err != nil {
		return false, err
	}
	return acceptance != nil, nil
}
