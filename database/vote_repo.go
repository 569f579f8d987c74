package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aseerhub/aseerhub-backend/models"
)

type VoteRepo struct {
	db *gorm.DB
}

func NewVoteRepo(db *gorm.DB) *VoteRepo {
	return &VoteRepo{db}
}

// Add inserts a vote and refreshes the opportunity's engagement counters in
// the same transaction. A second vote by the same user on the same
// opportunity fails the insert with a uniqueness violation; nothing is
// overwritten.
func (r *VoteRepo) Add(vote *models.Vote) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vote).Error; err != nil {
			return err
		}
		return refreshEngagement(tx, vote.OpportunityID)
	})
}

// FindByUser returns a user's votes of the given polarity
func (r *VoteRepo) FindByUser(userID uuid.UUID, voteType string) ([]*models.Vote, error) {
	var votes []*models.Vote
	err := r.db.Where("user_id = ? AND vote_type = ?", userID, voteType).Find(&votes).Error
	return votes, err
}

// FindAllByUser returns every vote a user has cast, regardless of polarity
func (r *VoteRepo) FindAllByUser(userID uuid.UUID) ([]*models.Vote, error) {
	var votes []*models.Vote
	err := r.db.Where("user_id = ?", userID).Find(&votes).Error
	return votes, err
}

// CountByOpportunity returns the number of votes on an opportunity
func (r *VoteRepo) CountByOpportunity(opportunityID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Vote{}).
		Where("opportunity_id = ?", opportunityID).
		Count(&count).Error
	return count, err
}
