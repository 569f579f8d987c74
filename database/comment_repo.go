package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aseerhub/aseerhub-backend/models"
)

type CommentRepo struct {
	db *gorm.DB
}

func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db}
}

// Add appends a comment and bumps the opportunity's comment counter in the
// same transaction
func (r *CommentRepo) Add(comment *models.Comment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return refreshEngagement(tx, comment.OpportunityID)
	})
}

// FindByOpportunity returns an opportunity's comments, oldest first, with the
// commenting user preloaded for the username
func (r *CommentRepo) FindByOpportunity(opportunityID uuid.UUID) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.Preload("User").
		Where("opportunity_id = ?", opportunityID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}
