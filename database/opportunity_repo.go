package database

import (
	"errors"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aseerhub/aseerhub-backend/models"
)

// ActiveFilter narrows the active-opportunity query used for recommendations.
// Nil/empty fields mean "no filter".
type ActiveFilter struct {
	MaxBudget  *float64
	Sectors    []string
	Locations  []string
	ExcludeIDs []uuid.UUID
}

// ListFilter narrows the public listing query
type ListFilter struct {
	Status   string
	Sector   string
	Location string
}

type OpportunityRepo struct {
	db *gorm.DB
}

func NewOpportunityRepo(db *gorm.DB) *OpportunityRepo {
	return &OpportunityRepo{db}
}

// FindAll returns opportunities matching the listing filter, newest first
func (r *OpportunityRepo) FindAll(filter ListFilter) ([]*models.Opportunity, error) {
	query := r.db.Order("created_at DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Sector != "" {
		query = query.Where("sector = ?", filter.Sector)
	}
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}

	var opportunities []*models.Opportunity
	err := query.Find(&opportunities).Error
	return opportunities, err
}

// FindActive returns active opportunities matching the recommendation filter
func (r *OpportunityRepo) FindActive(filter ActiveFilter) ([]*models.Opportunity, error) {
	query := r.db.Where("status = ?", models.StatusActive)

	if len(filter.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", filter.ExcludeIDs)
	}
	if filter.MaxBudget != nil {
		query = query.Where("budget_required <= ?", *filter.MaxBudget)
	}
	if len(filter.Sectors) > 0 {
		query = query.Where("sector IN ?", filter.Sectors)
	}
	if len(filter.Locations) > 0 {
		query = query.Where("location IN ?", filter.Locations)
	}

	var opportunities []*models.Opportunity
	err := query.Find(&opportunities).Error
	return opportunities, err
}

// FindByID returns an opportunity by its ID, or nil when no such row exists
func (r *OpportunityRepo) FindByID(id uuid.UUID) (*models.Opportunity, error) {
	var opportunity models.Opportunity
	err := r.db.First(&opportunity, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &opportunity, nil
}

// FindByIDs returns the opportunities for the given IDs
func (r *OpportunityRepo) FindByIDs(ids []uuid.UUID) ([]*models.Opportunity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var opportunities []*models.Opportunity
	err := r.db.Where("id IN ?", ids).Find(&opportunities).Error
	return opportunities, err
}

// FindSimilar returns up to limit active opportunities in the same sector,
// excluding the given one
func (r *OpportunityRepo) FindSimilar(sector string, excludeID uuid.UUID, limit int) ([]*models.Opportunity, error) {
	var opportunities []*models.Opportunity
	err := r.db.
		Where("sector = ? AND id <> ? AND status = ?", sector, excludeID, models.StatusActive).
		Limit(limit).
		Find(&opportunities).Error
	return opportunities, err
}

// Add inserts a new opportunity into the database
func (r *OpportunityRepo) Add(opportunity *models.Opportunity) error {
	return r.db.Create(opportunity).Error
}

// Update persists changes to an existing opportunity. The fingerprint fields
// are restored from the stored row first: the fingerprint is a creation-time
// proof and must never change, whatever the caller passed in.
func (r *OpportunityRepo) Update(opportunity *models.Opportunity) error {
	var existing models.Opportunity
	if err := r.db.First(&existing, "id = ?", opportunity.ID).Error; err != nil {
		return err
	}
	opportunity.Fingerprint = existing.Fingerprint
	opportunity.FingerprintAt = existing.FingerprintAt
	opportunity.CreatedAt = existing.CreatedAt
	return r.db.Save(opportunity).Error
}

// Delete removes an opportunity together with its votes, comments and NDA
// acceptances in a single transaction. The cascade is an explicit repository
// invariant rather than a schema side effect.
func (r *OpportunityRepo) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("opportunity_id = ?", id).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("opportunity_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("opportunity_id = ?", id).Delete(&models.NDAAcceptance{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Opportunity{}, "id = ?", id).Error
	})
}

// refreshEngagement recomputes the counters and the community acceptance of
// an opportunity from its vote and comment sets. Must run inside tx.
func refreshEngagement(tx *gorm.DB, opportunityID uuid.UUID) error {
	var totalVotes, likes, comments int64

	if err := tx.Model(&models.Vote{}).
		Where("opportunity_id = ?", opportunityID).
		Count(&totalVotes).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Vote{}).
		Where("opportunity_id = ? AND vote_type = ?", opportunityID, models.VoteLike).
		Count(&likes).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Comment{}).
		Where("opportunity_id = ?", opportunityID).
		Count(&comments).Error; err != nil {
		return err
	}

	acceptance := 0.0
	if totalVotes > 0 {
		acceptance = math.Round(float64(likes)/float64(totalVotes)*100*100) / 100
	}

	return tx.Model(&models.Opportunity{}).
		Where("id = ?", opportunityID).
		Updates(map[string]any{
			"likes_count":          likes,
			"comments_count":       comments,
			"community_acceptance": acceptance,
		}).Error
}
