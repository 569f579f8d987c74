package models

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Opportunity status values
const (
	StatusActive   = "active"
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// ValidStatus reports whether s is one of the recognized status values.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Opportunity represents an investment opportunity posted by a user
type Opportunity struct {
	ID             uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title          string    `json:"title" db:"title" gorm:"type:text;not null"`
	Description    string    `json:"description" db:"description" gorm:"type:text;not null"`
	Location       string    `json:"location" db:"location" gorm:"type:text;not null"`
	Latitude       *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude      *float64  `json:"longitude,omitempty" db:"longitude"`
	Sector         string    `json:"sector" db:"sector" gorm:"type:text;not null;index:idx_opportunity_sector"`
	BudgetRequired float64   `json:"budget_required" db:"budget_required" gorm:"not null"`
	ExpectedROI    *float64  `json:"expected_roi,omitempty" db:"expected_roi"`
	Status         string    `json:"status" db:"status" gorm:"type:text;not null;default:active;index:idx_opportunity_status"`
	OwnerID        uuid.UUID `json:"owner_id" db:"owner_id" gorm:"type:uuid;not null;index:idx_opportunity_owner"`
	CreatedAt      time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`

	// Content-integrity fields. Fingerprint is computed once at creation from
	// {title, description, owner, timestamp} and is never recomputed; later
	// edits intentionally do not refresh it.
	Fingerprint   string    `json:"-" db:"fingerprint" gorm:"type:text;not null"`
	FingerprintAt time.Time `json:"fingerprint_at" db:"fingerprint_at" gorm:"type:timestamp;not null"`
	Protected     bool      `json:"is_protected" db:"is_protected" gorm:"not null;default:true"`

	// Engagement counters, maintained by the vote/comment repositories
	LikesCount          int     `json:"likes_count" db:"likes_count" gorm:"not null;default:0"`
	CommentsCount       int     `json:"comments_count" db:"comments_count" gorm:"not null;default:0"`
	CommunityAcceptance float64 `json:"community_acceptance" db:"community_acceptance" gorm:"not null;default:0"`

	Owner    *User     `json:"-" gorm:"foreignKey:OwnerID;references:ID"`
	Votes    []Vote    `json:"-" gorm:"foreignKey:OpportunityID;references:ID;constraint:OnDelete:CASCADE"`
	Comments []Comment `json:"-" gorm:"foreignKey:OpportunityID;references:ID;constraint:OnDelete:CASCADE"`
}

func (o *Opportunity) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.Status == "" {
		o.Status = StatusActive
	}
	if o.FingerprintAt.IsZero() {
		o.FingerprintAt = time.Now().UTC()
	}
	if o.Fingerprint == "" {
		o.Fingerprint = o.ComputeFingerprint()
	}
	return nil
}

// ComputeFingerprint hashes the creation-time content of the opportunity.
// The map keys are serialized in lexicographic order by encoding/json, so the
// digest is stable across runs.
func (o *Opportunity) ComputeFingerprint() string {
	content := map[string]string{
		"title":       o.Title,
		"description": o.Description,
		"owner_id":    o.OwnerID.String(),
		"timestamp":   o.FingerprintAt.UTC().Format(time.RFC3339Nano),
	}
	serialized, _ := json.Marshal(content)
	digest := sha256.Sum256(serialized)
	return hex.EncodeToString(digest[:])
}

// OpportunityView is the representation exposed over HTTP. The description is
// truncated and the fingerprint withheld unless the caller is entitled to the
// full content (owner, or NDA on file).
type OpportunityView struct {
	ID                  uuid.UUID `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Location            string    `json:"location"`
	Latitude            *float64  `json:"latitude,omitempty"`
	Longitude           *float64  `json:"longitude,omitempty"`
	Sector              string    `json:"sector"`
	BudgetRequired      float64   `json:"budget_required"`
	ExpectedROI         *float64  `json:"expected_roi,omitempty"`
	Status              string    `json:"status"`
	OwnerID             uuid.UUID `json:"owner_id"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
	LikesCount          int       `json:"likes_count"`
	CommentsCount       int       `json:"comments_count"`
	CommunityAcceptance float64   `json:"community_acceptance"`
	FingerprintAt       time.Time `json:"fingerprint_at"`
	Protected           bool      `json:"is_protected"`
	Fingerprint         string    `json:"fingerprint,omitempty"`
}

const descriptionPreviewRunes = 100

// View builds the outward representation. includeSensitive exposes the full
// description and the fingerprint.
func (o *Opportunity) View(includeSensitive bool) OpportunityView {
	v := OpportunityView{
		ID:                  o.ID,
		Title:               o.Title,
		Description:         o.Description,
		Location:            o.Location,
		Latitude:            o.Latitude,
		Longitude:           o.Longitude,
		Sector:              o.Sector,
		BudgetRequired:      o.BudgetRequired,
		ExpectedROI:         o.ExpectedROI,
		Status:              o.Status,
		OwnerID:             o.OwnerID,
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
		LikesCount:          o.LikesCount,
		CommentsCount:       o.CommentsCount,
		CommunityAcceptance: o.CommunityAcceptance,
		FingerprintAt:       o.FingerprintAt,
		Protected:           o.Protected,
	}

	if includeSensitive {
		v.Fingerprint = o.Fingerprint
		return v
	}

	if runes := []rune(o.Description); len(runes) > descriptionPreviewRunes {
		v.Description = string(runes[:descriptionPreviewRunes]) + "..."
	}
	return v
}
