package database

import (
	"gorm.io/gorm"

	"github.com/aseerhub/aseerhub-backend/models"
)

type Database struct {
	userRepo        *UserRepo
	opportunityRepo *OpportunityRepo
	voteRepo        *VoteRepo
	commentRepo     *CommentRepo
	ndaRepo         *NDARepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:        NewUserRepo(db),
		opportunityRepo: NewOpportunityRepo(db),
		voteRepo:        NewVoteRepo(db),
		commentRepo:     NewCommentRepo(db),
		ndaRepo:         NewNDARepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) OpportunityRepo() *OpportunityRepo {
	return d.opportunityRepo
}

func (d Database) VoteRepo() *VoteRepo {
	return d.voteRepo
}

func (d Database) CommentRepo() *CommentRepo {
	return d.commentRepo
}

func (d Database) NDARepo() *NDARepo {
	return d.ndaRepo
}

// Migrate creates or updates the schema for every entity
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Opportunity{},
		&models.Vote{},
		&models.Comment{},
		&models.NDAAcceptance{},
	)
}
