package api

import (
	"github.com/aseerhub/aseerhub-backend/database"
	"github.com/aseerhub/aseerhub-backend/recommend"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, sessions sessionManager) *routeHandlers {
	return &routeHandlers{
		authHandler: newAuthHandler(database.UserRepo(), sessions),
		opportunityHandler: newOpportunityHandler(
			database.OpportunityRepo(),
			database.VoteRepo(),
			database.CommentRepo(),
			database.NDARepo(),
			sessions,
		),
		aiHandler: newAIHandler(
			database.OpportunityRepo(),
			database.VoteRepo(),
			database.UserRepo(),
			database.NDARepo(),
			recommend.UniformNoise(recommend.NoiseCeiling()),
		),
	}
}
