package api

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/aseerhub/aseerhub-backend/database"
	"github.com/aseerhub/aseerhub-backend/errs"
	"github.com/aseerhub/aseerhub-backend/models"
	"github.com/aseerhub/aseerhub-backend/recommend"
)

const similarOpportunityLimit = 3

type aiHandler struct {
	responder       Responder
	logger          zerolog.Logger
	opportunityRepo *database.OpportunityRepo
	voteRepo        *database.VoteRepo
	userRepo        *database.UserRepo
	ndaRepo         *database.NDARepo
	noise           func() float64
	majorCities     []string
}

func newAIHandler(
	opportunityRepo *database.OpportunityRepo,
	voteRepo *database.VoteRepo,
	userRepo *database.UserRepo,
	ndaRepo *database.NDARepo,
	noise func() float64,
) aiHandler {
	logger := log.With().Str("handlerName", "aiHandler").Logger()

	return aiHandler{
		responder:       NewResponder(logger),
		logger:          logger,
		opportunityRepo: opportunityRepo,
		voteRepo:        voteRepo,
		userRepo:        userRepo,
		ndaRepo:         ndaRepo,
		noise:           noise,
		majorCities:     recommend.DefaultMajorCities,
	}
}

// ScoredOpportunity pairs a redacted opportunity with its recommendation score
type ScoredOpportunity struct {
	Opportunity models.OpportunityView `json:"opportunity"`
	Score       float64                `json:"score"`
	Reasons     []string               `json:"reasons"`
}

// RecommendationsResponse is the payload of GET /ai/recommendations
type RecommendationsResponse struct {
	Recommendations []ScoredOpportunity `json:"recommendations"`
	TotalAnalyzed   int                 `json:"total_analyzed"`
	UserPreferences UserPreferences     `json:"user_preferences"`
}

// UserPreferences echoes the filters the recommendations were computed under
type UserPreferences struct {
	MaxBudget          *float64 `json:"max_budget"`
	PreferredSectors   []string `json:"preferred_sectors"`
	PreferredLocations []string `json:"preferred_locations"`
	VotingHistoryCount int      `json:"voting_history_count"`
}

// TrendingOpportunity pairs a redacted opportunity with its trending score
type TrendingOpportunity struct {
	Opportunity   models.OpportunityView `json:"opportunity"`
	TrendingScore float64                `json:"trending_score"`
}

// TrendingResponse is the payload of GET /ai/trending
type TrendingResponse struct {
	TrendingOpportunities []TrendingOpportunity `json:"trending_opportunities"`
	TotalAnalyzed         int                   `json:"total_analyzed"`
}

// Insights aggregates the four analyzers plus the similar-opportunity lookup
type Insights struct {
	MarketPotential      recommend.Assessment     `json:"market_potential"`
	RiskAssessment       recommend.Assessment     `json:"risk_assessment"`
	SuccessFactors       []string                 `json:"success_factors"`
	SimilarOpportunities []models.OpportunityView `json:"similar_opportunities"`
	InvestmentAdvice     []string                 `json:"investment_advice"`
}

// InsightsResponse is the payload of GET /ai/insights/{opportunityID}
type InsightsResponse struct {
	OpportunityID uuid.UUID `json:"opportunity_id"`
	Insights      Insights  `json:"insights"`
}

// getRecommendations scores active opportunities for the current user
// @Summary Get recommendations
// @Description Scores active opportunities the user has not voted on and returns the top matches
// @Tags AI
// @Accept json
// @Produce json
// @Param max_budget query number false "Budget ceiling"
// @Param sectors query []string false "Sector allow-list"
// @Param locations query []string false "Location allow-list"
// @Success 200 {object} RecommendationsResponse "Scored recommendations"
// @Failure 500 {object} errs.ErrorResponse "Internal Server Error - Error computing recommendations"
// @Router /ai/recommendations [get]
func (h aiHandler) getRecommendations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := ctxGetUserID(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		// Malformed numeric parameters mean "filter absent", never an error
		maxBudget := parseOptionalFloat(r.URL.Query().Get("max_budget"))
		sectors := r.URL.Query()["sectors"]
		locations := r.URL.Query()["locations"]

		// Fall back to the stored sector preferences when the request
		// carries no explicit sector filter
		if len(sectors) == 0 {
			if user, err := h.userRepo.FindByID(userID); err == nil && user != nil {
				sectors = []string(user.PreferredSectors)
			}
		}

		// The user's liked opportunities drive the sector-affinity bonus
		likes, err := h.voteRepo.FindByUser(userID, models.VoteLike)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find votes", "votes", err))
			return
		}

		likedIDs := make([]uuid.UUID, 0, len(likes))
		for _, vote := range likes {
			likedIDs = append(likedIDs, vote.OpportunityID)
		}

		likedSectors := make(map[string]bool)
		if len(likedIDs) > 0 {
			likedOpportunities, err := h.opportunityRepo.FindByIDs(likedIDs)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find opportunities", "opportunities", err))
				return
			}
			for _, opp := range likedOpportunities {
				likedSectors[opp.Sector] = true
			}
		}

		// Exclude everything the user voted on, regardless of polarity
		allVotes, err := h.voteRepo.FindAllByUser(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find votes", "votes", err))
			return
		}
		excludeIDs := make([]uuid.UUID, 0, len(allVotes))
		for _, vote := range allVotes {
			excludeIDs = append(excludeIDs, vote.OpportunityID)
		}

		candidates, err := h.opportunityRepo.FindActive(database.ActiveFilter{
			MaxBudget:  maxBudget,
			Sectors:    sectors,
			Locations:  locations,
			ExcludeIDs: excludeIDs,
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find opportunities", "opportunities", err))
			return
		}

		scored := make([]ScoredOpportunity, 0, len(candidates))
		for _, opp := range candidates {
			scored = append(scored, ScoredOpportunity{
				Opportunity: opp.View(false),
				Score:       recommend.Score(opp, likedSectors, maxBudget, h.noise),
				Reasons:     recommend.Reasons(opp, likedSectors, maxBudget),
			})
		}

		// Stable keeps query order on the rare exact tie
		sort.SliceStable(scored, func(i, j int) bool {
			return scored[i].Score > scored[j].Score
		})
		if len(scored) > recommend.MaxRecommendations() {
			scored = scored[:recommend.MaxRecommendations()]
		}

		h.responder.WriteJSON(w, RecommendationsResponse{
			Recommendations: scored,
			TotalAnalyzed:   len(candidates),
			UserPreferences: UserPreferences{
				MaxBudget:          maxBudget,
				PreferredSectors:   sectors,
				PreferredLocations: locations,
				VotingHistoryCount: len(likes),
			},
		})
	}
}

// getTrending ranks all active opportunities by trending score
// @Summary Get trending opportunities
// @Description Ranks all active opportunities by engagement and returns the top entries
// @Tags AI
// @Accept json
// @Produce json
// @Success 200 {object} TrendingResponse "Trending opportunities"
// @Failure 500 {object} errs.ErrorResponse "Internal Server Error - Error computing trending scores"
// @Router /ai/trending [get]
func (h aiHandler) getTrending() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opportunities, err := h.opportunityRepo.FindActive(database.ActiveFilter{})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find opportunities", "opportunities", err))
			return
		}

		trending := make([]TrendingOpportunity, 0, len(opportunities))
		for _, opp := range opportunities {
			score := recommend.TrendingScore(opp)
			if score <= 0 {
				continue
			}
			trending = append(trending, TrendingOpportunity{
				Opportunity:   opp.View(false),
				TrendingScore: score,
			})
		}

		sort.SliceStable(trending, func(i, j int) bool {
			return trending[i].TrendingScore > trending[j].TrendingScore
		})
		if len(trending) > recommend.MaxTrending() {
			trending = trending[:recommend.MaxTrending()]
		}

		h.responder.WriteJSON(w, TrendingResponse{
			TrendingOpportunities: trending,
			TotalAnalyzed:         len(opportunities),
		})
	}
}

// getInsights runs the analyzers for one opportunity. All-or-nothing: a
// single failure fails the whole response.
func (h aiHandler) getInsights() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opportunityID, err := parseOpportunityID(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		opportunity, err := h.opportunityRepo.FindByID(opportunityID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find opportunity", "opportunity", err))
			return
		}
		if opportunity == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("opportunity not found"))
			return
		}

		var insights Insights
		group, _ := errgroup.WithContext(r.Context())

		group.Go(func() error {
			insights.MarketPotential = recommend.MarketPotential(opportunity)
			return nil
		})
		group.Go(func() error {
			insights.RiskAssessment = recommend.RiskAssessment(opportunity)
			return nil
		})
		group.Go(func() error {
			insights.SuccessFactors = recommend.SuccessFactors(opportunity, h.majorCities)
			return nil
		})
		group.Go(func() error {
			insights.InvestmentAdvice = recommend.InvestmentAdvice(opportunity)
			return nil
		})
		group.Go(func() error {
			similar, err := h.opportunityRepo.FindSimilar(
				opportunity.Sector, opportunity.ID, similarOpportunityLimit)
			if err != nil {
				return err
			}
			views := make([]models.OpportunityView, 0, len(similar))
			for _, opp := range similar {
				views = append(views, opp.View(false))
			}
			insights.SimilarOpportunities = views
			return nil
		})

		if err := group.Wait(); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find similar opportunities", "opportunities", err))
			return
		}

		h.responder.WriteJSON(w, InsightsResponse{
			OpportunityID: opportunityID,
			Insights:      insights,
		})
	}
}

// parseOptionalFloat returns nil for empty, malformed or non-positive input
func parseOptionalFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
