// Package recommend implements the heuristic scoring engine behind the AI
// endpoints: recommendation scores and reasons, trending scores, and the
// rule-table insight analyzers. Everything here is a pure function over plain
// records; the only non-determinism is the noise source callers inject into
// Score.
package recommend

import (
	"math"
	"math/rand"

	"github.com/aseerhub/aseerhub-backend/models"
)

// Weights and caps for the recommendation score
const (
	acceptanceWeight   = 0.3
	likesMultiplier    = 2.0
	likesCap           = 20.0
	roiCap             = 25.0
	budgetFitWeight    = 15.0
	sectorMatchBonus   = 20.0
	noiseCeiling       = 10.0
	maxRecommendations = 10
)

// UniformNoise returns a noise source drawing from [0, max). Production
// callers pass UniformNoise(NoiseCeiling()); tests substitute a constant.
func UniformNoise(max float64) func() float64 {
	return func() float64 {
		return rand.Float64() * max
	}
}

// NoiseCeiling is the upper bound of the diversification noise term.
func NoiseCeiling() float64 { return noiseCeiling }

// MaxRecommendations is the truncation limit for recommendation results.
func MaxRecommendations() int { return maxRecommendations }

// Score computes the recommendation score for an opportunity given the set of
// sectors the requesting user previously liked and an optional budget
// ceiling. Each term is guarded and capped individually; the sum is not.
// The result is rounded to 2 decimal places.
func Score(opp *models.Opportunity, likedSectors map[string]bool, maxBudget *float64, noise func() float64) float64 {
	score := opp.CommunityAcceptance * acceptanceWeight

	if opp.LikesCount > 0 {
		score += math.Min(float64(opp.LikesCount)*likesMultiplier, likesCap)
	}

	if opp.ExpectedROI != nil {
		score += math.Min(*opp.ExpectedROI, roiCap)
	}

	if maxBudget != nil && *maxBudget > 0 && opp.BudgetRequired <= *maxBudget {
		budgetRatio := opp.BudgetRequired / *maxBudget
		score += (1 - budgetRatio) * budgetFitWeight
	}

	if likedSectors[opp.Sector] {
		score += sectorMatchBonus
	}

	score += noise()

	return round2(score)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
