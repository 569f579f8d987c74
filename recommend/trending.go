package recommend

import "github.com/aseerhub/aseerhub-backend/models"

// Weights for the trending score
const (
	trendingLikesWeight      = 2.0
	trendingCommentsWeight   = 3.0
	trendingAcceptanceWeight = 0.5
	engagementRatioWeight    = 10.0
	maxTrending              = 5
)

// MaxTrending is the truncation limit for trending results.
func MaxTrending() int { return maxTrending }

// TrendingScore ranks an opportunity by engagement volume and ratio. The
// comments-per-like ratio term is a conditional on likes > 0, not a zero
// default: with no likes the term is omitted entirely.
func TrendingScore(opp *models.Opportunity) float64 {
	score := float64(opp.LikesCount) * trendingLikesWeight
	score += float64(opp.CommentsCount) * trendingCommentsWeight
	score += opp.CommunityAcceptance * trendingAcceptanceWeight

	if opp.LikesCount > 0 {
		engagementRatio := float64(opp.CommentsCount) / float64(opp.LikesCount)
		score += engagementRatio * engagementRatioWeight
	}

	return round2(score)
}
