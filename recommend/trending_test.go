package recommend

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aseerhub/aseerhub-backend/models"
)

func TestTrendingScore(t *testing.T) {
	tests := []struct {
		name string
		opp  models.Opportunity
		want float64
	}{
		{
			name: "no engagement scores zero",
			opp:  models.Opportunity{},
			want: 0,
		},
		{
			name: "likes and comments and acceptance",
			opp: models.Opportunity{
				LikesCount:          10,
				CommentsCount:       4,
				CommunityAcceptance: 80,
			},
			// 20 + 12 + 40 + (4/10)*10
			want: 76,
		},
		{
			name: "comments without likes omit the ratio term",
			opp: models.Opportunity{
				CommentsCount:       7,
				CommunityAcceptance: 50,
			},
			// 21 + 25, no ratio term
			want: 46,
		},
		{
			name: "ratio term rewards comment-heavy engagement",
			opp: models.Opportunity{
				LikesCount:    2,
				CommentsCount: 10,
			},
			// 4 + 30 + (10/2)*10
			want: 84,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, TrendingScore(&tc.opp), 1e-9)
		})
	}
}

// trendingScoreForcedZeroRatio is the variant formula where the ratio term is
// always present but evaluates to 0 when likes_count is 0.
func trendingScoreForcedZeroRatio(opp *models.Opportunity) float64 {
	score := float64(opp.LikesCount)*trendingLikesWeight +
		float64(opp.CommentsCount)*trendingCommentsWeight +
		opp.CommunityAcceptance*trendingAcceptanceWeight

	ratio := 0.0
	if opp.LikesCount > 0 {
		ratio = float64(opp.CommentsCount) / float64(opp.LikesCount)
	}
	score += ratio * engagementRatioWeight

	return math.Round(score*100) / 100
}

// With likes_count = 0 the conditional omission and the forced-zero variant
// must agree numerically; the implementation difference is only visible in
// the code, not the result.
func TestTrendingRatioOmissionMatchesForcedZeroVariant(t *testing.T) {
	for comments := 0; comments <= 20; comments += 5 {
		for _, acceptance := range []float64{0, 33.33, 100} {
			opp := models.Opportunity{
				LikesCount:          0,
				CommentsCount:       comments,
				CommunityAcceptance: acceptance,
			}
			assert.Equal(t, trendingScoreForcedZeroRatio(&opp), TrendingScore(&opp),
				"comments=%d acceptance=%v", comments, acceptance)
		}
	}
}

func TestTrendingZeroEngagementExcludable(t *testing.T) {
	opp := models.Opportunity{LikesCount: 0, CommentsCount: 0, CommunityAcceptance: 0}
	// A zero score marks the opportunity for exclusion from trending results
	assert.Equal(t, 0.0, TrendingScore(&opp))
}
