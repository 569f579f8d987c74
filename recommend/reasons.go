package recommend

import "github.com/aseerhub/aseerhub-backend/models"

// Thresholds for the recommendation reasons
const (
	reasonAcceptanceMin  = 80.0
	reasonROIMin         = 20.0
	reasonLikesMin       = 30
	reasonBudgetFraction = 0.8
)

// FallbackReason is emitted when no reason rule fires.
const FallbackReason = "promising opportunity in the region"

// reasonInput bundles the same inputs Score consumes, so the numeric score
// and the textual reasons always see identical data.
type reasonInput struct {
	opp          *models.Opportunity
	likedSectors map[string]bool
	maxBudget    *float64
}

type reasonRule struct {
	applies func(reasonInput) bool
	text    string
}

// reasonRules is evaluated in order; every rule that fires appends its text.
var reasonRules = []reasonRule{
	{
		applies: func(in reasonInput) bool {
			return in.opp.CommunityAcceptance >= reasonAcceptanceMin
		},
		text: "high community acceptance",
	},
	{
		applies: func(in reasonInput) bool {
			return in.opp.ExpectedROI != nil && *in.opp.ExpectedROI >= reasonROIMin
		},
		text: "high expected return",
	},
	{
		applies: func(in reasonInput) bool {
			return in.opp.LikesCount >= reasonLikesMin
		},
		text: "strong community engagement",
	},
	{
		applies: func(in reasonInput) bool {
			return in.maxBudget != nil && *in.maxBudget > 0 &&
				in.opp.BudgetRequired <= *in.maxBudget*reasonBudgetFraction
		},
		text: "within specified budget",
	},
	{
		applies: func(in reasonInput) bool {
			return in.likedSectors[in.opp.Sector]
		},
		text: "matches your prior interests",
	},
}

// Reasons returns the ordered list of explanations for recommending an
// opportunity. Never empty: the fallback reason is produced when nothing
// fires.
func Reasons(opp *models.Opportunity, likedSectors map[string]bool, maxBudget *float64) []string {
	in := reasonInput{opp: opp, likedSectors: likedSectors, maxBudget: maxBudget}

	var reasons []string
	for _, rule := range reasonRules {
		if rule.applies(in) {
			reasons = append(reasons, rule.text)
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, FallbackReason)
	}
	return reasons
}
