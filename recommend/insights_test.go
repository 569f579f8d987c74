package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aseerhub/aseerhub-backend/models"
)

func TestMarketPotential(t *testing.T) {
	tests := []struct {
		sector      string
		wantLevel   string
		wantFactors int
	}{
		{SectorTourism, PotentialHigh, 2},
		{SectorAgriculture, PotentialHigh, 2},
		{SectorTechnology, PotentialVeryHigh, 2},
		{"real estate", PotentialMedium, 0},
		{"", PotentialMedium, 0},
	}

	for _, tc := range tests {
		t.Run(tc.sector, func(t *testing.T) {
			got := MarketPotential(&models.Opportunity{Sector: tc.sector})
			assert.Equal(t, tc.wantLevel, got.Level)
			assert.Len(t, got.Factors, tc.wantFactors)
			assert.NotNil(t, got.Factors)
		})
	}
}

func TestRiskAssessment(t *testing.T) {
	t.Run("no risk factors", func(t *testing.T) {
		got := RiskAssessment(&models.Opportunity{
			BudgetRequired:      1_000_000,
			CommunityAcceptance: 90,
		})
		assert.Equal(t, RiskLow, got.Level)
		assert.Equal(t, []string{"limited risk with good planning"}, got.Factors)
	})

	t.Run("large budget", func(t *testing.T) {
		got := RiskAssessment(&models.Opportunity{
			BudgetRequired:      25_000_000,
			CommunityAcceptance: 90,
		})
		assert.Equal(t, RiskMedium, got.Level)
		assert.Len(t, got.Factors, 1)
	})

	t.Run("low acceptance", func(t *testing.T) {
		got := RiskAssessment(&models.Opportunity{
			BudgetRequired:      1_000_000,
			CommunityAcceptance: 50,
		})
		assert.Equal(t, RiskMediumToHigh, got.Level)
		assert.Len(t, got.Factors, 1)
	})

	// Observed behavior kept as-is: when both rules fire, the acceptance
	// label overwrites the budget label while both factors remain.
	t.Run("acceptance label wins over budget label", func(t *testing.T) {
		got := RiskAssessment(&models.Opportunity{
			BudgetRequired:      25_000_000,
			CommunityAcceptance: 50,
		})
		assert.Equal(t, RiskMediumToHigh, got.Level)
		assert.Len(t, got.Factors, 2)
	})
}

func TestSuccessFactors(t *testing.T) {
	t.Run("generic factors always close the list", func(t *testing.T) {
		got := SuccessFactors(&models.Opportunity{}, DefaultMajorCities)
		assert.Equal(t, genericSuccessFactors, got)
	})

	t.Run("all conditional factors", func(t *testing.T) {
		got := SuccessFactors(&models.Opportunity{
			CommunityAcceptance: 85,
			ExpectedROI:         floatPtr(18),
			Location:            "Abha",
		}, DefaultMajorCities)

		assert.Len(t, got, 6)
		assert.Equal(t, "strong community support", got[0])
		assert.Equal(t, "an attractive return on investment", got[1])
		assert.Equal(t, "a strategic location in a major city", got[2])
		assert.Equal(t, genericSuccessFactors, got[3:])
	})

	t.Run("location outside the allow-list", func(t *testing.T) {
		got := SuccessFactors(&models.Opportunity{Location: "Riyadh"}, DefaultMajorCities)
		assert.NotContains(t, got, "a strategic location in a major city")
	})
}

func TestInvestmentAdvice(t *testing.T) {
	t.Run("excellent acceptance", func(t *testing.T) {
		got := InvestmentAdvice(&models.Opportunity{CommunityAcceptance: 85})
		assert.Equal(t, "an excellent opportunity with strong community support", got[0])
	})

	t.Run("good acceptance", func(t *testing.T) {
		got := InvestmentAdvice(&models.Opportunity{CommunityAcceptance: 70})
		assert.Equal(t, "a good opportunity worth studying", got[0])
	})

	t.Run("low acceptance", func(t *testing.T) {
		got := InvestmentAdvice(&models.Opportunity{CommunityAcceptance: 40})
		assert.Equal(t, "investigate the reasons behind the low community acceptance", got[0])
	})

	t.Run("closing recommendations always present", func(t *testing.T) {
		got := InvestmentAdvice(&models.Opportunity{})
		assert.Equal(t, closingAdvice, got[len(got)-2:])
	})

	t.Run("roi and budget advice", func(t *testing.T) {
		got := InvestmentAdvice(&models.Opportunity{
			CommunityAcceptance: 90,
			ExpectedROI:         floatPtr(25),
			BudgetRequired:      40_000_000,
		})
		// verdict + roi + budget + two closings
		assert.Len(t, got, 5)
		assert.Equal(t, "a high and rewarding return on investment", got[1])
		assert.Equal(t, "a large investment that calls for strategic partnerships", got[2])
	})
}
