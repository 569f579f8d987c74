package recommend

import "github.com/aseerhub/aseerhub-backend/models"

// Recognized sectors for the market-potential table
const (
	SectorTourism     = "tourism"
	SectorAgriculture = "agriculture"
	SectorTechnology  = "technology"
)

// Potential / risk levels
const (
	PotentialMedium   = "medium"
	PotentialHigh     = "high"
	PotentialVeryHigh = "very high"

	RiskLow          = "low"
	RiskMedium       = "medium"
	RiskMediumToHigh = "medium to high"
)

// Thresholds for the insight analyzers
const (
	highRiskBudget      = 20_000_000.0
	partnershipBudget   = 30_000_000.0
	lowAcceptance       = 70.0
	strongAcceptance    = 80.0
	excellentAcceptance = 85.0
	attractiveROI       = 15.0
	rewardingROI        = 20.0
)

// Assessment is a level plus the factors that justify it.
type Assessment struct {
	Level   string   `json:"level"`
	Factors []string `json:"factors"`
}

type marketEntry struct {
	sector  string
	level   string
	factors []string
}

// marketTable maps recognized sectors to a fixed rating and canned factors.
// Unrecognized sectors fall through to a medium rating with no factors.
var marketTable = []marketEntry{
	{
		sector: SectorTourism,
		level:  PotentialHigh,
		factors: []string{
			"the region is an established tourist destination",
			"sustained growth in the tourism sector",
		},
	},
	{
		sector: SectorAgriculture,
		level:  PotentialHigh,
		factors: []string{
			"a climate well suited to farming",
			"growing demand for organic produce",
		},
	},
	{
		sector: SectorTechnology,
		level:  PotentialVeryHigh,
		factors: []string{
			"government push toward digital transformation",
			"shortage of technology services in the region",
		},
	},
}

// MarketPotential rates the opportunity's sector against the market table.
func MarketPotential(opp *models.Opportunity) Assessment {
	for _, entry := range marketTable {
		if entry.sector == opp.Sector {
			return Assessment{Level: entry.level, Factors: entry.factors}
		}
	}
	return Assessment{Level: PotentialMedium, Factors: []string{}}
}

type riskRule struct {
	applies func(*models.Opportunity) bool
	level   string
	factor  string
}

// riskRules fire in order and each one that applies overwrites the level.
// When both fire, the acceptance-based label wins over the budget-based one.
var riskRules = []riskRule{
	{
		applies: func(o *models.Opportunity) bool { return o.BudgetRequired > highRiskBudget },
		level:   RiskMedium,
		factor:  "a large investment that requires a careful feasibility study",
	},
	{
		applies: func(o *models.Opportunity) bool { return o.CommunityAcceptance < lowAcceptance },
		level:   RiskMediumToHigh,
		factor:  "low community acceptance may hurt the project's success",
	},
}

// RiskAssessment evaluates the risk rule table against the opportunity.
func RiskAssessment(opp *models.Opportunity) Assessment {
	level := RiskLow
	var factors []string

	for _, rule := range riskRules {
		if rule.applies(opp) {
			level = rule.level
			factors = append(factors, rule.factor)
		}
	}

	if len(factors) == 0 {
		factors = append(factors, "limited risk with good planning")
	}
	return Assessment{Level: level, Factors: factors}
}

// DefaultMajorCities is the location allow-list for the strategic-location
// success factor.
var DefaultMajorCities = []string{"Abha", "Khamis Mushait"}

type successRule struct {
	applies func(*models.Opportunity, map[string]bool) bool
	factor  string
}

var successRules = []successRule{
	{
		applies: func(o *models.Opportunity, _ map[string]bool) bool {
			return o.CommunityAcceptance >= strongAcceptance
		},
		factor: "strong community support",
	},
	{
		applies: func(o *models.Opportunity, _ map[string]bool) bool {
			return o.ExpectedROI != nil && *o.ExpectedROI >= attractiveROI
		},
		factor: "an attractive return on investment",
	},
	{
		applies: func(o *models.Opportunity, cities map[string]bool) bool {
			return cities[o.Location]
		},
		factor: "a strategic location in a major city",
	},
}

// genericSuccessFactors always close the success-factor list.
var genericSuccessFactors = []string{
	"an experienced team",
	"a study of the local market",
	"effective marketing",
}

// SuccessFactors lists conditional factors followed by the generic ones.
func SuccessFactors(opp *models.Opportunity, majorCities []string) []string {
	cities := make(map[string]bool, len(majorCities))
	for _, c := range majorCities {
		cities[c] = true
	}

	var factors []string
	for _, rule := range successRules {
		if rule.applies(opp, cities) {
			factors = append(factors, rule.factor)
		}
	}
	return append(factors, genericSuccessFactors...)
}

type adviceRule struct {
	applies func(*models.Opportunity) bool
	text    string
}

var adviceRules = []adviceRule{
	{
		applies: func(o *models.Opportunity) bool {
			return o.ExpectedROI != nil && *o.ExpectedROI >= rewardingROI
		},
		text: "a high and rewarding return on investment",
	},
	{
		applies: func(o *models.Opportunity) bool { return o.BudgetRequired > partnershipBudget },
		text:    "a large investment that calls for strategic partnerships",
	},
}

// closingAdvice is always appended, regardless of the rules above.
var closingAdvice = []string{
	"contact the opportunity owner to discuss the details",
	"commission an independent feasibility study",
}

// InvestmentAdvice opens with an acceptance-based verdict, appends any advice
// rules that fire, and closes with the standing recommendations.
func InvestmentAdvice(opp *models.Opportunity) []string {
	var advice []string

	switch {
	case opp.CommunityAcceptance >= excellentAcceptance:
		advice = append(advice, "an excellent opportunity with strong community support")
	case opp.CommunityAcceptance >= lowAcceptance:
		advice = append(advice, "a good opportunity worth studying")
	default:
		advice = append(advice, "investigate the reasons behind the low community acceptance")
	}

	for _, rule := range adviceRules {
		if rule.applies(opp) {
			advice = append(advice, rule.text)
		}
	}

	return append(advice, closingAdvice...)
}
