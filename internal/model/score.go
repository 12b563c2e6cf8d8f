package model

// RiskLevel is the banded interpretation of a risk score (higher = worse).
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// ResilienceRating is the banded interpretation of a resilience score
// (higher = better).
type ResilienceRating string

const (
	ResiliencePoor      ResilienceRating = "Poor"
	ResilienceModerate  ResilienceRating = "Moderate"
	ResilienceStrong    ResilienceRating = "Strong"
	ResilienceExcellent ResilienceRating = "Excellent"
)

// Score band cut points shared by risk levels and resilience ratings.
const (
	BandLow      = 30
	BandModerate = 55
	BandHigh     = 75
)

// RiskLevelFor maps a 0-100 risk score onto its band.
func RiskLevelFor(score int) RiskLevel {
	switch {
	case score < BandLow:
		return RiskLow
	case score < BandModerate:
		return RiskModerate
	case score < BandHigh:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// ResilienceRatingFor maps a 0-100 resilience score onto its band.
func ResilienceRatingFor(score int) ResilienceRating {
	switch {
	case score < BandLow:
		return ResiliencePoor
	case score < BandModerate:
		return ResilienceModerate
	case score < BandHigh:
		return ResilienceStrong
	default:
		return ResilienceExcellent
	}
}

// CategoryRiskScore is the scored outcome for one of the four categories.
type CategoryRiskScore struct {
	Category        RiskCategory `json:"category"`
	Label           string       `json:"label"`
	RiskScore       int          `json:"risk_score"`
	ResilienceScore int          `json:"resilience_score"`
	RiskLevel       RiskLevel    `json:"risk_level"`
}

// RiskDistributionEntry is one category's share of total risk.
type RiskDistributionEntry struct {
	Category   RiskCategory `json:"category"`
	Label      string       `json:"label"`
	Percentage float64      `json:"percentage"`
}

// ResilienceFactor surfaces one category's resilience under a display label.
type ResilienceFactor struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// RiskScoreResult is the full output of the deterministic scoring algorithm.
// Every score is an integer in [0,100].
type RiskScoreResult struct {
	OverallRiskScore       int                     `json:"overall_risk_score"`
	OverallRiskLevel       RiskLevel               `json:"overall_risk_level"`
	OverallResilienceScore int                     `json:"overall_resilience_score"`
	ResilienceRating       ResilienceRating        `json:"resilience_rating"`
	CategoryScores         []CategoryRiskScore     `json:"category_scores"`
	RiskDistribution       []RiskDistributionEntry `json:"risk_distribution"`
	ResilienceFactors      []ResilienceFactor      `json:"resilience_factors"`
}

// CategoryScore returns the score entry for the given category, or nil.
func (r RiskScoreResult) CategoryScore(c RiskCategory) *CategoryRiskScore {
	for i := range r.CategoryScores {
		if r.CategoryScores[i].Category == c {
			return &r.CategoryScores[i]
		}
	}
	return nil
}
