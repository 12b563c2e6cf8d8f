package model

import "time"

// RiskTrendPoint is one month in the synthesized 12-month trend.
type RiskTrendPoint struct {
	Month string `json:"month"`
	Score int    `json:"score"`
}

// VendorOverview is the tab-1 response.
type VendorOverview struct {
	VendorID               string                  `json:"vendor_id"`
	VendorName             string                  `json:"vendor_name"`
	Ticker                 string                  `json:"ticker"`
	Industry               IndustrySector          `json:"industry"`
	OverallRiskScore       int                     `json:"overall_risk_score"`
	OverallRiskLevel       RiskLevel               `json:"overall_risk_level"`
	OverallResilienceScore int                     `json:"overall_resilience_score"`
	ResilienceRating       ResilienceRating        `json:"resilience_rating"`
	CategoryScores         []CategoryRiskScore     `json:"category_scores"`
	RiskDistribution       []RiskDistributionEntry `json:"risk_distribution"`
	ResilienceFactors      []ResilienceFactor      `json:"resilience_factors"`
	RiskTrend              []RiskTrendPoint        `json:"risk_trend"`
	Summary                string                  `json:"summary,omitempty"`
	GeneratedAt            time.Time               `json:"generated_at"`
}

// DependencyNode is one node in the supply-chain dependency tree. Tier 1 is
// the vendor itself; tier 2 its direct suppliers; tier 3 their suppliers.
type DependencyNode struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Tier      int              `json:"tier"`
	Country   string           `json:"country,omitempty"`
	Component string           `json:"component,omitempty"`
	RiskLevel RiskLevel        `json:"risk_level"`
	Children  []DependencyNode `json:"children,omitempty"`
}

// DependencyResponse is the tab-2 response.
type DependencyResponse struct {
	VendorID           string         `json:"vendor_id"`
	Root               DependencyNode `json:"root"`
	ConcentrationRisks []string       `json:"concentration_risks,omitempty"`
	Fallback           bool           `json:"fallback"`
	GeneratedAt        time.Time      `json:"generated_at"`
}

// SubScore is one narrative sub-category score within a category breakdown.
type SubScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// CategoryBreakdown is one category's narrative plus sub-scores.
type CategoryBreakdown struct {
	Category  RiskCategory `json:"category"`
	Label     string       `json:"label"`
	RiskScore int          `json:"risk_score"`
	RiskLevel RiskLevel    `json:"risk_level"`
	Narrative string       `json:"narrative"`
	SubScores []SubScore   `json:"sub_scores"`
}

// RiskBreakdown is the tab-3 response.
type RiskBreakdown struct {
	VendorID    string              `json:"vendor_id"`
	Categories  []CategoryBreakdown `json:"categories"`
	Fallback    bool                `json:"fallback"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// ComparisonVendor is one vendor's summary row in a comparison. Order in
// the response mirrors the order of the requested ids.
type ComparisonVendor struct {
	VendorID               string           `json:"vendor_id"`
	VendorName             string           `json:"vendor_name"`
	OverallRiskScore       int              `json:"overall_risk_score"`
	OverallRiskLevel       RiskLevel        `json:"overall_risk_level"`
	OverallResilienceScore int              `json:"overall_resilience_score"`
	ResilienceRating       ResilienceRating `json:"resilience_rating"`
}

// ComparisonWinner identifies the recommended vendor and why.
type ComparisonWinner struct {
	VendorID   string   `json:"vendor_id"`
	VendorName string   `json:"vendor_name"`
	Confidence float64  `json:"confidence"`
	Reasons    []string `json:"reasons"`
}

// ComparisonResponse is the tab-4 response.
type ComparisonResponse struct {
	Vendors     []ComparisonVendor `json:"vendors"`
	Winner      ComparisonWinner   `json:"winner"`
	Fallback    bool               `json:"fallback"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// VendorAnalysisResult is everything a completed pipeline run produced,
// stored once on the vendor entry and served per-tab thereafter.
type VendorAnalysisResult struct {
	Company    CompanyIdentifier     `json:"company"`
	Aggregated AggregatedCompanyData `json:"aggregated"`
	Evaluated  *EvaluatedData        `json:"evaluated,omitempty"`
	Variables  PartitionedVariables  `json:"variables"`
	Score      RiskScoreResult       `json:"score"`
	Overview   VendorOverview        `json:"overview"`
	Breakdown  RiskBreakdown         `json:"breakdown"`
	Tree       DependencyResponse    `json:"tree"`
}
