package model

// Severity is the qualitative rating attached to a risk signal.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Valid reports whether s is one of the four known severities.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// SignalCategory is one of the seven fixed categories the evaluation pass
// tags signals with. These are distinct from the four scoring categories;
// a fixed mapping table in the scorer routes one into the other.
type SignalCategory string

const (
	SignalFinancial     SignalCategory = "financial"
	SignalSupplyChain   SignalCategory = "supply_chain"
	SignalRegulatory    SignalCategory = "regulatory"
	SignalLitigation    SignalCategory = "litigation"
	SignalEnvironmental SignalCategory = "environmental"
	SignalSafety        SignalCategory = "safety"
	SignalMacro         SignalCategory = "macro"
)

// SignalCategories lists every valid signal category.
var SignalCategories = []SignalCategory{
	SignalFinancial,
	SignalSupplyChain,
	SignalRegulatory,
	SignalLitigation,
	SignalEnvironmental,
	SignalSafety,
	SignalMacro,
}

// Valid reports whether c is one of the seven known signal categories.
func (c SignalCategory) Valid() bool {
	for _, known := range SignalCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Signal is a single qualitative risk signal extracted by the evaluation pass.
type Signal struct {
	Category             SignalCategory `json:"category"`
	Signal               string         `json:"signal"`
	Severity             Severity       `json:"severity"`
	SupportingDataPoints []string       `json:"supporting_data_points,omitempty"`
	Reasoning            string         `json:"reasoning,omitempty"`
}

// EvaluatedData is the output of the qualitative evaluation pass. A nil
// *EvaluatedData is a valid, meaningful value everywhere downstream: it
// means evaluation was unavailable for this run.
type EvaluatedData struct {
	Company             CompanyIdentifier  `json:"company"`
	RiskSignals         []Signal           `json:"risk_signals"`
	RelevantFinancials  map[string]float64 `json:"relevant_financials,omitempty"`
	RelevantNews        []Article          `json:"relevant_news,omitempty"`
	SupplyChainInsights []string           `json:"supply_chain_insights,omitempty"`
	RecommendedForModel bool               `json:"recommended_for_model"`
	EvaluationSummary   string             `json:"evaluation_summary"`
}

// SignalsFor returns the signals tagged with any of the given categories.
func (e *EvaluatedData) SignalsFor(categories ...SignalCategory) []Signal {
	if e == nil {
		return nil
	}
	var out []Signal
	for _, s := range e.RiskSignals {
		for _, c := range categories {
			if s.Category == c {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
