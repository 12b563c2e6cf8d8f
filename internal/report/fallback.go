package report

import (
	"fmt"

	"github.com/sells-group/vendor-risk/internal/model"
)

// subScoreNames are the fixed sub-category labels used by the fallback
// breakdown generator.
var subScoreNames = map[model.RiskCategory][]string{
	model.CategoryFinancial:    {"Liquidity", "Leverage", "Profitability"},
	model.CategoryOperational:  {"Supply Chain", "Workforce", "Delivery Performance"},
	model.CategoryGeographical: {"Geographic Concentration", "Political Stability", "Logistics Exposure"},
	model.CategoryEthical:      {"Regulatory Compliance", "Environmental Record", "Labor Practices"},
}

// subScoreJitterBound bounds how far a fallback sub-score may drift from
// the category's real risk score.
const subScoreJitterBound = 5

// fallbackNarratives are fixed templates keyed by category and risk level.
var fallbackNarratives = map[model.RiskCategory]map[model.RiskLevel]string{
	model.CategoryFinancial: {
		model.RiskLow:      "%s shows solid financial footing with healthy liquidity and manageable leverage for its size.",
		model.RiskModerate: "%s carries a moderate financial risk profile; leverage and liquidity metrics warrant routine monitoring.",
		model.RiskHigh:     "%s exhibits elevated financial risk; leverage or liquidity pressure could affect its ability to deliver.",
		model.RiskCritical: "%s shows critical financial stress indicators; continued reliance should be reviewed against contingency options.",
	},
	model.CategoryOperational: {
		model.RiskLow:      "%s operates with a stable footprint and no significant disruption indicators in the reviewed data.",
		model.RiskModerate: "%s shows moderate operational risk; supply or workforce factors could introduce intermittent disruption.",
		model.RiskHigh:     "%s carries high operational risk; capacity or supply-chain constraints are likely to affect reliability.",
		model.RiskCritical: "%s shows critical operational exposure; sustained delivery from this vendor cannot be assumed.",
	},
	model.CategoryGeographical: {
		model.RiskLow:      "%s has a geographically diversified footprint with limited regional concentration.",
		model.RiskModerate: "%s has moderate geographic exposure; some operations are concentrated in a small number of regions.",
		model.RiskHigh:     "%s is heavily concentrated geographically, amplifying exposure to regional disruption.",
		model.RiskCritical: "%s has critical geographic concentration; a single regional event could interrupt supply entirely.",
	},
	model.CategoryEthical: {
		model.RiskLow:      "%s has a clean recent compliance record across regulatory, environmental, and labor dimensions.",
		model.RiskModerate: "%s shows moderate compliance risk with some enforcement history worth tracking.",
		model.RiskHigh:     "%s has a significant enforcement history indicating elevated regulatory and ethical risk.",
		model.RiskCritical: "%s shows critical compliance failures; engagement carries material regulatory and reputational exposure.",
	},
}

// fallbackBreakdown builds the deterministic per-category breakdown used
// when the reasoning pass is unavailable. Sub-scores are jittered around
// the category's real risk score.
func (b *Builder) fallbackBreakdown(vendorID, vendorName string, score model.RiskScoreResult) model.RiskBreakdown {
	out := model.RiskBreakdown{
		VendorID:    vendorID,
		Fallback:    true,
		GeneratedAt: b.now(),
	}
	for _, cs := range score.CategoryScores {
		template := fallbackNarratives[cs.Category][cs.RiskLevel]
		breakdown := model.CategoryBreakdown{
			Category:  cs.Category,
			Label:     cs.Label,
			RiskScore: cs.RiskScore,
			RiskLevel: cs.RiskLevel,
			Narrative: fmt.Sprintf(template, vendorName),
		}
		for _, name := range subScoreNames[cs.Category] {
			breakdown.SubScores = append(breakdown.SubScores, model.SubScore{
				Name:  name,
				Score: clampScore(cs.RiskScore + b.jitter(subScoreJitterBound)),
			})
		}
		out.Categories = append(out.Categories, breakdown)
	}
	return out
}

// fallbackTree builds the static dependency skeleton: three generic
// suppliers across two countries, seeded from the vendor's known sector
// and country.
func (b *Builder) fallbackTree(vendorID string, company model.CompanyIdentifier, profile *model.CompanyProfile, overallLevel model.RiskLevel) model.DependencyResponse {
	sector := "general"
	homeCountry := "US"
	if profile != nil {
		if profile.Sector != "" {
			sector = profile.Sector
		}
		if profile.Country != "" {
			homeCountry = profile.Country
		}
	}
	secondCountry := "CN"
	if homeCountry == "CN" {
		secondCountry = "US"
	}

	ids := newIDSequence()
	root := model.DependencyNode{
		ID:        ids.next(),
		Name:      company.Name,
		Tier:      1,
		Country:   homeCountry,
		RiskLevel: overallLevel,
	}

	suppliers := []struct {
		name      string
		country   string
		component string
	}{
		{fmt.Sprintf("Primary %s supplier", sector), homeCountry, "Core components"},
		{fmt.Sprintf("Secondary %s supplier", sector), secondCountry, "Subassemblies"},
		{"Logistics and distribution partner", homeCountry, "Freight and warehousing"},
	}
	for _, s := range suppliers {
		node := model.DependencyNode{
			ID:        ids.next(),
			Name:      s.name,
			Tier:      2,
			Country:   s.country,
			Component: s.component,
			RiskLevel: model.RiskModerate,
		}
		node.Children = append(node.Children, model.DependencyNode{
			ID:        ids.next(),
			Name:      "Upstream raw material source",
			Tier:      3,
			Country:   s.country,
			RiskLevel: model.RiskModerate,
		})
		root.Children = append(root.Children, node)
	}

	return model.DependencyResponse{
		VendorID: vendorID,
		Root:     root,
		ConcentrationRisks: []string{
			fmt.Sprintf("Supplier detail unavailable; tree reflects a typical %s supply structure.", sector),
		},
		Fallback:    true,
		GeneratedAt: b.now(),
	}
}

// fallbackComparison picks the lowest overall-risk vendor and derives
// reasons from score deltas.
func (b *Builder) fallbackComparison(vendors []model.ComparisonVendor) model.ComparisonResponse {
	best := vendors[0]
	for _, v := range vendors[1:] {
		if v.OverallRiskScore < best.OverallRiskScore {
			best = v
		}
	}

	var reasons []string
	reasons = append(reasons, fmt.Sprintf(
		"%s has the lowest overall risk score (%d, %s).",
		best.VendorName, best.OverallRiskScore, best.OverallRiskLevel))
	for _, v := range vendors {
		if v.VendorID == best.VendorID {
			continue
		}
		delta := v.OverallRiskScore - best.OverallRiskScore
		if delta > 0 {
			reasons = append(reasons, fmt.Sprintf(
				"%d points lower risk than %s.", delta, v.VendorName))
		}
	}
	if best.OverallResilienceScore >= 55 {
		reasons = append(reasons, fmt.Sprintf(
			"Resilience rating %s (%d) supports continuity of supply.",
			best.ResilienceRating, best.OverallResilienceScore))
	}

	return model.ComparisonResponse{
		Vendors: vendors,
		Winner: model.ComparisonWinner{
			VendorID:   best.VendorID,
			VendorName: best.VendorName,
			Confidence: 0.75,
			Reasons:    reasons,
		},
		Fallback:    true,
		GeneratedAt: b.now(),
	}
}

// idSequence hands out sequential node ids for dependency trees.
type idSequence struct {
	n int
}

func newIDSequence() *idSequence {
	return &idSequence{}
}

func (s *idSequence) next() string {
	s.n++
	return fmt.Sprintf("n%d", s.n)
}
