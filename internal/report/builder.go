// Package report builds the four client-facing response shapes from a
// completed scoring run. The narrative, dependency-tree, and comparison
// builders each try one reasoning pass and fall back to a deterministic
// generator when the pass or its inputs are unavailable, so a response is
// always produced.
package report

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/vendor-risk/internal/model"
	"github.com/sells-group/vendor-risk/internal/reasoning"
)

// Builder produces the tab responses. A nil generator disables the
// reasoning passes entirely and every optional output uses its fallback.
// One Builder serves every concurrent run and compare request, so jitter
// draws are serialized behind mu.
type Builder struct {
	generator reasoning.Generator
	mu        sync.Mutex
	rng       *rand.Rand
	now       func() time.Time
}

// New creates a Builder. A non-zero seed makes fallback jitter
// reproducible; zero seeds from the clock.
func New(generator reasoning.Generator, jitterSeed int64) *Builder {
	seed := uint64(jitterSeed)
	if jitterSeed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Builder{
		generator: generator,
		rng:       rand.New(rand.NewPCG(seed, seed)),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithNow sets a fixed clock for testing.
func (b *Builder) WithNow(now func() time.Time) *Builder {
	b.now = now
	return b
}

// jitter draws a uniform value in [-bound, bound].
func (b *Builder) jitter(bound int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.IntN(2*bound+1) - bound
}

// Overview assembles the tab-1 response. Pure; no reasoning call.
func (b *Builder) Overview(
	vendorID string,
	agg model.AggregatedCompanyData,
	vars model.PartitionedVariables,
	score model.RiskScoreResult,
	evaluated *model.EvaluatedData,
) model.VendorOverview {
	summary := ""
	if evaluated != nil {
		summary = evaluated.EvaluationSummary
	}
	if summary == "" {
		summary = fmt.Sprintf("%s carries %s overall vendor risk (%d/100).",
			agg.Company.Name, strings.ToLower(string(score.OverallRiskLevel)), score.OverallRiskScore)
	}

	var prices []model.PricePoint
	if agg.HistoricalPrices.Data != nil {
		prices = *agg.HistoricalPrices.Data
	}

	return model.VendorOverview{
		VendorID:               vendorID,
		VendorName:             agg.Company.Name,
		Ticker:                 agg.Company.Ticker,
		Industry:               vars.Industry,
		OverallRiskScore:       score.OverallRiskScore,
		OverallRiskLevel:       score.OverallRiskLevel,
		OverallResilienceScore: score.OverallResilienceScore,
		ResilienceRating:       score.ResilienceRating,
		CategoryScores:         score.CategoryScores,
		RiskDistribution:       score.RiskDistribution,
		ResilienceFactors:      score.ResilienceFactors,
		RiskTrend:              riskTrend(prices, score.OverallRiskScore, b.now(), b.jitter),
		Summary:                summary,
		GeneratedAt:            b.now(),
	}
}

const breakdownSchema = `{
  "categories": [
    {
      "category": "one of: financial, operational, geographical, ethical",
      "narrative": "2-3 sentence risk narrative for this category",
      "sub_scores": [{"name": "sub-category name", "score": 0}]
    }
  ]
}`

type breakdownResult struct {
	Categories []struct {
		Category  string `json:"category"`
		Narrative string `json:"narrative"`
		SubScores []struct {
			Name  string `json:"name"`
			Score int    `json:"score"`
		} `json:"sub_scores"`
	} `json:"categories"`
}

// Breakdown assembles the tab-3 response. The narrative pass is skipped
// when evaluation was unavailable; any reasoning failure or malformed
// result falls back to the template generator.
func (b *Builder) Breakdown(ctx context.Context, vendorID, vendorName string, score model.RiskScoreResult, evaluated *model.EvaluatedData) model.RiskBreakdown {
	if evaluated == nil || b.generator == nil {
		return b.fallbackBreakdown(vendorID, vendorName, score)
	}

	raw, err := b.generator.GenerateStructured(ctx, reasoning.Request{
		Phase:     "risk_breakdown",
		System:    "You are a vendor risk analyst writing per-category risk narratives for a procurement dashboard.",
		Prompt:    breakdownPrompt(vendorName, score, evaluated),
		Schema:    breakdownSchema,
		MaxTokens: 2048,
	})
	if err != nil {
		zap.L().Warn("narrative generation failed, using fallback", zap.Error(err))
		return b.fallbackBreakdown(vendorID, vendorName, score)
	}

	decoded, err := reasoning.Decode[breakdownResult](raw)
	if err != nil {
		zap.L().Warn("narrative result malformed, using fallback", zap.Error(err))
		return b.fallbackBreakdown(vendorID, vendorName, score)
	}

	narratives := make(map[model.RiskCategory]breakdownCategory)
	for _, c := range decoded.Categories {
		category := model.RiskCategory(c.Category)
		if c.Narrative == "" {
			continue
		}
		entry := breakdownCategory{narrative: c.Narrative}
		for _, s := range c.SubScores {
			entry.subScores = append(entry.subScores, model.SubScore{
				Name:  s.Name,
				Score: clampScore(s.Score),
			})
		}
		narratives[category] = entry
	}
	// All four categories must be covered or the result is unusable.
	for _, category := range model.RiskCategories {
		if _, ok := narratives[category]; !ok {
			zap.L().Warn("narrative result incomplete, using fallback",
				zap.String("missing_category", string(category)))
			return b.fallbackBreakdown(vendorID, vendorName, score)
		}
	}

	out := model.RiskBreakdown{
		VendorID:    vendorID,
		GeneratedAt: b.now(),
	}
	for _, cs := range score.CategoryScores {
		entry := narratives[cs.Category]
		subScores := entry.subScores
		if len(subScores) == 0 {
			subScores = b.jitteredSubScores(cs)
		}
		out.Categories = append(out.Categories, model.CategoryBreakdown{
			Category:  cs.Category,
			Label:     cs.Label,
			RiskScore: cs.RiskScore,
			RiskLevel: cs.RiskLevel,
			Narrative: entry.narrative,
			SubScores: subScores,
		})
	}
	return out
}

type breakdownCategory struct {
	narrative string
	subScores []model.SubScore
}

func (b *Builder) jitteredSubScores(cs model.CategoryRiskScore) []model.SubScore {
	var out []model.SubScore
	for _, name := range subScoreNames[cs.Category] {
		out = append(out, model.SubScore{Name: name, Score: clampScore(cs.RiskScore + b.jitter(subScoreJitterBound))})
	}
	return out
}

func breakdownPrompt(vendorName string, score model.RiskScoreResult, evaluated *model.EvaluatedData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Vendor: %s\n\nCategory risk scores:\n", vendorName)
	for _, cs := range score.CategoryScores {
		fmt.Fprintf(&b, "- %s: %d (%s)\n", cs.Label, cs.RiskScore, cs.RiskLevel)
	}
	if len(evaluated.RiskSignals) > 0 {
		b.WriteString("\nRisk signals:\n")
		for _, s := range evaluated.RiskSignals {
			fmt.Fprintf(&b, "- [%s/%s] %s\n", s.Category, s.Severity, s.Signal)
		}
	}
	b.WriteString("\nWrite a narrative and 2-4 sub-scores for each of the four categories. Sub-scores should stay near the category's risk score.")
	return b.String()
}

const (
	treeMinSuppliers  = 3
	treeMaxSuppliers  = 6
	treeMaxComponents = 3
)

const treeSchema = `{
  "suppliers": [
    {
      "name": "supplier name",
      "country": "ISO country or name",
      "component": "what they supply",
      "risk_level": "one of: Low, Moderate, High, Critical",
      "children": [
        {"name": "...", "country": "...", "component": "...", "risk_level": "..."}
      ]
    }
  ],
  "concentration_risks": ["notable single points of failure"]
}`

type treeResult struct {
	Suppliers []struct {
		Name      string `json:"name"`
		Country   string `json:"country"`
		Component string `json:"component"`
		RiskLevel string `json:"risk_level"`
		Children  []struct {
			Name      string `json:"name"`
			Country   string `json:"country"`
			Component string `json:"component"`
			RiskLevel string `json:"risk_level"`
		} `json:"children"`
	} `json:"suppliers"`
	ConcentrationRisks []string `json:"concentration_risks"`
}

// DependencyTree assembles the tab-2 response: 3-6 tier-2 suppliers, each
// with 1-3 tier-3 nodes, or the static skeleton on any failure.
func (b *Builder) DependencyTree(
	ctx context.Context,
	vendorID string,
	company model.CompanyIdentifier,
	profile *model.CompanyProfile,
	evaluated *model.EvaluatedData,
	overallLevel model.RiskLevel,
) model.DependencyResponse {
	if evaluated == nil || b.generator == nil {
		return b.fallbackTree(vendorID, company, profile, overallLevel)
	}

	raw, err := b.generator.GenerateStructured(ctx, reasoning.Request{
		Phase:     "dependency_tree",
		System:    "You are a supply chain analyst mapping a vendor's likely supplier dependency structure.",
		Prompt:    treePrompt(company, profile, evaluated),
		Schema:    treeSchema,
		MaxTokens: 2048,
	})
	if err != nil {
		zap.L().Warn("dependency generation failed, using fallback", zap.Error(err))
		return b.fallbackTree(vendorID, company, profile, overallLevel)
	}

	decoded, err := reasoning.Decode[treeResult](raw)
	if err != nil || len(decoded.Suppliers) < treeMinSuppliers {
		zap.L().Warn("dependency result unusable, using fallback", zap.Error(err))
		return b.fallbackTree(vendorID, company, profile, overallLevel)
	}
	suppliers := decoded.Suppliers
	if len(suppliers) > treeMaxSuppliers {
		suppliers = suppliers[:treeMaxSuppliers]
	}

	country := ""
	if profile != nil {
		country = profile.Country
	}

	ids := newIDSequence()
	root := model.DependencyNode{
		ID:        ids.next(),
		Name:      company.Name,
		Tier:      1,
		Country:   country,
		RiskLevel: overallLevel,
	}
	for _, s := range suppliers {
		node := model.DependencyNode{
			ID:        ids.next(),
			Name:      s.Name,
			Tier:      2,
			Country:   s.Country,
			Component: s.Component,
			RiskLevel: parseRiskLevel(s.RiskLevel),
		}
		children := s.Children
		if len(children) > treeMaxComponents {
			children = children[:treeMaxComponents]
		}
		for _, child := range children {
			node.Children = append(node.Children, model.DependencyNode{
				ID:        ids.next(),
				Name:      child.Name,
				Tier:      3,
				Country:   child.Country,
				Component: child.Component,
				RiskLevel: parseRiskLevel(child.RiskLevel),
			})
		}
		// Every tier-2 node needs at least one upstream dependency.
		if len(node.Children) == 0 {
			node.Children = append(node.Children, model.DependencyNode{
				ID:        ids.next(),
				Name:      "Upstream raw material source",
				Tier:      3,
				Country:   node.Country,
				RiskLevel: model.RiskModerate,
			})
		}
		root.Children = append(root.Children, node)
	}

	return model.DependencyResponse{
		VendorID:           vendorID,
		Root:               root,
		ConcentrationRisks: decoded.ConcentrationRisks,
		GeneratedAt:        b.now(),
	}
}

func treePrompt(company model.CompanyIdentifier, profile *model.CompanyProfile, evaluated *model.EvaluatedData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Vendor: %s (%s)\n", company.Name, company.Ticker)
	if profile != nil {
		fmt.Fprintf(&b, "Sector: %s | Industry: %s | Country: %s\n", profile.Sector, profile.Industry, profile.Country)
	}
	if len(evaluated.SupplyChainInsights) > 0 {
		b.WriteString("\nKnown supply chain insights:\n")
		for _, insight := range evaluated.SupplyChainInsights {
			fmt.Fprintf(&b, "- %s\n", insight)
		}
	}
	fmt.Fprintf(&b, "\nMap %d-%d direct (tier-2) suppliers, each with 1-%d upstream (tier-3) dependencies. Flag concentration risks.",
		treeMinSuppliers, treeMaxSuppliers, treeMaxComponents)
	return b.String()
}

const comparisonSchema = `{
  "winner_vendor_id": "id of the recommended vendor",
  "confidence": 0.0,
  "reasons": ["2-4 concrete reasons grounded in the scores"]
}`

type comparisonResult struct {
	WinnerVendorID string   `json:"winner_vendor_id"`
	Confidence     float64  `json:"confidence"`
	Reasons        []string `json:"reasons"`
}

// Comparison assembles the tab-4 response for two or more completed
// vendors, falling back to a lowest-risk pick on any reasoning failure.
func (b *Builder) Comparison(ctx context.Context, vendors []model.ComparisonVendor) model.ComparisonResponse {
	if b.generator == nil {
		return b.fallbackComparison(vendors)
	}

	raw, err := b.generator.GenerateStructured(ctx, reasoning.Request{
		Phase:     "comparison",
		System:    "You are a procurement analyst recommending one vendor from a risk-scored shortlist.",
		Prompt:    comparisonPrompt(vendors),
		Schema:    comparisonSchema,
		MaxTokens: 1024,
	})
	if err != nil {
		zap.L().Warn("comparison generation failed, using fallback", zap.Error(err))
		return b.fallbackComparison(vendors)
	}

	decoded, err := reasoning.Decode[comparisonResult](raw)
	if err != nil {
		return b.fallbackComparison(vendors)
	}

	var winner *model.ComparisonVendor
	for i := range vendors {
		if vendors[i].VendorID == decoded.WinnerVendorID {
			winner = &vendors[i]
			break
		}
	}
	if winner == nil || len(decoded.Reasons) == 0 {
		zap.L().Warn("comparison result unusable, using fallback",
			zap.String("winner_vendor_id", decoded.WinnerVendorID))
		return b.fallbackComparison(vendors)
	}

	confidence := decoded.Confidence
	if confidence <= 0 || confidence > 1 {
		confidence = 0.5
	}

	return model.ComparisonResponse{
		Vendors: vendors,
		Winner: model.ComparisonWinner{
			VendorID:   winner.VendorID,
			VendorName: winner.VendorName,
			Confidence: confidence,
			Reasons:    decoded.Reasons,
		},
		GeneratedAt: b.now(),
	}
}

func comparisonPrompt(vendors []model.ComparisonVendor) string {
	var b strings.Builder
	b.WriteString("Candidate vendors:\n")
	for _, v := range vendors {
		fmt.Fprintf(&b, "- id=%s %s: risk %d (%s), resilience %d (%s)\n",
			v.VendorID, v.VendorName,
			v.OverallRiskScore, v.OverallRiskLevel,
			v.OverallResilienceScore, v.ResilienceRating)
	}
	b.WriteString("\nPick the vendor with the best overall risk posture and justify the choice.")
	return b.String()
}

func parseRiskLevel(s string) model.RiskLevel {
	switch model.RiskLevel(strings.TrimSpace(s)) {
	case model.RiskLow:
		return model.RiskLow
	case model.RiskModerate:
		return model.RiskModerate
	case model.RiskHigh:
		return model.RiskHigh
	case model.RiskCritical:
		return model.RiskCritical
	}
	return model.RiskModerate
}
