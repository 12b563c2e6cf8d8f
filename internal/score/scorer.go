// Package score turns partitioned variables and evaluated signals into the
// deterministic risk score result. The only randomness is the bounded
// resilience jitter, which is seedable so tests can assert exact values.
package score

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/vendor-risk/internal/model"
	"github.com/sells-group/vendor-risk/internal/partition"
)

// severityWeights maps signal severities to risk weight.
var severityWeights = map[model.Severity]float64{
	model.SeverityLow:      10,
	model.SeverityMedium:   30,
	model.SeverityHigh:     60,
	model.SeverityCritical: 90,
}

// Evaluation-risk defaults. Neutral-high when evaluation never ran,
// neutral-low when it ran but produced no matching signals.
const (
	evalRiskUnavailable = 50
	evalRiskNoSignals   = 35
)

// signalCountPenalty is added per matching signal on top of the mean
// severity weight.
const signalCountPenalty = 3

// Blend weights between benchmark average and evaluation-derived risk.
const (
	benchmarkWeight  = 0.6
	evaluationWeight = 0.4
)

// categoryWeights are the fixed overall-score weights.
var categoryWeights = map[model.RiskCategory]float64{
	model.CategoryFinancial:    0.35,
	model.CategoryOperational:  0.25,
	model.CategoryGeographical: 0.20,
	model.CategoryEthical:      0.20,
}

// resilienceJitterBound is the maximum absolute jitter applied to each
// category resilience score.
const resilienceJitterBound = 4

// Scorer computes risk score results. One Scorer is shared by every
// concurrent analysis run, so jitter draws are serialized; rand.Rand is
// not safe for concurrent use.
type Scorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Scorer. A non-zero seed makes the resilience jitter
// reproducible; zero seeds from the clock.
func New(jitterSeed int64) *Scorer {
	seed := uint64(jitterSeed)
	if jitterSeed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Scorer{rng: rand.New(rand.NewPCG(seed, seed))}
}

// Score produces the full risk score result. evaluated may be nil.
func (s *Scorer) Score(vars model.PartitionedVariables, evaluated *model.EvaluatedData) model.RiskScoreResult {
	var result model.RiskScoreResult

	var overallRisk, overallResilience float64
	for _, category := range model.RiskCategories {
		risk := s.categoryRisk(category, vars, evaluated)
		resilience := clamp(100 - risk + s.jitter())

		result.CategoryScores = append(result.CategoryScores, model.CategoryRiskScore{
			Category:        category,
			Label:           category.Label(),
			RiskScore:       risk,
			ResilienceScore: resilience,
			RiskLevel:       model.RiskLevelFor(risk),
		})

		w := categoryWeights[category]
		overallRisk += w * float64(risk)
		overallResilience += w * float64(resilience)
	}

	result.OverallRiskScore = clamp(int(math.Round(overallRisk)))
	result.OverallRiskLevel = model.RiskLevelFor(result.OverallRiskScore)
	result.OverallResilienceScore = clamp(int(math.Round(overallResilience)))
	result.ResilienceRating = model.ResilienceRatingFor(result.OverallResilienceScore)
	result.RiskDistribution = distribution(result.CategoryScores)
	result.ResilienceFactors = resilienceFactors(result)

	zap.L().Debug("risk scored",
		zap.String("ticker", vars.Company.Ticker),
		zap.Int("overall_risk", result.OverallRiskScore),
		zap.String("level", string(result.OverallRiskLevel)),
	)
	return result
}

// categoryRisk blends the benchmark average with evaluation-derived risk.
// With zero benchmark variables the category score is the evaluation risk
// exactly.
func (s *Scorer) categoryRisk(category model.RiskCategory, vars model.PartitionedVariables, evaluated *model.EvaluatedData) int {
	evalRisk := evaluationRisk(category, evaluated)

	var sum float64
	count := 0
	for _, v := range vars.ByCategory(category) {
		fn, ok := benchmarks[v.Name]
		if !ok {
			continue
		}
		sum += fn(v.Value)
		count++
	}
	if count == 0 {
		return clamp(evalRisk)
	}

	avg := sum / float64(count)
	return clamp(int(math.Round(avg*benchmarkWeight + float64(evalRisk)*evaluationWeight)))
}

// evaluationRisk converts matching signal severities into a 0-100 risk
// contribution for one scoring category.
func evaluationRisk(category model.RiskCategory, evaluated *model.EvaluatedData) int {
	if evaluated == nil {
		return evalRiskUnavailable
	}

	var matching []model.SignalCategory
	for signalCategory, target := range partition.SignalRouting() {
		if target == category {
			matching = append(matching, signalCategory)
		}
	}
	signals := evaluated.SignalsFor(matching...)
	if len(signals) == 0 {
		return evalRiskNoSignals
	}

	var sum float64
	for _, sig := range signals {
		sum += severityWeights[sig.Severity]
	}
	mean := sum / float64(len(signals))
	risk := math.Round(mean + float64(len(signals)*signalCountPenalty))
	return int(math.Min(100, risk))
}

// distribution normalizes category risk into percentage shares. All
// categories get an equal split when total risk is zero.
func distribution(scores []model.CategoryRiskScore) []model.RiskDistributionEntry {
	total := 0
	for _, cs := range scores {
		total += cs.RiskScore
	}

	out := make([]model.RiskDistributionEntry, 0, len(scores))
	for _, cs := range scores {
		pct := 100.0 / float64(len(scores))
		if total > 0 {
			pct = float64(cs.RiskScore) / float64(total) * 100
		}
		out = append(out, model.RiskDistributionEntry{
			Category:   cs.Category,
			Label:      cs.Label,
			Percentage: math.Round(pct*10) / 10,
		})
	}
	return out
}

// resilienceFactors surfaces three category resiliences under fixed
// display labels.
func resilienceFactors(result model.RiskScoreResult) []model.ResilienceFactor {
	factors := []struct {
		category model.RiskCategory
		name     string
	}{
		{model.CategoryGeographical, "Geographic Stability"},
		{model.CategoryFinancial, "Financial Strength"},
		{model.CategoryOperational, "Operational Redundancy"},
	}

	out := make([]model.ResilienceFactor, 0, len(factors))
	for _, f := range factors {
		if cs := result.CategoryScore(f.category); cs != nil {
			out = append(out, model.ResilienceFactor{Name: f.name, Score: cs.ResilienceScore})
		}
	}
	return out
}

func (s *Scorer) jitter() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(2*resilienceJitterBound+1) - resilienceJitterBound
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
