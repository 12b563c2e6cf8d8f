package score

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/vendor-risk/internal/model"
)

func financialVars(names map[string]float64) model.PartitionedVariables {
	out := model.PartitionedVariables{
		Company:  model.CompanyIdentifier{Ticker: "ACME"},
		Industry: model.SectorIndustrials,
	}
	for name, value := range names {
		out.Financial = append(out.Financial, model.Variable{
			Name: name, Value: value,
			Category: model.CategoryFinancial, Industry: model.SectorIndustrials,
		})
	}
	return out
}

func signalsOf(category model.SignalCategory, severity model.Severity, n int) *model.EvaluatedData {
	evaluated := &model.EvaluatedData{}
	for i := 0; i < n; i++ {
		evaluated.RiskSignals = append(evaluated.RiskSignals, model.Signal{
			Category: category, Severity: severity,
		})
	}
	return evaluated
}

func TestBenchmarks(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"altman_z_score", 3.5, 15},
		{"altman_z_score", 2.0, 50},
		{"altman_z_score", 1.0, 85},
		{"debt_to_equity", 0.3, 15},
		{"debt_to_equity", 0.9, 30},
		{"debt_to_equity", 1.5, 55},
		{"debt_to_equity", 2.5, 75},
		{"debt_to_equity", 3.5, 90},
		{"current_ratio", 2.1, 15},
		{"current_ratio", 0.2, 90},
		{"annualized_volatility", 0.15, 15},
		{"annualized_volatility", 0.9, 90},
		{"price_change_percent", -20, 85},
		{"environmental_violation_count", 0, 10},
		{"environmental_violation_count", 12, 90},
	}
	for _, tt := range tests {
		fn, ok := benchmarks[tt.name]
		require.True(t, ok, tt.name)
		assert.Equal(t, tt.want, fn(tt.value), "%s(%v)", tt.name, tt.value)
	}
}

func TestCategoryRisk_BlendsBenchmarksWithEvaluation(t *testing.T) {
	vars := financialVars(map[string]float64{
		"altman_z_score": 3.5, // 15
		"debt_to_equity": 2.5, // 75
	})
	// Ten low-severity financial signals: mean 10 + 10*3 = 40.
	evaluated := signalsOf(model.SignalFinancial, model.SeverityLow, 10)

	result := New(1).Score(vars, evaluated)

	financial := result.CategoryScore(model.CategoryFinancial)
	require.NotNil(t, financial)
	// round(((15+75)/2)*0.6 + 40*0.4) = 43
	assert.Equal(t, 43, financial.RiskScore)
	assert.Equal(t, model.RiskModerate, financial.RiskLevel)
}

func TestEvaluationRisk_Defaults(t *testing.T) {
	t.Run("nil evaluation is neutral-high", func(t *testing.T) {
		assert.Equal(t, 50, evaluationRisk(model.CategoryFinancial, nil))
	})

	t.Run("no matching signals is neutral-low", func(t *testing.T) {
		evaluated := signalsOf(model.SignalLitigation, model.SeverityHigh, 2)
		assert.Equal(t, 35, evaluationRisk(model.CategoryFinancial, evaluated))
	})

	t.Run("capped at 100", func(t *testing.T) {
		evaluated := signalsOf(model.SignalFinancial, model.SeverityCritical, 20)
		assert.Equal(t, 100, evaluationRisk(model.CategoryFinancial, evaluated))
	})

	t.Run("mean severity plus count penalty", func(t *testing.T) {
		evaluated := signalsOf(model.SignalFinancial, model.SeverityMedium, 2)
		// mean 30 + 2*3 = 36
		assert.Equal(t, 36, evaluationRisk(model.CategoryFinancial, evaluated))
	})
}

func TestCategoryRisk_NoBenchmarksEqualsEvaluationRisk(t *testing.T) {
	evaluated := signalsOf(model.SignalSupplyChain, model.SeverityHigh, 3)

	result := New(1).Score(model.PartitionedVariables{}, evaluated)

	operational := result.CategoryScore(model.CategoryOperational)
	require.NotNil(t, operational)
	// mean 60 + 9 = 69; no benchmark variables so the evaluation risk is
	// used exactly.
	assert.Equal(t, 69, operational.RiskScore)
}

func TestScore_OverallWeights(t *testing.T) {
	vars := financialVars(map[string]float64{"altman_z_score": 3.5})

	result := New(1).Score(vars, nil)

	// financial round(15*0.6 + 50*0.4) = 29; others default to 50.
	require.NotNil(t, result.CategoryScore(model.CategoryFinancial))
	assert.Equal(t, 29, result.CategoryScore(model.CategoryFinancial).RiskScore)
	assert.Equal(t, 50, result.CategoryScore(model.CategoryOperational).RiskScore)

	// 0.35*29 + 0.25*50 + 0.20*50 + 0.20*50 = 42.65 -> 43
	assert.Equal(t, 43, result.OverallRiskScore)
	assert.Equal(t, model.RiskModerate, result.OverallRiskLevel)
}

func TestScore_DeterministicWithSeed(t *testing.T) {
	vars := financialVars(map[string]float64{"debt_to_equity": 1.5})

	a := New(42).Score(vars, nil)
	b := New(42).Score(vars, nil)

	assert.Equal(t, a, b)
}

func TestScore_ResilienceWithinJitterBounds(t *testing.T) {
	vars := financialVars(map[string]float64{"debt_to_equity": 1.5})

	result := New(7).Score(vars, nil)

	for _, cs := range result.CategoryScores {
		assert.GreaterOrEqual(t, cs.ResilienceScore, clamp(100-cs.RiskScore-resilienceJitterBound))
		assert.LessOrEqual(t, cs.ResilienceScore, clamp(100-cs.RiskScore+resilienceJitterBound))
	}
}

func TestScore_AllScoresInRange(t *testing.T) {
	evaluated := signalsOf(model.SignalFinancial, model.SeverityCritical, 30)
	vars := financialVars(map[string]float64{
		"debt_to_equity":        5.0,
		"annualized_volatility": 2.0,
		"price_change_percent":  -40,
	})

	result := New(3).Score(vars, evaluated)

	inRange := func(v int) bool { return v >= 0 && v <= 100 }
	assert.True(t, inRange(result.OverallRiskScore))
	assert.True(t, inRange(result.OverallResilienceScore))
	for _, cs := range result.CategoryScores {
		assert.True(t, inRange(cs.RiskScore))
		assert.True(t, inRange(cs.ResilienceScore))
	}
}

// One Scorer is shared by every analysis run, so concurrent Score calls
// must be safe. Run with -race.
func TestScore_ConcurrentRunsShareOneScorer(t *testing.T) {
	scorer := New(42)
	vars := financialVars(map[string]float64{
		"altman_z_score": 3.5,
		"debt_to_equity": 2.5,
	})
	evaluated := signalsOf(model.SignalFinancial, model.SeverityLow, 10)

	var wg sync.WaitGroup
	results := make([][]model.RiskScoreResult, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				results[g] = append(results[g], scorer.Score(vars, evaluated))
			}
		}(g)
	}
	wg.Wait()

	for _, batch := range results {
		require.Len(t, batch, 50)
		for _, result := range batch {
			// Jitter only moves resilience; risk stays deterministic.
			assert.Equal(t, 43, result.CategoryScore(model.CategoryFinancial).RiskScore)
			assert.GreaterOrEqual(t, result.OverallResilienceScore, 0)
			assert.LessOrEqual(t, result.OverallResilienceScore, 100)
		}
	}
}

func TestDistribution(t *testing.T) {
	t.Run("sums to 100 within rounding tolerance", func(t *testing.T) {
		result := New(1).Score(financialVars(map[string]float64{"debt_to_equity": 2.5}), nil)

		var sum float64
		for _, entry := range result.RiskDistribution {
			sum += entry.Percentage
		}
		assert.InDelta(t, 100.0, sum, 0.5)
	})

	t.Run("zero total risk splits equally", func(t *testing.T) {
		scores := []model.CategoryRiskScore{
			{Category: model.CategoryFinancial},
			{Category: model.CategoryOperational},
			{Category: model.CategoryGeographical},
			{Category: model.CategoryEthical},
		}
		for _, entry := range distribution(scores) {
			assert.Equal(t, 25.0, entry.Percentage)
		}
	})
}

func TestResilienceFactors(t *testing.T) {
	result := New(1).Score(model.PartitionedVariables{}, nil)

	require.Len(t, result.ResilienceFactors, 3)
	assert.Equal(t, "Geographic Stability", result.ResilienceFactors[0].Name)
	assert.Equal(t, "Financial Strength", result.ResilienceFactors[1].Name)
	assert.Equal(t, "Operational Redundancy", result.ResilienceFactors[2].Name)
}
