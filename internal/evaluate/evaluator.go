// Package evaluate runs the qualitative risk evaluation pass: aggregated
// company data is serialized into a snapshot and submitted to the reasoning
// service for structured risk-signal extraction. Evaluation is best-effort
// by contract; callers treat any failure as "evaluation unavailable".
package evaluate

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/vendor-risk/internal/model"
	"github.com/sells-group/vendor-risk/internal/reasoning"
)

const evaluationSchema = `{
  "risk_signals": [
    {
      "category": "one of: financial, supply_chain, regulatory, litigation, environmental, safety, macro",
      "signal": "one-sentence description of the risk signal",
      "severity": "one of: low, medium, high, critical",
      "supporting_data_points": ["specific data points from the snapshot"],
      "reasoning": "why this signal matters for vendor risk"
    }
  ],
  "relevant_financials": {"metric_name": 0.0},
  "relevant_news": [{"title": "...", "url": "...", "summary": "..."}],
  "supply_chain_insights": ["notable supply chain observations"],
  "recommended_for_model": true,
  "evaluation_summary": "2-3 sentence overall risk assessment"
}`

const evaluationSystem = `You are a vendor risk analyst. You receive a data snapshot for a single
public company and extract qualitative risk signals from it.

Rules:
- Tag every signal with exactly one of the seven categories.
- Rate severity honestly; most signals for a healthy company are low or medium.
- Filter noise: skip signals with no supporting data in the snapshot.
- recommended_for_model is false only when the data is too sparse or
  contradictory to support quantitative modeling.`

// Evaluator submits snapshots to the reasoning service. Batch evaluation is
// sequential and rate limited to respect the external service's limits.
type Evaluator struct {
	generator reasoning.Generator
	limiter   *rate.Limiter
}

// New creates an Evaluator. ratePerMinute caps reasoning-service calls
// during batch evaluation; <= 0 disables limiting.
func New(generator reasoning.Generator, ratePerMinute int) *Evaluator {
	var limiter *rate.Limiter
	if ratePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(ratePerMinute)/60.0), 1)
	}
	return &Evaluator{generator: generator, limiter: limiter}
}

// Evaluate runs one evaluation pass. Any service failure or schema violation
// is returned as an error; the caller decides recovery.
func (e *Evaluator) Evaluate(ctx context.Context, agg model.AggregatedCompanyData) (*model.EvaluatedData, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "evaluate: rate limit wait")
		}
	}

	raw, err := e.generator.GenerateStructured(ctx, reasoning.Request{
		Phase:     "evaluate",
		System:    evaluationSystem,
		Prompt:    buildSnapshot(agg),
		Schema:    evaluationSchema,
		MaxTokens: 4096,
	})
	if err != nil {
		return nil, eris.Wrap(err, "evaluate: generate")
	}

	evaluated, err := reasoning.Decode[model.EvaluatedData](raw)
	if err != nil {
		return nil, err
	}
	evaluated.Company = agg.Company
	evaluated.RiskSignals = validSignals(evaluated.RiskSignals)

	zap.L().Info("evaluation complete",
		zap.String("ticker", agg.Company.Ticker),
		zap.Int("signals", len(evaluated.RiskSignals)),
		zap.Bool("recommended_for_model", evaluated.RecommendedForModel),
	)
	return &evaluated, nil
}

// EvaluateAll evaluates companies sequentially, one reasoning call at a
// time. A failed evaluation yields a nil entry at that index; the slice
// always has one entry per input.
func (e *Evaluator) EvaluateAll(ctx context.Context, aggregated []model.AggregatedCompanyData) []*model.EvaluatedData {
	out := make([]*model.EvaluatedData, len(aggregated))
	for i, agg := range aggregated {
		evaluated, err := e.Evaluate(ctx, agg)
		if err != nil {
			zap.L().Warn("evaluation unavailable",
				zap.String("ticker", agg.Company.Ticker),
				zap.Error(err),
			)
			continue
		}
		out[i] = evaluated
	}
	return out
}

// validSignals drops signals whose category or severity is outside the
// fixed vocabularies. A partially noncompliant result is still usable.
func validSignals(signals []model.Signal) []model.Signal {
	out := make([]model.Signal, 0, len(signals))
	for _, s := range signals {
		if !s.Category.Valid() || !s.Severity.Valid() {
			zap.L().Debug("dropping malformed risk signal",
				zap.String("category", string(s.Category)),
				zap.String("severity", string(s.Severity)),
			)
			continue
		}
		out = append(out, s)
	}
	return out
}
